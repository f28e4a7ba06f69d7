package datacopy

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/report"
	"github.com/supatools/supamove/store"
)

func confirmYes(string) bool { return true }
func confirmNo(string) bool  { return false }

func TestMigrateAllEmptyTableSet(t *testing.T) {
	reporter := &recordingReporter{}
	ok := MigrateAll(
		context.Background(),
		store.MakeFakeStore("source"), store.MakeFakeStore("target"),
		nil, reporter, confirmYes, fastCopy...,
	)
	require.False(t, ok)
	require.NotEmpty(t, reporter.objs)
}

func TestMigrateAllConfirmationGate(t *testing.T) {
	table := dbtable.ParseName("orders")
	source := sourceWithRows(table, 5)
	target := emptyTarget(table)

	inserts := 0
	target.InsertErr = func(dbtable.Name, store.Row) error {
		inserts++
		return nil
	}

	reporter := &recordingReporter{}
	ok := MigrateAll(
		context.Background(), source, target,
		[]dbtable.Name{table}, reporter, confirmNo, fastCopy...,
	)
	require.False(t, ok)
	require.Zero(t, inserts)
	require.Empty(t, target.Rows(table))
	// The prompt is shown after the table list, before any copy.
	require.Zero(t, source.SelectCalls[table.Qualified()])
}

func TestMigrateAllTableFailureIsolation(t *testing.T) {
	broken := dbtable.ParseName("broken")
	orders := dbtable.ParseName("orders")
	profiles := dbtable.ParseName("profiles")

	source := store.MakeFakeStore("source")
	for _, tbl := range []dbtable.Name{broken, orders, profiles} {
		src := sourceWithRows(tbl, 3)
		source.SetTable(tbl, src.Rows(tbl)...)
	}
	source.SelectErr = func(table dbtable.Name, _ int) error {
		if table == broken {
			return errors.New("permission denied")
		}
		return nil
	}
	target := store.MakeFakeStore("target")
	for _, tbl := range []dbtable.Name{broken, orders, profiles} {
		target.SetTable(tbl)
	}

	reporter := &recordingReporter{}
	ok := MigrateAll(
		context.Background(), source, target,
		[]dbtable.Name{broken, orders, profiles}, reporter, confirmYes, fastCopy...,
	)
	require.True(t, ok)
	require.Empty(t, target.Rows(broken))
	require.Len(t, target.Rows(orders), 3)
	require.Len(t, target.Rows(profiles), 3)

	require.Equal(t, 1, reporter.count(func(obj report.ReportableObject) bool {
		_, isFailed := obj.(report.TableCopyFailed)
		return isFailed
	}))
	require.Equal(t, 2, reporter.count(func(obj report.ReportableObject) bool {
		_, isCopied := obj.(report.TableCopied)
		return isCopied
	}))
	// The run reports completion even with a failed table.
	last := reporter.objs[len(reporter.objs)-1]
	status, isStatus := last.(report.StatusReport)
	require.True(t, isStatus)
	require.Equal(t, "migration complete", status.Info)
}

func TestMigrateAllReportsPerTableCounts(t *testing.T) {
	orders := dbtable.ParseName("orders")
	source := sourceWithRows(orders, 4)
	target := emptyTarget(orders)

	reporter := &recordingReporter{}
	ok := MigrateAll(
		context.Background(), source, target,
		[]dbtable.Name{orders}, reporter, confirmYes, fastCopy...,
	)
	require.True(t, ok)

	var copied []report.TableCopied
	for _, obj := range reporter.objs {
		if c, isCopied := obj.(report.TableCopied); isCopied {
			copied = append(copied, c)
		}
	}
	require.Len(t, copied, 1)
	require.Equal(t, 4, copied[0].Attempted)
	require.Equal(t, 4, copied[0].Inserted)
	require.Zero(t, copied[0].Failed)
}
