package datacopy

import (
	"context"
	"fmt"

	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/report"
	"github.com/supatools/supamove/store"
)

// ConfirmFunc asks the user for confirmation. Only an explicit
// affirmative answer returns true.
type ConfirmFunc func(prompt string) bool

// MigrateAll copies every table in order from source to target. It
// performs no mutation until confirm answers affirmatively. Tables are
// copied best-effort: a table-level failure is reported and the run
// continues with the next table. Returns false when there was nothing
// to migrate or the user declined.
func MigrateAll(
	ctx context.Context,
	source store.Store,
	target store.Store,
	tables []dbtable.Name,
	reporter report.Reporter,
	confirm ConfirmFunc,
	opts ...Option,
) bool {
	if len(tables) == 0 {
		reporter.Report(report.StatusReport{Info: "no tables found to migrate"})
		return false
	}

	reporter.Report(report.StatusReport{
		Info: fmt.Sprintf("found %d tables to migrate", len(tables)),
	})
	for i, table := range tables {
		reporter.Report(report.StatusReport{
			Info: fmt.Sprintf("  %d. %s", i+1, table.Qualified()),
		})
	}
	if !confirm("Proceed with migration?") {
		reporter.Report(report.StatusReport{Info: "migration cancelled by user"})
		return false
	}

	for i, table := range tables {
		reporter.Report(report.CopyStarted{Table: table, Ordinal: i + 1, Total: len(tables)})
		res, err := CopyTable(ctx, source, target, table, reporter, opts...)
		if err != nil {
			reporter.Report(report.TableCopyFailed{Table: table, Err: err})
			continue
		}
		tablesCopied.Inc()
		reporter.Report(report.TableCopied{
			Table:     table,
			Attempted: res.Attempted,
			Inserted:  res.Inserted,
			Failed:    len(res.Failures),
		})
	}
	reporter.Report(report.StatusReport{Info: "migration complete"})
	return true
}
