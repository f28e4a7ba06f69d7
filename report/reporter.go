// Package report fans migration and comparison outcomes out to
// user-visible sinks.
package report

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/drift"
)

type ReportableObject interface{}

type Reporter interface {
	Report(obj ReportableObject)
	Close()
}

type CombinedReporter struct {
	Reporters []Reporter
}

func (c CombinedReporter) Report(obj ReportableObject) {
	for _, r := range c.Reporters {
		r.Report(obj)
	}
}

func (c CombinedReporter) Close() {
	for _, r := range c.Reporters {
		r.Close()
	}
}

type StatusReport struct {
	Info string
}

// CopyStarted announces one table's copy within a run.
type CopyStarted struct {
	Table   dbtable.Name
	Ordinal int
	Total   int
}

// RowFailure is a single row that could not be inserted; the copy of
// the table continues past it.
type RowFailure struct {
	Table dbtable.Name
	Err   error
}

// TableCopied is the per-table summary of a finished copy.
type TableCopied struct {
	Table     dbtable.Name
	Attempted int
	Inserted  int
	Failed    int
}

// TableCopyFailed marks a table whose copy aborted mid-way; the
// migration continues with the next table.
type TableCopyFailed struct {
	Table dbtable.Name
	Err   error
}

// DriftRow wraps a comparison outcome.
type DriftRow struct {
	drift.TableRow
}

// LogReporter reports to `zerolog`.
type LogReporter struct {
	zerolog.Logger
}

func (l LogReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case StatusReport:
		l.Info().Msg(obj.Info)
	case CopyStarted:
		l.Info().
			Str("table", obj.Table.Qualified()).
			Int("ordinal", obj.Ordinal).
			Int("total", obj.Total).
			Msgf("copying table")
	case RowFailure:
		l.Warn().
			Str("table", obj.Table.Qualified()).
			Err(obj.Err).
			Msgf("error inserting row")
	case TableCopied:
		ev := l.Info()
		if obj.Failed > 0 {
			ev = l.Warn()
		}
		ev.
			Str("table", obj.Table.Qualified()).
			Int("attempted", obj.Attempted).
			Int("inserted", obj.Inserted).
			Int("failed", obj.Failed).
			Msgf("table copied")
	case TableCopyFailed:
		l.Err(obj.Err).
			Str("table", obj.Table.Qualified()).
			Msgf("skipping table due to error")
	case DriftRow:
		ev := l.Info()
		if obj.Status != drift.StatusInSync {
			ev = l.Warn()
		}
		ev = ev.
			Str("table", obj.Name.Qualified()).
			Str("status", obj.Status.String())
		if obj.InSource {
			ev = ev.Str("source_rows", obj.SourceCount.String())
		}
		if obj.InTarget {
			ev = ev.Str("target_rows", obj.TargetCount.String())
		}
		if delta, ok := obj.Delta(); ok && obj.Status == drift.StatusDiverged {
			ev = ev.Int64("delta", delta)
		}
		ev.Msgf("table compared")
	default:
		l.Error().
			Str("type", fmt.Sprintf("%T", obj)).
			Msgf("unknown object type")
	}
}

func (l LogReporter) Close() {
}
