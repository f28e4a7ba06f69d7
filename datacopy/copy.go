// Package datacopy copies table data between two stores in fixed-size
// pages, tolerating per-row insert failures.
package datacopy

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/report"
	"github.com/supatools/supamove/store"
	"golang.org/x/time/rate"
)

const DefaultPageSize = 1000

// DefaultPageDelay bounds the request rate against the source: at most
// one page fetch per delay interval.
const DefaultPageDelay = 100 * time.Millisecond

type Option func(*options)

type options struct {
	pageSize  int
	pageDelay time.Duration
	progress  func(table dbtable.Name, inserted int)
}

func WithPageSize(n int) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

func WithPageDelay(d time.Duration) Option {
	return func(o *options) {
		o.pageDelay = d
	}
}

// WithProgress registers a callback invoked with the running insert
// total after every successful insert.
func WithProgress(f func(table dbtable.Name, inserted int)) Option {
	return func(o *options) {
		o.progress = f
	}
}

func defaultOptions() options {
	return options{
		pageSize:  DefaultPageSize,
		pageDelay: DefaultPageDelay,
	}
}

// RowFailure is a row that could not be inserted, with its source data.
type RowFailure struct {
	Row store.Row
	Err error
}

// CopyResult is the per-table outcome of a copy.
// Inserted + len(Failures) == Attempted.
type CopyResult struct {
	Attempted int
	Inserted  int
	Failures  []RowFailure
}

// CopyTable copies all rows of the table from source to target in pages.
//
// Pagination stops at the first empty page, or when a page comes back
// shorter than the page size. A page-fetch error aborts this table only,
// returning the partial result alongside the error; pages already copied
// stay committed on the target. Inserts are plain inserts, not upserts,
// so rerunning a copy duplicates rows.
//
// Row-level insert failures are recorded in the result and reported, and
// never abort the page or the table.
func CopyTable(
	ctx context.Context,
	source store.Store,
	target store.Store,
	table dbtable.Name,
	reporter report.Reporter,
	inOpts ...Option,
) (CopyResult, error) {
	o := defaultOptions()
	for _, applyOpt := range inOpts {
		applyOpt(&o)
	}
	limiter := rate.NewLimiter(rate.Every(o.pageDelay), 1)

	var res CopyResult
	start := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return res, err
		}
		page, err := source.SelectRange(ctx, table, start, start+o.pageSize-1)
		if err != nil {
			return res, errors.Wrapf(err, "error fetching page at offset %d of %s", start, table)
		}
		pagesFetched.Inc()
		if len(page) == 0 {
			// Exhausted at start.
			break
		}
		for _, row := range page {
			res.Attempted++
			if err := target.Insert(ctx, table, row); err != nil {
				res.Failures = append(res.Failures, RowFailure{Row: row, Err: err})
				rowFailures.Inc()
				if reporter != nil {
					reporter.Report(report.RowFailure{Table: table, Err: err})
				}
				continue
			}
			res.Inserted++
			rowsCopied.Inc()
			if o.progress != nil {
				o.progress(table, res.Inserted)
			}
		}
		if len(page) < o.pageSize {
			// Short page: last page reached.
			break
		}
		start += o.pageSize
	}
	return res, nil
}
