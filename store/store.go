// Package store abstracts a Postgres-backed Supabase project. Two
// implementations exist: a PostgREST client for the project's REST
// endpoint, and a direct Postgres connection for projects exposing the
// database port.
package store

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/supatools/supamove/dbtable"
)

// ID names a store in logs and reports, e.g. "source" or "target".
type ID string

// OrderedStores holds the source (index 0) and target (index 1).
type OrderedStores [2]Store

type Store interface {
	ID() ID
	URL() string
	// Close closes the underlying connection.
	Close(ctx context.Context) error

	// SelectRange fetches rows [start, end] (inclusive) of the table.
	// A short or empty result means the table is exhausted.
	SelectRange(ctx context.Context, table dbtable.Name, start int, end int) ([]Row, error)
	// Insert inserts the given rows. Inserts are not upserts; rerunning
	// a copy duplicates rows.
	Insert(ctx context.Context, table dbtable.Name, rows ...Row) error
	// Count returns the exact number of rows in the table.
	Count(ctx context.Context, table dbtable.Name) (int64, error)
	// ListTables returns the catalog tables in the given schemas.
	ListTables(ctx context.Context, schemas []string) ([]dbtable.Name, error)
	// DropTable drops the table.
	DropTable(ctx context.Context, table dbtable.Name) error
}

// ErrNoCatalogFunction marks ListTables failures caused by the
// server-side catalog function being absent on a REST store. Callers
// turn it into an actionable install instruction.
var ErrNoCatalogFunction = errors.New("catalog function not installed")

// Connect establishes a store from a URL, picking the implementation by
// scheme: http(s) yields a PostgREST store (key required), postgres
// yields a direct database connection.
func Connect(ctx context.Context, id ID, url string, key string) (Store, error) {
	if len(url) == 0 {
		return nil, errors.Newf("%s: empty URL", id)
	}
	before := strings.SplitN(url, "://", 2)
	switch {
	case strings.Contains(before[0], "postgres"):
		return ConnectPG(ctx, id, url)
	case before[0] == "http" || before[0] == "https":
		if key == "" {
			return nil, errors.Newf("%s: REST store requires an API key", id)
		}
		return ConnectREST(ctx, id, url, key)
	}
	return nil, errors.Newf("unrecognised scheme %s from %s", before[0], url)
}
