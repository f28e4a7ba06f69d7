// Package discover lists the tables of a store, restricted to a set of
// schemas and filtered by exclude patterns.
package discover

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/store"
)

// ErrDiscovery marks catalog discovery failures. These are not
// retryable within the same invocation; callers report them to the user.
var ErrDiscovery = errors.New("table discovery failed")

// catalogFunctionSQL is reported to the operator when the server-side
// catalog function is missing from a REST store.
const catalogFunctionSQL = `CREATE OR REPLACE FUNCTION public.list_tables(schemas text[] DEFAULT ARRAY['public'])
RETURNS TABLE (table_schema text, table_name text)
LANGUAGE sql
SECURITY DEFINER
AS $$
  SELECT t.schemaname::text, t.tablename::text
  FROM pg_tables t
  WHERE t.schemaname = ANY(schemas)
$$;`

// Tables returns the store's tables in the included schemas, minus any
// whose qualified name matches an exclude pattern, sorted ascending by
// qualified name with duplicates removed.
func Tables(ctx context.Context, st store.Store, cfg FilterConfig) ([]dbtable.Name, error) {
	if len(cfg.IncludeSchemas) == 0 {
		return nil, errors.Mark(errors.New("at least one schema must be included"), ErrDiscovery)
	}
	f, err := cfg.compile()
	if err != nil {
		return nil, errors.Mark(err, ErrDiscovery)
	}
	catalog, err := st.ListTables(ctx, cfg.IncludeSchemas)
	if err != nil {
		err = errors.Wrapf(err, "error listing tables on %s", st.ID())
		if errors.Is(err, store.ErrNoCatalogFunction) {
			err = errors.WithHintf(err,
				"install the catalog function by running the following SQL on %s:\n%s",
				st.ID(), catalogFunctionSQL,
			)
		}
		return nil, errors.Mark(err, ErrDiscovery)
	}

	seen := make(map[string]struct{}, len(catalog))
	names := make([]dbtable.Name, 0, len(catalog))
	for _, n := range catalog {
		qualified := n.Qualified()
		if f.excluded(qualified) {
			continue
		}
		if _, ok := seen[qualified]; ok {
			continue
		}
		seen[qualified] = struct{}{}
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
	return names, nil
}
