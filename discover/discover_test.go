package discover

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/store"
)

func TestTables(t *testing.T) {
	ctx := context.Background()

	newStore := func(tables ...string) *store.FakeStore {
		f := store.MakeFakeStore("source")
		for _, tbl := range tables {
			f.SetTable(dbtable.ParseName(tbl))
		}
		return f
	}

	for _, tc := range []struct {
		desc     string
		tables   []string
		cfg      FilterConfig
		expected []string
	}{
		{
			desc:     "default config excludes system and supabase tables",
			tables:   []string{"pg_stat", "auth.users", "orders", "profiles"},
			cfg:      FilterConfig{IncludeSchemas: []string{"public", "auth"}, ExcludePatterns: DefaultExcludePatterns()},
			expected: []string{"orders", "profiles"},
		},
		{
			desc:     "results sorted ascending",
			tables:   []string{"zebra", "alpha", "mango"},
			cfg:      DefaultFilterConfig(),
			expected: []string{"alpha", "mango", "zebra"},
		},
		{
			desc:     "schema restriction drops non-included schemas",
			tables:   []string{"audit.events", "orders"},
			cfg:      FilterConfig{IncludeSchemas: []string{"public"}, ExcludePatterns: nil},
			expected: []string{"orders"},
		},
		{
			desc:     "non-public schema survives and sorts by qualified name",
			tables:   []string{"audit.events", "orders"},
			cfg:      FilterConfig{IncludeSchemas: []string{"public", "audit"}, ExcludePatterns: nil},
			expected: []string{"audit.events", "orders"},
		},
		{
			desc:     "pattern matches qualified name regardless of schema",
			tables:   []string{"audit.events", "audit.trail", "orders"},
			cfg:      FilterConfig{IncludeSchemas: []string{"public", "audit"}, ExcludePatterns: []string{"^audit"}},
			expected: []string{"orders"},
		},
		{
			desc:     "unanchored search matches anywhere in the name",
			tables:   []string{"orders", "orders_archive", "profiles"},
			cfg:      FilterConfig{IncludeSchemas: []string{"public"}, ExcludePatterns: []string{"archive"}},
			expected: []string{"orders", "profiles"},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			names, err := Tables(ctx, newStore(tc.tables...), tc.cfg)
			require.NoError(t, err)
			got := make([]string, 0, len(names))
			for _, n := range names {
				got = append(got, n.Qualified())
			}
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestTablesErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty schema set", func(t *testing.T) {
		_, err := Tables(ctx, store.MakeFakeStore("source"), FilterConfig{})
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrDiscovery))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Tables(ctx, store.MakeFakeStore("source"), FilterConfig{
			IncludeSchemas:  []string{"public"},
			ExcludePatterns: []string{"["},
		})
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrDiscovery))
	})

	t.Run("catalog failure is marked", func(t *testing.T) {
		f := store.MakeFakeStore("source")
		f.ListErr = errors.New("permission denied")
		_, err := Tables(ctx, f, DefaultFilterConfig())
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrDiscovery))
		require.ErrorContains(t, err, "permission denied")
	})

	t.Run("missing catalog function carries install hint", func(t *testing.T) {
		f := store.MakeFakeStore("source")
		f.ListErr = errors.Mark(errors.New("function list_tables does not exist"), store.ErrNoCatalogFunction)
		_, err := Tables(ctx, f, DefaultFilterConfig())
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrDiscovery))
		require.Contains(t, errors.FlattenHints(err), "CREATE OR REPLACE FUNCTION public.list_tables")
	})
}
