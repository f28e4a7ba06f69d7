package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/supatools/supamove/dbtable"
)

func TestSelectRangeSQL(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		table    dbtable.Name
		start    int
		end      int
		expected string
	}{
		{
			desc:     "pages carry a stable order",
			table:    dbtable.MakeName("public", "orders"),
			start:    2000,
			end:      2999,
			expected: `SELECT * FROM "public"."orders" ORDER BY ctid OFFSET 2000 LIMIT 1000`,
		},
		{
			desc:     "first page",
			table:    dbtable.MakeName("audit", "events"),
			start:    0,
			end:      999,
			expected: `SELECT * FROM "audit"."events" ORDER BY ctid OFFSET 0 LIMIT 1000`,
		},
		{
			desc:     "identifiers with quotes stay escaped",
			table:    dbtable.MakeName("public", `odd"name`),
			start:    0,
			end:      9,
			expected: `SELECT * FROM "public"."odd""name" ORDER BY ctid OFFSET 0 LIMIT 10`,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expected, selectRangeSQL(tc.table, tc.start, tc.end))
		})
	}
}
