package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/supatools/supamove/cmd/internal/cmdutil"
	"github.com/supatools/supamove/discover"
	"github.com/supatools/supamove/drift"
	"github.com/supatools/supamove/store"
)

var (
	flagTablesFrom string

	tablesCmd = &cobra.Command{
		Use:   "tables",
		Short: "List the discovered tables of one store with row counts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger, stores, err := setup(ctx)
			if err != nil {
				return err
			}
			defer closeStores(ctx, logger, stores)

			var st store.Store
			switch flagTablesFrom {
			case "source":
				st = stores[0]
			case "target":
				st = stores[1]
			default:
				return errors.Newf("--from must be source or target, got %q", flagTablesFrom)
			}
			return listTables(ctx, cmd.OutOrStdout(), st)
		},
	}
)

func init() {
	tablesCmd.Flags().StringVar(
		&flagTablesFrom,
		"from",
		"source",
		"which store to list tables from (source or target)",
	)
}

func listTables(ctx context.Context, out io.Writer, st store.Store) error {
	tables, err := discover.Tables(ctx, st, cmdutil.TableFilter())
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Fprintf(out, "no tables found on %s\n", st.ID())
		return nil
	}
	fmt.Fprintf(out, "tables on %s:\n", st.ID())
	fmt.Fprintf(out, "%-4s %-40s %10s\n", "#", "table", "rows")
	for i, table := range tables {
		// An unknown count renders as "unknown", never as zero.
		count := drift.CountRows(ctx, st, table)
		fmt.Fprintf(out, "%-4d %-40s %10s\n", i+1, table.Qualified(), count)
	}
	return nil
}
