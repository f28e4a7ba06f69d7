package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/supatools/supamove/cmd/internal/cmdutil"
	"github.com/supatools/supamove/discover"
	"github.com/supatools/supamove/drift"
	"github.com/supatools/supamove/store"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare table presence and row counts between source and target.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		logger, stores, err := setup(ctx)
		if err != nil {
			return err
		}
		defer closeStores(ctx, logger, stores)
		return compareStores(ctx, cmd.OutOrStdout(), stores)
	},
}

func compareStores(ctx context.Context, out io.Writer, stores store.OrderedStores) error {
	sourceTables, err := discover.Tables(ctx, stores[0], cmdutil.TableFilter())
	if err != nil {
		return err
	}
	targetTables, err := discover.Tables(ctx, stores[1], cmdutil.TableFilter())
	if err != nil {
		return err
	}

	rows := drift.Compare(ctx, stores[0], stores[1], sourceTables, targetTables)
	if len(rows) == 0 {
		fmt.Fprintln(out, "no tables found in either store")
		return nil
	}
	fmt.Fprintf(out, "%-40s %12s %12s %s\n", "table", "source rows", "target rows", "status")
	for _, row := range rows {
		sourceCount, targetCount := "absent", "absent"
		if row.InSource {
			sourceCount = row.SourceCount.String()
		}
		if row.InTarget {
			targetCount = row.TargetCount.String()
		}
		status := row.Status.String()
		if delta, ok := row.Delta(); ok && row.Status == drift.StatusDiverged {
			status = fmt.Sprintf("%s (delta %+d)", status, delta)
		}
		fmt.Fprintf(out, "%-40s %12s %12s %s\n", row.Name.Qualified(), sourceCount, targetCount, status)
	}
	return nil
}
