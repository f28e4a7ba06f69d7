package cmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/supatools/supamove/cmd/internal/cmdutil"
	"github.com/supatools/supamove/datacopy"
	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/discover"
	"github.com/supatools/supamove/drift"
	"github.com/supatools/supamove/store"
)

var (
	flagMigrateYes bool

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Copy every discovered source table's rows into the target.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger, stores, err := setup(ctx)
			if err != nil {
				return err
			}
			defer closeStores(ctx, logger, stores)

			confirm := datacopy.ConfirmFunc(confirmFrom(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout()))
			if flagMigrateYes {
				confirm = func(string) bool { return true }
			}
			return migrateStores(ctx, logger, stores, confirm)
		},
	}
)

func init() {
	migrateCmd.Flags().BoolVar(
		&flagMigrateYes,
		"yes",
		false,
		"skip the confirmation prompt before copying",
	)
}

// migrateStores discovers the source tables and bulk-copies them into the
// target, rendering a progress bar for each table with a known row count.
// Bars only start rendering once the user has confirmed, so they do not
// clobber the prompt.
func migrateStores(
	ctx context.Context,
	logger zerolog.Logger,
	stores store.OrderedStores,
	confirm datacopy.ConfirmFunc,
) error {
	tables, err := discover.Tables(ctx, stores[0], cmdutil.TableFilter())
	if err != nil {
		return err
	}

	bars := make(map[dbtable.Name]*uiprogress.Bar)
	for _, table := range tables {
		count := drift.CountRows(ctx, stores[0], table)
		total, ok := count.Value()
		if !ok || total == 0 {
			// No bar for empty tables or tables with an unknown count.
			continue
		}
		table := table
		bar := uiprogress.AddBar(int(total)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-30s", table.Qualified())
		})
		bars[table] = bar
	}

	opts := append(
		cmdutil.CopyOptions(),
		datacopy.WithProgress(func(table dbtable.Name, inserted int) {
			if bar, ok := bars[table]; ok {
				_ = bar.Set(inserted)
			}
		}),
	)

	started := false
	confirmThenRender := func(prompt string) bool {
		if !confirm(prompt) {
			return false
		}
		uiprogress.Start()
		started = true
		return true
	}
	datacopy.MigrateAll(ctx, stores[0], stores[1], tables, logReporter(logger), confirmThenRender, opts...)
	if started {
		uiprogress.Stop()
	}
	return nil
}
