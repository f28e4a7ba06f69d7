package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/supatools/supamove/cmd/internal/cmdutil"
	"github.com/supatools/supamove/datacopy"
	"github.com/supatools/supamove/discover"
	"github.com/supatools/supamove/store"
)

var (
	flagDropYes bool

	dropCmd = &cobra.Command{
		Use:   "drop",
		Short: "Drop every discovered table on the target store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger, stores, err := setup(ctx)
			if err != nil {
				return err
			}
			defer closeStores(ctx, logger, stores)

			confirm := datacopy.ConfirmFunc(confirmFrom(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout()))
			if flagDropYes {
				confirm = func(string) bool { return true }
			}
			return dropTargetTables(ctx, cmd.OutOrStdout(), logger, stores[1], confirm)
		},
	}
)

func init() {
	dropCmd.Flags().BoolVar(
		&flagDropYes,
		"yes",
		false,
		"skip the confirmation prompt before dropping",
	)
}

// dropTargetTables drops all discovered tables on the target. Drops are
// best-effort: a failure on one table is logged and the run continues.
func dropTargetTables(
	ctx context.Context,
	out io.Writer,
	logger zerolog.Logger,
	target store.Store,
	confirm datacopy.ConfirmFunc,
) error {
	tables, err := discover.Tables(ctx, target, cmdutil.TableFilter())
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Fprintf(out, "no tables found on %s\n", target.ID())
		return nil
	}

	fmt.Fprintf(out, "the following tables will be dropped from %s:\n", target.ID())
	for i, table := range tables {
		fmt.Fprintf(out, "  %d. %s\n", i+1, table.Qualified())
	}
	if !confirm("Drop these tables? This cannot be undone.") {
		fmt.Fprintln(out, "drop cancelled by user")
		return nil
	}

	dropped := 0
	for _, table := range tables {
		if err := target.DropTable(ctx, table); err != nil {
			logger.Err(err).Str("table", table.Qualified()).Msgf("error dropping table")
			continue
		}
		dropped++
		logger.Info().Str("table", table.Qualified()).Msgf("table dropped")
	}
	fmt.Fprintf(out, "dropped %d of %d tables\n", dropped, len(tables))
	return nil
}
