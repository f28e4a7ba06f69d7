package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/supatools/supamove/cmd/internal/cmdutil"
	"github.com/supatools/supamove/report"
	"github.com/supatools/supamove/store"
)

var rootCmd = &cobra.Command{
	Use:   "supamove",
	Short: "Migrate table data between two Supabase projects.",
	Long: `supamove discovers the tables of a source Supabase project, compares
them against a target project and bulk-copies row data table by table.
Run without a subcommand for an interactive menu.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cmdutil.RegisterStoreFlags(rootCmd)
	cmdutil.RegisterLoggerFlags(rootCmd)
	cmdutil.RegisterFilterFlags(rootCmd)
	cmdutil.RegisterMetricsFlags(rootCmd)
	cmdutil.RegisterCopyFlags(rootCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup builds the logger, starts the metrics listener and connects
// both stores.
func setup(ctx context.Context) (zerolog.Logger, store.OrderedStores, error) {
	logger, err := cmdutil.Logger()
	if err != nil {
		return logger, store.OrderedStores{}, err
	}
	cmdutil.RunMetricsServer(logger)
	stores, err := cmdutil.LoadStores(ctx)
	if err != nil {
		return logger, store.OrderedStores{}, err
	}
	logger.Info().
		Str("source", stores[0].URL()).
		Str("target", stores[1].URL()).
		Msgf("connected to both stores")
	return logger, stores, nil
}

func closeStores(ctx context.Context, logger zerolog.Logger, stores store.OrderedStores) {
	for _, st := range stores {
		if err := st.Close(ctx); err != nil {
			logger.Err(err).Str("store", string(st.ID())).Msgf("error closing store")
		}
	}
}

func logReporter(logger zerolog.Logger) report.Reporter {
	return report.LogReporter{Logger: logger}
}

// confirmFrom reads one line and accepts only an explicit "y"/"yes".
func confirmFrom(rd *bufio.Reader, out io.Writer) func(prompt string) bool {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := rd.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
