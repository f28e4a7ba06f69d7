package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/supatools/supamove/datacopy"
)

const menuText = `
supamove
  1. List source tables
  2. List target tables
  3. Compare source and target
  4. Migrate all tables
  5. Drop all target tables
  6. Copy table structure
  7. Exit
`

// runMenu drives the interactive menu shown when supamove is started
// without a subcommand. It loops until the user exits or input is
// exhausted.
func runMenu(cmd *cobra.Command) error {
	ctx := context.Background()
	logger, stores, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeStores(ctx, logger, stores)

	out := cmd.OutOrStdout()
	rd := bufio.NewReader(cmd.InOrStdin())
	confirm := datacopy.ConfirmFunc(confirmFrom(rd, out))

	for {
		fmt.Fprint(out, menuText)
		fmt.Fprint(out, "choose an option: ")
		line, err := rd.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		var opErr error
		switch strings.TrimSpace(line) {
		case "1":
			opErr = listTables(ctx, out, stores[0])
		case "2":
			opErr = listTables(ctx, out, stores[1])
		case "3":
			opErr = compareStores(ctx, out, stores)
		case "4":
			opErr = migrateStores(ctx, logger, stores, confirm)
		case "5":
			opErr = dropTargetTables(ctx, out, logger, stores[1], confirm)
		case "6":
			fmt.Fprintln(out, "copying table structure is not implemented yet; create the schema with supabase db push or a SQL dump")
		case "7", "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "invalid choice %q\n", strings.TrimSpace(line))
		}
		if opErr != nil {
			logger.Err(opErr).Msgf("operation failed")
		}
	}
}
