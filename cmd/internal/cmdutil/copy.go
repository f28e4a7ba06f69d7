package cmdutil

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/supatools/supamove/datacopy"
)

type copyConfig struct {
	pageSize  int
	pageDelay time.Duration
}

var copyCfg = copyConfig{
	pageSize:  datacopy.DefaultPageSize,
	pageDelay: datacopy.DefaultPageDelay,
}

func RegisterCopyFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().IntVar(
		&copyCfg.pageSize,
		"page-size",
		copyCfg.pageSize,
		"number of rows to fetch from the source at a time",
	)
	cmd.PersistentFlags().DurationVar(
		&copyCfg.pageDelay,
		"page-delay",
		copyCfg.pageDelay,
		"minimum delay between page fetches, to bound request rate against the source",
	)
}

func CopyOptions() []datacopy.Option {
	return []datacopy.Option{
		datacopy.WithPageSize(copyCfg.pageSize),
		datacopy.WithPageDelay(copyCfg.pageDelay),
	}
}
