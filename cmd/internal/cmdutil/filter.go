package cmdutil

import (
	"github.com/spf13/cobra"
	"github.com/supatools/supamove/discover"
)

var tableFilter = discover.DefaultFilterConfig()

func RegisterFilterFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringSliceVar(
		&tableFilter.IncludeSchemas,
		"include-schemas",
		tableFilter.IncludeSchemas,
		"schemas to discover tables in",
	)
	cmd.PersistentFlags().StringSliceVar(
		&tableFilter.ExcludePatterns,
		"exclude-tables",
		tableFilter.ExcludePatterns,
		"POSIX regexps; tables whose qualified name matches any are never discovered",
	)
}

func TableFilter() discover.FilterConfig {
	return tableFilter
}
