package cmdutil

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type logConfig struct {
	level string
}

var logCfg = logConfig{
	level: zerolog.InfoLevel.String(),
}

func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&logCfg.level,
		"level",
		logCfg.level,
		"log level for console output (trace, debug, info, warn, error)",
	)
}

// Logger builds the console logger shared by all supamove commands.
// Logs go to stderr so table listings and progress bars own stdout.
func Logger() (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(logCfg.level)
	if err != nil {
		return zerolog.Nop(), err
	}
	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})
	return zerolog.New(writer).With().Timestamp().Logger().Level(lvl), nil
}
