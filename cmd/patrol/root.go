package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/accrava/patrol/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "patrol",
	Short:         "Run pattern rules against a codebase and track dismissed findings",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var flagDebug bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "verbose logging")
}

func newLogger() *zap.SugaredLogger {
	log, err := logging.New(flagDebug)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log
}
