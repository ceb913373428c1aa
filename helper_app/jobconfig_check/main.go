package main

import (
	"os"

	"github.com/guardian/modeljobs/common/helpers"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

/**
offline checks for job requests, backend payloads and model configs, so that they can be tried out without a cluster
*/

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "jobconfig_check",
	Short: "Check model job requests offline",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return helpers.SetupLogging(helpers.LoggingConfig{Level: logLevel, Format: "text"})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "warn", "log level")
	rootCmd.AddCommand(validateCmd, normalizeCmd, maxPositionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Debug(err)
		os.Exit(1)
	}
}
