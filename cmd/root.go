// Package cmd provides the command-line interface for Tempus.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "tempus",
	Short: "Tempus CLI tool can run simulation scenarios and inspect " +
		"recorded runs.",
	Long: `Tempus CLI tool can run simulation scenarios and inspect ` +
		`recorded runs. Scenarios are YAML files that declare event ` +
		`generators; runs are recorded into SQLite databases that the ` +
		`export command reads back.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file can carry environment knobs such as TEMPUS_MONITOR_DEV.
	// Missing files are fine.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warning",
		"Log level (trace, debug, info, warn, error, fatal, panic)")
}
