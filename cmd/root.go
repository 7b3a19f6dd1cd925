// Package cmd implements the evacsim CLI: a thin external driver over the
// core engine in sim, matching the teacher's rootCmd/subcommand/init()
// convention (cmd/root.go).
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	seed     int64  // RNG seed for simulation construction
	logLevel string // logrus level name
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "evacsim",
	Short: "Discrete-tick building evacuation rescue-planning simulator",
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setLogLevel applies the --log flag, defaulting to error as in the
// teacher's cmd/root.go.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "RNG seed for simulation construction")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
