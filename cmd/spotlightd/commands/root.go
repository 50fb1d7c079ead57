// Package commands implements the spotlightd CLI command tree, following
// the teacher's cobra+viper layering of flags over a config file over
// compiled defaults.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ranjodhsingh/spotlight/internal/config"
	"github.com/ranjodhsingh/spotlight/internal/logger"
)

var (
	configFile string
	logLevel   string
	logPretty  bool

	manager *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "spotlightd",
	Short: "Real-time webcam background-effects daemon",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logLevel, logPretty)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "use console-formatted log output")

	registerServeFlags(rootCmd)
	rootCmd.AddCommand(configCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	manager = config.NewManager(configFile)
	if err := manager.BindFlags(rootCmd.Flags()); err != nil {
		fmt.Fprintln(os.Stderr, "spotlightd: binding flags:", err)
		os.Exit(1)
	}
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// GetConfigFile returns the resolved --config flag value.
func GetConfigFile() string { return configFile }
