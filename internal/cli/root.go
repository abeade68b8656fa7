// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Personal activity tracking and recap",
	Long: `pulse reconstructs what you worked on from local evidence — modified
files, git history, Claude Code sessions — and groups it into the projects
and themes you register.

Quick start:
  pulse init                  Initialize pulse here
  pulse discover              Suggest projects from your filesystem
  pulse recap                 What did I do today?
  pulse review list           Inspect proposed roadmap changes
  pulse status                Show the roadmap at a glance`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Errors are printed here (with the structured
// What/Why/Fix form when available) so main only sets the exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		PrintError(err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .pulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	// Add subcommands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newRecapCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newDailyCmd())
	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newWinsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in .pulse directory
		viper.AddConfigPath(".pulse")
		viper.AddConfigPath("$HOME/.pulse")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("PULSE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// initLogging installs the default slog handler at the verbosity the flags
// ask for. Library packages log degradation warnings through slog.Default.
func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
