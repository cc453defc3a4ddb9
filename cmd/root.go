// Package cmd provides the showcase command-line interface.
//
// Configuration is read from, in order of precedence:
//
//  1. Command-line flags (--port, --output, ...)
//  2. SHOWCASE_<SECTION>_<OPTION> environment variables
//  3. The file named by --config or SHOWCASE_CONFIG_FILE
//  4. .showcase.yml in the working directory
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/showcase/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Preview and build comparison components from YAML fixtures",
	Long: `Showcase renders the site's comparison tables, feature grids, cards, tabs,
image modal, diagrams and page headers from YAML fixture files.

Quick Start:
  showcase serve             Preview fixtures with live reload
  showcase build             Write static HTML to the output directory
  showcase list              List fixtures
  showcase tokens            Print the design-token stylesheet`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .showcase.yml, can also use SHOWCASE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig points viper at the config file and enables SHOWCASE_ env
// overrides. A missing file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SHOWCASE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".showcase")
	}

	viper.SetEnvPrefix("SHOWCASE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the log flags
func newLogger(cmd *cobra.Command) (logging.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	format := viper.GetString("log-format")
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("invalid log format %q, must be text or json", format)
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = cmd.ErrOrStderr()
	return logging.NewLogger(cfg), nil
}
