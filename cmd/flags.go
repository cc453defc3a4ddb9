package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Server flags
	Port int
	Host string
	Open bool

	// Build flags
	Output string
	Clean  bool

	// Output flags
	Format string
}

var outputFormats = []string{"table", "json", "yaml"}

// AddStandardFlags adds the named flag groups to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "server":
			addServerFlags(cmd, flags)
		case "build":
			addBuildFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		}
	}

	return flags
}

func addServerFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().IntVarP(&flags.Port, "port", "p", 8080, "Port to serve on")
	cmd.Flags().StringVar(&flags.Host, "host", "localhost", "Host to bind to")
	cmd.Flags().BoolVar(&flags.Open, "open", false, "Open the browser once the server is up")
	cmd.Flags().Var(&invertedBool{key: "development.hot_reload"}, "no-reload", "Disable live reload")
	cmd.Flags().Lookup("no-reload").NoOptDefVal = "true"
}

func addBuildFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "dist", "Output directory")
	cmd.Flags().BoolVar(&flags.Clean, "clean", false, "Remove the output directory first")
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "table", "Output format (table|json|yaml)")
}

// ValidateFlags validates flag values
func (f *StandardFlags) ValidateFlags() error {
	if f.Format != "" && !slices.Contains(outputFormats, f.Format) {
		return ValidateFormatWithSuggestion(f.Format, outputFormats)
	}
	return nil
}

// ValidateFormatWithSuggestion rejects format values outside valid and
// suggests the closest prefix match.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	if slices.Contains(valid, format) {
		return nil
	}
	for _, v := range valid {
		if format != "" && strings.HasPrefix(v, format) {
			return fmt.Errorf("invalid format %q, did you mean %q?", format, v)
		}
	}
	return fmt.Errorf("invalid format %q, must be one of: %s", format, strings.Join(valid, ", "))
}

// BindFlags binds flags to viper configuration keys. Flags the command
// does not define are skipped.
func BindFlags(cmd *cobra.Command, bindings map[string]string) {
	for flagName, configKey := range bindings {
		if flag := cmd.Flags().Lookup(flagName); flag != nil {
			viper.BindPFlag(configKey, flag)
		}
	}
}

// invertedBool is a pflag.Value that stores the negation of the parsed
// flag into a viper key, for --no-* flags over positive config keys.
type invertedBool struct {
	key   string
	value bool
}

var _ pflag.Value = (*invertedBool)(nil)

func (b *invertedBool) String() string { return fmt.Sprint(b.value) }
func (b *invertedBool) Type() string   { return "bool" }

func (b *invertedBool) Set(s string) error {
	switch s {
	case "true", "1":
		b.value = true
	case "false", "0":
		b.value = false
	default:
		return fmt.Errorf("invalid boolean %q", s)
	}
	viper.Set(b.key, !b.value)
	return nil
}
