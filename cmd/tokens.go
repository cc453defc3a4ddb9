package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/tokens"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Print the design tokens",
	Long: `Print the design-token set, merged with the configured override file.

Examples:
  showcase tokens                    # CSS custom properties and classes
  showcase tokens -f tailwind        # tailwind theme.extend JSON
  showcase tokens --swatches         # Color swatches in the terminal`,
	RunE: runTokens,
}

var (
	tokensFormat   string
	tokensSwatches bool
)

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVarP(&tokensFormat, "format", "f", "css", "Output format (css|tailwind)")
	tokensCmd.Flags().BoolVar(&tokensSwatches, "swatches", false, "Show color swatches instead")
	tokensCmd.Flags().String("file", "", "Token override file (TOML)")
	BindFlags(tokensCmd, map[string]string{"file": "tokens.file"})
}

func runTokens(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tok, err := loadTokens(cfg)
	if err != nil {
		return err
	}
	return writeTokens(cmd.OutOrStdout(), tok, tokensFormat, tokensSwatches)
}

func writeTokens(w io.Writer, tok tokens.Tokens, format string, swatches bool) error {
	if swatches {
		_, err := fmt.Fprintln(w, tok.Swatches())
		return err
	}

	switch format {
	case "css":
		_, err := io.WriteString(w, tok.Stylesheet())
		return err
	case "tailwind":
		data, err := tok.TailwindConfig()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return ValidateFormatWithSuggestion(format, []string{"css", "tailwind"})
	}
}
