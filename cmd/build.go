package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/showcase/internal/build"
	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/logging"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Write fixtures as static HTML",
	Long: `Render every fixture to <output>/<name>.html and write index.html,
tokens.css, tailwind.config.json and manifest.json next to them.

Fixtures that fail to load or render are reported together and the
command exits non-zero; the remaining pages are still written.

Examples:
  showcase build                  # Write to ./dist
  showcase build -o public --clean`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	AddStandardFlags(buildCmd, "build")
	BindFlags(buildCmd, map[string]string{
		"output": "build.output",
		"clean":  "build.clean",
	})
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return buildSite(cmd, cfg, logger)
}

func buildSite(cmd *cobra.Command, cfg *config.Config, logger logging.Logger) error {
	ctx := cmd.Context()
	perf := logging.StartOperation(logger, "build")

	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		perf.EndWithError(ctx, err)
		return err
	}
	defer a.Close()

	gen := build.NewGenerator(a.renderer, a.tokens, logger, build.Options{
		OutputDir: cfg.Build.Output,
		Clean:     cfg.Build.Clean,
		BaseURL:   cfg.Site.BaseURL,
	})
	result, err := gen.Generate(ctx, a.store)
	if err != nil {
		perf.EndWithError(ctx, err)
		return err
	}
	perf.End(ctx)

	printBuildSummary(cmd.OutOrStdout(), cfg.Build.Output, result)
	if result.Errors.HasErrors() {
		return fmt.Errorf("%d fixture(s) failed:\n%w", len(result.Errors.Entries()), result.Errors.Err())
	}
	return nil
}

func printBuildSummary(w io.Writer, out string, result *build.Result) {
	for _, p := range result.Pages {
		fmt.Fprintf(w, "  %s  %s\n", StyleDim.Render(filepath.Join(out, p.Path)), p.Title)
	}
	m := result.Metrics
	fmt.Fprintf(w, "%s %d page(s), %d file(s) in %s\n",
		StyleSuccess.Render("Built"), len(result.Pages), len(result.Files), m.TotalDuration.Round(time.Millisecond))
}
