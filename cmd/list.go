package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/fixtures"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List fixtures",
	Long: `List the fixtures in the fixtures directory with their section kinds.
Files that fail to load are listed after the fixtures.

Examples:
  showcase list             # Table output
  showcase list -f json     # JSON output
  showcase list -f yaml     # YAML output`,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)
	listFlags = AddStandardFlags(listCmd, "output")
}

// listEntry is the serialized form of one fixture
type listEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Locale      string   `json:"locale,omitempty" yaml:"locale,omitempty"`
	File        string   `json:"file" yaml:"file"`
	Sections    int      `json:"sections" yaml:"sections"`
	Kinds       []string `json:"kinds" yaml:"kinds"`
}

type listFailure struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

type listOutput struct {
	Fixtures []listEntry   `json:"fixtures" yaml:"fixtures"`
	Failures []listFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store := fixtures.NewStore(cfg.Site.Fixtures)
	if err := store.Reload(); err != nil {
		return err
	}
	return writeList(cmd.OutOrStdout(), collectList(store), listFlags.Format)
}

func collectList(store *fixtures.Store) listOutput {
	out := listOutput{Fixtures: []listEntry{}}
	for _, f := range store.List() {
		out.Fixtures = append(out.Fixtures, listEntry{
			Name:        f.Name,
			Title:       f.Title,
			Description: f.Description,
			Locale:      f.Locale,
			File:        f.Path,
			Sections:    len(f.Sections),
			Kinds:       sectionKinds(f),
		})
	}
	for _, e := range store.Failures().Entries() {
		out.Failures = append(out.Failures, listFailure{File: e.Fixture, Error: e.Err.Error()})
	}
	return out
}

// sectionKinds returns the distinct kinds used by f, sorted
func sectionKinds(f *fixtures.Fixture) []string {
	kinds := []string{}
	for _, s := range f.Sections {
		if k := string(s.Kind); !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	return kinds
}

func writeList(w io.Writer, out listOutput, format string) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(out)
	case "table", "":
		return writeListTable(w, out)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeListTable(w io.Writer, out listOutput) error {
	if len(out.Fixtures) == 0 {
		fmt.Fprintln(w, "No fixtures found.")
	} else {
		rows := make([][]string, 0, len(out.Fixtures))
		for _, e := range out.Fixtures {
			rows = append(rows, []string{e.Name, e.Title, strconv.Itoa(e.Sections), strings.Join(e.Kinds, ", ")})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(StyleDim).
			Headers("Name", "Title", "Sections", "Kinds").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return styleHeader
				}
				return styleCell
			})
		fmt.Fprintln(w, t.Render())
	}

	for _, f := range out.Failures {
		fmt.Fprintf(w, "%s %s: %s\n", StyleError.Render("✗"), f.File, f.Error)
	}
	return nil
}
