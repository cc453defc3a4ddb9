package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/showcase/internal/errors"
	"github.com/conneroisu/showcase/internal/record"
)

const pricing = `
title: Hosting plans
description: Compare the big three
locale: zh-CN
sections:
  - id: intro
    kind: header
    header:
      title: Plans
      subtitle: Pick one
      actions:
        - {label: Docs, href: /docs}
  - id: plans
    kind: table
    table:
      highlight_best: true
      columns:
        - {key: provider, label: Provider}
        - {key: price, type: number, align: right, highlight_best: true}
        - {key: sla, sortable: false}
      rows:
        - {provider: Vercel, price: 20, sla: true}
        - {provider: Netlify, price: 19}
  - id: matrix
    kind: grid
    grid:
      entities: [{name: Vercel, logo: "▲"}, {name: Netlify}]
      features:
        - {key: edge, name: Edge functions, notes: {Netlify: Beta only}}
      support:
        Vercel: {edge: true}
        Netlify: {edge: partial}
  - id: views
    kind: tabs
    tabs:
      default: cards
      items:
        - id: cards
          label: Cards
          icon: "🃏"
          content:
            kind: card
            card: {provider: Vercel, features: [a, b, c, d, e]}
        - id: flow
          label: Flow
          content:
            id: flow-diagram
            kind: diagram
            diagram: {code: "digraph { a -> b }"}
  - id: shot
    kind: modal
    modal: {src: /img/arch.png, alt: Architecture}
  - id: notes
    kind: text
    text: Prices are monthly.
`

func TestParse(t *testing.T) {
	f, err := Parse("fixtures/Hosting Plans.yml", []byte(pricing))
	require.NoError(t, err)

	assert.Equal(t, "hosting-plans", f.Name)
	assert.Equal(t, "Hosting plans", f.Title)
	assert.Equal(t, "zh-CN", f.Locale)
	require.Len(t, f.Sections, 6)

	header := f.Sections[0]
	assert.Equal(t, KindHeader, header.Kind)
	assert.Equal(t, "/docs", header.Header.Actions[0].Href)

	table := f.Sections[1].Table
	require.NotNil(t, table)
	assert.True(t, table.HighlightBest)
	require.NotNil(t, table.Columns[2].Sortable)
	assert.False(t, *table.Columns[2].Sortable)
	assert.Nil(t, table.Columns[0].Sortable)
	assert.Equal(t, record.Int(20), table.Rows[0].Get("price"))
	assert.True(t, table.Rows[1].Get("sla").IsNull())

	support := f.Sections[2].Grid.SupportMap()
	assert.Equal(t, record.Supported, support["Vercel"]["edge"])
	assert.Equal(t, record.Partial, support["Netlify"]["edge"])

	tabs := f.Sections[3].Tabs
	assert.Equal(t, "views-cards", tabs.Items[0].Content.ID)
	assert.Equal(t, "flow-diagram", tabs.Items[1].Content.ID)
	assert.Len(t, tabs.Items[0].Content.Card.Features, 5)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
		is      error
	}{
		{"empty", "", "empty document", nil},
		{"bad yaml", "title: [", "invalid YAML", nil},
		{"unknown field", "title: x\ncolour: red\n", "invalid YAML", nil},
		{"missing title", "sections: []\n", "title is required", nil},
		{"bad id", "title: x\nsections:\n  - {id: Bad.Id, kind: text}\n", "section id must match", nil},
		{"duplicate id", "title: x\nsections:\n  - {id: a, kind: text}\n  - {id: a, kind: text}\n", "duplicate section id", nil},
		{"unknown kind", "title: x\nsections:\n  - {id: a, kind: carousel}\n", `kind "carousel"`, errors.ErrUnknownKind},
		{"header without title", "title: x\nsections:\n  - {id: a, kind: header}\n", "header requires a title", nil},
		{"table without columns", "title: x\nsections:\n  - {id: a, kind: table, table: {rows: []}}\n", "at least one column", nil},
		{"bad column type", "title: x\nsections:\n  - {id: a, kind: table, table: {columns: [{key: k, type: date}]}}\n", "unknown type", nil},
		{"bad align", "title: x\nsections:\n  - {id: a, kind: table, table: {columns: [{key: k, align: justify}]}}\n", "unknown align", nil},
		{"duplicate column", "title: x\nsections:\n  - {id: a, kind: table, table: {columns: [{key: k}, {key: k}]}}\n", "duplicate column", nil},
		{"card without provider", "title: x\nsections:\n  - {id: a, kind: card, card: {}}\n", "card requires a provider", nil},
		{"modal without src", "title: x\nsections:\n  - {id: a, kind: modal}\n", "modal requires", nil},
		{"empty tabs", "title: x\nsections:\n  - {id: a, kind: tabs, tabs: {items: []}}\n", "at least one item", nil},
		{"nested id clash", "title: x\nsections:\n  - {id: a-b, kind: text}\n  - {id: a, kind: tabs, tabs: {items: [{id: b, label: B, content: {kind: text}}]}}\n", "duplicate section id", nil},
		{"non scalar value", "title: x\nsections:\n  - {id: a, kind: table, table: {columns: [{key: k}], rows: [{k: [1]}]}}\n", "invalid YAML", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("f.yml", []byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)

			var fe *errors.FixtureError
			assert.True(t, errors.As(err, &fe))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorIs(t, err, errors.ErrFixtureNotFound)
}

func TestNameFromPath(t *testing.T) {
	assert.Equal(t, "pricing", NameFromPath("/a/b/pricing.yaml"))
	assert.Equal(t, "feature-grid", NameFromPath("Feature Grid.yml"))
	assert.Equal(t, "", NameFromPath("...yml"))
}

func TestIsFixtureFile(t *testing.T) {
	assert.True(t, IsFixtureFile("a.yml"))
	assert.True(t, IsFixtureFile("a.YAML"))
	assert.False(t, IsFixtureFile("tokens.toml"))
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestStore(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.yml", "title: B\n")
	write(t, dir, "a.yaml", "title: A\n")
	write(t, dir, "broken.yml", "title: [\n")
	write(t, dir, "readme.md", "# not a fixture")
	write(t, dir, ".hidden.yml", "title: H\n")

	store := NewStore(dir)
	require.NoError(t, store.Reload())

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)

	f, err := store.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "B", f.Title)

	_, err = store.Get("zzz")
	assert.ErrorIs(t, err, errors.ErrFixtureNotFound)

	assert.True(t, store.Failures().HasErrors())
	assert.Len(t, store.Failures().ByFixture("broken.yml"), 1)

	write(t, dir, "broken.yml", "title: Fixed\n")
	require.NoError(t, store.Reload())
	assert.Len(t, store.List(), 3)
	assert.False(t, store.Failures().HasErrors())
}

func TestStoreDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "plans.yml", "title: One\n")
	write(t, dir, "plans.yaml", "title: Two\n")

	store := NewStore(dir)
	require.NoError(t, store.Reload())
	assert.Len(t, store.List(), 1)
	assert.True(t, store.Failures().HasErrors())
}

func TestStoreMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, store.Reload())
}

func TestRepositoryFixturesLoad(t *testing.T) {
	store := NewStore(filepath.Join("..", "..", "fixtures"))
	require.NoError(t, store.Reload())
	assert.False(t, store.Failures().HasErrors(), "%v", store.Failures().Err())
	assert.NotEmpty(t, store.List())
}
