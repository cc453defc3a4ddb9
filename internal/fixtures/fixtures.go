// Package fixtures loads the YAML documents that describe preview pages.
//
// A fixture is a titled list of sections. Each section names a component
// kind and carries that kind's props under a key of the same name:
//
//	title: Hosting plans
//	locale: en
//	sections:
//	  - id: plans
//	    kind: table
//	    table:
//	      highlight_best: true
//	      columns:
//	        - {key: provider, label: Provider}
//	        - {key: price, type: number, highlight_best: true}
//	      rows:
//	        - {provider: Vercel, price: 20}
package fixtures

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/showcase/internal/components/card"
	"github.com/conneroisu/showcase/internal/components/grid"
	"github.com/conneroisu/showcase/internal/errors"
	"github.com/conneroisu/showcase/internal/record"
)

// Kind names the component a section renders
type Kind string

const (
	KindHeader  Kind = "header"
	KindTable   Kind = "table"
	KindGrid    Kind = "grid"
	KindCard    Kind = "card"
	KindTabs    Kind = "tabs"
	KindModal   Kind = "modal"
	KindDiagram Kind = "diagram"
	KindText    Kind = "text"
)

// Kinds lists every section kind in documentation order
var Kinds = []Kind{KindHeader, KindTable, KindGrid, KindCard, KindTabs, KindModal, KindDiagram, KindText}

// Fixture is one preview page
type Fixture struct {
	Name        string    `yaml:"-" json:"name"`
	Path        string    `yaml:"-" json:"path"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Locale      string    `yaml:"locale,omitempty" json:"locale,omitempty"`
	Sections    []Section `yaml:"sections" json:"-"`
}

// Section is one component instance on a page
type Section struct {
	ID      string        `yaml:"id"`
	Kind    Kind          `yaml:"kind"`
	Heading string        `yaml:"heading,omitempty"`
	Header  *HeaderProps  `yaml:"header,omitempty"`
	Table   *TableProps   `yaml:"table,omitempty"`
	Grid    *GridProps    `yaml:"grid,omitempty"`
	Card    *card.Props   `yaml:"card,omitempty"`
	Tabs    *TabsProps    `yaml:"tabs,omitempty"`
	Modal   *ModalProps   `yaml:"modal,omitempty"`
	Diagram *DiagramProps `yaml:"diagram,omitempty"`
	Text    string        `yaml:"text,omitempty"`
}

type HeaderProps struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle,omitempty"`
	Actions  []Link `yaml:"actions,omitempty"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// ColumnSpec is the YAML form of a table column. Sortable defaults to true.
type ColumnSpec struct {
	Key           string `yaml:"key"`
	Label         string `yaml:"label,omitempty"`
	Type          string `yaml:"type,omitempty"`
	Align         string `yaml:"align,omitempty"`
	Sortable      *bool  `yaml:"sortable,omitempty"`
	HighlightBest bool   `yaml:"highlight_best,omitempty"`
}

type TableProps struct {
	Columns       []ColumnSpec    `yaml:"columns"`
	Rows          []record.Record `yaml:"rows"`
	HighlightBest bool            `yaml:"highlight_best,omitempty"`
	Interactive   *bool           `yaml:"interactive,omitempty"`
}

// GridProps carries support values as YAML scalars: true, false or
// "partial".
type GridProps struct {
	Entities []grid.Entity                      `yaml:"entities"`
	Features []grid.Feature                     `yaml:"features"`
	Support  map[string]map[string]record.Value `yaml:"support"`
}

// SupportMap converts the YAML scalars into statuses.
func (g *GridProps) SupportMap() grid.SupportMap {
	out := make(grid.SupportMap, len(g.Support))
	for entity, byFeature := range g.Support {
		m := make(map[string]record.Support, len(byFeature))
		for key, v := range byFeature {
			m[key] = v.Support()
		}
		out[entity] = m
	}
	return out
}

type TabsProps struct {
	Default string    `yaml:"default,omitempty"`
	Items   []TabSpec `yaml:"items"`
}

// TabSpec is one tab; its content is a nested section.
type TabSpec struct {
	ID      string  `yaml:"id"`
	Label   string  `yaml:"label"`
	Icon    string  `yaml:"icon,omitempty"`
	Color   string  `yaml:"color,omitempty"`
	Content Section `yaml:"content"`
}

type ModalProps struct {
	Src     string `yaml:"src"`
	Alt     string `yaml:"alt,omitempty"`
	Caption string `yaml:"caption,omitempty"`
}

type DiagramProps struct {
	Code  string `yaml:"code"`
	Class string `yaml:"class,omitempty"`
}

var (
	idPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	nameCleaner = regexp.MustCompile(`[^a-z0-9_-]+`)
)

// Load reads and validates one fixture file. Unknown keys are errors.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, errors.ErrFixtureNotFound)
		}
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes a fixture from data. path names the fixture in errors and
// determines its Name.
func Parse(path string, data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, &errors.FixtureError{File: path, Message: "empty document"}
		}
		return nil, &errors.FixtureError{File: path, Message: "invalid YAML", Err: err}
	}

	f.Path = path
	f.Name = NameFromPath(path)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// NameFromPath derives the URL slug of a fixture from its file name.
func NameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.Trim(nameCleaner.ReplaceAllString(strings.ToLower(base), "-"), "-")
}

// IsFixtureFile reports whether path has a fixture extension
func IsFixtureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
