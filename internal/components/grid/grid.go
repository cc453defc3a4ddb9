// Package grid implements the feature support matrix: entities across the
// top, features down the side, and a tri-state support glyph in every cell.
package grid

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/showcase/internal/components"
	"github.com/conneroisu/showcase/internal/record"
)

// Entity is one column of the matrix
type Entity struct {
	Name string `yaml:"name"`
	Logo string `yaml:"logo"`
}

// Feature is one row of the matrix. Notes are keyed by entity name and are
// shown only for partially supported cells.
type Feature struct {
	Key         string            `yaml:"key"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Notes       map[string]string `yaml:"notes"`
}

// SupportMap is the sparse entity -> feature key -> status mapping
type SupportMap map[string]map[string]record.Support

// Grid is the feature grid view model
type Grid struct {
	entities []Entity
	features []Feature
	support  SupportMap
	labels   components.Labels
	selected int
}

// New creates a grid
func New(entities []Entity, features []Feature, support SupportMap, labels components.Labels) *Grid {
	return &Grid{
		entities: entities,
		features: features,
		support:  support,
		labels:   labels,
		selected: -1,
	}
}

// Status returns the support status of feature for entity. Missing entries
// are unsupported.
func (g *Grid) Status(entity, feature string) record.Support {
	byFeature, ok := g.support[entity]
	if !ok {
		return record.Unsupported
	}
	return byFeature[feature]
}

// Note returns the note for entity on feature. Notes only apply to partial
// support.
func (g *Grid) Note(entity string, feature Feature) (string, bool) {
	if g.Status(entity, feature.Key) != record.Partial {
		return "", false
	}
	note, ok := feature.Notes[entity]
	return note, ok && note != ""
}

// Glyph returns the indicator for a status
func Glyph(s record.Support) string {
	switch s {
	case record.Supported:
		return "✓"
	case record.Partial:
		return "◐"
	default:
		return "✗"
	}
}

// Class returns the style class for a status
func Class(s record.Support) string {
	switch s {
	case record.Supported:
		return "supported"
	case record.Partial:
		return "partial"
	default:
		return "not-supported"
	}
}

// Hover selects the feature row at index i
func (g *Grid) Hover(i int) {
	g.selected = i
}

// Leave clears the selected feature row
func (g *Grid) Leave() {
	g.selected = -1
}

// Selected returns the selected feature row, if any
func (g *Grid) Selected() (int, bool) {
	return g.selected, g.selected >= 0
}

// Component renders the matrix and its legend
func (g *Grid) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Open("div", "feature-grid-container")
		hw.Open("div", "feature-grid")

		hw.Open("div", "feature-grid-header")
		hw.Element("div", "feature-grid-cell header-cell corner-cell", g.labels.FeatureCorner)
		for _, e := range g.entities {
			hw.Open("div", "feature-grid-cell header-cell provider-cell")
			hw.Element("div", "provider-logo", e.Logo)
			hw.Element("div", "provider-name", e.Name)
			hw.Close("div")
		}
		hw.Close("div")

		hw.Open("div", "feature-grid-body")
		for i, f := range g.features {
			hw.Open("div", components.Classes("feature-grid-row", components.If(g.selected == i, "selected")))

			hw.Open("div", "feature-grid-cell feature-name-cell")
			hw.Element("div", "feature-name", f.Name)
			if f.Description != "" {
				hw.Element("div", "feature-description", f.Description)
			}
			hw.Close("div")

			for _, e := range g.entities {
				status := g.Status(e.Name, f.Key)
				hw.Open("div", components.Classes("feature-grid-cell support-cell", Class(status)))
				hw.Element("span", "support-icon", Glyph(status))
				if note, ok := g.Note(e.Name, f); ok {
					hw.Element("span", "support-note", note)
				}
				hw.Close("div")
			}
			hw.Close("div")
		}
		hw.Close("div")
		hw.Close("div")

		hw.Open("div", "feature-grid-legend")
		for _, item := range []struct {
			status record.Support
			label  string
		}{
			{record.Supported, g.labels.FullSupport},
			{record.Partial, g.labels.PartialSupport},
			{record.Unsupported, g.labels.NoSupport},
		} {
			hw.Open("div", "legend-item")
			hw.Element("span", components.Classes("legend-icon", Class(item.status)), Glyph(item.status))
			hw.Element("span", "", item.label)
			hw.Close("div")
		}
		hw.Close("div")

		hw.Close("div")
		return hw.Err()
	})
}
