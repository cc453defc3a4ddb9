// Package card implements the comparison card: one entity's summary with a
// capped feature list that can be expanded.
package card

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/showcase/internal/components"
)

// DefaultVisible is how many features a collapsed card shows
const DefaultVisible = 4

// Metric is one labelled figure in the card's metrics block
type Metric struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Props are the caller-supplied card contents
type Props struct {
	Provider  string   `yaml:"provider"`
	Logo      string   `yaml:"logo"`
	Color     string   `yaml:"color"`
	Tagline   string   `yaml:"tagline"`
	Features  []string `yaml:"features"`
	Metrics   []Metric `yaml:"metrics"`
	Highlight bool     `yaml:"highlight"`
}

// Card is the comparison card view model
type Card struct {
	props    Props
	labels   components.Labels
	expanded bool
}

// New creates a collapsed card. An empty Color falls back to defaultColor.
func New(props Props, defaultColor string, labels components.Labels) *Card {
	if props.Color == "" {
		props.Color = defaultColor
	}
	return &Card{props: props, labels: labels}
}

// Props returns the card contents after defaults
func (c *Card) Props() Props {
	return c.props
}

// Expanded reports whether every feature is visible
func (c *Card) Expanded() bool {
	return c.expanded
}

// SetExpanded restores the expansion state
func (c *Card) SetExpanded(expanded bool) {
	c.expanded = expanded
}

// Toggle flips between the capped and the full feature list
func (c *Card) Toggle() {
	c.expanded = !c.expanded
}

// HasToggle reports whether the list is long enough to need a toggle
func (c *Card) HasToggle() bool {
	return len(c.props.Features) > DefaultVisible
}

// VisibleFeatures returns the features currently shown
func (c *Card) VisibleFeatures() []string {
	if c.expanded || len(c.props.Features) <= DefaultVisible {
		return c.props.Features
	}
	return c.props.Features[:DefaultVisible]
}

// ToggleLabel returns the text of the toggle control
func (c *Card) ToggleLabel() string {
	if c.expanded {
		return c.labels.Collapse
	}
	return c.labels.ExpandAll(len(c.props.Features))
}

// Component renders the card. toggleHref returns the link that applies an
// expansion state. A nil toggleHref renders the toggle as a plain button.
func (c *Card) Component(toggleHref func(expanded bool) string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw("<div")
		hw.Attr("class", components.Classes("comparison-card", components.If(c.props.Highlight, "highlight")))
		hw.Attr("style", "--card-color: "+c.props.Color)
		hw.Raw(">")

		hw.Open("div", "comparison-card-header")
		hw.Element("div", "comparison-card-logo", c.props.Logo)
		hw.Element("h3", "comparison-card-title", c.props.Provider)
		hw.Element("p", "comparison-card-tagline", c.props.Tagline)
		hw.Close("div")

		if len(c.props.Metrics) > 0 {
			hw.Open("div", "comparison-card-metrics")
			for _, m := range c.props.Metrics {
				hw.Open("div", "metric-item")
				hw.Element("span", "metric-label", m.Label)
				hw.Element("span", "metric-value", m.Value)
				hw.Close("div")
			}
			hw.Close("div")
		}

		hw.Open("div", components.Classes("comparison-card-features", components.If(c.expanded, "expanded")))
		hw.Element("h4", "", c.labels.CoreFeatures)
		hw.Raw("<ul>")
		for _, f := range c.VisibleFeatures() {
			hw.Raw("<li>")
			hw.Element("span", "feature-icon", "✓")
			hw.Element("span", "feature-text", f)
			hw.Raw("</li>")
		}
		hw.Raw("</ul>")
		hw.Close("div")

		if c.HasToggle() {
			if toggleHref != nil {
				hw.Raw(`<a class="comparison-card-toggle"`)
				hw.Attr("href", toggleHref(!c.expanded))
				hw.Raw(">")
				hw.Text(c.ToggleLabel())
				hw.Close("a")
			} else {
				hw.Element("button", "comparison-card-toggle", c.ToggleLabel())
			}
		}

		hw.Close("div")
		return hw.Err()
	})
}
