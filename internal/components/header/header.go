// Package header implements the page header with its entrance animation.
package header

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/showcase/internal/components"
)

// Props are the header contents. Subtitle and Actions are optional.
type Props struct {
	Title    string
	Subtitle string
	Actions  templ.Component
}

// Component renders the header section.
func Component(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Open("section", "page-header bg-bg-secondary")
		hw.Open("div", "page-header-inner animate-entrance")
		hw.Element("h1", "page-header-title text-primary", p.Title)
		if p.Subtitle != "" {
			hw.Element("p", "page-header-subtitle text-text-secondary", p.Subtitle)
		}
		if p.Actions != nil {
			hw.Open("div", "page-header-actions")
			hw.Component(ctx, p.Actions)
			hw.Close("div")
		}
		hw.Close("div")
		hw.Close("section")
		return hw.Err()
	})
}
