// Package tabs implements the tabbed comparison container
package tabs

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/showcase/internal/components"
)

// Tab is one selectable pane
type Tab struct {
	ID      string
	Label   string
	Content templ.Component
	Icon    string
	Color   string
}

// Tabs tracks exactly one active tab
type Tabs struct {
	tabs   []Tab
	active string
}

// New creates the container. The active tab is defaultID when it names a
// tab, otherwise the first tab.
func New(tabs []Tab, defaultID string) *Tabs {
	t := &Tabs{tabs: tabs}
	if !t.Select(defaultID) && len(tabs) > 0 {
		t.active = tabs[0].ID
	}
	return t
}

// Tabs returns the tab descriptors
func (t *Tabs) Tabs() []Tab {
	return t.tabs
}

// Select activates the tab with id. Unknown ids are ignored and reported
// as false.
func (t *Tabs) Select(id string) bool {
	for _, tab := range t.tabs {
		if tab.ID == id {
			t.active = id
			return true
		}
	}
	return false
}

// ActiveID returns the active tab id, or "" when there are no tabs
func (t *Tabs) ActiveID() string {
	return t.active
}

// Active returns the active tab
func (t *Tabs) Active() (Tab, bool) {
	for _, tab := range t.tabs {
		if tab.ID == t.active {
			return tab, true
		}
	}
	return Tab{}, false
}

// Component renders the tab buttons and the active pane. href returns the
// link that selects a tab. A nil href renders plain buttons.
func (t *Tabs) Component(href func(id string) string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Open("div", "tab-comparison")

		hw.Open("div", "tab-comparison-header")
		for _, tab := range t.tabs {
			tag := "button"
			if href != nil {
				tag = "a"
			}
			hw.Raw("<" + tag)
			hw.Attr("class", components.Classes("tab-button", components.If(tab.ID == t.active, "active")))
			if href != nil {
				hw.Attr("href", href(tab.ID))
			}
			if tab.Color != "" {
				hw.Attr("style", "--tab-color: "+tab.Color)
			}
			hw.Raw(">")
			if tab.Icon != "" {
				hw.Element("span", "tab-icon", tab.Icon)
			}
			hw.Element("span", "tab-label", tab.Label)
			hw.Close(tag)
		}
		hw.Close("div")

		hw.Open("div", "tab-comparison-content")
		if active, ok := t.Active(); ok {
			hw.Component(ctx, active.Content)
		}
		hw.Close("div")

		hw.Close("div")
		return hw.Err()
	})
}
