// Package modal implements the image zoom modal.
//
// While open, the modal listens on its document for Escape (which asks the
// parent to close it) and for wheel input (which zooms). It also suppresses
// page scrolling. Those listeners exist only while the modal is open and are
// released when it closes or unmounts, so repeated opens never stack
// handlers.
package modal

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/a-h/templ"

	"github.com/conneroisu/showcase/internal/components"
	"github.com/conneroisu/showcase/internal/dom"
)

// Zoom limits and defaults
const (
	DefaultScale     = 2.5
	MinScale         = 1.0
	MaxScale         = 8.0
	WheelSensitivity = -0.002
)

// Click targets inside the modal
const (
	TargetOverlay = "modal-overlay"
	TargetContent = "modal-content"
)

// NextScale returns the scale after a wheel event with deltaY
func NextScale(scale, deltaY float64) float64 {
	return Clamp(scale + deltaY*WheelSensitivity)
}

// Clamp limits scale to [MinScale, MaxScale]
func Clamp(scale float64) float64 {
	if math.IsNaN(scale) {
		return DefaultScale
	}
	return math.Min(math.Max(MinScale, scale), MaxScale)
}

// Modal is the zoom modal view model
type Modal struct {
	doc     *dom.Document
	onClose func()
	content templ.Component
	labels  components.Labels

	open     bool
	scale    float64
	releases []func()
}

// New creates a closed modal bound to doc. onClose is invoked whenever the
// user asks to close: Escape, the close button, or a click on the overlay.
func New(doc *dom.Document, onClose func(), content templ.Component, labels components.Labels) *Modal {
	if onClose == nil {
		onClose = func() {}
	}
	return &Modal{
		doc:     doc,
		onClose: onClose,
		content: content,
		labels:  labels,
		scale:   DefaultScale,
	}
}

// IsOpen reports whether the modal is shown
func (m *Modal) IsOpen() bool {
	return m.open
}

// Scale returns the current zoom scale
func (m *Modal) Scale() float64 {
	return m.scale
}

// Percent returns the zoom scale as a rounded percentage
func (m *Modal) Percent() int {
	return int(math.Round(m.scale * 100))
}

// SetOpen drives the open flag. Opening registers the keyboard and wheel
// listeners and hides page overflow. Closing releases them and resets the
// zoom.
func (m *Modal) SetOpen(open bool) {
	if open == m.open {
		return
	}
	if open {
		m.open = true
		m.releases = append(m.releases,
			m.doc.AddEventListener(dom.EventKeyDown, m.handleKey),
			m.doc.AddEventListener(dom.EventWheel, m.handleWheel),
			m.doc.AddTargetListener(TargetContent, dom.EventClick, func(e *dom.Event) { e.StopPropagation() }),
			m.doc.AddTargetListener(TargetOverlay, dom.EventClick, func(*dom.Event) { m.onClose() }),
		)
		m.doc.SetBodyOverflow("hidden")
		return
	}
	m.teardown()
}

// Unmount releases everything the modal registered
func (m *Modal) Unmount() {
	m.teardown()
}

func (m *Modal) teardown() {
	for _, release := range m.releases {
		release()
	}
	m.releases = nil
	if m.open {
		m.doc.SetBodyOverflow("unset")
	}
	m.open = false
	m.scale = DefaultScale
}

// ZoomTo restores a zoom scale, clamped to the allowed range. It has no
// effect while closed.
func (m *Modal) ZoomTo(scale float64) {
	if !m.open {
		return
	}
	m.scale = Clamp(scale)
}

func (m *Modal) handleKey(e *dom.Event) {
	if e.Key == dom.KeyEscape {
		m.onClose()
	}
}

func (m *Modal) handleWheel(e *dom.Event) {
	if !m.open {
		return
	}
	e.PreventDefault()
	m.scale = NextScale(m.scale, e.DeltaY)
}

// ClickOverlay dispatches a click on the overlay
func (m *Modal) ClickOverlay() {
	m.doc.Dispatch(&dom.Event{Type: dom.EventClick, Path: []string{TargetOverlay}})
}

// ClickContent dispatches a click inside the content, which sits within the
// overlay. The content listener stops propagation, so the overlay never
// sees it.
func (m *Modal) ClickContent() {
	m.doc.Dispatch(&dom.Event{Type: dom.EventClick, Path: []string{TargetContent, TargetOverlay}})
}

// Links builds the hrefs the rendered modal uses
type Links struct {
	Close string
	Zoom  func(scale float64) string
}

// Component renders the overlay while open and nothing while closed
func (m *Modal) Component(links Links) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !m.open {
			return nil
		}
		hw := components.NewWriter(w)
		hw.Raw(`<div class="modal-overlay"`)
		hw.OptAttr("data-close-href", links.Close)
		hw.Raw(">")
		hw.Open("div", "modal-content")

		closeTag := "button"
		if links.Close != "" {
			closeTag = "a"
		}
		hw.Raw("<" + closeTag + ` class="modal-close"`)
		hw.OptAttr("href", links.Close)
		hw.Attr("aria-label", m.labels.Close)
		hw.Raw(">")
		hw.Raw(closeIcon)
		hw.Close(closeTag)

		hw.Element("div", "modal-zoom-indicator", m.labels.ZoomHint(m.Percent()))

		if links.Zoom != nil {
			hw.Open("div", "modal-zoom-controls")
			hw.Raw("<a")
			hw.Attr("href", links.Zoom(NextScale(m.scale, 100)))
			hw.Attr("aria-label", m.labels.ZoomOut)
			hw.Raw(">−</a><a")
			hw.Attr("href", links.Zoom(NextScale(m.scale, -100)))
			hw.Attr("aria-label", m.labels.ZoomIn)
			hw.Raw(">+</a>")
			hw.Close("div")
		}

		hw.Open("div", "modal-body")
		hw.Raw("<div")
		hw.Attr("style", fmt.Sprintf("transform: scale(%g); transition: transform 0.1s", m.scale))
		hw.Raw(">")
		hw.Component(ctx, m.content)
		hw.Close("div")
		hw.Close("div")

		hw.Close("div")
		hw.Close("div")
		return hw.Err()
	})
}

const closeIcon = `<svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><line x1="18" y1="6" x2="6" y2="18"></line><line x1="6" y1="6" x2="18" y2="18"></line></svg>`
