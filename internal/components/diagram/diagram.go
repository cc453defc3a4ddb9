// Package diagram implements the animated diagram: DOT text rendered to an
// inline SVG that fades in, with an inline error when rendering fails.
package diagram

import (
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/conneroisu/showcase/internal/components"
	dg "github.com/conneroisu/showcase/internal/diagram"
	"github.com/conneroisu/showcase/internal/errors"
	"github.com/conneroisu/showcase/internal/logging"
)

// Option configures a Diagram
type Option func(*Diagram)

// WithLogger sets where render failures are reported
func WithLogger(l logging.Logger) Option {
	return func(d *Diagram) { d.logger = l }
}

// WithLabels sets the localized labels
func WithLabels(l components.Labels) Option {
	return func(d *Diagram) { d.labels = l }
}

// Diagram is the animated diagram view model. Renders run asynchronously;
// a result only lands if no newer Update was issued meanwhile.
type Diagram struct {
	engine dg.Engine
	class  string
	labels components.Labels
	logger logging.Logger

	mu      sync.Mutex
	code    string
	gen     uint64
	pending chan struct{}
	svg     string
	failed  bool
}

// New creates an empty diagram drawn by engine. class is appended to the
// container's classes.
func New(engine dg.Engine, class string, opts ...Option) *Diagram {
	d := &Diagram{
		engine: engine,
		class:  class,
		labels: components.LabelsFor(components.ParseLocale("")),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("diagram")
	return d
}

// Update sets the diagram text and starts a render. The returned channel is
// closed once this update has settled, whether its result was applied or
// superseded. Unchanged text does not re-render; while its render is still
// running the in-flight channel is returned.
func (d *Diagram) Update(ctx context.Context, code string) <-chan struct{} {
	d.mu.Lock()
	if code == d.code {
		pending := d.pending
		d.mu.Unlock()
		if pending != nil {
			return pending
		}
		return closed()
	}
	d.code = code
	d.gen++
	gen := d.gen
	if code == "" {
		d.svg, d.failed = "", false
		d.pending = nil
		d.mu.Unlock()
		return closed()
	}
	done := make(chan struct{})
	d.pending = done
	d.mu.Unlock()

	go func() {
		defer close(done)
		id := "diagram-" + uuid.NewString()
		svg, err := d.engine.Render(ctx, id, code)

		d.mu.Lock()
		defer d.mu.Unlock()
		if gen != d.gen {
			return
		}
		d.pending = nil
		if err != nil && ctx.Err() != nil {
			// abandoned by the caller; the next Update retries
			d.code = ""
			return
		}
		if err != nil {
			d.svg, d.failed = "", true
			d.logger.Error(ctx, &errors.RenderError{Component: "diagram", ID: id, Err: err}, "Diagram rendering failed")
			return
		}
		d.svg, d.failed = svg, false
	}()

	return done
}

func closed() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

// Code returns the most recently requested diagram text
func (d *Diagram) Code() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.code
}

// Markup returns the last applied SVG, or "" when nothing rendered.
func (d *Diagram) Markup() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.svg
}

// Failed reports whether the last applied render failed
func (d *Diagram) Failed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failed
}

// Component renders the current state. Nothing is written before the
// first successful render.
func (d *Diagram) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		d.mu.Lock()
		svg, failed := d.svg, d.failed
		d.mu.Unlock()

		hw := components.NewWriter(w)
		switch {
		case failed:
			hw.Element("div", components.Classes("diagram-error", d.class), d.labels.DiagramFailed)
		case svg != "":
			hw.Open("div", components.Classes("diagram", "animate-fade-in", d.class))
			hw.Raw(svg)
			hw.Close("div")
		}
		return hw.Err()
	})
}
