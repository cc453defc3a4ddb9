package renderer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/showcase/internal/components"
	"github.com/conneroisu/showcase/internal/components/card"
	diagramc "github.com/conneroisu/showcase/internal/components/diagram"
	"github.com/conneroisu/showcase/internal/components/grid"
	"github.com/conneroisu/showcase/internal/components/header"
	"github.com/conneroisu/showcase/internal/components/modal"
	"github.com/conneroisu/showcase/internal/components/table"
	"github.com/conneroisu/showcase/internal/components/tabs"
	"github.com/conneroisu/showcase/internal/dom"
	"github.com/conneroisu/showcase/internal/errors"
	"github.com/conneroisu/showcase/internal/fixtures"
)

// DiagramTimeout bounds how long a page waits for one diagram.
var DiagramTimeout = 10 * time.Second

func (r *Renderer) section(ctx context.Context, pc pageContext, s *fixtures.Section) (templ.Component, error) {
	switch s.Kind {
	case fixtures.KindHeader:
		return r.header(s.Header), nil
	case fixtures.KindTable:
		return r.table(pc, s), nil
	case fixtures.KindGrid:
		g := grid.New(s.Grid.Entities, s.Grid.Features, s.Grid.SupportMap(), pc.labels)
		return g.Component(), nil
	case fixtures.KindCard:
		return r.card(pc, s.ID, *s.Card), nil
	case fixtures.KindTabs:
		return r.tabs(ctx, pc, s)
	case fixtures.KindModal:
		return r.modal(pc, s), nil
	case fixtures.KindDiagram:
		return r.diagram(ctx, pc, s)
	case fixtures.KindText:
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			hw := components.NewWriter(w)
			hw.Element("p", "section-text text-text-secondary", s.Text)
			return hw.Err()
		}), nil
	default:
		return nil, fmt.Errorf("kind %q: %w", s.Kind, errors.ErrUnknownKind)
	}
}

func (r *Renderer) header(p *fixtures.HeaderProps) templ.Component {
	props := header.Props{Title: p.Title, Subtitle: p.Subtitle}
	if len(p.Actions) > 0 {
		props.Actions = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			hw := components.NewWriter(w)
			for _, a := range p.Actions {
				hw.Raw(`<a class="bg-accent text-text-primary"`)
				hw.Attr("href", a.Href)
				hw.Raw(">")
				hw.Text(a.Label)
				hw.Close("a")
			}
			return hw.Err()
		})
	}
	return header.Component(props)
}

// Columns converts the YAML column specs
func Columns(specs []fixtures.ColumnSpec) []table.Column {
	cols := make([]table.Column, len(specs))
	for i, c := range specs {
		col := table.Column{
			Key:           c.Key,
			Label:         c.Label,
			Align:         table.Align(c.Align),
			DisableSort:   c.Sortable != nil && !*c.Sortable,
			HighlightBest: c.HighlightBest,
		}
		if c.Type == "number" {
			col.Type = table.TypeNumber
		}
		cols[i] = col
	}
	return cols
}

func (r *Renderer) table(pc pageContext, s *fixtures.Section) templ.Component {
	p := s.Table
	interactive := p.Interactive == nil || *p.Interactive
	t := table.New(p.Rows, Columns(p.Columns),
		table.WithInteractive(interactive),
		table.WithHighlightBest(p.HighlightBest),
		table.WithLocale(pc.tag),
	)
	if key := pc.state.Get(s.ID, "sort"); key != "" {
		t.SetSortState(table.SortState{Key: key, Direction: table.ParseDirection(pc.state.Get(s.ID, "dir"))})
	}

	var links table.LinkFunc
	if !r.opts.Static {
		links = func(next table.SortState) string {
			return pc.state.With(s.ID, "sort", next.Key).With(s.ID, "dir", next.Direction.String()).Href()
		}
	}
	return t.Component(links)
}

func (r *Renderer) card(pc pageContext, id string, props card.Props) templ.Component {
	c := card.New(props, r.currentTokens().Color("accent"), pc.labels)
	c.SetExpanded(pc.state.Bool(id, "expand"))

	var href func(bool) string
	if !r.opts.Static {
		href = func(expanded bool) string {
			if expanded {
				return pc.state.With(id, "expand", "1").Href()
			}
			return pc.state.Without(id, "expand").Href()
		}
	}
	return c.Component(href)
}

func (r *Renderer) tabs(ctx context.Context, pc pageContext, s *fixtures.Section) (templ.Component, error) {
	items := make([]tabs.Tab, 0, len(s.Tabs.Items))
	for i := range s.Tabs.Items {
		spec := &s.Tabs.Items[i]
		content, err := r.section(ctx, pc, &spec.Content)
		if err != nil {
			return nil, err
		}
		items = append(items, tabs.Tab{
			ID:      spec.ID,
			Label:   spec.Label,
			Icon:    spec.Icon,
			Color:   spec.Color,
			Content: content,
		})
	}

	t := tabs.New(items, s.Tabs.Default)
	if id := pc.state.Get(s.ID, "tab"); id != "" {
		t.Select(id)
	}

	var href func(string) string
	if !r.opts.Static {
		href = func(tab string) string {
			return pc.state.With(s.ID, "tab", tab).Href()
		}
	}
	return t.Component(href), nil
}

// modal renders the trigger image and, when the state says so, the open
// modal. The modal is mounted on a fresh document for this render and
// unmounted afterwards.
func (r *Renderer) modal(pc pageContext, s *fixtures.Section) templ.Component {
	p := s.Modal
	image := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw("<img")
		hw.Attr("src", p.Src)
		hw.Attr("alt", p.Alt)
		hw.Raw(">")
		if p.Caption != "" {
			hw.Element("p", "modal-caption text-text-secondary", p.Caption)
		}
		return hw.Err()
	})

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc := dom.NewDocument()
		var m *modal.Modal
		m = modal.New(doc, func() { m.SetOpen(false) }, image, pc.labels)
		defer m.Unmount()

		m.SetOpen(pc.state.Bool(s.ID, "open"))
		if scale, ok := pc.state.Float(s.ID, "zoom"); ok {
			m.ZoomTo(scale)
		}

		hw := components.NewWriter(w)
		var links modal.Links
		if r.opts.Static {
			hw.Open("div", "modal-trigger")
		} else {
			hw.Raw(`<a class="modal-trigger"`)
			hw.Attr("href", pc.state.With(s.ID, "open", "1").Href())
			hw.Raw(">")
			links = modal.Links{
				Close: pc.state.Without(s.ID, "open", "zoom").Href(),
				Zoom: func(scale float64) string {
					return pc.state.With(s.ID, "zoom", FormatScale(scale)).Href()
				},
			}
		}
		hw.Component(ctx, image)
		if r.opts.Static {
			hw.Close("div")
		} else {
			hw.Close("a")
		}
		hw.Component(ctx, m.Component(links))
		return hw.Err()
	})
}

// diagram waits for the render to settle. Diagram view models are kept per
// section so unchanged text is not laid out again.
func (r *Renderer) diagram(ctx context.Context, pc pageContext, s *fixtures.Section) (templ.Component, error) {
	p := s.Diagram
	if r.opts.Engine == nil {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			hw := components.NewWriter(w)
			hw.Element("pre", "diagram-source", p.Code)
			return hw.Err()
		}), nil
	}

	key := pc.fixture.Name + "/" + s.ID
	r.mu.Lock()
	d, ok := r.diagrams[key]
	if !ok {
		d = diagramc.New(r.opts.Engine, p.Class,
			diagramc.WithLogger(r.opts.Logger),
			diagramc.WithLabels(pc.labels),
		)
		r.diagrams[key] = d
	}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, DiagramTimeout)
	defer cancel()
	select {
	case <-d.Update(ctx, p.Code):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return d.Component(), nil
}
