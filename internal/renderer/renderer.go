// Package renderer assembles preview pages from fixtures. Each section is
// turned into its component view model, the request's view state is applied,
// and the result is wrapped in the page layout.
package renderer

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/conneroisu/showcase/internal/components"
	diagramc "github.com/conneroisu/showcase/internal/components/diagram"
	"github.com/conneroisu/showcase/internal/diagram"
	"github.com/conneroisu/showcase/internal/errors"
	"github.com/conneroisu/showcase/internal/fixtures"
	"github.com/conneroisu/showcase/internal/logging"
	"github.com/conneroisu/showcase/internal/tokens"
)

// Options configures a Renderer
type Options struct {
	Tokens    tokens.Tokens
	Engine    diagram.Engine // nil disables diagram rendering
	Logger    logging.Logger
	SiteTitle string
	BaseURL   string
	Locale    string
	// LiveReload adds the websocket reload script to every page.
	LiveReload bool
	// Static renders pages without state links, for the static build.
	Static bool
}

// Renderer builds pages. It is safe for concurrent use.
type Renderer struct {
	opts   Options
	logger logging.Logger
	locale language.Tag

	mu       sync.Mutex
	tok      tokens.Tokens
	diagrams map[string]*diagramc.Diagram
}

// New creates a renderer
func New(opts Options) *Renderer {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "/"
	}
	if opts.SiteTitle == "" {
		opts.SiteTitle = "Showcase"
	}
	return &Renderer{
		opts:     opts,
		logger:   opts.Logger.WithComponent("renderer"),
		locale:   components.ParseLocale(opts.Locale),
		tok:      opts.Tokens,
		diagrams: make(map[string]*diagramc.Diagram),
	}
}

// Page renders a full HTML document for f with state applied.
func (r *Renderer) Page(f *fixtures.Fixture, state State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pc := r.pageContext(f, state)

		hw := components.NewWriter(w)
		r.head(hw, f.Title+" · "+r.opts.SiteTitle, pc.tag)
		hw.Open("main", "container-custom")
		if f.Description != "" {
			hw.Element("p", "fixture-description text-text-secondary", f.Description)
		}
		for i := range f.Sections {
			hw.Component(ctx, r.isolated(pc, &f.Sections[i]))
		}
		hw.Close("main")
		r.foot(hw)
		return hw.Err()
	})
}

// Index renders the fixture listing. overlay is raw HTML shown above the
// list, typically load failures.
func (r *Renderer) Index(list []*fixtures.Fixture, overlay string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		r.head(hw, r.opts.SiteTitle, r.locale)
		hw.Open("main", "container-custom")
		hw.Element("h1", "text-primary", r.opts.SiteTitle)
		hw.Raw(overlay)
		hw.Open("ul", "fixture-list")
		for _, f := range list {
			hw.Raw("<li><a")
			hw.Attr("href", r.PageHref(f.Name))
			hw.Raw(">")
			hw.Text(f.Title)
			hw.Close("a")
			if f.Description != "" {
				hw.Element("span", "text-text-secondary", f.Description)
			}
			hw.Raw("</li>")
		}
		hw.Close("ul")
		hw.Close("main")
		r.foot(hw)
		return hw.Err()
	})
}

// SetTokens swaps the design tokens used for later renders
func (r *Renderer) SetTokens(t tokens.Tokens) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tok = t
}

func (r *Renderer) currentTokens() tokens.Tokens {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tok
}

// Forget drops cached diagram state, for use after fixtures reload.
func (r *Renderer) Forget() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagrams = make(map[string]*diagramc.Diagram)
}

// PageHref is the link to a fixture page. Static builds link to .html
// files next to the index.
func (r *Renderer) PageHref(name string) string {
	if r.opts.Static {
		return r.opts.BaseURL + name + ".html"
	}
	return r.opts.BaseURL + "preview/" + name
}

func (r *Renderer) head(hw *components.Writer, title string, tag language.Tag) {
	hw.Raw("<!DOCTYPE html><html")
	hw.Attr("lang", tag.String())
	hw.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	hw.Element("title", "", title)
	hw.Raw(`<link rel="stylesheet"`)
	hw.Attr("href", r.opts.BaseURL+"tokens.css")
	hw.Raw(`></head><body class="bg-bg-primary text-text-primary">`)
}

func (r *Renderer) foot(hw *components.Writer) {
	if r.opts.LiveReload && !r.opts.Static {
		hw.Raw(reloadScript)
	}
	hw.Raw("</body></html>")
}

// pageContext carries the per-request inputs every section builder needs.
type pageContext struct {
	fixture *fixtures.Fixture
	state   State
	tag     language.Tag
	labels  components.Labels
}

func (r *Renderer) pageContext(f *fixtures.Fixture, state State) pageContext {
	tag := r.locale
	if f.Locale != "" {
		tag = components.ParseLocale(f.Locale)
	}
	return pageContext{fixture: f, state: state, tag: tag, labels: components.LabelsFor(tag)}
}

// isolated renders one section into a buffer so a failure stays local to
// that section.
func (r *Renderer) isolated(pc pageContext, s *fixtures.Section) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		hw := components.NewWriter(&buf)
		hw.Raw("<section")
		hw.Attr("class", "section")
		hw.Attr("id", s.ID)
		hw.Raw(">")
		if s.Heading != "" {
			hw.Element("h2", "section-heading text-primary", s.Heading)
		}
		body, err := r.section(ctx, pc, s)
		if err == nil {
			hw.Component(ctx, body)
			err = hw.Err()
		}
		if err != nil {
			err = &errors.RenderError{Component: string(s.Kind), ID: s.ID, Err: err}
			r.logger.Error(ctx, err, "Section render failed", "fixture", pc.fixture.Name)
			buf.Reset()
			hw = components.NewWriter(&buf)
			hw.Raw("<section")
			hw.Attr("class", "section")
			hw.Attr("id", s.ID)
			hw.Raw(">")
			hw.Element("div", "section-error", err.Error())
		}
		hw.Close("section")
		if err := hw.Err(); err != nil {
			return err
		}
		_, err = w.Write(buf.Bytes())
		return err
	})
}

const reloadScript = `<script>
(function() {
  function connect() {
    var protocol = window.location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + window.location.host + '/ws');
    ws.onmessage = function(event) {
      var message = JSON.parse(event.data);
      if (message.type === 'full_reload') {
        window.location.reload();
      }
    };
    ws.onclose = function() { setTimeout(connect, 2000); };
  }
  connect();
})();
</script>`
