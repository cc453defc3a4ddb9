// Package diagram turns Graphviz DOT text into inline SVG.
//
// The engine is created once at startup with [NewGraphviz] and handed to
// every diagram component. Its theme comes from the design tokens and is
// injected as default graph, node and edge attributes, so attributes in the
// diagram text still win.
package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/conneroisu/showcase/internal/tokens"
)

// ErrEmpty is returned for blank diagram text.
var ErrEmpty = errors.New("empty diagram")

// Engine renders diagram text into markup carrying the given element id.
type Engine interface {
	Render(ctx context.Context, id, code string) (string, error)
}

// Graphviz is an Engine backed by an in-process Graphviz instance.
type Graphviz struct {
	mu    sync.Mutex
	gv    *graphviz.Graphviz
	theme tokens.DiagramTheme
}

// NewGraphviz initializes the Graphviz runtime with theme.
func NewGraphviz(ctx context.Context, theme tokens.DiagramTheme) (*Graphviz, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	return &Graphviz{gv: gv, theme: theme}, nil
}

// Render parses code as DOT, lays it out and returns an SVG element whose
// id attribute is id.
func (g *Graphviz) Render(ctx context.Context, id, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrEmpty
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	themed, err := Themed(code, g.theme)
	if err != nil {
		return "", err
	}

	// the underlying runtime is not safe for concurrent use
	g.mu.Lock()
	defer g.mu.Unlock()

	graph, err := graphviz.ParseBytes([]byte(themed))
	if err != nil {
		return "", fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := g.gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return Inline(buf.Bytes(), id), nil
}

// Close releases the Graphviz runtime.
func (g *Graphviz) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gv.Close()
}

// Themed inserts the theme's default attributes right after the opening
// brace of the graph body.
func Themed(code string, theme tokens.DiagramTheme) (string, error) {
	i := bodyStart(code)
	if i < 0 {
		return "", fmt.Errorf("parse DOT: missing graph body")
	}
	return code[:i+1] + "\n" + Defaults(theme) + code[i+1:], nil
}

// bodyStart returns the index of the brace opening the graph body, skipping
// quoted and HTML IDs and comments, or -1.
func bodyStart(code string) int {
	for i := 0; i < len(code); i++ {
		switch c := code[i]; {
		case c == '{':
			return i
		case c == '"':
			for i++; i < len(code) && code[i] != '"'; i++ {
				if code[i] == '\\' {
					i++
				}
			}
		case c == '<':
			for depth := 1; depth > 0 && i+1 < len(code); {
				i++
				switch code[i] {
				case '<':
					depth++
				case '>':
					depth--
				}
			}
		case c == '/' && strings.HasPrefix(code[i:], "//"), c == '#':
			if j := strings.IndexByte(code[i:], '\n'); j >= 0 {
				i += j
			} else {
				return -1
			}
		case strings.HasPrefix(code[i:], "/*"):
			j := strings.Index(code[i+2:], "*/")
			if j < 0 {
				return -1
			}
			i += j + 3
		}
	}
	return -1
}

// Defaults renders theme as DOT default attribute statements.
func Defaults(theme tokens.DiagramTheme) string {
	var b strings.Builder
	writeStmt(&b, "graph", [][2]string{
		{"bgcolor", theme.Background},
		{"fontname", theme.FontFamily},
		{"fontcolor", theme.PrimaryTextColor},
		{"color", theme.ClusterBorder},
		{"fillcolor", theme.ClusterBackground},
		{"nodesep", num(theme.NodeSpacing)},
		{"ranksep", num(theme.RankSpacing)},
	})
	writeStmt(&b, "node", [][2]string{
		{"shape", "box"},
		{"style", "rounded,filled"},
		{"fillcolor", theme.PrimaryColor},
		{"color", theme.PrimaryBorderColor},
		{"fontcolor", theme.PrimaryTextColor},
		{"fontname", theme.FontFamily},
		{"fontsize", num(theme.FontSize)},
	})
	writeStmt(&b, "edge", [][2]string{
		{"color", theme.LineColor},
		{"fillcolor", theme.SecondaryColor},
		{"fontcolor", theme.PrimaryTextColor},
		{"fontname", theme.FontFamily},
		{"fontsize", num(theme.FontSize * 0.875)},
	})
	return b.String()
}

func writeStmt(b *strings.Builder, kind string, attrs [][2]string) {
	parts := make([]string, 0, len(attrs))
	for _, kv := range attrs {
		if kv[1] == "" {
			continue
		}
		parts = append(parts, kv[0]+"="+strconv.Quote(kv[1]))
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s [%s];\n", kind, strings.Join(parts, ", "))
}

func num(f float64) string {
	if f <= 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// Inline strips the XML prologue Graphviz emits and rewrites the root tag
// so the element scales with its container and carries id.
func Inline(svg []byte, id string) string {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return string(svg)
	}
	svg = svg[start:]

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" id=%q`, id)
	if m := viewBoxRe.FindSubmatch(svg); m != nil {
		w, _ := strconv.ParseFloat(string(m[3]), 64)
		h, _ := strconv.ParseFloat(string(m[4]), 64)
		if w > 0 && h > 0 {
			tag += fmt.Sprintf(` viewBox="0 0 %.2f %.2f" width="100%%" style="max-width: %.0fpx"`, w, h, w)
		}
	}
	tag += ">"

	loc := svgTagRe.FindIndex(svg)
	return tag + string(svg[loc[1]:])
}
