package components

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Writer writes HTML fragments and remembers the first write error, so
// render functions can emit markup without checking every call.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes s without escaping
func (w *Writer) Raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// Text writes s with HTML escaping
func (w *Writer) Text(s string) {
	w.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped
func (w *Writer) Attr(name, value string) {
	w.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// OptAttr writes the attribute only when value is non-empty
func (w *Writer) OptAttr(name, value string) {
	if value != "" {
		w.Attr(name, value)
	}
}

// Open writes an opening tag with a class attribute. An empty class is
// omitted.
func (w *Writer) Open(tag, class string) {
	w.Raw("<" + tag)
	w.OptAttr("class", class)
	w.Raw(">")
}

// Close writes a closing tag
func (w *Writer) Close(tag string) {
	w.Raw("</" + tag + ">")
}

// Element writes a complete element with escaped text content
func (w *Writer) Element(tag, class, text string) {
	w.Open(tag, class)
	w.Text(text)
	w.Close(tag)
}

// Component renders a nested component in place. A nil component renders
// nothing.
func (w *Writer) Component(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

// Err returns the first error encountered
func (w *Writer) Err() error {
	return w.err
}

// Classes joins the non-empty class names with single spaces
func Classes(names ...string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, " ")
}

// If returns class when cond holds and the empty string otherwise
func If(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}

// Text returns a component that renders s escaped
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}
