// Package table implements the sortable comparison table.
//
// A Table holds caller-supplied rows and column descriptors plus its own
// view state: the sort column and direction, and the hovered row. Rows are
// never reordered in place. Rows derives a fresh ordering on every call, and
// ties keep their original relative order.
package table

import (
	"context"
	"io"
	"math"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/conneroisu/showcase/internal/components"
	"github.com/conneroisu/showcase/internal/record"
)

// Glyphs used for boolean cells and sort indicators
const (
	GlyphTrue     = "✓"
	GlyphFalse    = "✗"
	GlyphAsc      = "↑"
	GlyphDesc     = "↓"
	GlyphUnsorted = "⇅"
)

// Option configures a Table
type Option func(*Table)

// WithInteractive enables or disables header sorting and row hover.
// Tables are interactive by default.
func WithInteractive(interactive bool) Option {
	return func(t *Table) { t.interactive = interactive }
}

// WithHighlightBest enables best-value highlighting for columns that ask
// for it.
func WithHighlightBest(highlight bool) Option {
	return func(t *Table) { t.highlightBest = highlight }
}

// WithLocale sets the collation locale for string comparison
func WithLocale(tag language.Tag) Option {
	return func(t *Table) { t.locale = tag }
}

// Table is the comparison table view model
type Table struct {
	rows          []record.Record
	columns       []Column
	interactive   bool
	highlightBest bool
	locale        language.Tag

	sort        SortState
	highlighted int
	collator    *collate.Collator
}

// New creates a table over rows and columns
func New(rows []record.Record, columns []Column, opts ...Option) *Table {
	t := &Table{
		rows:        rows,
		columns:     columns,
		interactive: true,
		locale:      language.English,
		highlighted: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.collator = collate.New(t.locale)
	return t
}

// Columns returns the column descriptors
func (t *Table) Columns() []Column {
	return t.columns
}

// Interactive reports whether sorting and hover are enabled
func (t *Table) Interactive() bool {
	return t.interactive
}

// SortState returns the current sort configuration
func (t *Table) SortState() SortState {
	return t.sort
}

// SetSortState restores a sort configuration, for example one decoded from
// a request. Unknown or non-sortable columns clear the sort, and a
// non-interactive table never sorts.
func (t *Table) SetSortState(s SortState) {
	if !t.interactive {
		t.sort = SortState{}
		return
	}
	if _, ok := t.sortableColumn(s.Key); !ok {
		t.sort = SortState{}
		return
	}
	t.sort = s
}

// Sort handles a click on the header of column key
func (t *Table) Sort(key string) {
	if !t.interactive {
		return
	}
	if _, ok := t.sortableColumn(key); !ok {
		return
	}
	t.sort = t.sort.Toggle(key)
}

func (t *Table) column(key string) (Column, bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

func (t *Table) sortableColumn(key string) (Column, bool) {
	c, ok := t.column(key)
	if !ok || !c.Sortable() {
		return Column{}, false
	}
	return c, true
}

// Rows returns the rows in display order
func (t *Table) Rows() []record.Record {
	col, ok := t.column(t.sort.Key)
	if !t.sort.Active() || !ok {
		return t.rows
	}
	return sortRows(t.collator, t.rows, col, t.sort.Direction)
}

// Hover marks the row at display index i as highlighted
func (t *Table) Hover(i int) {
	if !t.interactive {
		return
	}
	t.highlighted = i
}

// Leave clears the highlighted row
func (t *Table) Leave() {
	if !t.interactive {
		return
	}
	t.highlighted = -1
}

// Highlighted returns the highlighted display index, if any
func (t *Table) Highlighted() (int, bool) {
	return t.highlighted, t.highlighted >= 0
}

// BestValue returns the maximum numeric value of column key across all
// rows. It reports false when highlighting is off for the table or the
// column, when the column is not numeric, or when no row holds a number.
func (t *Table) BestValue(key string) (float64, bool) {
	col, ok := t.column(key)
	if !ok || !t.highlightBest || !col.HighlightBest || col.Type != TypeNumber {
		return 0, false
	}

	best, found := math.Inf(-1), false
	for _, row := range t.rows {
		if n, ok := col.Get(row).Number(); ok && !math.IsNaN(n) {
			best = math.Max(best, n)
			found = true
		}
	}
	return best, found
}

// IsBest reports whether row holds the best value of column key
func (t *Table) IsBest(row record.Record, key string) bool {
	best, ok := t.BestValue(key)
	if !ok {
		return false
	}
	col, _ := t.column(key)
	n, ok := col.Get(row).Number()
	return ok && n == best
}

// Cell returns the rendered content of row's cell in col
func (t *Table) Cell(row record.Record, col Column) templ.Component {
	v := col.Get(row)
	if col.Render != nil {
		return col.Render(v, row)
	}
	return components.Text(CellText(v))
}

// CellText is the default formatting of a cell value
func CellText(v record.Value) string {
	if b, ok := v.Bool(); ok {
		if b {
			return GlyphTrue
		}
		return GlyphFalse
	}
	return v.Text()
}

// Label returns the column header text. A column without a label gets its
// key in title case.
func (t *Table) Label(col Column) string {
	if col.Label != "" {
		return col.Label
	}
	return cases.Title(t.locale).String(col.Key)
}

// SortIcon returns the header indicator for col
func (t *Table) SortIcon(col Column) string {
	if t.sort.Key != col.Key {
		return GlyphUnsorted
	}
	if t.sort.Direction == Descending {
		return GlyphDesc
	}
	return GlyphAsc
}

// LinkFunc returns the href that applies a sort state
type LinkFunc func(SortState) string

// Component renders the table. links builds header hrefs. A nil links
// renders headers without links.
func (t *Table) Component(links LinkFunc) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Open("div", "comparison-table-wrapper")
		hw.Open("table", "comparison-table")

		hw.Raw("<thead><tr>")
		for _, col := range t.columns {
			sortable := t.interactive && col.Sortable()
			hw.Open("th", components.Classes(
				components.If(sortable, "sortable"),
				components.If(t.sort.Key == col.Key, "sorted"),
			))
			hw.Open("div", "th-content")
			if sortable && links != nil {
				hw.Raw("<a")
				hw.Attr("href", links(t.sort.Toggle(col.Key)))
				hw.Raw(">")
				hw.Element("span", "", t.Label(col))
				hw.Close("a")
			} else {
				hw.Element("span", "", t.Label(col))
			}
			if sortable {
				hw.Element("span", "sort-icon", t.SortIcon(col))
			}
			hw.Close("div")
			hw.Close("th")
		}
		hw.Raw("</tr></thead>")

		hw.Raw("<tbody>")
		for i, row := range t.Rows() {
			hw.Open("tr", components.Classes(
				components.If(t.highlighted == i, "highlighted"),
				components.If(t.interactive, "interactive-row"),
			))
			for _, col := range t.columns {
				hw.Open("td", components.Classes(
					string(col.align()),
					components.If(t.IsBest(row, col.Key), "best-value"),
				))
				hw.Component(ctx, t.Cell(row, col))
				hw.Close("td")
			}
			hw.Close("tr")
		}
		hw.Raw("</tbody>")

		hw.Close("table")
		hw.Close("div")
		return hw.Err()
	})
}
