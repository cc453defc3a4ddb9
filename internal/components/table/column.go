package table

import (
	"github.com/a-h/templ"

	"github.com/conneroisu/showcase/internal/record"
)

// Type is the value-type hint of a column
type Type int

const (
	TypeString Type = iota
	TypeNumber
)

// String returns the string representation of the type
func (t Type) String() string {
	if t == TypeNumber {
		return "number"
	}
	return "string"
}

// Align is the horizontal alignment of a column's cells
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// RenderFunc renders a cell's value in place of the default formatting
type RenderFunc func(value record.Value, row record.Record) templ.Component

// Accessor reads a column's value out of a row
type Accessor func(row record.Record) record.Value

// Column describes how one attribute is labelled, sorted and rendered
type Column struct {
	Key   string
	Label string
	Type  Type
	Align Align

	// DisableSort excludes the column from header sorting. Columns sort by
	// default.
	DisableSort bool

	// HighlightBest marks the rows holding the column's maximum when the
	// table has best-value highlighting enabled.
	HighlightBest bool

	Render RenderFunc
	Value  Accessor
}

// Sortable reports whether the column participates in sorting
func (c Column) Sortable() bool {
	return !c.DisableSort
}

// Get returns the column's value for row
func (c Column) Get(row record.Record) record.Value {
	if c.Value != nil {
		return c.Value(row)
	}
	return row.Get(c.Key)
}

func (c Column) align() Align {
	if c.Align == "" {
		return AlignLeft
	}
	return c.Align
}
