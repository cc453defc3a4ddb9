package table

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"

	"github.com/conneroisu/showcase/internal/record"
)

// Direction is the sort direction
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc"
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection parses "asc" or "desc". Anything else is ascending.
func ParseDirection(s string) Direction {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

// SortState is the active sort column and direction. An empty Key applies
// no ordering.
type SortState struct {
	Key       string
	Direction Direction
}

// Active reports whether a sort column is set
func (s SortState) Active() bool {
	return s.Key != ""
}

// Toggle returns the state after a header click on key: the same column
// flips direction, a different column starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// compareValues orders two cell values. Two numbers compare numerically and
// everything else compares by collated text.
func compareValues(c *collate.Collator, a, b record.Value) int {
	an, aok := a.Number()
	bn, bok := b.Number()
	if aok && bok {
		return cmp.Compare(an, bn)
	}
	return c.CompareString(a.Text(), b.Text())
}

// sortRows returns a sorted copy of rows. The sort is stable, so rows that
// compare equal keep their original relative order in both directions.
func sortRows(c *collate.Collator, rows []record.Record, col Column, dir Direction) []record.Record {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b record.Record) int {
		result := compareValues(c, col.Get(a), col.Get(b))
		if dir == Descending {
			return -result
		}
		return result
	})
	return sorted
}
