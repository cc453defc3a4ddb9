package renderer

import (
	"math"
	"net/url"
	"strconv"
)

// State is the view state of a page, keyed "<section id>.<field>". It is
// carried in the query string so every link encodes the next state.
type State struct {
	values url.Values
}

// ParseState reads the state from query parameters
func ParseState(q url.Values) State {
	values := make(url.Values, len(q))
	for k, v := range q {
		if len(v) > 0 {
			values.Set(k, v[len(v)-1])
		}
	}
	return State{values: values}
}

func key(id, field string) string { return id + "." + field }

// Get returns one field of a section's state
func (s State) Get(id, field string) string {
	return s.values.Get(key(id, field))
}

// Bool reports whether a flag field is set to "1"
func (s State) Bool(id, field string) bool {
	return s.Get(id, field) == "1"
}

// Float parses a decimal field, rejecting NaN and infinities
func (s State) Float(id, field string) (float64, bool) {
	f, err := strconv.ParseFloat(s.Get(id, field), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// With returns a copy with the field set. An empty value removes it.
func (s State) With(id, field, value string) State {
	values := make(url.Values, len(s.values)+1)
	for k, v := range s.values {
		values[k] = v
	}
	if value == "" {
		values.Del(key(id, field))
	} else {
		values.Set(key(id, field), value)
	}
	return State{values: values}
}

// Without returns a copy with the fields removed
func (s State) Without(id string, fields ...string) State {
	out := s
	for _, f := range fields {
		out = out.With(id, f, "")
	}
	return out
}

// Href is the relative link that applies this state to the current page.
func (s State) Href() string {
	return "?" + s.values.Encode()
}

// FormatScale renders a zoom scale with at most two decimals
func FormatScale(scale float64) string {
	return strconv.FormatFloat(math.Round(scale*100)/100, 'f', -1, 64)
}
