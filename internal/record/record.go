// Package record provides the caller-supplied view models that the
// comparison components render.
//
// A Record is a flat map from attribute key to Value. Value is a small tagged
// union over the kinds a comparison cell can hold: text, numbers, booleans
// and the tri-state support flag. Records are decoded from YAML fixtures,
// where a scalar's tag decides its kind and the literal "partial" becomes a
// partial support flag.
package record

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies which field of a Value is meaningful
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindSupport
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindSupport:
		return "support"
	default:
		return "unknown"
	}
}

// Support is the tri-state capability flag
type Support int

const (
	Unsupported Support = iota
	Partial
	Supported
)

// String returns the string representation of the support level
func (s Support) String() string {
	switch s {
	case Supported:
		return "supported"
	case Partial:
		return "partial"
	default:
		return "unsupported"
	}
}

// Value is a single cell value. The zero Value is null.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	support Support
}

// Null returns the null value used for missing keys
func Null() Value { return Value{} }

// String wraps a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric value
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int wraps an integer as a numeric value
func Int(n int) Value { return Number(float64(n)) }

// Bool wraps a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// SupportOf wraps a tri-state support flag
func SupportOf(s Support) Value { return Value{kind: KindSupport, support: s} }

// Kind returns the kind of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric payload and whether the value is a number
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Bool returns the boolean payload and whether the value is a boolean
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

// Support interprets the value as a tri-state flag. true is Supported, the
// string "partial" is Partial, and everything else is Unsupported.
func (v Value) Support() Support {
	switch v.kind {
	case KindSupport:
		return v.support
	case KindBool:
		if v.boolean {
			return Supported
		}
	case KindString:
		if v.str == "partial" {
			return Partial
		}
	}
	return Unsupported
}

// Text formats the value for display and for string comparison.
// Null formats as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindSupport:
		return v.support.String()
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.boolean == o.boolean
	case KindSupport:
		return v.support == o.support
	default:
		return true
	}
}

// GoString implements fmt.GoStringer for readable test failures
func (v Value) GoString() string {
	return fmt.Sprintf("record.Value{%s: %q}", v.kind, v.Text())
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// UnmarshalYAML decodes a scalar into the matching kind using its resolved tag
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: record values must be scalars", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		*v = Null()
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = Bool(b)
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = Number(f)
	default:
		if node.Value == "partial" {
			*v = SupportOf(Partial)
			return nil
		}
		*v = String(node.Value)
	}
	return nil
}

// MarshalYAML encodes the value as its natural scalar
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindNumber:
		return v.num, nil
	case KindBool:
		return v.boolean, nil
	case KindSupport:
		switch v.support {
		case Supported:
			return true, nil
		case Partial:
			return "partial", nil
		default:
			return false, nil
		}
	default:
		return nil, nil
	}
}

// Record is one entity's data keyed by attribute
type Record map[string]Value

// Get returns the value for key, or null when the key is absent
func (r Record) Get(key string) Value {
	if r == nil {
		return Null()
	}
	return r[key]
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
