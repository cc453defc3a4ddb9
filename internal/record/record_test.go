package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValueText(t *testing.T) {
	testCases := []struct {
		name     string
		value    Value
		expected string
	}{
		{"null", Null(), ""},
		{"string", String("fast"), "fast"},
		{"integer", Int(5), "5"},
		{"float", Number(1.25), "1.25"},
		{"bool", Bool(true), "true"},
		{"partial", SupportOf(Partial), "partial"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.value.Text())
		})
	}
}

func TestValueSupport(t *testing.T) {
	assert.Equal(t, Supported, Bool(true).Support())
	assert.Equal(t, Unsupported, Bool(false).Support())
	assert.Equal(t, Partial, String("partial").Support())
	assert.Equal(t, Unsupported, String("yes").Support())
	assert.Equal(t, Unsupported, Null().Support())
	assert.Equal(t, Partial, SupportOf(Partial).Support())
}

func TestRecordGetMissingKeyIsNull(t *testing.T) {
	r := Record{"a": Int(1)}
	assert.True(t, r.Get("missing").IsNull())

	var empty Record
	assert.True(t, empty.Get("a").IsNull())
}

func TestValueUnmarshalYAML(t *testing.T) {
	src := `
name: Acme
price: 12
ratio: 0.5
streaming: true
tools: partial
note: ~
`
	var r Record
	require.NoError(t, yaml.Unmarshal([]byte(src), &r))

	assert.Equal(t, KindString, r.Get("name").Kind())

	n, ok := r.Get("price").Number()
	require.True(t, ok)
	assert.Equal(t, 12.0, n)

	n, ok = r.Get("ratio").Number()
	require.True(t, ok)
	assert.Equal(t, 0.5, n)

	b, ok := r.Get("streaming").Bool()
	require.True(t, ok)
	assert.True(t, b)

	assert.Equal(t, Partial, r.Get("tools").Support())
	assert.True(t, r.Get("note").IsNull())
}

func TestValueUnmarshalRejectsNested(t *testing.T) {
	var r Record
	err := yaml.Unmarshal([]byte("a: [1, 2]"), &r)
	assert.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(5).Equal(Number(5)))
	assert.False(t, Int(5).Equal(String("5")))
	assert.True(t, Null().Equal(Value{}))
}
