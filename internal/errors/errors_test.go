package errors

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError(t *testing.T) {
	cause := errors.New("syntax error in graph")
	err := &RenderError{Component: "diagram", ID: "flow", Err: cause}

	assert.Equal(t, `render diagram "flow": syntax error in graph`, err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("page: %w", err)
	var re *RenderError
	require.True(t, As(wrapped, &re))
	assert.Equal(t, "flow", re.ID)
}

func TestRenderErrorWithoutID(t *testing.T) {
	err := &RenderError{Component: "table", Err: errors.New("x")}
	assert.Equal(t, "render table: x", err.Error())
}

func TestFixtureError(t *testing.T) {
	tests := []struct {
		name string
		err  *FixtureError
		want string
	}{
		{
			name: "file only",
			err:  &FixtureError{File: "a.yml", Message: "missing title"},
			want: "a.yml: missing title",
		},
		{
			name: "with section",
			err:  &FixtureError{File: "a.yml", Section: "plans", Message: "bad kind", Err: ErrUnknownKind},
			want: "a.yml [plans]: bad kind: unknown section kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	assert.True(t, Is(&FixtureError{File: "a", Err: ErrUnknownKind}, ErrUnknownKind))
}

func TestErrorCollector(t *testing.T) {
	collector := NewErrorCollector()
	assert.False(t, collector.HasErrors())
	assert.NoError(t, collector.Err())
	assert.Empty(t, collector.ErrorOverlay())

	collector.Add("pricing", nil)
	assert.False(t, collector.HasErrors())

	collector.Add("pricing", errors.New("bad table"))
	collector.Add("features", errors.New("bad <grid>"))
	collector.Add("pricing", errors.New("bad card"))

	assert.True(t, collector.HasErrors())
	assert.Len(t, collector.Entries(), 3)
	assert.Len(t, collector.ByFixture("pricing"), 2)

	err := collector.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing: bad table")
	assert.Contains(t, err.Error(), "features: bad <grid>")

	overlay := collector.ErrorOverlay()
	assert.Contains(t, overlay, "showcase-error-overlay")
	assert.Contains(t, overlay, "bad &lt;grid&gt;")

	collector.Clear()
	assert.False(t, collector.HasErrors())
}

func TestErrorCollectorConcurrent(t *testing.T) {
	collector := NewErrorCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			collector.Add(fmt.Sprintf("f%d", i), errors.New("fail"))
			_ = collector.HasErrors()
		}(i)
	}
	wg.Wait()
	assert.Len(t, collector.Entries(), 50)
}
