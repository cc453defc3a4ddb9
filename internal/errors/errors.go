package errors

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"
)

var (
	// ErrFixtureNotFound is returned when a named fixture does not exist.
	ErrFixtureNotFound = errors.New("fixture not found")
	// ErrUnknownKind is returned for a section kind no component handles.
	ErrUnknownKind = errors.New("unknown section kind")
)

// RenderError is a failure local to one component render. It never
// propagates past the section that produced it.
type RenderError struct {
	Component string
	ID        string
	Err       error
}

// Error implements the error interface
func (e *RenderError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("render %s: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("render %s %q: %v", e.Component, e.ID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// FixtureError reports a malformed fixture document.
type FixtureError struct {
	File    string
	Section string
	Message string
	Err     error
}

// Error implements the error interface
func (e *FixtureError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Section != "" {
		b.WriteString(" [")
		b.WriteString(e.Section)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *FixtureError) Unwrap() error {
	return e.Err
}

// Entry is one collected failure.
type Entry struct {
	Fixture   string
	Err       error
	Timestamp time.Time
}

// ErrorCollector gathers failures from many fixtures so they can be
// reported together.
type ErrorCollector struct {
	entries []Entry
	mutex   sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{entries: make([]Entry, 0)}
}

// Add records err against fixture. Nil errors are ignored.
func (ec *ErrorCollector) Add(fixture string, err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.entries = append(ec.entries, Entry{Fixture: fixture, Err: err, Timestamp: time.Now()})
}

// Entries returns a copy of the collected failures.
func (ec *ErrorCollector) Entries() []Entry {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]Entry, len(ec.entries))
	copy(result, ec.entries)
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.entries) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.entries = ec.entries[:0]
}

// ByFixture returns the failures recorded for one fixture.
func (ec *ErrorCollector) ByFixture(fixture string) []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var errs []error
	for _, e := range ec.entries {
		if e.Fixture == fixture {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

// Err joins every collected failure, or returns nil.
func (ec *ErrorCollector) Err() error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	if len(ec.entries) == 0 {
		return nil
	}
	errs := make([]error, len(ec.entries))
	for i, e := range ec.entries {
		errs[i] = fmt.Errorf("%s: %w", e.Fixture, e.Err)
	}
	return errors.Join(errs...)
}

// ErrorOverlay renders the collected failures as an HTML fragment for the
// preview index.
func (ec *ErrorCollector) ErrorOverlay() string {
	entries := ec.Entries()
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div id="showcase-error-overlay" class="error-overlay"><h2>Fixture errors</h2><ul>`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<li><span class="error-time">%s</span> <strong>%s</strong> %s</li>`,
			e.Timestamp.Format("15:04:05"),
			html.EscapeString(e.Fixture),
			html.EscapeString(e.Err.Error()))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
