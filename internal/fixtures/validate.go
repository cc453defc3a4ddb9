package fixtures

import (
	"fmt"
	"strings"

	"github.com/conneroisu/showcase/internal/errors"
)

// Validate checks the structure of the fixture. Missing optional data is
// never an error; only shapes no component can render are rejected.
func (f *Fixture) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return f.fail("", "title is required")
	}
	if f.Name == "" {
		return f.fail("", "file name does not produce a usable slug")
	}

	seen := make(map[string]bool)
	for i := range f.Sections {
		if err := f.validateSection(&f.Sections[i], seen); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fixture) fail(section, msg string, args ...any) error {
	return &errors.FixtureError{File: f.Path, Section: section, Message: fmt.Sprintf(msg, args...)}
}

func (f *Fixture) validateSection(s *Section, seen map[string]bool) error {
	if !idPattern.MatchString(s.ID) {
		return f.fail(s.ID, "section id must match %s", idPattern)
	}
	if seen[s.ID] {
		return f.fail(s.ID, "duplicate section id")
	}
	seen[s.ID] = true

	switch s.Kind {
	case KindHeader:
		if s.Header == nil || s.Header.Title == "" {
			return f.fail(s.ID, "header requires a title")
		}
	case KindTable:
		return f.validateTable(s)
	case KindGrid:
		if s.Grid == nil {
			return f.fail(s.ID, "grid props are required")
		}
		for _, feat := range s.Grid.Features {
			if feat.Key == "" {
				return f.fail(s.ID, "grid feature %q has no key", feat.Name)
			}
		}
	case KindCard:
		if s.Card == nil || s.Card.Provider == "" {
			return f.fail(s.ID, "card requires a provider")
		}
	case KindTabs:
		return f.validateTabs(s, seen)
	case KindModal:
		if s.Modal == nil || s.Modal.Src == "" {
			return f.fail(s.ID, "modal requires an image src")
		}
	case KindDiagram:
		if s.Diagram == nil {
			return f.fail(s.ID, "diagram props are required")
		}
	case KindText:
	default:
		return &errors.FixtureError{
			File:    f.Path,
			Section: s.ID,
			Message: fmt.Sprintf("kind %q", s.Kind),
			Err:     errors.ErrUnknownKind,
		}
	}
	return nil
}

func (f *Fixture) validateTable(s *Section) error {
	if s.Table == nil || len(s.Table.Columns) == 0 {
		return f.fail(s.ID, "table requires at least one column")
	}
	keys := make(map[string]bool)
	for _, c := range s.Table.Columns {
		if c.Key == "" {
			return f.fail(s.ID, "column without key")
		}
		if keys[c.Key] {
			return f.fail(s.ID, "duplicate column %q", c.Key)
		}
		keys[c.Key] = true
		switch c.Type {
		case "", "string", "number":
		default:
			return f.fail(s.ID, "column %q has unknown type %q", c.Key, c.Type)
		}
		switch c.Align {
		case "", "left", "center", "right":
		default:
			return f.fail(s.ID, "column %q has unknown align %q", c.Key, c.Align)
		}
	}
	return nil
}

// Nested tab content ids default to <tabs id>-<tab id>.
func (f *Fixture) validateTabs(s *Section, seen map[string]bool) error {
	if s.Tabs == nil || len(s.Tabs.Items) == 0 {
		return f.fail(s.ID, "tabs require at least one item")
	}
	ids := make(map[string]bool)
	for i := range s.Tabs.Items {
		tab := &s.Tabs.Items[i]
		if !idPattern.MatchString(tab.ID) {
			return f.fail(s.ID, "tab id %q must match %s", tab.ID, idPattern)
		}
		if ids[tab.ID] {
			return f.fail(s.ID, "duplicate tab %q", tab.ID)
		}
		ids[tab.ID] = true

		if tab.Content.ID == "" {
			tab.Content.ID = s.ID + "-" + tab.ID
		}
		if err := f.validateSection(&tab.Content, seen); err != nil {
			return err
		}
	}
	return nil
}
