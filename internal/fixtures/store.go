package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/conneroisu/showcase/internal/errors"
)

// Store holds the fixtures loaded from one directory. Reload swaps the
// whole set at once so readers never see a partial load.
type Store struct {
	dir string

	mu       sync.RWMutex
	fixtures map[string]*Fixture
	order    []string
	failures *errors.ErrorCollector
}

// NewStore creates an empty store for dir. Call Reload to populate it.
func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		fixtures: map[string]*Fixture{},
		failures: errors.NewErrorCollector(),
	}
}

// Dir returns the directory the store reads
func (s *Store) Dir() string {
	return s.dir
}

// Reload reads every fixture file in the directory. Files that fail to load
// are skipped and reported through Failures; the returned error is only for
// an unreadable directory.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read fixtures dir: %w", err)
	}

	loaded := make(map[string]*Fixture)
	failures := errors.NewErrorCollector()
	for _, e := range entries {
		if e.IsDir() || !IsFixtureFile(e.Name()) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		f, err := Load(path)
		if err != nil {
			failures.Add(e.Name(), err)
			continue
		}
		if prev, dup := loaded[f.Name]; dup {
			failures.Add(e.Name(), fmt.Errorf("name %q already used by %s", f.Name, prev.Path))
			continue
		}
		loaded[f.Name] = f
	}

	order := make([]string, 0, len(loaded))
	for name := range loaded {
		order = append(order, name)
	}
	slices.Sort(order)

	s.mu.Lock()
	s.fixtures, s.order, s.failures = loaded, order, failures
	s.mu.Unlock()
	return nil
}

// Get returns the named fixture
func (s *Store) Get(name string) (*Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fixtures[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, errors.ErrFixtureNotFound)
	}
	return f, nil
}

// List returns the fixtures ordered by name
func (s *Store) List() []*Fixture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Fixture, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fixtures[name])
	}
	return out
}

// Failures returns the load failures of the last Reload
func (s *Store) Failures() *errors.ErrorCollector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures
}
