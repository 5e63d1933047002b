package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Set is an immutable collection of table schemas keyed by filename.
type Set struct {
	tables map[string]*TableSchema
	sorted []*TableSchema
}

// NewSet builds a set from the given tables. Filenames are matched
// case-insensitively. Returns an error on duplicates, invalid schemas or
// foreign keys pointing outside the set.
func NewSet(tables ...TableSchema) (*Set, error) {
	s := &Set{tables: make(map[string]*TableSchema, len(tables))}
	var errs []error
	for i := range tables {
		t := tables[i]
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		key := strings.ToLower(t.Filename)
		if _, exists := s.tables[key]; exists {
			errs = append(errs, fmt.Errorf("duplicate table %s", t.Filename))
			continue
		}
		s.tables[key] = &t
		s.sorted = append(s.sorted, &t)
	}
	sort.Slice(s.sorted, func(i, j int) bool {
		return s.sorted[i].Filename < s.sorted[j].Filename
	})

	for _, t := range s.sorted {
		for _, f := range t.ForeignKeys() {
			parent, ok := s.tables[strings.ToLower(f.ForeignKey.Table)]
			if !ok {
				errs = append(errs, fmt.Errorf("%s.%s references unknown table %s",
					t.Filename, f.Name, f.ForeignKey.Table))
				continue
			}
			if parent.FieldIndex(f.ForeignKey.Field) < 0 {
				errs = append(errs, fmt.Errorf("%s.%s references unknown field %s.%s",
					t.Filename, f.Name, parent.Filename, f.ForeignKey.Field))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// MustNewSet is NewSet that panics on error, for tests and static tables.
func MustNewSet(tables ...TableSchema) *Set {
	s, err := NewSet(tables...)
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns the schema for a filename, case-insensitively.
func (s *Set) Get(filename string) (*TableSchema, bool) {
	t, ok := s.tables[strings.ToLower(filename)]
	return t, ok
}

// All returns every schema sorted by filename.
func (s *Set) All() []*TableSchema {
	out := make([]*TableSchema, len(s.sorted))
	copy(out, s.sorted)
	return out
}

// Len returns the number of tables.
func (s *Set) Len() int {
	return len(s.sorted)
}

var (
	registry   = make(map[string]TableSchema)
	registryMu sync.RWMutex
)

// Register adds a table schema to the process registry.
// Panics if a table with the same filename is already registered.
func Register(t TableSchema) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := strings.ToLower(t.Filename)
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("table already registered: %s", t.Filename))
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}

	registry[key] = t
}

// Get returns a registered table schema by filename.
func Get(filename string) (TableSchema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t, ok := registry[strings.ToLower(filename)]
	return t, ok
}

// All returns all registered schemas sorted by filename.
func All() []TableSchema {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableSchema, 0, len(registry))
	for _, t := range registry {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Filename < result[j].Filename
	})
	return result
}

// Count returns the number of registered tables.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Default builds a Set from everything registered so far.
func Default() (*Set, error) {
	return NewSet(All()...)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TableSchema)
}
