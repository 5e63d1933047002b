package table

import (
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

// Feed holds one container for every table of a schema set, whether or not
// the file was present.
type Feed struct {
	schemas *schema.Set
	tables  map[string]*Container
	order   []*Container
}

// NewFeed assembles a feed. Tables of set without a container get an empty
// MissingFile container; containers for tables outside set are ignored.
func NewFeed(set *schema.Set, containers ...*Container) *Feed {
	byName := make(map[string]*Container, len(containers))
	for _, c := range containers {
		if c != nil {
			byName[c.Filename()] = c
		}
	}

	f := &Feed{schemas: set, tables: make(map[string]*Container, set.Len())}
	for _, ts := range set.All() {
		c, ok := byName[ts.Filename]
		if !ok {
			c = ForStatus(ts, MissingFile)
		}
		f.tables[ts.Filename] = c
		f.order = append(f.order, c)
	}
	return f
}

// Schemas returns the schema set the feed was built from.
func (f *Feed) Schemas() *schema.Set { return f.schemas }

// Table returns the container for a known table, or nil for names outside
// the schema set.
func (f *Feed) Table(filename string) *Container {
	if ts, ok := f.schemas.Get(filename); ok {
		return f.tables[ts.Filename]
	}
	return nil
}

// Known reports whether filename is part of the schema set.
func (f *Feed) Known(filename string) bool {
	_, ok := f.schemas.Get(filename)
	return ok
}

// Present reports whether the file was provided in the feed, even if empty.
func (f *Feed) Present(filename string) bool {
	c := f.Table(filename)
	return c != nil && c.Status() != MissingFile
}

// Tables returns every container sorted by filename.
func (f *Feed) Tables() []*Container {
	out := make([]*Container, len(f.order))
	copy(out, f.order)
	return out
}

// TableSummary describes the load outcome of one table.
type TableSummary struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Records  int    `json:"records"`
}

// Summary returns per-table load outcomes sorted by filename.
func (f *Feed) Summary() []TableSummary {
	out := make([]TableSummary, len(f.order))
	for i, c := range f.order {
		out[i] = TableSummary{Filename: c.Filename(), Status: c.Status().String(), Records: c.Len()}
	}
	return out
}
