package validator

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/transitcheck/internal/table"
)

// Deps is the dependency bag handed to a unit factory. It exposes the run
// context, the tables the unit declared, and existence queries over the feed.
type Deps struct {
	unit   string
	rc     RunContext
	feed   *table.Feed
	tables map[string]*table.Container
}

// NewDeps builds the bag for unit u. Every declared table must be part of the
// feed's schema set.
func NewDeps(u Unit, feed *table.Feed, rc RunContext) (*Deps, error) {
	d := &Deps{unit: u.Name, rc: rc, feed: feed, tables: make(map[string]*table.Container)}
	for _, name := range u.Tables() {
		c := feed.Table(name)
		if c == nil {
			return nil, fmt.Errorf("%w: unit %s requires unknown table %s", ErrUnsatisfiedDependency, u.Name, name)
		}
		d.tables[strings.ToLower(name)] = c
	}
	return d, nil
}

// Context returns the run context.
func (d *Deps) Context() RunContext { return d.rc }

// Table returns a declared table. The container may be empty or missing;
// asking for an undeclared table panics.
func (d *Deps) Table(name string) *table.Container {
	c, ok := d.tables[strings.ToLower(name)]
	if !ok {
		panic(fmt.Sprintf("validator %s: table %s was not declared", d.unit, name))
	}
	return c
}

// Feed returns the feed for existence queries on any table.
func (d *Deps) Feed() *table.Feed { return d.feed }
