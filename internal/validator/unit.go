// Package validator defines validator units, the registry they are declared
// in, and the orchestrator that runs them over a loaded feed.
//
// A unit declares the tables it reads. For every run the orchestrator builds a
// Deps bag holding exactly those tables, constructs a fresh instance through
// the unit's factory, and executes it either once per record of its primary
// table (row units) or once per run (feed units). Each unit reports into a
// private notice container; containers are merged in registration order so
// that output does not depend on scheduling.
package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/parse"
	"github.com/JonMunkholm/transitcheck/internal/table"
)

// RunContext is the per-run configuration shared by every unit.
type RunContext struct {
	// Now is the reference time for date-relative rules.
	Now time.Time
	// CountryCode is an ISO 3166 region used for locale-sensitive checks.
	CountryCode string
	// FeedID identifies the feed in reports.
	FeedID string
}

// NewRunContext returns a run context. A zero now uses the current time.
func NewRunContext(now time.Time, countryCode, feedID string) RunContext {
	if now.IsZero() {
		now = time.Now()
	}
	return RunContext{
		Now:         now,
		CountryCode: strings.ToUpper(strings.TrimSpace(countryCode)),
		FeedID:      feedID,
	}
}

// Today returns the calendar date of Now in its own location.
func (rc RunContext) Today() parse.Date {
	return parse.DateOf(rc.Now)
}

// Row is one step of a row unit: the current record and, when there is one,
// the record before it in file order.
type Row struct {
	Current     table.Record
	Previous    table.Record
	HasPrevious bool
}

// RowValidator checks records of one table, one at a time.
type RowValidator interface {
	ValidateRow(row Row, sink notice.Sink)
}

// FeedValidator runs once per feed with access to all declared tables.
type FeedValidator interface {
	Validate(sink notice.Sink)
}

// RowFunc adapts a function to RowValidator.
type RowFunc func(row Row, sink notice.Sink)

func (f RowFunc) ValidateRow(row Row, sink notice.Sink) { f(row, sink) }

// FeedFunc adapts a function to FeedValidator.
type FeedFunc func(sink notice.Sink)

func (f FeedFunc) Validate(sink notice.Sink) { f(sink) }

// Unit declares one validator. Exactly one of NewRow and NewFeed is set.
type Unit struct {
	// Name identifies the unit in notices, logs and skip lists.
	Name        string
	Description string
	// Table is the primary table a row unit iterates. Feed units may leave
	// it empty.
	Table string
	// Requires lists additional tables the factory may read.
	Requires []string

	NewRow  func(d *Deps) RowValidator
	NewFeed func(d *Deps) FeedValidator
}

// IsRowLevel reports whether the unit runs once per record.
func (u Unit) IsRowLevel() bool { return u.NewRow != nil }

// Tables returns every table the unit declares, primary first, without
// duplicates.
func (u Unit) Tables() []string {
	seen := make(map[string]bool, len(u.Requires)+1)
	var out []string
	for _, name := range append([]string{u.Table}, u.Requires...) {
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// Validate checks that the unit is well-formed.
func (u Unit) Validate() error {
	var errs []error
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, errors.New("unit name is required"))
	}
	switch {
	case u.NewRow == nil && u.NewFeed == nil:
		errs = append(errs, fmt.Errorf("unit %q: a row or feed factory is required", u.Name))
	case u.NewRow != nil && u.NewFeed != nil:
		errs = append(errs, fmt.Errorf("unit %q: row and feed factories are exclusive", u.Name))
	case u.NewRow != nil && u.Table == "":
		errs = append(errs, fmt.Errorf("unit %q: row units need a primary table", u.Name))
	}
	return errors.Join(errs...)
}
