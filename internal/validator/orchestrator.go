package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/table"
)

// ErrUnsatisfiedDependency means a unit declared a table the feed schema does
// not define. It is a configuration defect and aborts the run before any
// unit executes.
var ErrUnsatisfiedDependency = errors.New("unsatisfied validator dependency")

// ctxCheckEvery is how many records a row unit processes between context
// checks.
const ctxCheckEvery = 1024

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets how many units may run at once. One or less runs units
// serially in registration order.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) { o.workers = n }
}

// WithSkip excludes units by name.
func WithSkip(names ...string) Option {
	return func(o *Orchestrator) {
		for _, n := range names {
			o.skip[strings.TrimSpace(n)] = true
		}
	}
}

// WithLogger sets the logger used for unit faults and timings.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// withStartHook sets a function run in the worker before each unit, outside
// the unit's own fault containment.
func withStartHook(fn func(name string)) Option {
	return func(o *Orchestrator) { o.onStart = fn }
}

// Orchestrator runs the units of a registry over a feed.
type Orchestrator struct {
	registry *Registry
	workers  int
	skip     map[string]bool
	logger   *slog.Logger
	onStart  func(name string)
}

// New returns an orchestrator over registry. By default units run on
// GOMAXPROCS workers.
func New(registry *Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		workers:  runtime.GOMAXPROCS(0),
		skip:     make(map[string]bool),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// UnitStat records how one unit ran.
type UnitStat struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Notices  int           `json:"notices"`
	Failed   bool          `json:"failed"`
}

// Result is the outcome of a run.
type Result struct {
	Notices *notice.Container
	Units   []UnitStat
}

type job struct {
	unit Unit
	deps *Deps
	sink *notice.Container
	stat UnitStat
	done bool
}

// Run executes every unit that is not skipped. Notices are merged in
// registration order, and within a unit in emission order. When ctx ends
// early, the result holds the units that finished and the context error is
// returned with it.
func (o *Orchestrator) Run(ctx context.Context, feed *table.Feed, rc RunContext) (*Result, error) {
	var jobs []*job
	for _, u := range o.registry.Units() {
		if o.skip[u.Name] {
			continue
		}
		deps, err := NewDeps(u, feed, rc)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, &job{unit: u, deps: deps, sink: notice.NewContainer()})
	}

	if o.workers <= 1 {
		for _, j := range jobs {
			if ctx.Err() != nil {
				break
			}
			o.execute(ctx, j)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.workers)
		for _, j := range jobs {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				o.execute(ctx, j)
				return nil
			})
		}
		_ = g.Wait()
	}

	res := &Result{Notices: notice.NewContainer()}
	for _, j := range jobs {
		if !j.done {
			continue
		}
		res.Notices.AddAll(j.sink)
		res.Units = append(res.Units, j.stat)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// execute runs one job. A fault here, outside the unit body, is reported as a
// worker failure for this unit only.
func (o *Orchestrator) execute(ctx context.Context, j *job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("validator worker failed", "validator", j.unit.Name, "panic", r)
			j.sink.Add(notice.ThreadExecutionError.New(j.unit.Name, exceptionName(r), fmt.Sprint(r)))
			j.stat.Failed = true
		}
		j.stat.Name = j.unit.Name
		j.stat.Duration = time.Since(start)
		j.stat.Notices = j.sink.Len()
		j.done = true
	}()

	if o.onStart != nil {
		o.onStart(j.unit.Name)
	}

	if j.unit.IsRowLevel() {
		j.stat.Failed = o.runRows(ctx, j)
	} else {
		j.stat.Failed = o.runFeed(j)
	}

	o.logger.Debug("validator finished",
		"validator", j.unit.Name,
		"notices", j.sink.Len(),
		"duration", time.Since(start),
	)
}

// runRows feeds every record of the primary table to a fresh row validator.
// A fault on one record is contained and iteration continues; only the first
// fault is reported.
func (o *Orchestrator) runRows(ctx context.Context, j *job) (failed bool) {
	v, ok := o.construct(j, func() any { return j.unit.NewRow(j.deps) })
	if !ok {
		return true
	}
	rv, _ := v.(RowValidator)
	if rv == nil {
		return false
	}

	records := j.deps.Table(j.unit.Table).Records()
	var prev table.Record
	for i, rec := range records {
		if i%ctxCheckEvery == 0 && ctx.Err() != nil {
			return failed
		}
		row := Row{Current: rec, Previous: prev, HasPrevious: i > 0}
		if err := o.guard(func() { rv.ValidateRow(row, j.sink) }); err != nil {
			if !failed {
				o.report(j, err, rec.Row())
			}
			failed = true
		}
		prev = rec
	}
	return failed
}

func (o *Orchestrator) runFeed(j *job) bool {
	v, ok := o.construct(j, func() any { return j.unit.NewFeed(j.deps) })
	if !ok {
		return true
	}
	fv, _ := v.(FeedValidator)
	if fv == nil {
		return false
	}
	if err := o.guard(func() { fv.Validate(j.sink) }); err != nil {
		o.report(j, err, 0)
		return true
	}
	return false
}

// construct calls a unit factory, containing faults.
func (o *Orchestrator) construct(j *job, factory func() any) (any, bool) {
	var v any
	if err := o.guard(func() { v = factory() }); err != nil {
		o.report(j, err, 0)
		return nil, false
	}
	return v, true
}

// panicError carries a recovered panic value.
type panicError struct {
	value any
}

func (p *panicError) Error() string { return fmt.Sprint(p.value) }

func (o *Orchestrator) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	fn()
	return nil
}

func (o *Orchestrator) report(j *job, err error, row int) {
	var pe *panicError
	exception := "error"
	if errors.As(err, &pe) {
		exception = exceptionName(pe.value)
	}
	msg := err.Error()
	if row > 0 {
		msg = fmt.Sprintf("row %d: %s", row, msg)
	}
	o.logger.Error("validator failed", "validator", j.unit.Name, "row", row, "error", msg)
	j.sink.Add(notice.RuntimeExceptionInValidator.New(j.unit.Name, exception, msg))
}

func exceptionName(r any) string {
	switch v := r.(type) {
	case runtime.Error:
		return "runtime.Error"
	case error:
		return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	default:
		return "panic"
	}
}
