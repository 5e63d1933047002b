package validator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema"
	"github.com/JonMunkholm/transitcheck/internal/table"
)

var testSchemas = schema.MustNewSet(
	schema.TableSchema{
		Filename: "parents.txt",
		Presence: schema.Required,
		Fields: []schema.FieldSpec{
			{Name: "parent_id", Type: schema.FieldID, Presence: schema.Required},
		},
		PrimaryKey: []string{"parent_id"},
	},
	schema.TableSchema{
		Filename: "children.txt",
		Presence: schema.Required,
		Fields: []schema.FieldSpec{
			{Name: "child_id", Type: schema.FieldID, Presence: schema.Required},
			{Name: "parent_id", Type: schema.FieldID,
				ForeignKey: &schema.ForeignKey{Table: "parents.txt", Field: "parent_id"}},
			{Name: "rank", Type: schema.FieldInteger},
		},
		PrimaryKey: []string{"child_id"},
	},
	schema.TableSchema{
		Filename: "extras.txt",
		Fields: []schema.FieldSpec{
			{Name: "extra_id", Type: schema.FieldID},
		},
	},
)

var testNotice = notice.Define("test_child_seen", notice.Info, "A child row was visited.", "filename", "csvRowNumber")

func testFeed(t *testing.T) *table.Feed {
	t.Helper()
	parents, _ := testSchemas.Get("parents.txt")
	children, _ := testSchemas.Get("children.txt")
	return table.NewFeed(testSchemas,
		table.ForEntities(parents, nil, []table.Record{
			table.NewRecord(parents, 2, map[string]any{"parent_id": "P1"}),
		}, nil),
		table.ForEntities(children, nil, []table.Record{
			table.NewRecord(children, 2, map[string]any{"child_id": "C1", "parent_id": "P1", "rank": 1}),
			table.NewRecord(children, 3, map[string]any{"child_id": "C2", "parent_id": "P9", "rank": 2}),
			table.NewRecord(children, 4, map[string]any{"child_id": "C3", "rank": 3}),
		}, nil),
	)
}

func visitUnit(name string) Unit {
	return Unit{
		Name:  name,
		Table: "children.txt",
		NewRow: func(d *Deps) RowValidator {
			return RowFunc(func(row Row, sink notice.Sink) {
				sink.Add(testNotice.New(row.Current.Filename(), row.Current.Row()))
			})
		},
	}
}

func codes(ns []notice.Notice) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Code
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(visitUnit("b"))
	r.MustRegister(visitUnit("a"))

	if err := r.Register(visitUnit("a")); err == nil {
		t.Error("Register() duplicate returned nil error")
	}
	if err := r.Register(Unit{Name: "empty"}); err == nil {
		t.Error("Register() unit without factory returned nil error")
	}
	if err := r.Register(Unit{Name: "rowless", NewRow: visitUnit("x").NewRow}); err == nil {
		t.Error("Register() row unit without table returned nil error")
	}

	if got := strings.Join(r.Names(), ","); got != "b,a" {
		t.Errorf("Names() = %s, want registration order b,a", got)
	}
	if _, ok := r.Lookup("a"); !ok {
		t.Error("Lookup(a) not found")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestUnit_Tables(t *testing.T) {
	u := Unit{Table: "stops.txt", Requires: []string{"routes.txt", "STOPS.txt", ""}}
	if got := strings.Join(u.Tables(), ","); got != "stops.txt,routes.txt" {
		t.Errorf("Tables() = %s, want stops.txt,routes.txt", got)
	}
}

func TestRun_ForeignKeyViolation(t *testing.T) {
	r := NewRegistry()
	for _, u := range ForeignKeyUnits(testSchemas) {
		r.MustRegister(u)
	}

	res, err := New(r, WithWorkers(1)).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", "feed"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := notice.ForeignKeyViolation.New("children.txt", "parent_id", "parents.txt", "parent_id", "P9", 3)
	got := res.Notices.Notices()
	if len(got) != 1 || !got[0].Equal(want) {
		t.Errorf("notices = %v, want [%v]", got, want)
	}
}

func TestRun_RowFaultIsContained(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Unit{
		Name:  "flaky",
		Table: "children.txt",
		NewRow: func(d *Deps) RowValidator {
			return RowFunc(func(row Row, sink notice.Sink) {
				if row.Current.Row() != 2 {
					var m map[string]int
					m["boom"]++
				}
				sink.Add(testNotice.New(row.Current.Filename(), row.Current.Row()))
			})
		},
	})
	r.MustRegister(visitUnit("steady"))

	for _, workers := range []int{1, 4} {
		res, err := New(r, WithWorkers(workers)).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", ""))
		if err != nil {
			t.Fatalf("workers=%d: Run() error = %v", workers, err)
		}

		want := []string{
			"test_child_seen", "runtime_exception_in_validator_error",
			"test_child_seen", "test_child_seen", "test_child_seen",
		}
		if got := codes(res.Notices.Notices()); strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("workers=%d: notices = %v, want %v", workers, got, want)
		}
		failures := res.Notices.Filter("runtime_exception_in_validator_error")
		if len(failures) == 1 {
			if v, _ := failures[0].Get("validator"); v != "flaky" {
				t.Errorf("validator = %v, want flaky", v)
			}
		}
		if !res.Units[0].Failed || res.Units[1].Failed {
			t.Errorf("workers=%d: unit stats = %+v", workers, res.Units)
		}
	}
}

func TestRun_FactoryAndUndeclaredTableFaults(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Unit{
		Name:  "factory_panics",
		Table: "children.txt",
		NewRow: func(d *Deps) RowValidator {
			panic("no")
		},
	})
	r.MustRegister(Unit{
		Name:     "reads_undeclared",
		Requires: []string{"children.txt"},
		NewFeed: func(d *Deps) FeedValidator {
			return FeedFunc(func(sink notice.Sink) {
				_ = d.Table("parents.txt")
			})
		},
	})
	r.MustRegister(visitUnit("steady"))

	res, err := New(r, WithWorkers(2)).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", ""))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	failures := res.Notices.Filter("runtime_exception_in_validator_error")
	if len(failures) != 2 {
		t.Fatalf("got %d validator failures, want 2: %v", len(failures), codes(res.Notices.Notices()))
	}
	if got := len(res.Notices.Filter("test_child_seen")); got != 3 {
		t.Errorf("steady unit emitted %d notices, want 3", got)
	}
}

func TestRun_UnsatisfiedDependency(t *testing.T) {
	var ran atomic.Int32
	r := NewRegistry()
	r.MustRegister(Unit{
		Name:  "counts",
		Table: "children.txt",
		NewRow: func(d *Deps) RowValidator {
			ran.Add(1)
			return RowFunc(func(Row, notice.Sink) {})
		},
	})
	r.MustRegister(Unit{
		Name:  "needs_unknown",
		Table: "nowhere.txt",
		NewRow: func(d *Deps) RowValidator {
			return RowFunc(func(Row, notice.Sink) {})
		},
	})

	res, err := New(r).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", ""))
	if !errors.Is(err, ErrUnsatisfiedDependency) {
		t.Fatalf("Run() error = %v, want ErrUnsatisfiedDependency", err)
	}
	if res != nil {
		t.Error("Run() returned partial results for a configuration error")
	}
	if ran.Load() != 0 {
		t.Error("a unit ran before dependency resolution failed")
	}
}

func TestRun_MissingOptionalTableStillRuns(t *testing.T) {
	var status table.Status = -1
	r := NewRegistry()
	r.MustRegister(Unit{
		Name:     "extras",
		Requires: []string{"extras.txt"},
		NewFeed: func(d *Deps) FeedValidator {
			status = d.Table("extras.txt").Status()
			return FeedFunc(func(notice.Sink) {})
		},
	})

	if _, err := New(r, WithWorkers(1)).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", "")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if status != table.MissingFile {
		t.Errorf("extras.txt status = %v, want missing_file", status)
	}
}

func TestRun_PreviousRow(t *testing.T) {
	var pairs []string
	r := NewRegistry()
	r.MustRegister(Unit{
		Name:  "pairs",
		Table: "children.txt",
		NewRow: func(d *Deps) RowValidator {
			return RowFunc(func(row Row, sink notice.Sink) {
				prev := "-"
				if row.HasPrevious {
					prev = row.Previous.String("child_id")
				}
				pairs = append(pairs, prev+">"+row.Current.String("child_id"))
			})
		},
	})

	if _, err := New(r, WithWorkers(1)).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", "")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.Join(pairs, " "); got != "->C1 C1>C2 C2>C3" {
		t.Errorf("pairs = %s, want ->C1 C1>C2 C2>C3", got)
	}
}

func TestRun_SerialAndParallelAgree(t *testing.T) {
	r := NewRegistry()
	for _, u := range ForeignKeyUnits(testSchemas) {
		r.MustRegister(u)
	}
	for _, name := range []string{"v1", "v2", "v3", "v4", "v5"} {
		r.MustRegister(visitUnit(name))
	}

	rc := NewRunContext(time.Time{}, "", "")
	serial, err := New(r, WithWorkers(1)).Run(context.Background(), testFeed(t), rc)
	if err != nil {
		t.Fatalf("serial Run() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		parallel, err := New(r, WithWorkers(8)).Run(context.Background(), testFeed(t), rc)
		if err != nil {
			t.Fatalf("parallel Run() error = %v", err)
		}
		a, b := serial.Notices.Notices(), parallel.Notices.Notices()
		if len(a) != len(b) {
			t.Fatalf("parallel run produced %d notices, want %d", len(b), len(a))
		}
		for j := range a {
			if !a[j].Equal(b[j]) {
				t.Fatalf("notice %d = %v, want %v", j, b[j], a[j])
			}
		}
	}
}

func TestRun_UnrelatedTableDoesNotChangeNotices(t *testing.T) {
	r := NewRegistry()
	for _, u := range ForeignKeyUnits(testSchemas) {
		r.MustRegister(u)
	}
	r.MustRegister(visitUnit("visit"))

	base := testFeed(t)
	extras, _ := testSchemas.Get("extras.txt")
	withExtras := table.NewFeed(testSchemas,
		base.Table("parents.txt"),
		base.Table("children.txt"),
		table.ForEntities(extras, nil, []table.Record{
			table.NewRecord(extras, 2, map[string]any{"extra_id": "E1"}),
			table.NewRecord(extras, 3, map[string]any{"extra_id": "E2"}),
		}, nil),
	)

	rc := NewRunContext(time.Time{}, "", "")
	without, err := New(r, WithWorkers(1)).Run(context.Background(), base, rc)
	if err != nil {
		t.Fatalf("Run() without extras error = %v", err)
	}
	with, err := New(r, WithWorkers(4)).Run(context.Background(), withExtras, rc)
	if err != nil {
		t.Fatalf("Run() with extras error = %v", err)
	}

	a, b := without.Notices.Notices(), with.Notices.Notices()
	if len(a) == 0 {
		t.Fatal("expected notices from the foreign key and visit units")
	}
	if len(a) != len(b) {
		t.Fatalf("with extras: %d notices, want %d (%v vs %v)", len(b), len(a), codes(b), codes(a))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("notice %d = %v, want %v", i, b[i], a[i])
		}
	}
}

func TestRun_Skip(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(visitUnit("keep"))
	r.MustRegister(visitUnit("drop"))

	res, err := New(r, WithSkip("drop")).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", ""))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Units) != 1 || res.Units[0].Name != "keep" {
		t.Errorf("units = %+v, want only keep", res.Units)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(visitUnit("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := New(r, WithWorkers(1)).Run(ctx, testFeed(t), NewRunContext(time.Time{}, "", ""))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if res == nil || res.Notices.Len() != 0 {
		t.Errorf("Run() result = %+v, want empty partial result", res)
	}
}

func TestRun_WorkerFault(t *testing.T) {
	t.Parallel()
	failDoomed := withStartHook(func(name string) {
		if name == "doomed" {
			panic("worker lost")
		}
	})

	r := NewRegistry()
	r.MustRegister(visitUnit("doomed"))
	r.MustRegister(visitUnit("fine"))

	res, err := New(r, WithWorkers(2), failDoomed).Run(context.Background(), testFeed(t), NewRunContext(time.Time{}, "", ""))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	faults := res.Notices.Filter("thread_execution_error")
	if len(faults) != 1 {
		t.Fatalf("got %d thread_execution_error notices, want 1", len(faults))
	}
	if v, _ := faults[0].Get("validator"); v != "doomed" {
		t.Errorf("validator = %v, want doomed", v)
	}
	if got := len(res.Notices.Filter("test_child_seen")); got != 3 {
		t.Errorf("other unit emitted %d notices, want 3", got)
	}
}

func TestNewRunContext(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	rc := NewRunContext(now, " ch ", "f1")
	if rc.CountryCode != "CH" {
		t.Errorf("CountryCode = %q, want CH", rc.CountryCode)
	}
	if got := rc.Today().String(); got != "20240310" {
		t.Errorf("Today() = %s, want 20240310", got)
	}
	if NewRunContext(time.Time{}, "", "").Now.IsZero() {
		t.Error("zero now was not replaced")
	}
}
