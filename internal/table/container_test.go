package table

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/JonMunkholm/transitcheck/internal/notice"
)

func stopsContainer(t *testing.T) *Container {
	t.Helper()
	ts := mustSchema(t, "stops.txt")
	records := []Record{
		NewRecord(ts, 2, map[string]any{"stop_id": "STA", "stop_name": "Central"}),
		NewRecord(ts, 3, map[string]any{"stop_id": "P1", "parent_station": "STA"}),
		NewRecord(ts, 4, map[string]any{"stop_id": "P2", "parent_station": "STA"}),
		NewRecord(ts, 5, map[string]any{"stop_id": "X1", "parent_station": "STB"}),
		NewRecord(ts, 6, map[string]any{"stop_id": "X2"}),
	}
	return ForEntities(ts, nil, records, nil)
}

func TestContainer_Lookup(t *testing.T) {
	c := stopsContainer(t)

	children := c.Lookup("parent_station", "STA")
	if len(children) != 2 || children[0].Row() != 3 || children[1].Row() != 4 {
		t.Errorf("Lookup(STA) rows = %v, want [3 4] in file order", rowsOf(children))
	}
	if got := c.Lookup("parent_station", "nope"); got == nil || len(got) != 0 {
		t.Errorf("Lookup(nope) = %#v, want empty non-nil slice", got)
	}
	if idx := c.Index("parent_station"); idx.Len() != 2 {
		t.Errorf("Index.Len() = %d, want 2 distinct keys", idx.Len())
	}
}

func TestContainer_IndexGroupsInFirstAppearanceOrder(t *testing.T) {
	c := stopsContainer(t)

	var keys []string
	c.Index("parent_station").Groups(func(values []string, records []Record) {
		keys = append(keys, strings.Join(values, "|"))
	})
	if strings.Join(keys, ",") != "STA,STB" {
		t.Errorf("group order = %v, want [STA STB]", keys)
	}
}

func TestContainer_ReturnedSlicesDoNotAlias(t *testing.T) {
	c := stopsContainer(t)

	got := c.Lookup("parent_station", "STA")
	got[0] = Record{}
	if rows := rowsOf(c.Lookup("parent_station", "STA")); len(rows) != 2 || rows[0] != 3 || rows[1] != 4 {
		t.Errorf("Lookup(STA) after write = %v, want [3 4]", rows)
	}

	all := c.Records()
	all[0] = Record{}
	sort.Slice(all, func(i, j int) bool { return all[i].Row() > all[j].Row() })
	if rows := rowsOf(c.Records()); rows[0] != 2 || rows[4] != 6 {
		t.Errorf("Records() after write = %v, want file order from row 2", rows)
	}

	c.Index("parent_station").Groups(func(_ []string, records []Record) {
		records[0] = Record{}
	})
	if rows := rowsOf(c.Lookup("parent_station", "STB")); len(rows) != 1 || rows[0] != 5 {
		t.Errorf("Lookup(STB) after Groups write = %v, want [5]", rows)
	}
}

func TestContainer_ConcurrentIndexBuild(t *testing.T) {
	c := stopsContainer(t)

	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = len(c.Lookup("parent_station", "STA"))
		}()
	}
	wg.Wait()

	for i, n := range results {
		if n != 2 {
			t.Errorf("goroutine %d saw %d records, want 2", i, n)
		}
	}
}

func TestContainer_HasColumn(t *testing.T) {
	ts := mustSchema(t, "stops.txt")

	all := ForEntities(ts, nil, nil, nil)
	if !all.HasColumn("stop_lat") {
		t.Error("nil header: HasColumn(stop_lat) = false, want true")
	}
	if all.HasColumn("color") {
		t.Error("nil header: HasColumn(color) = true, want false")
	}

	partial := ForEntities(ts, []string{"stop_id"}, nil, nil)
	if partial.HasColumn("stop_lat") {
		t.Error("HasColumn(stop_lat) = true, want false")
	}

	missing := ForStatus(ts, MissingFile)
	if missing.HasColumn("stop_id") {
		t.Error("missing file: HasColumn(stop_id) = true, want false")
	}
}

func TestForEntities_SkipsAbsentKeys(t *testing.T) {
	ts := mustSchema(t, "stops.txt")
	records := []Record{
		NewRecord(ts, 2, map[string]any{"stop_name": "a"}),
		NewRecord(ts, 3, map[string]any{"stop_name": "b"}),
	}
	sink := notice.NewContainer()
	ForEntities(ts, nil, records, sink)
	if sink.Len() != 0 {
		t.Errorf("notices = %v, want none for rows without a key", codes(sink.Notices()))
	}
}

func TestNewRecord_UnknownFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewRecord with unknown field did not panic")
		}
	}()
	NewRecord(mustSchema(t, "stops.txt"), 2, map[string]any{"nope": 1})
}

func TestRecord_Accessors(t *testing.T) {
	ts := mustSchema(t, "stop_times.txt")
	r := NewRecord(ts, 9, map[string]any{"trip_id": "T", "stop_sequence": 4})

	if n, ok := r.Int("stop_sequence"); !ok || n != 4 {
		t.Errorf("Int(stop_sequence) = %d, %v, want 4, true", n, ok)
	}
	if key, _ := r.Key("stop_sequence"); key != "4" {
		t.Errorf("Key(stop_sequence) = %q, want %q", key, "4")
	}
	if r.IntOr("missing", 7) != 7 {
		t.Error("IntOr on unknown field did not return default")
	}
	if r.Has("stop_id") {
		t.Error("Has(stop_id) = true, want false")
	}
	if r.Row() != 9 || r.Filename() != "stop_times.txt" {
		t.Errorf("Row/Filename = %d/%s", r.Row(), r.Filename())
	}
}

func rowsOf(rs []Record) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Row()
	}
	return out
}
