package schema

import (
	"strings"
	"testing"
)

func stopsTable() TableSchema {
	return TableSchema{
		Filename: "stops.txt",
		Presence: Required,
		Fields: []FieldSpec{
			{Name: "stop_id", Type: FieldID, Presence: Required},
			{Name: "stop_name", Type: FieldText, Presence: Recommended},
			{Name: "stop_lat", Type: FieldLatitude},
			{Name: "parent_station", Type: FieldID, Index: true},
		},
		PrimaryKey: []string{"stop_id"},
	}
}

func TestTableSchema_Columns(t *testing.T) {
	ts := stopsTable()

	if got := strings.Join(ts.RequiredColumns(), ","); got != "stop_id" {
		t.Errorf("RequiredColumns = %q, want %q", got, "stop_id")
	}
	if got := strings.Join(ts.RecommendedColumns(), ","); got != "stop_name" {
		t.Errorf("RecommendedColumns = %q, want %q", got, "stop_name")
	}
	if got := strings.Join(ts.IndexedFields(), ","); got != "parent_station" {
		t.Errorf("IndexedFields = %q, want %q", got, "parent_station")
	}
	if got := ts.FieldIndex("stop_lat"); got != 2 {
		t.Errorf("FieldIndex(stop_lat) = %d, want 2", got)
	}
	if _, ok := ts.Field("nope"); ok {
		t.Error("Field(nope) ok = true, want false")
	}
}

func TestTableSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TableSchema)
		wantErr string
	}{
		{"valid", func(*TableSchema) {}, ""},
		{"duplicate field", func(ts *TableSchema) {
			ts.Fields = append(ts.Fields, FieldSpec{Name: "stop_id"})
		}, "duplicate field stop_id"},
		{"unknown primary key", func(ts *TableSchema) {
			ts.PrimaryKey = []string{"id"}
		}, "primary key field id"},
		{"enum without values", func(ts *TableSchema) {
			ts.Fields = append(ts.Fields, FieldSpec{Name: "location_type", Type: FieldEnum})
		}, "has no values"},
		{"bounds on text", func(ts *TableSchema) {
			ts.Fields = append(ts.Fields, FieldSpec{Name: "code", Type: FieldText, Bounds: Positive})
		}, "has bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := stopsTable()
			tt.mutate(&ts)
			err := ts.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewSet(t *testing.T) {
	times := TableSchema{
		Filename: "stop_times.txt",
		Fields: []FieldSpec{
			{Name: "stop_id", Type: FieldID, ForeignKey: &ForeignKey{Table: "stops.txt", Field: "stop_id"}},
		},
	}

	s, err := NewSet(times, stopsTable())
	if err != nil {
		t.Fatalf("NewSet error = %v", err)
	}
	all := s.All()
	if len(all) != 2 || all[0].Filename != "stop_times.txt" || all[1].Filename != "stops.txt" {
		t.Errorf("All() order wrong: %v, %v", all[0].Filename, all[1].Filename)
	}
	if _, ok := s.Get("STOPS.TXT"); !ok {
		t.Error("Get is not case-insensitive")
	}

	if _, err := NewSet(times); err == nil {
		t.Error("NewSet without parent table: expected error")
	}
	if _, err := NewSet(stopsTable(), stopsTable()); err == nil {
		t.Error("NewSet with duplicate tables: expected error")
	}
}

func TestRegistry(t *testing.T) {
	saved := All()
	Clear()
	defer func() {
		Clear()
		for _, ts := range saved {
			Register(ts)
		}
	}()

	Register(stopsTable())
	if Count() != 1 {
		t.Errorf("Count = %d, want 1", Count())
	}
	if _, ok := Get("stops.txt"); !ok {
		t.Error("Get(stops.txt) not found")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(stopsTable())
}
