package gtfs

import (
	"testing"

	"github.com/JonMunkholm/transitcheck/internal/schema"
)

func TestRegisteredTablesFormValidSet(t *testing.T) {
	set, err := schema.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if set.Len() != 17 {
		t.Errorf("Len = %d, want 17", set.Len())
	}
}

func TestRequiredTables(t *testing.T) {
	want := map[string]bool{
		AgencyFile:    true,
		StopsFile:     true,
		RoutesFile:    true,
		TripsFile:     true,
		StopTimesFile: true,
	}
	for _, ts := range schema.All() {
		if got := ts.IsRequired(); got != want[ts.Filename] {
			t.Errorf("%s IsRequired = %v, want %v", ts.Filename, got, want[ts.Filename])
		}
	}
}

func TestStopTimesSchema(t *testing.T) {
	ts, ok := schema.Get(StopTimesFile)
	if !ok {
		t.Fatal("stop_times.txt not registered")
	}
	f, ok := ts.Field("trip_id")
	if !ok || f.ForeignKey == nil || f.ForeignKey.Table != TripsFile {
		t.Errorf("trip_id foreign key = %+v, want trips.txt", f.ForeignKey)
	}
	if !f.Index {
		t.Error("trip_id is not indexed")
	}
	if len(ts.PrimaryKey) != 2 {
		t.Errorf("PrimaryKey = %v, want trip_id and stop_sequence", ts.PrimaryKey)
	}
}
