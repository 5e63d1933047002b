package rules

import (
	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
	"github.com/JonMunkholm/transitcheck/internal/table"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

var (
	StationWithParentStation = notice.Define("station_with_parent_station", notice.Error,
		"A station has a parent_station.",
		"filename", "csvRowNumber", "stopId", "stopName", "parentStation")
	LocationWithoutParentStation = notice.Define("location_without_parent_station", notice.Error,
		"An entrance, generic node or boarding area has no parent_station.",
		"filename", "csvRowNumber", "stopId", "stopName", "locationType")
	PlatformWithoutParentStation = notice.Define("platform_without_parent_station", notice.Warning,
		"A stop with a platform_code has no parent_station.",
		"filename", "csvRowNumber", "stopId", "stopName")
	MissingStopCoordinates = notice.Define("missing_stop_coordinates", notice.Error,
		"A stop, station or entrance has no coordinates.",
		"filename", "csvRowNumber", "stopId", "fieldName")
)

func init() {
	validator.Register(validator.Unit{
		Name:        "location_type",
		Description: "Stops are placed in the station hierarchy their location_type requires.",
		Table:       gtfs.StopsFile,
		NewRow: func(d *validator.Deps) validator.RowValidator {
			stops := d.Table(gtfs.StopsFile)
			return &locationType{stops: stops, reported: make(map[string]bool)}
		},
	})
}

type locationType struct {
	stops    *table.Container
	reported map[string]bool
}

func (v *locationType) ValidateRow(row validator.Row, sink notice.Sink) {
	r := row.Current
	kind := r.IntOr("location_type", gtfs.LocationStop)
	stopID, stopName := r.String("stop_id"), r.String("stop_name")

	switch {
	case r.Has("parent_station"):
		if kind == gtfs.LocationStation {
			sink.Add(StationWithParentStation.New(r.Filename(), r.Row(), stopID, stopName, r.String("parent_station")))
		}
	case kind == gtfs.LocationStop:
		if r.Has("platform_code") {
			sink.Add(PlatformWithoutParentStation.New(r.Filename(), r.Row(), stopID, stopName))
		}
	case kind == gtfs.LocationEntrance, kind == gtfs.LocationGenericNode, kind == gtfs.LocationBoardingArea:
		sink.Add(LocationWithoutParentStation.New(r.Filename(), r.Row(), stopID, stopName, kind))
	}

	if kind == gtfs.LocationStop || kind == gtfs.LocationStation || kind == gtfs.LocationEntrance {
		v.requireCoordinate(r, "stop_lat", sink)
		v.requireCoordinate(r, "stop_lon", sink)
	}
}

// requireCoordinate reports an absent coordinate. When the whole column is
// missing from the file it is reported once as a missing column instead of on
// every row.
func (v *locationType) requireCoordinate(r table.Record, field string, sink notice.Sink) {
	if r.Has(field) {
		return
	}
	if !v.stops.HasColumn(field) {
		if !v.reported[field] {
			v.reported[field] = true
			sink.Add(notice.MissingRequiredColumn.New(r.Filename(), field))
		}
		return
	}
	sink.Add(MissingStopCoordinates.New(r.Filename(), r.Row(), r.String("stop_id"), field))
}
