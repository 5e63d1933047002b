package gtfs

import (
	s "github.com/JonMunkholm/transitcheck/internal/schema"
)

func init() {
	registerAgency()
	registerStops()
	registerRoutes()
	registerTrips()
	registerStopTimes()
}

func registerAgency() {
	s.Register(s.TableSchema{
		Filename: AgencyFile,
		Presence: s.Required,
		Fields: []s.FieldSpec{
			{Name: "agency_id", Type: s.FieldID, Presence: s.ConditionallyRequired},
			{Name: "agency_name", Type: s.FieldText, Presence: s.Required},
			{Name: "agency_url", Type: s.FieldURL, Presence: s.Required},
			{Name: "agency_timezone", Type: s.FieldTimezone, Presence: s.Required},
			{Name: "agency_lang", Type: s.FieldLanguage},
			{Name: "agency_phone", Type: s.FieldPhone},
			{Name: "agency_fare_url", Type: s.FieldURL},
			{Name: "agency_email", Type: s.FieldEmail},
		},
		PrimaryKey: []string{"agency_id"},
	})
}

func registerStops() {
	s.Register(s.TableSchema{
		Filename: StopsFile,
		Presence: s.Required,
		Fields: []s.FieldSpec{
			{Name: "stop_id", Type: s.FieldID, Presence: s.Required},
			{Name: "stop_code", Type: s.FieldText},
			{Name: "stop_name", Type: s.FieldText, Presence: s.ConditionallyRequired},
			{Name: "tts_stop_name", Type: s.FieldText},
			{Name: "stop_desc", Type: s.FieldText},
			{Name: "stop_lat", Type: s.FieldLatitude, Presence: s.ConditionallyRequired},
			{Name: "stop_lon", Type: s.FieldLongitude, Presence: s.ConditionallyRequired},
			{Name: "zone_id", Type: s.FieldID},
			{Name: "stop_url", Type: s.FieldURL},
			{Name: "location_type", Type: s.FieldEnum, EnumValues: []int{
				LocationStop, LocationStation, LocationEntrance, LocationGenericNode, LocationBoardingArea,
			}},
			{Name: "parent_station", Type: s.FieldID, Presence: s.ConditionallyRequired,
				ForeignKey: fk(StopsFile, "stop_id"), Index: true},
			{Name: "stop_timezone", Type: s.FieldTimezone},
			{Name: "wheelchair_boarding", Type: s.FieldEnum, EnumValues: zeroToTwo},
			{Name: "level_id", Type: s.FieldID, ForeignKey: fk(LevelsFile, "level_id")},
			{Name: "platform_code", Type: s.FieldText},
		},
		PrimaryKey: []string{"stop_id"},
	})
}

func registerRoutes() {
	s.Register(s.TableSchema{
		Filename: RoutesFile,
		Presence: s.Required,
		Fields: []s.FieldSpec{
			{Name: "route_id", Type: s.FieldID, Presence: s.Required},
			{Name: "agency_id", Type: s.FieldID, Presence: s.ConditionallyRequired,
				ForeignKey: fk(AgencyFile, "agency_id")},
			{Name: "route_short_name", Type: s.FieldText, Presence: s.ConditionallyRequired},
			{Name: "route_long_name", Type: s.FieldText, Presence: s.ConditionallyRequired},
			{Name: "route_desc", Type: s.FieldText},
			{Name: "route_type", Type: s.FieldEnum, Presence: s.Required,
				EnumValues: []int{0, 1, 2, 3, 4, 5, 6, 7, 11, 12}},
			{Name: "route_url", Type: s.FieldURL},
			{Name: "route_color", Type: s.FieldColor},
			{Name: "route_text_color", Type: s.FieldColor},
			{Name: "route_sort_order", Type: s.FieldInteger, Bounds: s.NonNegative},
			{Name: "continuous_pickup", Type: s.FieldEnum, EnumValues: zeroToThree},
			{Name: "continuous_drop_off", Type: s.FieldEnum, EnumValues: zeroToThree},
			{Name: "network_id", Type: s.FieldID},
		},
		PrimaryKey: []string{"route_id"},
	})
}

func registerTrips() {
	s.Register(s.TableSchema{
		Filename: TripsFile,
		Presence: s.Required,
		Fields: []s.FieldSpec{
			{Name: "route_id", Type: s.FieldID, Presence: s.Required,
				ForeignKey: fk(RoutesFile, "route_id"), Index: true},
			{Name: "service_id", Type: s.FieldID, Presence: s.Required, Index: true},
			{Name: "trip_id", Type: s.FieldID, Presence: s.Required},
			{Name: "trip_headsign", Type: s.FieldText},
			{Name: "trip_short_name", Type: s.FieldText},
			{Name: "direction_id", Type: s.FieldEnum, EnumValues: zeroOne},
			{Name: "block_id", Type: s.FieldID, Index: true},
			{Name: "shape_id", Type: s.FieldID, ForeignKey: fk(ShapesFile, "shape_id")},
			{Name: "wheelchair_accessible", Type: s.FieldEnum, EnumValues: zeroToTwo},
			{Name: "bikes_allowed", Type: s.FieldEnum, EnumValues: zeroToTwo},
		},
		PrimaryKey: []string{"trip_id"},
	})
}

func registerStopTimes() {
	s.Register(s.TableSchema{
		Filename: StopTimesFile,
		Presence: s.Required,
		Fields: []s.FieldSpec{
			{Name: "trip_id", Type: s.FieldID, Presence: s.Required,
				ForeignKey: fk(TripsFile, "trip_id"), Index: true},
			{Name: "arrival_time", Type: s.FieldTime, Presence: s.ConditionallyRequired},
			{Name: "departure_time", Type: s.FieldTime, Presence: s.ConditionallyRequired},
			{Name: "stop_id", Type: s.FieldID, Presence: s.Required,
				ForeignKey: fk(StopsFile, "stop_id")},
			{Name: "stop_sequence", Type: s.FieldInteger, Presence: s.Required, Bounds: s.NonNegative},
			{Name: "stop_headsign", Type: s.FieldText},
			{Name: "pickup_type", Type: s.FieldEnum, EnumValues: zeroToThree},
			{Name: "drop_off_type", Type: s.FieldEnum, EnumValues: zeroToThree},
			{Name: "continuous_pickup", Type: s.FieldEnum, EnumValues: zeroToThree},
			{Name: "continuous_drop_off", Type: s.FieldEnum, EnumValues: zeroToThree},
			{Name: "shape_dist_traveled", Type: s.FieldFloat, Bounds: s.NonNegative},
			{Name: "timepoint", Type: s.FieldEnum, EnumValues: zeroOne},
		},
		PrimaryKey: []string{"trip_id", "stop_sequence"},
	})
}
