// Package gtfs registers the GTFS Schedule tables with the schema registry.
// Import this package for its side effects to make the tables available.
package gtfs

import "github.com/JonMunkholm/transitcheck/internal/schema"

// Filenames of the registered tables.
const (
	AgencyFile         = "agency.txt"
	StopsFile          = "stops.txt"
	RoutesFile         = "routes.txt"
	TripsFile          = "trips.txt"
	StopTimesFile      = "stop_times.txt"
	CalendarFile       = "calendar.txt"
	CalendarDatesFile  = "calendar_dates.txt"
	FareAttributesFile = "fare_attributes.txt"
	FareRulesFile      = "fare_rules.txt"
	ShapesFile         = "shapes.txt"
	FrequenciesFile    = "frequencies.txt"
	TransfersFile      = "transfers.txt"
	FeedInfoFile       = "feed_info.txt"
	LevelsFile         = "levels.txt"
	PathwaysFile       = "pathways.txt"
	TranslationsFile   = "translations.txt"
	AttributionsFile   = "attributions.txt"
)

// Location types of stops.txt.
const (
	LocationStop         = 0
	LocationStation      = 1
	LocationEntrance     = 2
	LocationGenericNode  = 3
	LocationBoardingArea = 4
)

func fk(table, field string) *schema.ForeignKey {
	return &schema.ForeignKey{Table: table, Field: field}
}

var (
	zeroOne     = []int{0, 1}
	zeroToTwo   = []int{0, 1, 2}
	zeroToThree = []int{0, 1, 2, 3}
)
