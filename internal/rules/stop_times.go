package rules

import (
	"sort"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
	"github.com/JonMunkholm/transitcheck/internal/table"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

var (
	StopTimeWithOnlyArrivalOrDepartureTime = notice.Define("stop_time_with_only_arrival_or_departure_time", notice.Error,
		"A stop time has an arrival time or a departure time but not both.",
		"filename", "csvRowNumber", "tripId", "stopSequence", "specifiedField")
	StopTimeWithArrivalBeforePreviousDepartureTime = notice.Define("stop_time_with_arrival_before_previous_departure_time", notice.Error,
		"A stop time arrives before the previous stop time of the trip departs.",
		"filename", "csvRowNumber", "prevCsvRowNumber", "tripId", "departureTime", "arrivalTime")
)

func init() {
	validator.Register(validator.Unit{
		Name:        "stop_time_arrival_and_departure",
		Description: "Arrival and departure times are given together and do not go back in time along a trip.",
		Table:       gtfs.StopTimesFile,
		NewFeed: func(d *validator.Deps) validator.FeedValidator {
			return &stopTimeArrivalAndDeparture{stopTimes: d.Table(gtfs.StopTimesFile)}
		},
	})
}

type stopTimeArrivalAndDeparture struct {
	stopTimes *table.Container
}

func (v *stopTimeArrivalAndDeparture) Validate(sink notice.Sink) {
	v.stopTimes.Index("trip_id").Groups(func(values []string, records []table.Record) {
		tripID := values[0]
		stops := records
		sort.SliceStable(stops, func(i, j int) bool {
			return stops[i].IntOr("stop_sequence", 0) < stops[j].IntOr("stop_sequence", 0)
		})

		var prevDeparture table.Record
		hasPrev := false
		for _, st := range stops {
			arrival, hasArrival := st.Time("arrival_time")
			_, hasDeparture := st.Time("departure_time")

			if hasArrival != hasDeparture {
				specified := "departure_time"
				if hasArrival {
					specified = "arrival_time"
				}
				sink.Add(StopTimeWithOnlyArrivalOrDepartureTime.New(
					st.Filename(), st.Row(), tripID, st.IntOr("stop_sequence", 0), specified))
			}
			if hasArrival && hasPrev {
				departure, _ := prevDeparture.Time("departure_time")
				if arrival < departure {
					sink.Add(StopTimeWithArrivalBeforePreviousDepartureTime.New(
						st.Filename(), st.Row(), prevDeparture.Row(), tripID,
						departure.String(), arrival.String()))
				}
			}
			if hasDeparture {
				prevDeparture, hasPrev = st, true
			}
		}
	})
}
