package rules

import (
	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

var MissingCalendarAndCalendarDateFiles = notice.Define("missing_calendar_and_calendar_date_files", notice.Error,
	"Neither calendar.txt nor calendar_dates.txt is present.",
	"filename", "otherFilename")

func init() {
	validator.Register(validator.Unit{
		Name:        "missing_calendar_and_calendar_date_files",
		Description: "At least one of calendar.txt and calendar_dates.txt is present.",
		NewFeed: func(d *validator.Deps) validator.FeedValidator {
			feed := d.Feed()
			return validator.FeedFunc(func(sink notice.Sink) {
				if !feed.Present(gtfs.CalendarFile) && !feed.Present(gtfs.CalendarDatesFile) {
					sink.Add(MissingCalendarAndCalendarDateFiles.New(gtfs.CalendarFile, gtfs.CalendarDatesFile))
				}
			})
		},
	})
}
