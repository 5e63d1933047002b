package gtfs

import (
	s "github.com/JonMunkholm/transitcheck/internal/schema"
)

func init() {
	registerCalendar()
	registerCalendarDates()
	registerFrequencies()
	registerFeedInfo()
}

func registerCalendar() {
	day := func(name string) s.FieldSpec {
		return s.FieldSpec{Name: name, Type: s.FieldEnum, Presence: s.Required, EnumValues: zeroOne}
	}
	s.Register(s.TableSchema{
		Filename: CalendarFile,
		Presence: s.ConditionallyRequired,
		Fields: []s.FieldSpec{
			{Name: "service_id", Type: s.FieldID, Presence: s.Required},
			day("monday"),
			day("tuesday"),
			day("wednesday"),
			day("thursday"),
			day("friday"),
			day("saturday"),
			day("sunday"),
			{Name: "start_date", Type: s.FieldDate, Presence: s.Required},
			{Name: "end_date", Type: s.FieldDate, Presence: s.Required},
		},
		PrimaryKey: []string{"service_id"},
	})
}

func registerCalendarDates() {
	s.Register(s.TableSchema{
		Filename: CalendarDatesFile,
		Presence: s.ConditionallyRequired,
		Fields: []s.FieldSpec{
			{Name: "service_id", Type: s.FieldID, Presence: s.Required, Index: true},
			{Name: "date", Type: s.FieldDate, Presence: s.Required},
			{Name: "exception_type", Type: s.FieldEnum, Presence: s.Required, EnumValues: []int{1, 2}},
		},
		PrimaryKey: []string{"service_id", "date"},
	})
}

func registerFrequencies() {
	s.Register(s.TableSchema{
		Filename: FrequenciesFile,
		Fields: []s.FieldSpec{
			{Name: "trip_id", Type: s.FieldID, Presence: s.Required,
				ForeignKey: fk(TripsFile, "trip_id"), Index: true},
			{Name: "start_time", Type: s.FieldTime, Presence: s.Required},
			{Name: "end_time", Type: s.FieldTime, Presence: s.Required},
			{Name: "headway_secs", Type: s.FieldInteger, Presence: s.Required, Bounds: s.Positive},
			{Name: "exact_times", Type: s.FieldEnum, EnumValues: zeroOne},
		},
		PrimaryKey: []string{"trip_id", "start_time"},
	})
}

func registerFeedInfo() {
	s.Register(s.TableSchema{
		Filename: FeedInfoFile,
		Presence: s.Recommended,
		Fields: []s.FieldSpec{
			{Name: "feed_publisher_name", Type: s.FieldText, Presence: s.Required},
			{Name: "feed_publisher_url", Type: s.FieldURL, Presence: s.Required},
			{Name: "feed_lang", Type: s.FieldLanguage, Presence: s.Required},
			{Name: "default_lang", Type: s.FieldLanguage},
			{Name: "feed_start_date", Type: s.FieldDate, Presence: s.Recommended},
			{Name: "feed_end_date", Type: s.FieldDate, Presence: s.Recommended},
			{Name: "feed_version", Type: s.FieldText, Presence: s.Recommended},
			{Name: "feed_contact_email", Type: s.FieldEmail},
			{Name: "feed_contact_url", Type: s.FieldURL},
		},
	})
}
