package rules

import (
	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
	"github.com/JonMunkholm/transitcheck/internal/table"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

var (
	InconsistentAgencyTimezone = notice.Define("inconsistent_agency_timezone", notice.Error,
		"Agencies of one feed use different timezones.",
		"filename", "csvRowNumber", "expected", "actual")
	InconsistentAgencyLang = notice.Define("inconsistent_agency_lang", notice.Warning,
		"Agencies of one feed use different languages.",
		"filename", "csvRowNumber", "expected", "actual")
)

func init() {
	validator.Register(validator.Unit{
		Name:        "agency_consistency",
		Description: "Feeds with several agencies identify each one and share a timezone and language.",
		Table:       gtfs.AgencyFile,
		NewFeed: func(d *validator.Deps) validator.FeedValidator {
			return &agencyConsistency{agencies: d.Table(gtfs.AgencyFile)}
		},
	})
}

type agencyConsistency struct {
	agencies *table.Container
}

func (v *agencyConsistency) Validate(sink notice.Sink) {
	records := v.agencies.Records()
	if len(records) < 2 {
		return
	}

	for _, r := range records {
		if !r.Has("agency_id") {
			sink.Add(notice.MissingRequiredField.New(r.Filename(), r.Row(), "agency_id"))
		}
	}

	var timezone string
	for _, r := range records {
		tz, ok := r.Timezone("agency_timezone")
		if !ok {
			continue
		}
		if timezone == "" {
			timezone = tz.String()
		} else if tz.String() != timezone {
			sink.Add(InconsistentAgencyTimezone.New(r.Filename(), r.Row(), timezone, tz.String()))
		}
	}

	var lang string
	for _, r := range records {
		tag, ok := r.Language("agency_lang")
		if !ok {
			continue
		}
		base, _ := tag.Base()
		if lang == "" {
			lang = base.String()
		} else if base.String() != lang {
			sink.Add(InconsistentAgencyLang.New(r.Filename(), r.Row(), lang, base.String()))
		}
	}
}
