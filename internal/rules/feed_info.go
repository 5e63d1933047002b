package rules

import (
	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/parse"
	"github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
	"github.com/JonMunkholm/transitcheck/internal/table"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

var (
	FeedExpirationDate7Days = notice.Define("feed_expiration_date7_days", notice.Warning,
		"The feed expires within the next 7 days.",
		"filename", "csvRowNumber", "currentDate", "feedEndDate", "suggestedExpirationDate")
	FeedExpirationDate30Days = notice.Define("feed_expiration_date30_days", notice.Warning,
		"The feed expires within the next 30 days.",
		"filename", "csvRowNumber", "currentDate", "feedEndDate", "suggestedExpirationDate")
)

func init() {
	validator.Register(validator.Unit{
		Name:        "feed_expiration_date",
		Description: "feed_info.feed_end_date is at least 30 days after the validation date.",
		Table:       gtfs.FeedInfoFile,
		NewFeed: func(d *validator.Deps) validator.FeedValidator {
			return &feedExpirationDate{
				feedInfo: d.Table(gtfs.FeedInfoFile),
				today:    d.Context().Today(),
			}
		},
	})
}

type feedExpirationDate struct {
	feedInfo *table.Container
	today    parse.Date
}

func (v *feedExpirationDate) Validate(sink notice.Sink) {
	for _, r := range v.feedInfo.Records() {
		end, ok := r.Date("feed_end_date")
		if !ok {
			continue
		}
		week, month := v.today.AddDays(7), v.today.AddDays(30)
		switch {
		case end.Compare(week) <= 0:
			sink.Add(FeedExpirationDate7Days.New(r.Filename(), r.Row(), v.today.String(), end.String(), week.String()))
		case end.Compare(month) <= 0:
			sink.Add(FeedExpirationDate30Days.New(r.Filename(), r.Row(), v.today.String(), end.String(), month.String()))
		}
	}
}
