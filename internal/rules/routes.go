package rules

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
	"github.com/JonMunkholm/transitcheck/internal/table"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

// MinRouteColorLumaDifference is the smallest luma difference between
// route_color and route_text_color considered readable.
const MinRouteColorLumaDifference = 70

var (
	RouteColorContrast = notice.Define("route_color_contrast", notice.Warning,
		"route_color and route_text_color do not contrast enough.",
		"filename", "csvRowNumber", "routeId", "routeColor", "routeTextColor")
	DuplicateRouteName = notice.Define("duplicate_route_name", notice.Warning,
		"Two routes of the same agency and type share both names.",
		"filename", "csvRowNumber1", "routeId1", "csvRowNumber2", "routeId2",
		"routeShortName", "routeLongName", "routeType", "agencyId")
)

func init() {
	validator.Register(validator.Unit{
		Name:        "route_color_contrast",
		Description: "Route text is readable on the route color.",
		Table:       gtfs.RoutesFile,
		NewRow: func(d *validator.Deps) validator.RowValidator {
			return validator.RowFunc(validateRouteColorContrast)
		},
	})
	validator.Register(validator.Unit{
		Name:        "duplicate_route_name",
		Description: "Routes of one agency and type have distinct name pairs.",
		Table:       gtfs.RoutesFile,
		NewFeed: func(d *validator.Deps) validator.FeedValidator {
			return &duplicateRouteName{routes: d.Table(gtfs.RoutesFile)}
		},
	})
}

func validateRouteColorContrast(row validator.Row, sink notice.Sink) {
	r := row.Current
	color, ok := r.Color("route_color")
	if !ok {
		return
	}
	text, ok := r.Color("route_text_color")
	if !ok {
		return
	}
	diff := color.Luma() - text.Luma()
	if diff < 0 {
		diff = -diff
	}
	if diff < MinRouteColorLumaDifference {
		sink.Add(RouteColorContrast.New(r.Filename(), r.Row(), r.String("route_id"), color.String(), text.String()))
	}
}

type duplicateRouteName struct {
	routes *table.Container
}

func (v *duplicateRouteName) Validate(sink notice.Sink) {
	first := make(map[string]table.Record, v.routes.Len())
	for _, r := range v.routes.Records() {
		routeType, ok := r.Int("route_type")
		if !ok {
			continue
		}
		key := strings.Join([]string{
			r.String("route_long_name"),
			r.String("route_short_name"),
			strconv.Itoa(routeType),
			r.String("agency_id"),
		}, "\x00")

		prev, seen := first[key]
		if !seen {
			first[key] = r
			continue
		}
		sink.Add(DuplicateRouteName.New(
			r.Filename(),
			prev.Row(), prev.String("route_id"),
			r.Row(), r.String("route_id"),
			prev.String("route_short_name"), prev.String("route_long_name"),
			routeType, prev.String("agency_id"),
		))
	}
}
