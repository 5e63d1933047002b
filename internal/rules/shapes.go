package rules

import (
	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

var DecreasingShapeDistance = notice.Define("decreasing_shape_distance", notice.Error,
	"shape_dist_traveled decreases between consecutive points of a shape.",
	"filename", "csvRowNumber", "shapeId", "shapePtSequence", "shapeDistTraveled",
	"prevCsvRowNumber", "prevShapePtSequence", "prevShapeDistTraveled")

func init() {
	validator.Register(validator.Unit{
		Name:        "shape_increasing_distance",
		Description: "shape_dist_traveled does not decrease along consecutive rows of a shape.",
		Table:       gtfs.ShapesFile,
		NewRow: func(d *validator.Deps) validator.RowValidator {
			return validator.RowFunc(validateShapeDistance)
		},
	})
}

// validateShapeDistance compares each point with the row before it. Shapes
// are expected to be listed point by point in sequence order.
func validateShapeDistance(row validator.Row, sink notice.Sink) {
	if !row.HasPrevious {
		return
	}
	cur, prev := row.Current, row.Previous
	shapeID := cur.String("shape_id")
	if shapeID == "" || shapeID != prev.String("shape_id") {
		return
	}
	dist, ok := cur.Float("shape_dist_traveled")
	if !ok {
		return
	}
	prevDist, ok := prev.Float("shape_dist_traveled")
	if !ok || dist >= prevDist {
		return
	}
	sink.Add(DecreasingShapeDistance.New(
		cur.Filename(), cur.Row(), shapeID, cur.IntOr("shape_pt_sequence", 0), dist,
		prev.Row(), prev.IntOr("shape_pt_sequence", 0), prevDist,
	))
}
