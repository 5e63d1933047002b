package validator

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema"
	"github.com/JonMunkholm/transitcheck/internal/table"
)

// ForeignKeyUnits returns one feed unit per foreign key declared in set, in
// schema order. Each reports child values with no matching parent row.
func ForeignKeyUnits(set *schema.Set) []Unit {
	var units []Unit
	for _, ts := range set.All() {
		for _, f := range ts.ForeignKeys() {
			child, parent := ts.Filename, *f.ForeignKey
			field := f.Name
			units = append(units, Unit{
				Name:        fmt.Sprintf("%s_%s_foreign_key", strings.TrimSuffix(child, ".txt"), field),
				Description: fmt.Sprintf("Every %s.%s references an existing %s.%s.", child, field, parent.Table, parent.Field),
				Table:       child,
				Requires:    []string{parent.Table},
				NewFeed: func(d *Deps) FeedValidator {
					return &foreignKeyValidator{
						child:       d.Table(child),
						parent:      d.Table(parent.Table),
						childField:  field,
						parentField: parent.Field,
					}
				},
			})
		}
	}
	return units
}

type foreignKeyValidator struct {
	child, parent           *table.Container
	childField, parentField string
}

func (v *foreignKeyValidator) Validate(sink notice.Sink) {
	if v.child.Len() == 0 {
		return
	}
	idx := v.parent.Index(v.parentField)
	for _, r := range v.child.Records() {
		key, ok := r.Key(v.childField)
		if !ok {
			continue
		}
		if len(idx.Get(key)) > 0 {
			continue
		}
		sink.Add(notice.ForeignKeyViolation.New(
			v.child.Filename(), v.childField,
			v.parent.Filename(), v.parentField,
			key, r.Row(),
		))
	}
}
