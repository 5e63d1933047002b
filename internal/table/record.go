package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/transitcheck/internal/parse"
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

// Record is one parsed row. Fields that were empty or malformed are absent.
// Records are immutable.
type Record struct {
	table  *schema.TableSchema
	row    int
	values []any
}

// NewRecord builds a record from typed values keyed by field name. Values must
// have the types produced by parse.Parser. Unknown names panic.
func NewRecord(ts *schema.TableSchema, row int, values map[string]any) Record {
	r := Record{table: ts, row: row, values: make([]any, len(ts.Fields))}
	for name, v := range values {
		i := ts.FieldIndex(name)
		if i < 0 {
			panic(fmt.Sprintf("table: %s has no field %s", ts.Filename, name))
		}
		r.values[i] = v
	}
	return r
}

// Row returns the 1-based line number of the row in its file.
func (r Record) Row() int { return r.row }

// Filename returns the name of the file the row came from.
func (r Record) Filename() string { return r.table.Filename }

// Has reports whether the field has a value.
func (r Record) Has(field string) bool {
	return r.Value(field) != nil
}

// Value returns the typed value of the field, or nil when absent.
func (r Record) Value(field string) any {
	if r.table == nil {
		return nil
	}
	i := r.table.FieldIndex(field)
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// String returns the value of a text-like field, or "" when absent.
func (r Record) String(field string) string {
	s, _ := r.Value(field).(string)
	return s
}

// Int returns the value of an integer or enum field.
func (r Record) Int(field string) (int, bool) {
	v, ok := r.Value(field).(int)
	return v, ok
}

// IntOr returns the integer value of the field or def when absent.
func (r Record) IntOr(field string, def int) int {
	if v, ok := r.Int(field); ok {
		return v
	}
	return def
}

// Float returns the value of a float, latitude or longitude field.
func (r Record) Float(field string) (float64, bool) {
	v, ok := r.Value(field).(float64)
	return v, ok
}

// Decimal returns the value of a decimal field.
func (r Record) Decimal(field string) (decimal.Decimal, bool) {
	v, ok := r.Value(field).(decimal.Decimal)
	return v, ok
}

// Date returns the value of a date field.
func (r Record) Date(field string) (parse.Date, bool) {
	v, ok := r.Value(field).(parse.Date)
	return v, ok
}

// Time returns the value of a time field.
func (r Record) Time(field string) (parse.TimeOfDay, bool) {
	v, ok := r.Value(field).(parse.TimeOfDay)
	return v, ok
}

// Color returns the value of a color field.
func (r Record) Color(field string) (parse.Color, bool) {
	v, ok := r.Value(field).(parse.Color)
	return v, ok
}

// Timezone returns the value of a timezone field.
func (r Record) Timezone(field string) (*time.Location, bool) {
	v, ok := r.Value(field).(*time.Location)
	return v, ok
}

// Language returns the value of a language field.
func (r Record) Language(field string) (language.Tag, bool) {
	v, ok := r.Value(field).(language.Tag)
	return v, ok
}

// Key returns the value of the field in the textual form used by indexes.
func (r Record) Key(field string) (string, bool) {
	return keyOf(r.Value(field))
}

func keyOf(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}
