// Package schema describes the tables of a feed: the columns each file may
// contain, their types and presence requirements, primary keys, indexed
// fields and foreign-key relations.
//
// Schemas are static descriptors. Domain packages register them at init time
// (see schema/gtfs) and the loader and validators only ever read them.
package schema

import "fmt"

// FieldType is the declared type of a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldID
	FieldInteger
	FieldFloat
	FieldDecimal
	FieldDate
	FieldTime
	FieldColor
	FieldCurrency
	FieldEnum
	FieldLatitude
	FieldLongitude
	FieldLanguage
	FieldTimezone
	FieldEmail
	FieldURL
	FieldPhone
)

var fieldTypeNames = map[FieldType]string{
	FieldText:      "text",
	FieldID:        "id",
	FieldInteger:   "integer",
	FieldFloat:     "float",
	FieldDecimal:   "decimal",
	FieldDate:      "date",
	FieldTime:      "time",
	FieldColor:     "color",
	FieldCurrency:  "currency_code",
	FieldEnum:      "enum",
	FieldLatitude:  "latitude",
	FieldLongitude: "longitude",
	FieldLanguage:  "language_code",
	FieldTimezone:  "timezone",
	FieldEmail:     "email",
	FieldURL:       "url",
	FieldPhone:     "phone_number",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// IsNumeric reports whether values of this type are numbers subject to
// NumberBounds.
func (t FieldType) IsNumeric() bool {
	switch t {
	case FieldInteger, FieldFloat, FieldDecimal, FieldLatitude, FieldLongitude:
		return true
	}
	return false
}

// Presence says whether a file or a field must be provided.
type Presence int

const (
	Optional Presence = iota
	Required
	Recommended
	// ConditionallyRequired fields and files are required depending on other
	// data; rules enforce them, the loader does not.
	ConditionallyRequired
)

func (p Presence) String() string {
	switch p {
	case Required:
		return "required"
	case Recommended:
		return "recommended"
	case ConditionallyRequired:
		return "conditionally_required"
	default:
		return "optional"
	}
}

// NumberBounds restricts numeric values beyond their type.
type NumberBounds int

const (
	Unbounded NumberBounds = iota
	Positive
	NonNegative
	NonZero
)

func (b NumberBounds) String() string {
	switch b {
	case Positive:
		return "positive"
	case NonNegative:
		return "non_negative"
	case NonZero:
		return "non_zero"
	default:
		return "unbounded"
	}
}

// ForeignKey points a column at a column of another table.
type ForeignKey struct {
	Table string
	Field string
}

// FieldSpec defines one column.
type FieldSpec struct {
	Name       string
	Type       FieldType
	Presence   Presence
	Bounds     NumberBounds
	EnumValues []int       // Allowed values for FieldEnum
	ForeignKey *ForeignKey // Optional reference into a parent table
	Index      bool        // Build a lookup index on this column
}

// AllowsEnum reports whether v is a declared enum value.
func (f FieldSpec) AllowsEnum(v int) bool {
	for _, e := range f.EnumValues {
		if e == v {
			return true
		}
	}
	return false
}
