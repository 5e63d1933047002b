package schema

import (
	"errors"
	"fmt"
)

// TableSchema describes one file of a feed.
type TableSchema struct {
	Filename   string
	Presence   Presence
	Fields     []FieldSpec
	PrimaryKey []string
}

// Field returns the column definition with the given name.
func (t *TableSchema) Field(name string) (FieldSpec, bool) {
	if i := t.FieldIndex(name); i >= 0 {
		return t.Fields[i], true
	}
	return FieldSpec{}, false
}

// FieldIndex returns the position of the column in Fields, or -1.
func (t *TableSchema) FieldIndex(name string) int {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the declared column names in declaration order.
func (t *TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// RequiredColumns returns the columns that must be present in the header.
func (t *TableSchema) RequiredColumns() []string {
	return t.columnsWith(Required)
}

// RecommendedColumns returns the columns that should be present.
func (t *TableSchema) RecommendedColumns() []string {
	return t.columnsWith(Recommended)
}

func (t *TableSchema) columnsWith(p Presence) []string {
	var names []string
	for _, f := range t.Fields {
		if f.Presence == p {
			names = append(names, f.Name)
		}
	}
	return names
}

// ForeignKeys returns the columns carrying a foreign key.
func (t *TableSchema) ForeignKeys() []FieldSpec {
	var out []FieldSpec
	for _, f := range t.Fields {
		if f.ForeignKey != nil {
			out = append(out, f)
		}
	}
	return out
}

// IndexedFields returns the columns flagged for a lookup index.
func (t *TableSchema) IndexedFields() []string {
	var names []string
	for _, f := range t.Fields {
		if f.Index {
			names = append(names, f.Name)
		}
	}
	return names
}

// IsRequired reports whether the file must be present in a feed.
func (t *TableSchema) IsRequired() bool { return t.Presence == Required }

// IsRecommended reports whether the file should be present in a feed.
func (t *TableSchema) IsRecommended() bool { return t.Presence == Recommended }

// Validate checks that the schema is self-consistent.
func (t *TableSchema) Validate() error {
	var errs []error
	if t.Filename == "" {
		errs = append(errs, errors.New("empty filename"))
	}
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "" {
			errs = append(errs, errors.New("empty field name"))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("duplicate field %s", f.Name))
		}
		seen[f.Name] = true
		if f.Type == FieldEnum && len(f.EnumValues) == 0 {
			errs = append(errs, fmt.Errorf("enum field %s has no values", f.Name))
		}
		if f.Bounds != Unbounded && !f.Type.IsNumeric() {
			errs = append(errs, fmt.Errorf("field %s has bounds but type %s", f.Name, f.Type))
		}
		if f.ForeignKey != nil && (f.ForeignKey.Table == "" || f.ForeignKey.Field == "") {
			errs = append(errs, fmt.Errorf("field %s has an incomplete foreign key", f.Name))
		}
	}
	for _, k := range t.PrimaryKey {
		if !seen[k] {
			errs = append(errs, fmt.Errorf("primary key field %s is not defined", k))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("schema %s: %w", t.Filename, errors.Join(errs...))
	}
	return nil
}
