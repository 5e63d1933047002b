// Package notice defines the diagnostics produced while loading and
// validating a feed.
//
// A Notice is an immutable value: a stable snake_case code, a severity and an
// ordered list of named fields. Every variant is declared once as a Kind so
// that its code, default severity and field names are known up front and can
// be exported for documentation. Producers write notices into a Sink; the
// Container implementation is safe for concurrent use and preserves insertion
// order.
package notice

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Field is one named value carried by a notice. Values are scalars:
// strings, integers, floats or booleans.
type Field struct {
	Name  string
	Value any
}

// Notice is a single diagnostic.
type Notice struct {
	Code     string
	Severity Severity
	Fields   []Field
}

// Get returns the value of the named field.
func (n Notice) Get(name string) (any, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Equal reports whether two notices have the same code, severity and fields
// in the same order.
func (n Notice) Equal(o Notice) bool {
	if n.Code != o.Code || n.Severity != o.Severity || len(n.Fields) != len(o.Fields) {
		return false
	}
	for i := range n.Fields {
		if n.Fields[i].Name != o.Fields[i].Name || n.Fields[i].Value != o.Fields[i].Value {
			return false
		}
	}
	return true
}

// String renders the notice for logs, e.g. duplicate_key[ERROR]{filename=stops.txt}.
func (n Notice) String() string {
	var b strings.Builder
	b.WriteString(n.Code)
	b.WriteByte('[')
	b.WriteString(n.Severity.String())
	b.WriteString("]{")
	for i, f := range n.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", f.Name, f.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON writes the notice as {"code":..,"severity":..,"fields":{..}}
// keeping the declared field order.
func (n Notice) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"code":`)
	if err := writeJSON(&buf, n.Code); err != nil {
		return nil, err
	}
	buf.WriteString(`,"severity":`)
	if err := writeJSON(&buf, n.Severity.String()); err != nil {
		return nil, err
	}
	buf.WriteString(`,"fields":{`)
	for i, f := range n.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, f.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, f.Value); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
