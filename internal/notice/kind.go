package notice

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind declares a notice variant: its code, default severity and the names
// of the fields every instance carries, in order.
type Kind struct {
	Code        string
	Severity    Severity
	Description string
	Fields      []string
}

var (
	catalog   = make(map[string]*Kind)
	catalogMu sync.RWMutex
)

// noFilename lists codes that describe a failure of the engine rather than of
// a particular file and therefore carry no filename field.
var noFilename = map[string]bool{
	"runtime_exception_in_validator_error": true,
	"thread_execution_error":               true,
}

// Define declares a notice variant and adds it to the process catalog.
// Panics if the code is already defined or if the variant has no filename
// field and is not on the allow-list. Call it from package-level var blocks.
func Define(code string, severity Severity, description string, fields ...string) *Kind {
	if code == "" {
		panic("notice: empty code")
	}
	if !noFilename[code] && !hasFilenameField(fields) {
		panic(fmt.Sprintf("notice: %s has no filename field", code))
	}

	catalogMu.Lock()
	defer catalogMu.Unlock()

	if _, exists := catalog[code]; exists {
		panic(fmt.Sprintf("notice already defined: %s", code))
	}

	k := &Kind{
		Code:        code,
		Severity:    severity,
		Description: description,
		Fields:      append([]string(nil), fields...),
	}
	catalog[code] = k
	return k
}

func hasFilenameField(fields []string) bool {
	for _, f := range fields {
		if strings.HasSuffix(strings.ToLower(f), "filename") {
			return true
		}
	}
	return false
}

// New builds an instance with the default severity. Values are matched to
// the declared fields by position; a count mismatch is a programming error
// and panics.
func (k *Kind) New(values ...any) Notice {
	return k.NewWithSeverity(k.Severity, values...)
}

// NewWithSeverity builds an instance with an explicit severity, for variants
// whose grade depends on the data.
func (k *Kind) NewWithSeverity(severity Severity, values ...any) Notice {
	if len(values) != len(k.Fields) {
		panic(fmt.Sprintf("notice %s: got %d values, want %d %v",
			k.Code, len(values), len(k.Fields), k.Fields))
	}
	fields := make([]Field, len(values))
	for i, v := range values {
		fields[i] = Field{Name: k.Fields[i], Value: v}
	}
	return Notice{Code: k.Code, Severity: severity, Fields: fields}
}

// Lookup returns the variant registered under code.
func Lookup(code string) (*Kind, bool) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	k, ok := catalog[code]
	return k, ok
}

// Catalog returns every declared variant sorted by code.
func Catalog() []Kind {
	catalogMu.RLock()
	defer catalogMu.RUnlock()

	result := make([]Kind, 0, len(catalog))
	for _, k := range catalog {
		result = append(result, *k)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result
}
