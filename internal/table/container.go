package table

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

// Status is the load outcome of a table.
type Status int

const (
	// Parsed means the file was read; it may still have zero records.
	Parsed Status = iota
	// EmptyFile means the file exists but has no header or no data rows.
	EmptyFile
	// MissingFile means the file is absent from the feed or could not be read.
	MissingFile
)

func (s Status) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case EmptyFile:
		return "empty_file"
	case MissingFile:
		return "missing_file"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// keySep joins composite key values.
const keySep = "\x1f"

// Container holds the records of one table and lookup indexes over them.
// It is immutable after construction and safe for concurrent readers; indexes
// are built on first use.
type Container struct {
	schema  *schema.TableSchema
	status  Status
	header  []string
	records []Record
	pk      map[string]int

	mu      sync.Mutex
	indexes map[string]*Index
}

// ForEntities builds a Parsed container. header lists the columns present in
// the file; nil means every schema column. Rows sharing a primary key are
// reported as duplicate_key and only the first one is reachable through
// ByPrimaryKey.
func ForEntities(ts *schema.TableSchema, header []string, records []Record, sink notice.Sink) *Container {
	c := &Container{
		schema:  ts,
		status:  Parsed,
		header:  header,
		records: records,
		indexes: make(map[string]*Index),
	}
	if sink == nil {
		sink = notice.NewContainer()
	}
	if len(ts.PrimaryKey) > 0 {
		c.pk = make(map[string]int, len(records))
		for i, r := range records {
			key, ok := compositeKey(r, ts.PrimaryKey)
			if !ok {
				continue
			}
			if first, exists := c.pk[key]; exists {
				sink.Add(notice.DuplicateKey.New(ts.Filename, r.Row(), records[first].Row(),
					strings.Join(ts.PrimaryKey, ","), strings.ReplaceAll(key, keySep, ",")))
				continue
			}
			c.pk[key] = i
		}
	}
	return c
}

// ForStatus builds a container with no records, for files that are missing or
// empty.
func ForStatus(ts *schema.TableSchema, status Status) *Container {
	return &Container{
		schema:  ts,
		status:  status,
		header:  []string{},
		indexes: make(map[string]*Index),
	}
}

// Schema returns the table schema.
func (c *Container) Schema() *schema.TableSchema { return c.schema }

// Filename returns the file name of the table.
func (c *Container) Filename() string { return c.schema.Filename }

// Status returns the load outcome.
func (c *Container) Status() Status { return c.status }

// Len returns the number of records.
func (c *Container) Len() int { return len(c.records) }

// Records returns a copy of the records in file order.
func (c *Container) Records() []Record { return slices.Clone(c.records) }

// HasColumn reports whether the column was present in the file header.
func (c *Container) HasColumn(name string) bool {
	if c.header == nil {
		return c.schema.FieldIndex(name) >= 0
	}
	for _, h := range c.header {
		if h == name {
			return true
		}
	}
	return false
}

// ByPrimaryKey returns the first record with the given key values.
func (c *Container) ByPrimaryKey(values ...string) (Record, bool) {
	if c.pk == nil {
		return Record{}, false
	}
	i, ok := c.pk[strings.Join(values, keySep)]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Lookup returns the records whose field equals key, in file order. Unknown
// keys yield an empty slice.
func (c *Container) Lookup(field, key string) []Record {
	return c.Index(field).Get(key)
}

// Index returns the index over the given fields, building it on first use.
func (c *Container) Index(fields ...string) *Index {
	name := strings.Join(fields, keySep)

	c.mu.Lock()
	idx, ok := c.indexes[name]
	if !ok {
		idx = &Index{fields: fields, source: c}
		c.indexes[name] = idx
	}
	c.mu.Unlock()

	idx.once.Do(idx.build)
	return idx
}

// Index groups records by the values of one or more fields. Records with any
// of those fields absent are not indexed.
type Index struct {
	fields []string
	source *Container
	once   sync.Once

	byKey map[string][]Record
	keys  []string
}

func (idx *Index) build() {
	idx.byKey = make(map[string][]Record)
	for _, r := range idx.source.records {
		key, ok := compositeKey(r, idx.fields)
		if !ok {
			continue
		}
		if _, seen := idx.byKey[key]; !seen {
			idx.keys = append(idx.keys, key)
		}
		idx.byKey[key] = append(idx.byKey[key], r)
	}
	idx.source = nil
}

// Get returns a copy of the records matching the given values, in file
// order.
func (idx *Index) Get(values ...string) []Record {
	if rs, ok := idx.byKey[strings.Join(values, keySep)]; ok {
		return slices.Clone(rs)
	}
	return []Record{}
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int { return len(idx.keys) }

// Groups calls fn for each distinct key in order of first appearance.
func (idx *Index) Groups(fn func(values []string, records []Record)) {
	for _, k := range idx.keys {
		fn(strings.Split(k, keySep), slices.Clone(idx.byKey[k]))
	}
}

func compositeKey(r Record, fields []string) (string, bool) {
	if len(fields) == 1 {
		return r.Key(fields[0])
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		v, ok := r.Key(f)
		if !ok {
			return "", false
		}
		parts[i] = v
	}
	return strings.Join(parts, keySep), true
}
