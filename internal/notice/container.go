package notice

import "sync"

// Sink receives notices. Producers only ever append.
type Sink interface {
	Add(n Notice)
}

// Container is an append-only, ordered notice collection. It is safe for
// concurrent use; readers always get a snapshot.
type Container struct {
	mu      sync.Mutex
	notices []Notice
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Add appends a notice.
func (c *Container) Add(n Notice) {
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()
}

// AddAll appends every notice of other, in other's order.
func (c *Container) AddAll(other *Container) {
	if other == nil || other == c {
		return
	}
	snapshot := other.Notices()
	c.mu.Lock()
	c.notices = append(c.notices, snapshot...)
	c.mu.Unlock()
}

// Notices returns a copy of the notices in insertion order.
func (c *Container) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Len returns the number of notices.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notices)
}

// HasErrors reports whether any notice has Error severity.
func (c *Container) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.notices {
		if n.Severity.IsError() {
			return true
		}
	}
	return false
}

// CountBySeverity returns how many notices have each severity.
func (c *Container) CountBySeverity() map[Severity]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[Severity]int, 3)
	for _, n := range c.notices {
		counts[n.Severity]++
	}
	return counts
}

// CountByCode returns how many notices share each code.
func (c *Container) CountByCode() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[string]int)
	for _, n := range c.notices {
		counts[n.Code]++
	}
	return counts
}

// Filter returns the notices with the given code, in insertion order.
func (c *Container) Filter(code string) []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Notice
	for _, n := range c.notices {
		if n.Code == code {
			out = append(out, n)
		}
	}
	return out
}
