package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Generator hands out creation-time based transaction IDs (Unix milliseconds).
// IDs are strictly increasing: two calls in the same millisecond, or a clock
// that steps backwards, still yield distinct values.
type Generator struct {
	now  func() time.Time
	last int64
}

// NewGenerator creates a Generator backed by the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a Generator with a custom clock.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a fresh ID.
func (g *Generator) Next() int64 {
	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return n
}

// Observe records an existing ID so later calls never return it or anything below it.
func (g *Generator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

// Format renders an ID for display and CLI arguments.
func Format(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Parse parses a transaction ID given on the command line.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty transaction ID")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid transaction ID %q: must be positive", s)
	}
	return n, nil
}
