// Package importer reads transaction CSVs (the ledger's own export format
// and bank statements) into rows the ledger can validate and add, and
// writes the export format.
package importer

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Row is one imported transaction before validation. Fields keep their raw
// text so rows go through the same checks as a form submission.
type Row struct {
	Line        int // 1-based line in the source file
	Description string
	Amount      string
	Type        string
}

// Parser converts a CSV file into Rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&NativeParser{})
	r.Register(&ChaseParser{})
	return r
}

// ParseFile opens path and parses it with the named format.
func (r *Registry) ParseFile(format, path string) ([]Row, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", path, p.Format(), err)
	}
	return rows, nil
}
