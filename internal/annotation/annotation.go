package annotation

import (
	"fmt"
	"io"
	"sort"

	"AlignmentScorer/internal/domain"
)

// Record is one parsed annotation row: an identifier and the terms it carries.
type Record struct {
	Line  int
	ID    domain.AnnotationID
	Terms []domain.Term
}

// Request carries everything a parser needs besides the bytes.
type Request struct {
	Path    string
	Options map[string]string
}

// Option returns the named option or fallback when unset.
func (r Request) Option(name, fallback string) string {
	if v, ok := r.Options[name]; ok && v != "" {
		return v
	}
	return fallback
}

// Parser captures a single annotation file format (GAF, plain table, etc.).
type Parser interface {
	Name() string
	Parse(req Request, r io.Reader) ([]Record, error)
}

// Registry keeps a mapping from format names to their parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: map[string]Parser{}}
}

// Register adds or replaces a parser implementation.
func (r *Registry) Register(parser Parser) {
	if r.parsers == nil {
		r.parsers = map[string]Parser{}
	}
	r.parsers[parser.Name()] = parser
}

// Resolve returns a parser by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Parser, error) {
	if parser, ok := r.parsers[name]; ok {
		return parser, nil
	}
	return nil, &domain.InputError{
		Kind: domain.InputUnknownFormat,
		Err:  fmt.Errorf("%w: %q (known: %v)", domain.ErrUnknownFormat, name, r.Names()),
	}
}

// Names lists registered formats in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builder merges records from any number of files into one table. Repeated
// identifiers accumulate their terms.
type Builder struct {
	entries map[domain.AnnotationID]domain.TermSet
	rows    int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{entries: map[domain.AnnotationID]domain.TermSet{}}
}

// Add merges records into the table under construction.
func (b *Builder) Add(records []Record) {
	for _, rec := range records {
		b.rows++
		set, ok := b.entries[rec.ID]
		if !ok {
			set = domain.TermSet{}
			b.entries[rec.ID] = set
		}
		for _, t := range rec.Terms {
			set[t] = struct{}{}
		}
	}
}

// Rows reports how many records were merged.
func (b *Builder) Rows() int {
	return b.rows
}

// Table freezes the accumulated entries.
func (b *Builder) Table() domain.AnnotationTable {
	return domain.NewAnnotationTable(b.entries)
}
