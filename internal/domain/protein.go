package domain

import "sort"

// AlignmentID is a protein identifier as written in the alignment file.
type AlignmentID string

// AnnotationID is a protein identifier in the namespace of a GO annotation table.
// It is deliberately a different type from AlignmentID: the only way from one
// to the other is a MappingTable lookup.
type AnnotationID string

// Term is an opaque GO term code such as "GO:0005737".
type Term string

// TermSet is an unordered set of GO terms.
type TermSet map[Term]struct{}

// NewTermSet builds a set from the given terms, dropping duplicates.
func NewTermSet(terms ...Term) TermSet {
	set := make(TermSet, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// Len reports the number of distinct terms.
func (s TermSet) Len() int {
	return len(s)
}

// Contains reports whether t is a member.
func (s TermSet) Contains(t Term) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the members in lexical order.
func (s TermSet) Sorted() []Term {
	out := make([]Term, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AlignmentPair is one row of the alignment. Identity is positional: two rows
// naming the same proteins are still two pairs.
type AlignmentPair struct {
	Index    int
	Species1 AlignmentID
	Species2 AlignmentID
}

// Species selects one side of the alignment.
type Species int

const (
	Species1 Species = iota + 1
	Species2
)

func (s Species) String() string {
	switch s {
	case Species1:
		return "species1"
	case Species2:
		return "species2"
	default:
		return "unknown"
	}
}
