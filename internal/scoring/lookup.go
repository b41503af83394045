package scoring

import "AlignmentScorer/internal/domain"

// Resolve maps an alignment identifier into the annotation namespace of one
// species. Comparison is exact: identifiers that differ only by case or
// version suffix do not match, and a miss is reported, not corrected.
func Resolve(m domain.MappingTable, id domain.AlignmentID) (domain.AnnotationID, bool) {
	return m.Get(id)
}

// Lookup returns the GO terms of id. An unknown id yields an empty set, the
// same as a protein annotated with nothing.
func Lookup(t domain.AnnotationTable, id domain.AnnotationID) domain.TermSet {
	if terms := t.Get(id); terms != nil {
		return terms
	}
	return domain.TermSet{}
}
