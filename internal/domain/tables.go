package domain

// MappingTable translates alignment identifiers into annotation identifiers
// for one species. It is neither total nor injective and is never mutated
// after construction.
type MappingTable struct {
	entries map[AlignmentID]AnnotationID
}

// NewMappingTable copies entries into an immutable table.
func NewMappingTable(entries map[AlignmentID]AnnotationID) MappingTable {
	copied := make(map[AlignmentID]AnnotationID, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return MappingTable{entries: copied}
}

// Get returns the mapped identifier; ok is false on a miss.
func (m MappingTable) Get(id AlignmentID) (AnnotationID, bool) {
	v, ok := m.entries[id]
	return v, ok
}

// Len reports the number of mapped alignment identifiers.
func (m MappingTable) Len() int {
	return len(m.entries)
}

// AnnotationTable associates annotation identifiers with their GO terms for
// one species. Every present key maps to a non-empty set.
type AnnotationTable struct {
	entries map[AnnotationID]TermSet
}

// NewAnnotationTable copies entries into an immutable table. Keys with an
// empty term set are dropped so that presence always implies annotation.
func NewAnnotationTable(entries map[AnnotationID]TermSet) AnnotationTable {
	copied := make(map[AnnotationID]TermSet, len(entries))
	for k, terms := range entries {
		if len(terms) == 0 {
			continue
		}
		set := make(TermSet, len(terms))
		for t := range terms {
			set[t] = struct{}{}
		}
		copied[k] = set
	}
	return AnnotationTable{entries: copied}
}

// Get returns the term set for id, or nil when the id is not annotated.
// The returned set must not be modified.
func (a AnnotationTable) Get(id AnnotationID) TermSet {
	return a.entries[id]
}

// Len reports the number of annotated proteins.
func (a AnnotationTable) Len() int {
	return len(a.entries)
}

// Universe returns every distinct term used by the table.
func (a AnnotationTable) Universe() TermSet {
	all := make(TermSet)
	for _, terms := range a.entries {
		for t := range terms {
			all[t] = struct{}{}
		}
	}
	return all
}

// TotalAnnotations counts protein-term associations.
func (a AnnotationTable) TotalAnnotations() int {
	total := 0
	for _, terms := range a.entries {
		total += len(terms)
	}
	return total
}

// Inputs bundles everything one scoring run consumes.
type Inputs struct {
	Pairs       []AlignmentPair
	Mapping1    MappingTable
	Mapping2    MappingTable
	Annotation1 AnnotationTable
	Annotation2 AnnotationTable
}
