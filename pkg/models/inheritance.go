package models

// DeclRecord is one class-like declaration as produced by a language
// extractor. Enclosing holds the names of the lexically enclosing
// declarations, outermost first; the builder joins them with dots to form
// the fully-qualified name.
type DeclRecord struct {
	Name      string   `json:"name"`
	Enclosing []string `json:"enclosing,omitempty"`
	Parents   []string `json:"parents,omitempty"`
	Source    string   `json:"source"`
}

// QualifiedName returns the dot-joined path through the enclosing
// declarations, e.g. "Outer.Inner".
func (d DeclRecord) QualifiedName() string {
	if len(d.Enclosing) == 0 {
		return d.Name
	}
	n := 0
	for _, e := range d.Enclosing {
		n += len(e) + 1
	}
	buf := make([]byte, 0, n+len(d.Name))
	for _, e := range d.Enclosing {
		buf = append(buf, e...)
		buf = append(buf, '.')
	}
	buf = append(buf, d.Name...)
	return string(buf)
}

// Pair is an ordered ancestor/descendant relationship: Ancestor is
// transitively inheritable-from by Descendant.
type Pair struct {
	Ancestor   string `json:"ancestor"`
	Descendant string `json:"descendant"`
}

// Group is the set of pairs whose ancestors live in AncestorUnit and whose
// descendants live in DescendantUnit. Pair order preserves enumeration order.
type Group struct {
	AncestorUnit   string `json:"ancestor_unit"`
	DescendantUnit string `json:"descendant_unit"`
	Pairs          []Pair `json:"pairs"`
}

// SameUnit reports whether both roles live in one source unit.
func (g Group) SameUnit() bool {
	return g.AncestorUnit == g.DescendantUnit
}

// ReportPlan is everything the report writer needs to render one group:
// role-labeled declaration names (all sorted lexicographically) plus the
// cached full unit texts.
type ReportPlan struct {
	AncestorUnit   string `json:"ancestor_unit"`
	DescendantUnit string `json:"descendant_unit"`
	Pairs          []Pair `json:"pairs"`

	// AncestorRoles are distinct ancestor names owned by AncestorUnit.
	AncestorRoles []string `json:"ancestor_roles"`
	// DescendantRoles are distinct descendant names; they live in
	// AncestorUnit when the group is single-unit, in DescendantUnit
	// otherwise.
	DescendantRoles []string `json:"descendant_roles"`
	// AncestorOthers are declarations co-located in AncestorUnit that take
	// no part in any pair of the group.
	AncestorOthers []string `json:"ancestor_others"`
	// DescendantOthers is the analogous set for DescendantUnit; empty when
	// the group is single-unit.
	DescendantOthers []string `json:"descendant_others,omitempty"`

	AncestorText   string `json:"-"`
	DescendantText string `json:"-"`
}

// SameUnit reports whether both roles live in one source unit.
func (p ReportPlan) SameUnit() bool {
	return p.AncestorUnit == p.DescendantUnit
}
