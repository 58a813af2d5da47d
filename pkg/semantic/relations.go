package semantic

import "strings"

// RelationKind names a typed relation between concepts.
type RelationKind string

// Well-known relation kinds for lexical graphs.
const (
	Hypernym         RelationKind = "hypernym"
	Hyponym          RelationKind = "hyponym"
	InstanceHypernym RelationKind = "instance-hypernym"
	InstanceHyponym  RelationKind = "instance-hyponym"
	PartMeronym      RelationKind = "part-meronym"
	PartHolonym      RelationKind = "part-holonym"
	MemberMeronym    RelationKind = "member-meronym"
	MemberHolonym    RelationKind = "member-holonym"
	SubstanceMeronym RelationKind = "substance-meronym"
	SubstanceHolonym RelationKind = "substance-holonym"
	Antonym          RelationKind = "antonym"
	SimilarTo        RelationKind = "similar"
	AlsoSee          RelationKind = "also"
	Entails          RelationKind = "entails"
	Causes           RelationKind = "causes"
	Domain           RelationKind = "domain"
)

// Well-known relation kinds for ontologies.
const (
	SuperClass RelationKind = "superclass"
	SubClass   RelationKind = "subclass"
	Instance   RelationKind = "instance"
	TypeOf     RelationKind = "type"
	Equivalent RelationKind = "equivalent"
	Property   RelationKind = "property"
)

// RelationInfo describes how a relation kind is displayed and walked.
type RelationInfo struct {
	Kind    RelationKind
	Label   string       // Display label for relation nodes and edges
	Inverse RelationKind // Opposite direction, empty if symmetric or unknown
	Recurse RelationKind // Kind followed from a target; the kind itself if empty
	Color   string       // Edge color
}

// NextKind returns the kind the walker follows from a target of this kind.
func (i RelationInfo) NextKind() RelationKind {
	if i.Recurse != "" {
		return i.Recurse
	}
	return i.Kind
}

var relationTable = map[RelationKind]RelationInfo{
	Hypernym:         {Hypernym, "hypernym", Hyponym, "", "#2f6db5"},
	Hyponym:          {Hyponym, "hyponym", Hypernym, "", "#3b8c3b"},
	InstanceHypernym: {InstanceHypernym, "instance of", InstanceHyponym, Hypernym, "#2f6db5"},
	InstanceHyponym:  {InstanceHyponym, "instance", InstanceHypernym, "", "#3b8c3b"},
	PartMeronym:      {PartMeronym, "has part", PartHolonym, "", "#a05a2c"},
	PartHolonym:      {PartHolonym, "part of", PartMeronym, "", "#a05a2c"},
	MemberMeronym:    {MemberMeronym, "has member", MemberHolonym, "", "#8a4fa3"},
	MemberHolonym:    {MemberHolonym, "member of", MemberMeronym, "", "#8a4fa3"},
	SubstanceMeronym: {SubstanceMeronym, "has substance", SubstanceHolonym, "", "#7a7a2a"},
	SubstanceHolonym: {SubstanceHolonym, "substance of", SubstanceMeronym, "", "#7a7a2a"},
	Antonym:          {Antonym, "antonym", Antonym, "", "#c0392b"},
	SimilarTo:        {SimilarTo, "similar to", SimilarTo, "", "#16a085"},
	AlsoSee:          {AlsoSee, "see also", AlsoSee, "", "#7f8c8d"},
	Entails:          {Entails, "entails", "", "", "#d35400"},
	Causes:           {Causes, "causes", "", "", "#d35400"},
	Domain:           {Domain, "domain", "", "", "#95a5a6"},
	SuperClass:       {SuperClass, "superclass", SubClass, "", "#2f6db5"},
	SubClass:         {SubClass, "subclass", SuperClass, "", "#3b8c3b"},
	Instance:         {Instance, "instance", TypeOf, "", "#8e44ad"},
	TypeOf:           {TypeOf, "type", Instance, SuperClass, "#8e44ad"},
	Equivalent:       {Equivalent, "equivalent", Equivalent, "", "#16a085"},
	Property:         {Property, "property", "", "", "#95a5a6"},
}

// LookupRelation returns the description of kind. Unknown kinds get a
// description that uses the kind as label and recurses into itself.
func LookupRelation(kind RelationKind) RelationInfo {
	if info, ok := relationTable[kind]; ok {
		return info
	}
	return RelationInfo{Kind: kind, Label: strings.ReplaceAll(string(kind), "-", " ")}
}

// IsKnown reports whether kind is in the relation table.
func IsKnown(kind RelationKind) bool {
	_, ok := relationTable[kind]
	return ok
}

// ParseKinds splits a comma-separated list of relation kinds.
func ParseKinds(s string) []RelationKind {
	var out []RelationKind
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, RelationKind(strings.ToLower(part)))
		}
	}
	return out
}
