package feature

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/semtree/pkg/errors"
)

// Flags is an immutable set of structural rewrite rules.
// The zero value selects no rewrite: every relation gets its own node, every
// member its own leaf, and recursion nests children under their parents.
type Flags uint32

const (
	// CollapseIntermediate replaces a relation or group node that ends up
	// with exactly one child by that child.
	CollapseIntermediate Flags = 1 << iota
	// ForgetRelationNode suppresses the node representing a relation and
	// attaches its targets directly under the source, moving the relation
	// label and color onto their incoming edges.
	ForgetRelationNode
	// RaiseSingleChildIfNotRoot replaces any non-root node that has exactly
	// one child by that child, keeping the replaced node's incoming edge.
	RaiseSingleChildIfNotRoot
	// MergeMembersIntoLabel folds the members of a concept into one node whose
	// label is the newline-joined member list.
	MergeMembersIntoLabel
	// RaiseRecurseAsSibling attaches the results of a same-kind recursion as
	// siblings of the current node rather than as its children.
	RaiseRecurseAsSibling
)

// None is the empty flag set.
const None Flags = 0

// all is the union of every defined flag.
const all = CollapseIntermediate | ForgetRelationNode | RaiseSingleChildIfNotRoot |
	MergeMembersIntoLabel | RaiseRecurseAsSibling

// Rule describes one flag of the rule table.
type Rule struct {
	Flag        Flags
	Name        string
	Description string
}

var rules = []Rule{
	{CollapseIntermediate, "collapse-intermediate", "omit an intermediate relation or group node that has a single child"},
	{ForgetRelationNode, "forget-relation-node", "attach relation targets directly under the source node"},
	{RaiseSingleChildIfNotRoot, "raise-single-child-if-not-root", "replace a non-root node that has a single child by that child"},
	{MergeMembersIntoLabel, "merge-members-into-label", "fold concept members into one newline-joined label"},
	{RaiseRecurseAsSibling, "raise-recurse-as-sibling", "attach same-kind recursion results as siblings"},
}

// Rules returns the rule table in bit order.
// The returned slice is a copy and may be modified by the caller.
func Rules() []Rule { return slices.Clone(rules) }

// Has reports whether every flag in other is set in f.
func (f Flags) Has(other Flags) bool { return f&other == other && other != 0 }

// With returns f with the flags in other set.
func (f Flags) With(other Flags) Flags { return f | other }

// Without returns f with the flags in other cleared.
func (f Flags) Without(other Flags) Flags { return f &^ other }

// Valid reports whether f only contains defined flags.
func (f Flags) Valid() bool { return f&^all == 0 }

// Names returns the canonical names of the set flags in bit order.
func (f Flags) Names() []string {
	var names []string
	for _, r := range rules {
		if f&r.Flag != 0 {
			names = append(names, r.Name)
		}
	}
	return names
}

// String returns the comma-separated flag names, or "none" for the empty set.
func (f Flags) String() string {
	if f == None {
		return "none"
	}
	return strings.Join(f.Names(), ",")
}

// MarshalText implements encoding.TextMarshaler using the flag names.
func (f Flags) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "undefined feature bits: %#x", uint32(f&^all))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using [Parse].
func (f *Flags) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Lookup returns the flag with the given canonical name.
func Lookup(name string) (Flags, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range rules {
		if r.Name == name {
			return r.Flag, true
		}
	}
	return None, false
}

// Parse converts a textual flag set into Flags. It accepts an integer bit mask
// ("12", "0x0c"), "none", or comma- or pipe-separated flag names.
func Parse(s string) (Flags, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return None, nil
	}

	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		f := Flags(n)
		if !f.Valid() {
			return None, errors.New(errors.ErrCodeInvalidConfig, "undefined feature bits: %#x", uint32(f&^all))
		}
		return f, nil
	}

	var f Flags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		flag, ok := Lookup(part)
		if !ok {
			return None, errors.New(errors.ErrCodeInvalidConfig, "unknown feature: %q", strings.TrimSpace(part))
		}
		f |= flag
	}
	return f, nil
}
