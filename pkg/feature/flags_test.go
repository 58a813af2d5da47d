package feature

import (
	"testing"

	"github.com/matzehuels/semtree/pkg/errors"
)

func TestFlagsHas(t *testing.T) {
	f := ForgetRelationNode | MergeMembersIntoLabel

	if !f.Has(ForgetRelationNode) {
		t.Error("Has(ForgetRelationNode) = false, want true")
	}
	if f.Has(CollapseIntermediate) {
		t.Error("Has(CollapseIntermediate) = true, want false")
	}
	if !f.Has(ForgetRelationNode | MergeMembersIntoLabel) {
		t.Error("Has(both) = false, want true")
	}
	if f.Has(ForgetRelationNode | RaiseRecurseAsSibling) {
		t.Error("Has(partial) = true, want false")
	}
	if f.Has(None) {
		t.Error("Has(None) = true, want false")
	}
}

func TestFlagsWithWithout(t *testing.T) {
	f := None.With(CollapseIntermediate).With(RaiseRecurseAsSibling)
	if f != CollapseIntermediate|RaiseRecurseAsSibling {
		t.Errorf("With() = %v", f)
	}

	g := f.Without(CollapseIntermediate)
	if g != RaiseRecurseAsSibling {
		t.Errorf("Without() = %v, want %v", g, RaiseRecurseAsSibling)
	}

	// Values are immutable: f is unchanged.
	if !f.Has(CollapseIntermediate) {
		t.Error("Without() modified the receiver")
	}
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		flags Flags
		want  string
	}{
		{None, "none"},
		{CollapseIntermediate, "collapse-intermediate"},
		{RaiseRecurseAsSibling | ForgetRelationNode, "forget-relation-node,raise-recurse-as-sibling"},
	}

	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Flags
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"3", CollapseIntermediate | ForgetRelationNode, false},
		{"0x10", RaiseRecurseAsSibling, false},
		{"merge-members-into-label", MergeMembersIntoLabel, false},
		{"forget-relation-node, collapse-intermediate", ForgetRelationNode | CollapseIntermediate, false},
		{"Forget-Relation-Node|raise-single-child-if-not-root", ForgetRelationNode | RaiseSingleChildIfNotRoot, false},
		{"unknown-flag", None, true},
		{"1024", None, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse(%q) error code = %v, want %v", tt.input, errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	f := CollapseIntermediate | MergeMembersIntoLabel | RaiseSingleChildIfNotRoot

	text, err := f.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error: %v", err)
	}

	var got Flags
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if got != f {
		t.Errorf("round trip = %v, want %v", got, f)
	}

	if _, err := Flags(1 << 20).MarshalText(); err == nil {
		t.Error("MarshalText() of undefined bits should fail")
	}
}

func TestRulesOrder(t *testing.T) {
	rs := Rules()
	if len(rs) != 5 {
		t.Fatalf("len(Rules()) = %d, want 5", len(rs))
	}
	for i, r := range rs {
		if r.Flag != Flags(1<<i) {
			t.Errorf("Rules()[%d].Flag = %v, want bit %d", i, r.Flag, i)
		}
		if got, ok := Lookup(r.Name); !ok || got != r.Flag {
			t.Errorf("Lookup(%q) = %v, %v", r.Name, got, ok)
		}
	}

	rs[0].Name = "changed"
	if Rules()[0].Name == "changed" {
		t.Error("Rules() should return a copy")
	}
}
