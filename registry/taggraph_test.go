package registry

import (
	"fmt"
	"testing"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/errors"
)

func TestDefineSubtag_Basic(t *testing.T) {
	reg := New()

	if err := reg.DefineSubtag("Child", "Parent"); err != nil {
		t.Fatalf("DefineSubtag failed: %v", err)
	}

	// Subtyping is directional.
	if !reg.Compatible("Child", "Parent") {
		t.Fatal("Child should satisfy Parent")
	}
	if reg.Compatible("Parent", "Child") {
		t.Fatal("Parent should not satisfy Child")
	}
}

func TestDefineSubtag_Noop(t *testing.T) {
	reg := New()

	// Empty tags and self-edges are silently ignored.
	if err := reg.DefineSubtag(ptrreg.NoTag, "Parent"); err != nil {
		t.Fatal(err)
	}
	if err := reg.DefineSubtag("Child", ptrreg.NoTag); err != nil {
		t.Fatal(err)
	}
	if err := reg.DefineSubtag("Foo", "Foo"); err != nil {
		t.Fatal(err)
	}
	if len(reg.Subtags()) != 0 {
		t.Fatalf("Subtags = %v, want none", reg.Subtags())
	}
}

func TestDefineSubtag_Redefine(t *testing.T) {
	reg := New()

	if err := reg.DefineSubtag("Child", "Parent"); err != nil {
		t.Fatal(err)
	}
	// A subtag has one direct supertag; remapping needs removal first.
	if err := reg.DefineSubtag("Child", "Other"); !errors.IsKind(err, errors.KindStateConflict) {
		t.Fatalf("redefinition = %v, want StateConflict", err)
	}
	if !reg.Compatible("Child", "Parent") {
		t.Fatal("original edge should survive a rejected redefinition")
	}

	reg.RemoveSubtag("Child")
	if err := reg.DefineSubtag("Child", "Other"); err != nil {
		t.Fatalf("DefineSubtag after removal failed: %v", err)
	}
	if !reg.Compatible("Child", "Other") {
		t.Fatal("Child should satisfy Other after remapping")
	}
	if reg.Compatible("Child", "Parent") {
		t.Fatal("old edge should be gone")
	}
}

func TestRemoveSubtag(t *testing.T) {
	reg := New()

	// Removing an unmapped subtag does nothing.
	reg.RemoveSubtag("Child")

	if err := reg.DefineSubtag("Child", "Parent"); err != nil {
		t.Fatal(err)
	}
	reg.RemoveSubtag("Child")
	if reg.Compatible("Child", "Parent") {
		t.Fatal("compatibility should be gone after RemoveSubtag")
	}
}

func TestSubtags_Sorted(t *testing.T) {
	reg := New()

	for _, edge := range []SubtagEdge{{"c", "root"}, {"a", "root"}, {"b", "a"}} {
		if err := reg.DefineSubtag(edge.Sub, edge.Super); err != nil {
			t.Fatal(err)
		}
	}

	edges := reg.Subtags()
	if len(edges) != 3 {
		t.Fatalf("Subtags returned %d edges, want 3", len(edges))
	}
	want := []SubtagEdge{{"a", "root"}, {"b", "a"}, {"c", "root"}}
	for i, edge := range edges {
		if edge != want[i] {
			t.Fatalf("Subtags[%d] = %v, want %v", i, edge, want[i])
		}
	}
}

func TestCompatible_Wildcard(t *testing.T) {
	reg := New()

	if !reg.Compatible("Foo", ptrreg.NoTag) {
		t.Fatal("any tag should satisfy the empty expectation")
	}
	if !reg.Compatible(ptrreg.NoTag, ptrreg.NoTag) {
		t.Fatal("untagged should satisfy the empty expectation")
	}
	if reg.Compatible(ptrreg.NoTag, "Foo") {
		t.Fatal("untagged should not satisfy a tagged expectation")
	}
}

func TestCompatible_Chain(t *testing.T) {
	reg := New()

	// t0 -> t1 -> t2 -> t3
	for i := 0; i < 3; i++ {
		sub := ptrreg.Tag(fmt.Sprintf("t%d", i))
		super := ptrreg.Tag(fmt.Sprintf("t%d", i+1))
		if err := reg.DefineSubtag(sub, super); err != nil {
			t.Fatal(err)
		}
	}

	if !reg.Compatible("t0", "t2") {
		t.Fatal("grandparent should match")
	}
	if !reg.Compatible("t0", "t3") {
		t.Fatal("great-grandparent should match")
	}
	if reg.Compatible("t3", "t0") {
		t.Fatal("ancestry is directional")
	}
	if reg.Compatible("t0", "unrelated") {
		t.Fatal("unrelated tag should not match")
	}
}

func TestCompatible_DepthCap(t *testing.T) {
	reg := New()

	// d0 -> d1 -> ... -> d11: eleven edges, one past the lookup cap.
	for i := 0; i < 11; i++ {
		sub := ptrreg.Tag(fmt.Sprintf("d%d", i))
		super := ptrreg.Tag(fmt.Sprintf("d%d", i+1))
		if err := reg.DefineSubtag(sub, super); err != nil {
			t.Fatal(err)
		}
	}

	// Ten edges away is reachable, eleven is not.
	if !reg.Compatible("d0", "d10") {
		t.Fatal("ancestor at the depth cap should match")
	}
	if reg.Compatible("d0", "d11") {
		t.Fatal("ancestor past the depth cap should not match")
	}
}

func TestCompatible_CycleTerminates(t *testing.T) {
	reg := New()

	if err := reg.DefineSubtag("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := reg.DefineSubtag("b", "a"); err != nil {
		t.Fatal(err)
	}

	// The walk is depth-bounded, so a cycle just fails to match.
	if reg.Compatible("a", "missing") {
		t.Fatal("cycle should not match an absent tag")
	}
	if !reg.Compatible("a", "b") {
		t.Fatal("direct edge inside a cycle still matches")
	}
}

func TestRelation(t *testing.T) {
	reg := New()
	if err := reg.DefineSubtag("Child", "Parent"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		actual   ptrreg.Tag
		expected ptrreg.Tag
		want     TagRelation
	}{
		{"equal", "Foo", "Foo", TagEqual},
		{"wildcard expected", "Foo", ptrreg.NoTag, TagEqual},
		{"implicit", "Child", "Parent", TagImplicit},
		{"explicit", "Parent", "Child", TagExplicit},
		{"unrelated", "Foo", "Bar", TagUnrelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.Relation(tt.actual, tt.expected); got != tt.want {
				t.Errorf("Relation(%q, %q) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestTagRelation_String(t *testing.T) {
	names := map[TagRelation]string{
		TagUnrelated: "unrelated",
		TagEqual:     "equal",
		TagImplicit:  "implicitly castable",
		TagExplicit:  "explicitly castable",
	}
	for rel, want := range names {
		if rel.String() != want {
			t.Errorf("%d.String() = %q, want %q", rel, rel.String(), want)
		}
	}
}
