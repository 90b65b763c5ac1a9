package registry

import (
	"sort"

	"go.uber.org/zap"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/errors"
)

// maxTagDepth bounds supertag chain walks so a malformed or cyclic graph
// costs bounded work. A chain longer than this is treated as no match.
const maxTagDepth = 10

// SubtagEdge is one direct is-a edge in the tag graph.
type SubtagEdge struct {
	Sub   ptrreg.Tag
	Super ptrreg.Tag
}

// DefineSubtag records sub as a direct subtag of super, so addresses
// registered under sub satisfy checks against super. A subtag has at most
// one direct supertag: defining an edge for an already-mapped subtag is a
// StateConflict, and the edge must be removed first to remap it. An empty
// supertag, an empty subtag, or a self-edge is a no-op.
func (r *Registry) DefineSubtag(sub, super ptrreg.Tag) error {
	if sub == ptrreg.NoTag || super == ptrreg.NoTag || sub == super {
		return nil
	}
	if _, ok := r.supers[sub]; ok {
		return errors.SubtagExists(string(sub))
	}
	r.supers[sub] = super
	Logger().Debug("subtag defined",
		zap.String("sub", string(sub)),
		zap.String("super", string(super)))
	return nil
}

// RemoveSubtag deletes the direct supertag edge for sub. Removing an
// unmapped subtag does nothing.
func (r *Registry) RemoveSubtag(sub ptrreg.Tag) {
	if _, ok := r.supers[sub]; ok {
		delete(r.supers, sub)
		Logger().Debug("subtag removed", zap.String("sub", string(sub)))
	}
}

// Subtags lists the direct edges of the tag graph, sorted by subtag.
func (r *Registry) Subtags() []SubtagEdge {
	out := make([]SubtagEdge, 0, len(r.supers))
	for sub, super := range r.supers {
		out = append(out, SubtagEdge{Sub: sub, Super: super})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sub < out[j].Sub })
	return out
}

// Compatible reports whether a value tagged actual satisfies a check
// against expected: the tags match exactly, expected is the empty tag, or
// an ancestor of actual within the lookup depth matches expected. The
// relation is directional; callers deciding a cast must also check the
// swapped order.
func (r *Registry) Compatible(actual, expected ptrreg.Tag) bool {
	if actual.Is(expected) {
		return true
	}
	// An untagged value failed the first check, so no ancestor can help.
	if actual == ptrreg.NoTag {
		return false
	}
	tag := actual
	for i := 0; i < maxTagDepth; i++ {
		super, ok := r.supers[tag]
		if !ok || super == ptrreg.NoTag {
			return false
		}
		if super.Is(expected) {
			return true
		}
		tag = super
	}
	return false
}

// TagRelation classifies how a value's tag relates to an expected tag.
type TagRelation int

const (
	// TagUnrelated means no ancestry connects the tags in either direction.
	TagUnrelated TagRelation = iota
	// TagEqual means the tags match exactly.
	TagEqual
	// TagImplicit means the value's tag is castable to the expected tag.
	TagImplicit
	// TagExplicit means the expected tag is castable to the value's tag.
	TagExplicit
)

// String returns a short name for the relation.
func (t TagRelation) String() string {
	switch t {
	case TagEqual:
		return "equal"
	case TagImplicit:
		return "implicitly castable"
	case TagExplicit:
		return "explicitly castable"
	default:
		return "unrelated"
	}
}

// Relation classifies actual against expected, preferring the closest
// relationship when several hold.
func (r *Registry) Relation(actual, expected ptrreg.Tag) TagRelation {
	switch {
	case actual.Is(expected):
		return TagEqual
	case r.Compatible(actual, expected):
		return TagImplicit
	case r.Compatible(expected, actual):
		return TagExplicit
	default:
		return TagUnrelated
	}
}
