package registry

import (
	"github.com/quiverbridge/ptrreg"
)

// RegStatus classifies a wrapped value against the live record, if any,
// for its address.
type RegStatus int

const (
	// RegMissing means the address has no live record.
	RegMissing RegStatus = iota
	// RegWrongTag means the record exists but its stored tag is neither
	// the value's tag nor an ancestor of it.
	RegWrongTag
	// RegOK means the value's tag matches the stored tag, or the record
	// is untagged as pins are.
	RegOK
	// RegDerived means the value's tag is a subtag of the stored tag.
	RegDerived
)

// String returns a short name for the status.
func (s RegStatus) String() string {
	switch s {
	case RegOK:
		return "ok"
	case RegDerived:
		return "derived"
	case RegWrongTag:
		return "wrong tag"
	default:
		return "unregistered"
	}
}

// Dissection is a point-in-time report on a wrapped value: its parts, how
// its tag relates to an expected tag, and how it stands against the table.
type Dissection struct {
	Addr     uintptr
	Tag      ptrreg.Tag
	Relation TagRelation
	Status   RegStatus
}

// Dissect breaks a wrapped value apart for diagnostics. Relation compares
// the value's tag with expected; Status compares it with the stored tag of
// the live record. Nothing is mutated and no error is possible, so it is
// safe to call on stale or malformed-by-construction values.
func (r *Registry) Dissect(p ptrreg.Pointer, expected ptrreg.Tag) Dissection {
	d := Dissection{
		Addr:     p.Addr,
		Tag:      p.Tag,
		Relation: r.Relation(p.Tag, expected),
		Status:   RegMissing,
	}
	if rec, ok := r.records[p.Addr]; ok {
		d.Status = r.recordStatus(p.Tag, rec)
	}
	return d
}

func (r *Registry) recordStatus(tag ptrreg.Tag, rec *record) RegStatus {
	switch {
	case tag.Is(rec.tag):
		return RegOK
	case r.Compatible(tag, rec.tag):
		return RegDerived
	default:
		return RegWrongTag
	}
}

// Registration names the mode a live record was created with.
type Registration int

const (
	// RegistrationNone means the address is not in the table.
	RegistrationNone Registration = iota
	// RegistrationSingle is a plain single-owner registration.
	RegistrationSingle
	// RegistrationCounted is a reference-counted registration.
	RegistrationCounted
	// RegistrationPinned is a pinned registration.
	RegistrationPinned
)

// String returns a short name for the mode.
func (m Registration) String() string {
	switch m {
	case RegistrationSingle:
		return "single"
	case RegistrationCounted:
		return "counted"
	case RegistrationPinned:
		return "pinned"
	default:
		return "none"
	}
}

// PointerInfo summarizes a wrapped value's standing in the table.
type PointerInfo struct {
	Tag           ptrreg.Tag
	Registration  Registration
	RegisteredTag ptrreg.Tag // meaningful only when Registration != RegistrationNone
	Match         RegStatus
}

// Info reports how a wrapped value stands against the table: the mode of
// its record, the tag it is registered under, and whether the value's own
// tag matches. A missing record yields RegistrationNone with RegMissing.
// Like Dissect it never mutates and never fails.
func (r *Registry) Info(p ptrreg.Pointer) PointerInfo {
	info := PointerInfo{
		Tag:          p.Tag,
		Registration: RegistrationNone,
		Match:        RegMissing,
	}
	rec, ok := r.records[p.Addr]
	if !ok {
		return info
	}
	switch {
	case rec.pinned():
		info.Registration = RegistrationPinned
	case rec.counted():
		info.Registration = RegistrationCounted
	default:
		info.Registration = RegistrationSingle
	}
	info.RegisteredTag = rec.tag
	info.Match = r.recordStatus(p.Tag, rec)
	return info
}
