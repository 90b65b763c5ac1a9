package registry

import (
	"sort"

	"go.uber.org/zap"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/errors"
)

// record tracks one live address. refs encodes the registration mode:
// -1 for single-owner, 0 for pinned, n >= 1 for counted.
type record struct {
	tag  ptrreg.Tag
	refs int
}

func (rec *record) pinned() bool  { return rec.refs == 0 }
func (rec *record) counted() bool { return rec.refs > 0 }

// Registry tracks live addresses and the tag subtyping graph. It is not
// safe for concurrent use; each instance belongs to a single execution
// context and callers that share one must serialize access.
type Registry struct {
	records map[uintptr]*record
	supers  map[ptrreg.Tag]ptrreg.Tag
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		records: make(map[uintptr]*record),
		supers:  make(map[ptrreg.Tag]ptrreg.Tag),
	}
}

// Close drops every record and subtag edge at once. The registry is empty
// but usable afterwards.
func (r *Registry) Close() {
	r.records = make(map[uintptr]*record)
	r.supers = make(map[ptrreg.Tag]ptrreg.Tag)
	Logger().Debug("registry closed")
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Registered reports whether the address has a live record, whatever its
// tag or registration mode.
func (r *Registry) Registered(addr uintptr) bool {
	_, ok := r.records[addr]
	return ok
}

// Register marks an address valid under a tag and returns its wrapped
// form. Registering the same address again with the same tag is a no-op;
// a different tag is a TypeMismatch and an existing counted record is a
// StateConflict.
func (r *Registry) Register(addr uintptr, tag ptrreg.Tag) (ptrreg.Pointer, error) {
	return r.register(addr, tag, false)
}

// RegisterCounted is Register with reference counting: every call adds
// one reference and each must be released by a matching Unregister.
func (r *Registry) RegisterCounted(addr uintptr, tag ptrreg.Tag) (ptrreg.Pointer, error) {
	return r.register(addr, tag, true)
}

func (r *Registry) register(addr uintptr, tag ptrreg.Tag, counted bool) (ptrreg.Pointer, error) {
	if addr == 0 {
		return ptrreg.Pointer{}, errors.NullRegistration()
	}
	wrapped := ptrreg.Wrap(addr, tag)
	if rec, ok := r.records[addr]; ok {
		if rec.pinned() {
			// A pin subsumes any registration; nothing to adjust.
			return wrapped, nil
		}
		if !rec.tag.Is(tag) {
			return ptrreg.Pointer{}, errors.RegisteredTagMismatch(errors.OpRegister, wrapped.String())
		}
		if counted {
			if !rec.counted() {
				return ptrreg.Pointer{}, errors.RegistrationConflict(wrapped.String(), true)
			}
			rec.refs++
		} else if rec.counted() {
			return ptrreg.Pointer{}, errors.RegistrationConflict(wrapped.String(), false)
		}
		return wrapped, nil
	}

	refs := -1
	if counted {
		refs = 1
	}
	r.records[addr] = &record{tag: tag, refs: refs}
	Logger().Debug("pointer registered",
		zap.String("pointer", wrapped.String()),
		zap.Bool("counted", counted))
	return wrapped, nil
}

// Pin marks an address permanently valid whatever its prior registration
// state. The returned wrapped value carries tag, but the pinned record
// itself is untagged and satisfies verification against any tag. Ordinary
// unregistration leaves a pin in place; only Invalidate removes it.
func (r *Registry) Pin(addr uintptr, tag ptrreg.Tag) (ptrreg.Pointer, error) {
	if addr == 0 {
		return ptrreg.Pointer{}, errors.NullRegistration()
	}
	rec, ok := r.records[addr]
	if !ok {
		rec = &record{}
		r.records[addr] = rec
	}
	rec.tag = ptrreg.NoTag
	rec.refs = 0
	Logger().Debug("pointer pinned", zap.String("pointer", ptrreg.Wrap(addr, tag).String()))
	return ptrreg.Wrap(addr, tag), nil
}

// Unregister releases a registration. A single-owner record is removed
// immediately; a counted record loses one reference and is removed when
// none remain; a pinned record is untouched. The stored tag must be
// compatible with expected, so a record registered under a subtag
// satisfies a supertag release.
func (r *Registry) Unregister(addr uintptr, expected ptrreg.Tag) error {
	return r.verifyOrUnregister(addr, expected, true, errors.OpUnregister)
}

// UnregisterAny is Unregister without a tag expectation.
func (r *Registry) UnregisterAny(addr uintptr) error {
	return r.verifyOrUnregister(addr, ptrreg.NoTag, true, errors.OpUnregister)
}

// Verify confirms the address is live and its stored tag is compatible
// with expected, mutating nothing.
func (r *Registry) Verify(addr uintptr, expected ptrreg.Tag) error {
	return r.verifyOrUnregister(addr, expected, false, errors.OpVerify)
}

// VerifyAny is Verify without a tag expectation.
func (r *Registry) VerifyAny(addr uintptr) error {
	return r.verifyOrUnregister(addr, ptrreg.NoTag, false, errors.OpVerify)
}

func (r *Registry) verifyOrUnregister(addr uintptr, expected ptrreg.Tag, unregister bool, op errors.Op) error {
	rec, ok := r.records[addr]
	if !ok {
		return errors.NotRegistered(op, ptrreg.Wrap(addr, expected).String())
	}
	if rec.pinned() {
		return nil
	}
	if !r.Compatible(rec.tag, expected) {
		return errors.RegisteredTagMismatch(op, ptrreg.Wrap(addr, expected).String())
	}
	if unregister {
		if rec.refs <= 1 {
			delete(r.records, addr)
			Logger().Debug("pointer unregistered", zap.String("pointer", ptrreg.Wrap(addr, rec.tag).String()))
		} else {
			rec.refs--
		}
	}
	return nil
}

// Invalidate removes an address outright, whatever its reference count or
// pin state. The tag check matches Unregister's; an address that was never
// registered is a silent success.
func (r *Registry) Invalidate(addr uintptr, expected ptrreg.Tag) error {
	rec, ok := r.records[addr]
	if !ok {
		return nil
	}
	if !rec.pinned() && !r.Compatible(rec.tag, expected) {
		return errors.RegisteredTagMismatch(errors.OpInvalidate, ptrreg.Wrap(addr, expected).String())
	}
	delete(r.records, addr)
	Logger().Debug("pointer invalidated", zap.String("pointer", ptrreg.Wrap(addr, rec.tag).String()))
	return nil
}

// Enumerate returns the wrapped values of all live records whose stored
// tag matches the filter exactly; the empty filter matches everything.
// Results are address-ordered so output is stable for tooling.
func (r *Registry) Enumerate(filter ptrreg.Tag) []ptrreg.Pointer {
	out := make([]ptrreg.Pointer, 0, len(r.records))
	for addr, rec := range r.records {
		if rec.tag.Is(filter) {
			out = append(out, ptrreg.Wrap(addr, rec.tag))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}
