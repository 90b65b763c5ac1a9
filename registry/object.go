package registry

import (
	"go.uber.org/zap"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/errors"
)

// UnwrapTagged recovers the address from a wrapped value after checking
// its tag against expected. The check is representation-level only and
// never consults the table, so it works for values that were never
// registered. A bare untyped NULL passes any expectation.
func (r *Registry) UnwrapTagged(p ptrreg.Pointer, expected ptrreg.Tag) (uintptr, error) {
	if expected != ptrreg.NoTag && (p.Addr != 0 || p.Tag != ptrreg.NoTag) {
		if !r.Compatible(p.Tag, expected) {
			return 0, errors.TagMismatch(errors.OpUnwrap, p.String(), string(expected))
		}
	}
	return p.Addr, nil
}

// UnwrapAnyOf tries each candidate tag in order and returns the address
// together with the first tag that accepts the value. When none does, the
// error names the whole candidate set.
func (r *Registry) UnwrapAnyOf(p ptrreg.Pointer, tags []ptrreg.Tag) (uintptr, ptrreg.Tag, error) {
	for _, tag := range tags {
		if addr, err := r.UnwrapTagged(p, tag); err == nil {
			return addr, tag, nil
		}
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = string(tag)
	}
	return 0, ptrreg.NoTag, errors.NoneOf(errors.OpUnwrap, p.String(), names)
}

// VerifyPointer unwraps a value and confirms its address is currently
// registered compatibly with expected, returning the address. A null
// address is an InvalidValue error rather than a table miss.
func (r *Registry) VerifyPointer(p ptrreg.Pointer, expected ptrreg.Tag) (uintptr, error) {
	addr, err := r.UnwrapTagged(p, expected)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, errors.NullPointer(errors.OpVerify)
	}
	if err := r.Verify(addr, expected); err != nil {
		return 0, err
	}
	return addr, nil
}

// UnregisterPointer unwraps a value and releases its registration,
// returning the address. A null address is a silent success, there being
// nothing to release.
func (r *Registry) UnregisterPointer(p ptrreg.Pointer, expected ptrreg.Tag) (uintptr, error) {
	addr, err := r.UnwrapTagged(p, expected)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, nil
	}
	if err := r.Unregister(addr, expected); err != nil {
		return 0, err
	}
	return addr, nil
}

// VerifyPointerAnyOf composes UnwrapAnyOf with Verify under the matched
// candidate tag. A null address is an InvalidValue error, as in
// VerifyPointer.
func (r *Registry) VerifyPointerAnyOf(p ptrreg.Pointer, tags []ptrreg.Tag) (uintptr, error) {
	addr, tag, err := r.UnwrapAnyOf(p, tags)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, errors.NullPointer(errors.OpVerify)
	}
	if err := r.Verify(addr, tag); err != nil {
		return 0, err
	}
	return addr, nil
}

// UnregisterPointerAnyOf composes UnwrapAnyOf with Unregister under the
// matched candidate tag. A null address is a silent success, as in
// UnregisterPointer.
func (r *Registry) UnregisterPointerAnyOf(p ptrreg.Pointer, tags []ptrreg.Tag) (uintptr, error) {
	addr, tag, err := r.UnwrapAnyOf(p, tags)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, nil
	}
	if err := r.Unregister(addr, tag); err != nil {
		return 0, err
	}
	return addr, nil
}

// Cast rewraps a value under a new tag. The value's tag and the new tag
// must be related by ancestry in one direction or the other. When the
// address is live in the table, its stored tag must match the value's tag
// before the cast proceeds, and the registration is retagged on success.
// The checks run before any mutation, so a failed cast changes nothing.
// A null address always rewraps with no table effect.
func (r *Registry) Cast(p ptrreg.Pointer, newTag ptrreg.Tag) (ptrreg.Pointer, error) {
	if p.Addr == 0 {
		return ptrreg.Wrap(0, newTag), nil
	}
	rec := r.records[p.Addr]
	if rec != nil && !p.Tag.Is(rec.tag) {
		return ptrreg.Pointer{}, errors.RegisteredTagMismatch(errors.OpCast, p.String())
	}
	if !r.Compatible(p.Tag, newTag) && !r.Compatible(newTag, p.Tag) {
		return ptrreg.Pointer{}, errors.CastIncompatible(p.String(), string(newTag))
	}
	if rec != nil {
		rec.tag = newTag
		Logger().Debug("pointer retagged",
			zap.String("pointer", p.String()),
			zap.String("tag", string(newTag)))
	}
	return ptrreg.Wrap(p.Addr, newTag), nil
}
