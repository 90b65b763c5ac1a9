package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Op indicates which registry operation the error arose from
type Op string

const (
	OpRegister   Op = "register"   // Register, RegisterCounted, Pin
	OpUnregister Op = "unregister" // Unregister and object-level variants
	OpVerify     Op = "verify"     // Verify and object-level variants
	OpInvalidate Op = "invalidate" // Invalidate
	OpCast       Op = "cast"       // Cast
	OpUnwrap     Op = "unwrap"     // representation-level unwrap/parse
	OpSubtag     Op = "subtag"     // tag graph edits
	OpManifest   Op = "manifest"   // tagset manifest loading
	OpBridge     Op = "bridge"     // wasm host bridge
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidValue     Kind = "invalid_value"     // null address, malformed text
	KindTypeMismatch     Kind = "type_mismatch"     // tag check failed
	KindStateConflict    Kind = "state_conflict"    // single/counted mixing, duplicate subtag
	KindNotFound         Kind = "not_found"         // no live record for address
	KindIncompatibleCast Kind = "incompatible_cast" // no ancestry in either direction
	KindInvalidData      Kind = "invalid_data"      // manifest decode failure
	KindValidation       Kind = "validation"        // manifest field validation failure
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause   error
	Op      Op
	Kind    Kind
	Pointer string
	Tag     string
	Detail  string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Pointer != "" {
		b.WriteString(" at ")
		b.WriteString(e.Pointer)
	}

	if e.Tag != "" {
		b.WriteString(": tag ")
		b.WriteString(e.Tag)
	}

	if e.Detail != "" {
		if e.Tag != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Empty Op or Kind on the
// target acts as a wildcard, so sentinel values can match by kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// IsKind reports whether err or any error in its chain is an Error of the
// given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Pointer sets the wrapped-value text the error refers to
func (b *Builder) Pointer(repr string) *Builder {
	b.err.Pointer = repr
	return b
}

// Tag sets the tag involved in the failure
func (b *Builder) Tag(tag string) *Builder {
	b.err.Tag = tag
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// K returns a sentinel error matching any Error of the given kind,
// for use with errors.Is.
func K(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Convenience constructors for common error patterns

// NullRegistration reports an attempt to register the null address
func NullRegistration() *Error {
	return &Error{
		Op:     OpRegister,
		Kind:   KindInvalidValue,
		Detail: "Attempt to register null pointer.",
	}
}

// NullPointer reports a null address where a live one is required
func NullPointer(op Op) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidValue,
		Detail: "Pointer is NULL.",
	}
}

// BadFormat reports unparseable wrapped-value text
func BadFormat(text string) *Error {
	return &Error{
		Op:      OpUnwrap,
		Kind:    KindInvalidValue,
		Pointer: text,
		Detail:  "Invalid pointer format.",
	}
}

// TagMismatch reports a representation-level tag check failure
func TagMismatch(op Op, pointer string, tag string) *Error {
	return &Error{
		Op:      op,
		Kind:    KindTypeMismatch,
		Pointer: pointer,
		Tag:     tag,
		Detail:  "Pointer type mismatch.",
	}
}

// RegisteredTagMismatch reports a mismatch against a live registration's tag
func RegisteredTagMismatch(op Op, pointer string) *Error {
	return &Error{
		Op:      op,
		Kind:    KindTypeMismatch,
		Pointer: pointer,
		Detail:  "Pointer tag does not match registered tag.",
	}
}

// NoneOf reports that none of a candidate tag set matched
func NoneOf(op Op, pointer string, tags []string) *Error {
	return &Error{
		Op:      op,
		Kind:    KindTypeMismatch,
		Pointer: pointer,
		Detail:  fmt.Sprintf("Pointer type not among %s.", strings.Join(tags, ", ")),
	}
}

// RegistrationConflict reports single/counted mode mixing for one address
func RegistrationConflict(pointer string, wantCounted bool) *Error {
	detail := "Registered counted pointer already exists. Attempt to register an uncounted pointer."
	if wantCounted {
		detail = "Registered uncounted pointer already exists. Attempt to register a counted pointer."
	}
	return &Error{
		Op:      OpRegister,
		Kind:    KindStateConflict,
		Pointer: pointer,
		Detail:  detail,
	}
}

// NotRegistered reports an address with no live record
func NotRegistered(op Op, pointer string) *Error {
	return &Error{
		Op:      op,
		Kind:    KindNotFound,
		Pointer: pointer,
		Detail:  fmt.Sprintf("Pointer %s is not registered.", pointer),
	}
}

// CastIncompatible reports a cast between tags with no ancestry either way
func CastIncompatible(pointer, to string) *Error {
	return &Error{
		Op:      OpCast,
		Kind:    KindIncompatibleCast,
		Pointer: pointer,
		Tag:     to,
		Detail:  "Pointer tags are not compatible for casting.",
	}
}

// SubtagExists reports a subtag that is already mapped to a supertag
func SubtagExists(sub string) *Error {
	return &Error{
		Op:     OpSubtag,
		Kind:   KindStateConflict,
		Tag:    sub,
		Detail: "Subtag already exists.",
	}
}

// InvalidData reports undecodable manifest content
func InvalidData(op Op, detail string, cause error) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Validation reports manifest content that decoded but failed validation
func Validation(op Op, detail string, cause error) *Error {
	return &Error{
		Op:     op,
		Kind:   KindValidation,
		Detail: detail,
		Cause:  cause,
	}
}
