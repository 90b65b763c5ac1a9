// Package errors provides structured error types for the ptrreg library.
//
// Errors are categorized by Op (the operation that failed) and Kind (error
// category). The Error type includes the pointer representation and tag
// involved, a human-readable detail, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpRegister, errors.KindTypeMismatch).
//		Pointer("1000^Foo").
//		Tag("Bar").
//		Detail("Pointer tag does not match registered tag.").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotRegistered(errors.OpVerify, "1000^Foo")
//	err := errors.BadFormat("garbage")
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching by kind alone is common enough to have a helper:
//
//	if errors.IsKind(err, errors.KindNotFound) { ... }
package errors
