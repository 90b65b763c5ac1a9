// Package registry implements the typed handle registry.
//
// A Registry tracks which raw addresses are currently valid, which tag each
// was registered under, and the subtyping relationships between tags. It is
// the state machine behind the wrapped values of the root package: producers
// register addresses before handing wrapped values across a trust boundary,
// and consumers verify wrapped values presented back before using them.
//
// # Registration Modes
//
// Three modes cover the ownership patterns of native handles:
//
//	Register        - single owner; repeat with the same tag is a no-op
//	RegisterCounted - balanced pairs; each call needs a matching Unregister
//	Pin             - permanently valid; only Invalidate removes it
//
// Modes are exclusive per address. Mixing Register and RegisterCounted on
// one address is a state conflict.
//
// # Verification
//
//	reg := registry.New()
//	p, _ := reg.Register(addr, "AVFrame")
//
//	// exact or subtag-compatible checks
//	err := reg.Verify(addr, "AVFrame")
//	addr, err := reg.VerifyPointer(p, "AVFrame")
//
// Verify consults the live table. VerifyPointer additionally unwraps the
// value first, so it also rejects malformed or null values. UnwrapTagged
// alone checks only the representation and never touches the table.
//
// # Tag Subtyping
//
// DefineSubtag("AVFrame", "AVBuffer") lets addresses registered as AVFrame
// satisfy checks against AVBuffer. Chains resolve through at most ten edges;
// longer chains count as no match. Cast moves a live registration between
// related tags in either ancestry direction.
//
// # Diagnostics
//
// Enumerate, Subtags, Dissect and Info expose registry state without
// mutating it, for consoles and debug tooling built on top.
//
// # Concurrency
//
// A Registry is single-threaded. It takes no locks; an embedding that
// shares one across goroutines must serialize access. Registries never
// share state with each other.
package registry
