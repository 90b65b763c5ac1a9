// Package ptrreg provides a typed handle registry for raw native addresses.
//
// Native code that exposes memory addresses or opaque OS handles across a
// trust boundary (scripting bridges, RPC object references, plugin ABIs)
// needs a way to hand out references that the other side cannot forge or
// misuse. This library implements that as a registry of tagged addresses:
// producers register an address under a type tag, receive a wrapped value
// they can pass across the boundary, and later verify that a value presented
// back is still live and carries a compatible tag before dereferencing or
// releasing it.
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	ptrreg/              Root package with the Tag and Pointer value types
//	├── registry/        Handle table, tag subtyping graph, and all operations
//	├── tagset/          Declarative YAML manifests for tag hierarchies and pins
//	├── hostbridge/      wazero host module exposing registry checks to guests
//	├── errors/          Structured error types for classification
//	├── cmd/ptrreg/      CLI with manifest tooling and an interactive console
//	└── examples/        Runnable demos
//
// # Quick Start
//
// Register an address and verify a wrapped value presented back:
//
//	reg := registry.New()
//	defer reg.Close()
//
//	p, err := reg.Register(addr, "AVFrame")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text := p.String() // e.g. "7f3a10^AVFrame", safe to hand out
//
//	// Later, on the way back in:
//	back, err := ptrreg.Parse(text)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := reg.VerifyPointer(back, "AVFrame"); err != nil {
//	    log.Fatal(err) // stale, forged, or wrong type
//	}
//
// # Tag Subtyping
//
// Tags form a forest of "is-a" edges. A pointer registered under a subtag
// satisfies verification against any of its ancestors:
//
//	reg.DefineSubtag("AVFrame", "AVBuffer")
//	p, _ := reg.Register(addr, "AVFrame")
//	reg.Verify(addr, "AVBuffer") // ok, AVFrame is-a AVBuffer
//
// Casting is permitted along the ancestry chain in either direction and
// rewrites the live registration's tag atomically.
//
// # Registration Modes
//
// Register creates a single-owner record: repeat registration with the same
// tag is a no-op, a different tag is an error. RegisterCounted maintains a
// reference count and requires balanced Unregister calls. Pin marks an
// address permanently valid; only Invalidate removes a pin.
//
// # Thread Safety
//
// A Registry is NOT safe for concurrent use. Each instance is meant to be
// owned by a single execution context (the embedding's interpreter, plugin
// host, or goroutine); callers that share one must serialize access.
// Distinct Registry instances share no state.
//
// # Lifetime
//
// The registry never invalidates handles on its own; it is not a garbage
// collector. Addresses stay registered until explicitly unregistered or
// invalidated, and Close drops everything at once.
package ptrreg
