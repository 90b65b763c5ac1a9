package hostbridge

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/errors"
	"github.com/quiverbridge/ptrreg/registry"
)

// Guest-visible status codes. Zero is success; failures are negative so a
// guest can branch on sign without decoding the exact cause.
const (
	StatusOK            int32 = 0
	StatusInvalidValue  int32 = -1
	StatusTypeMismatch  int32 = -2
	StatusStateConflict int32 = -3
	StatusNotFound      int32 = -4
	StatusIncompatible  int32 = -5
	StatusBadRequest    int32 = -6
	StatusInternal      int32 = -7
)

// statusOf maps library errors onto guest status codes.
func statusOf(err error) int32 {
	switch {
	case err == nil:
		return StatusOK
	case errors.IsKind(err, errors.KindInvalidValue):
		return StatusInvalidValue
	case errors.IsKind(err, errors.KindTypeMismatch):
		return StatusTypeMismatch
	case errors.IsKind(err, errors.KindStateConflict):
		return StatusStateConflict
	case errors.IsKind(err, errors.KindNotFound):
		return StatusNotFound
	case errors.IsKind(err, errors.KindIncompatibleCast):
		return StatusIncompatible
	default:
		return StatusInternal
	}
}

// Options configures bridge behavior.
type Options struct {
	// ModuleName is the import namespace guests bind against.
	ModuleName string

	// Tag is the expectation check and release apply to guest-presented
	// values. Empty accepts any live registration.
	Tag ptrreg.Tag

	// MaxRequestSize caps the byte length of guest-supplied text. Zero
	// means the default.
	MaxRequestSize uint32
}

// DefaultOptions returns the default bridge configuration.
func DefaultOptions() Options {
	return Options{
		ModuleName:     "ptrreg_host",
		MaxRequestSize: 4096,
	}
}

// Bridge exposes one registry to WASM guests as a host module. Raw
// addresses never cross into the guest; only wrapped text does, and each
// use is revalidated against the live table. The bridge is as
// single-threaded as the registry it wraps.
type Bridge struct {
	reg  *registry.Registry
	opts Options
}

// New creates a bridge over reg with the given options.
func New(reg *registry.Registry, opts Options) *Bridge {
	def := DefaultOptions()
	if opts.ModuleName == "" {
		opts.ModuleName = def.ModuleName
	}
	if opts.MaxRequestSize == 0 {
		opts.MaxRequestSize = def.MaxRequestSize
	}
	return &Bridge{reg: reg, opts: opts}
}

// NewWithDefaults creates a bridge over reg with default options.
func NewWithDefaults(reg *registry.Registry) *Bridge {
	return New(reg, DefaultOptions())
}

// Instantiate registers the bridge's host module with the runtime. Guests
// compiled against the module name can then import check, release and
// cast.
func (b *Bridge) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(b.opts.ModuleName)

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, size uint32) int32 {
			return b.Check(WrapMemory(m.Memory()), ptr, size)
		}).
		Export("check")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, size uint32) int32 {
			return b.Release(WrapMemory(m.Memory()), ptr, size)
		}).
		Export("release")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, size, tagPtr, tagSize uint32) uint64 {
			alloc := WrapAllocator(ctx, m.ExportedFunction("allocate"))
			return b.Cast(WrapMemory(m.Memory()), alloc, ptr, size, tagPtr, tagSize)
		}).
		Export("cast")

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.New(errors.OpBridge, errors.KindInvalidData).
			Detail("cannot instantiate host module %s", b.opts.ModuleName).
			Cause(err).
			Build()
	}
	Logger().Debug("host module instantiated", zap.String("module", b.opts.ModuleName))
	return mod, nil
}

// Check verifies the wrapped text at (ptr, size) in guest memory against
// the bridge tag and the live table.
func (b *Bridge) Check(mem Memory, ptr, size uint32) int32 {
	p, status := b.readPointer(mem, ptr, size)
	if status != StatusOK {
		return status
	}
	if _, err := b.reg.VerifyPointer(p, b.opts.Tag); err != nil {
		Logger().Debug("check rejected",
			zap.String("pointer", p.String()),
			zap.Error(err))
		return statusOf(err)
	}
	return StatusOK
}

// Release unregisters the wrapped text at (ptr, size) in guest memory.
// Null text releases nothing and succeeds.
func (b *Bridge) Release(mem Memory, ptr, size uint32) int32 {
	p, status := b.readPointer(mem, ptr, size)
	if status != StatusOK {
		return status
	}
	if _, err := b.reg.UnregisterPointer(p, b.opts.Tag); err != nil {
		Logger().Debug("release rejected",
			zap.String("pointer", p.String()),
			zap.Error(err))
		return statusOf(err)
	}
	return StatusOK
}

// Cast rewraps the wrapped text at (ptr, size) under the tag at (tagPtr,
// tagSize), allocates guest memory for the new text and returns its
// location packed as offset<<32|length. Any failure returns zero; the
// registry is never left half-updated because the underlying cast is
// atomic.
func (b *Bridge) Cast(mem Memory, alloc Allocator, ptr, size, tagPtr, tagSize uint32) uint64 {
	p, status := b.readPointer(mem, ptr, size)
	if status != StatusOK {
		return 0
	}
	if tagSize > b.opts.MaxRequestSize {
		Logger().Debug("cast tag oversized", zap.Uint32("size", tagSize))
		return 0
	}
	var tag []byte
	if tagSize > 0 {
		var err error
		tag, err = mem.Read(tagPtr, tagSize)
		if err != nil {
			Logger().Debug("cast tag unreadable", zap.Error(err))
			return 0
		}
	}

	casted, err := b.reg.Cast(p, ptrreg.Tag(tag))
	if err != nil {
		Logger().Debug("cast rejected",
			zap.String("pointer", p.String()),
			zap.Error(err))
		return 0
	}

	if alloc == nil {
		Logger().Debug("cast without guest allocator")
		return 0
	}
	text := casted.String()
	off, err := alloc.Alloc(uint32(len(text)))
	if err != nil {
		Logger().Debug("cast response allocation failed", zap.Error(err))
		return 0
	}
	if err := mem.Write(off, []byte(text)); err != nil {
		Logger().Debug("cast response write failed", zap.Error(err))
		return 0
	}
	return uint64(off)<<32 | uint64(len(text))
}

func (b *Bridge) readPointer(mem Memory, ptr, size uint32) (ptrreg.Pointer, int32) {
	if mem == nil {
		return ptrreg.Pointer{}, StatusInternal
	}
	if size == 0 || size > b.opts.MaxRequestSize {
		return ptrreg.Pointer{}, StatusBadRequest
	}
	data, err := mem.Read(ptr, size)
	if err != nil {
		Logger().Debug("unreadable request", zap.Error(err))
		return ptrreg.Pointer{}, StatusBadRequest
	}
	p, err := ptrreg.Parse(string(data))
	if err != nil {
		return ptrreg.Pointer{}, StatusInvalidValue
	}
	return p, StatusOK
}
