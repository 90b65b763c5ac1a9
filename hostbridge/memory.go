package hostbridge

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Memory is the window onto guest linear memory the bridge reads requests
// from and writes responses to.
type Memory interface {
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator reserves guest memory for responses.
type Allocator interface {
	Alloc(size uint32) (uint32, error)
}

// WrapMemory adapts a wazero api.Memory to the Memory interface.
func WrapMemory(mem api.Memory) Memory {
	if mem == nil {
		return nil
	}
	return &memoryWrapper{mem: mem}
}

type memoryWrapper struct {
	mem api.Memory
}

func (m *memoryWrapper) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *memoryWrapper) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

// WrapAllocator adapts a guest's allocate export, a function taking a byte
// count and returning an offset, to the Allocator interface.
func WrapAllocator(ctx context.Context, fn api.Function) Allocator {
	if fn == nil {
		return nil
	}
	return &allocatorWrapper{ctx: ctx, fn: fn}
}

type allocatorWrapper struct {
	ctx context.Context
	fn  api.Function
}

func (a *allocatorWrapper) Alloc(size uint32) (uint32, error) {
	results, err := a.fn.Call(a.ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("guest allocation failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("guest allocation returned no result")
	}
	return uint32(results[0]), nil
}
