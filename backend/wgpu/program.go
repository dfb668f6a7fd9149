package wgpu

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapsym/gfx"
)

// ShaderCatalog maps each program kind to its compiled SPIR-V. Capability
// flags do not change the bytecode; they select specialization values the
// uniform bundle carries, so one module serves every variant of a kind.
type ShaderCatalog map[gfx.ProgramKind][]uint32

// program is one resolved shader variant.
type program struct {
	id     gfx.ProgramID
	kind   gfx.ProgramKind
	flags  gfx.ProgramFlags
	module hal.ShaderModule
}

// programCache caches resolved program variants by descriptor hash.
//
// Module creation involves driver-side compilation, so the cache uses
// double-check locking: a fast read path under RLock, then a write path
// that re-checks before creating.
type programCache struct {
	mu       sync.RWMutex
	shaders  ShaderCatalog
	variants map[uint64]*program
	byID     map[gfx.ProgramID]*program
}

func newProgramCache(shaders ShaderCatalog) *programCache {
	return &programCache{
		shaders:  shaders,
		variants: make(map[uint64]*program),
		byID:     make(map[gfx.ProgramID]*program),
	}
}

// hashProgramKey hashes a (kind, flags) pair with FNV-1a.
func hashProgramKey(kind gfx.ProgramKind, flags gfx.ProgramFlags) uint64 {
	h := fnv.New64a()
	var buf [5]byte
	buf[0] = byte(kind)
	binary.LittleEndian.PutUint32(buf[1:], uint32(flags))
	h.Write(buf[:])
	return h.Sum64()
}

func (c *programCache) getOrCreate(device hal.Device, kind gfx.ProgramKind, flags gfx.ProgramFlags, newID func() uint64) (gfx.ProgramID, error) {
	key := hashProgramKey(kind, flags)

	c.mu.RLock()
	if p, ok := c.variants[key]; ok {
		c.mu.RUnlock()
		return p.id, nil
	}
	c.mu.RUnlock()

	spirv, ok := c.shaders[kind]
	if !ok || len(spirv) == 0 {
		return gfx.InvalidID, fmt.Errorf("%w: %v", gfx.ErrUnknownProgram, kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.variants[key]; ok {
		return p.id, nil
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  fmt.Sprintf("mapsym-%v-%v", kind, flags),
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return gfx.InvalidID, fmt.Errorf("wgpu: create shader module for %v: %w", kind, err)
	}

	p := &program{
		id:     gfx.ProgramID(newID()),
		kind:   kind,
		flags:  flags,
		module: module,
	}
	c.variants[key] = p
	c.byID[p.id] = p
	return p.id, nil
}

// lookup resolves a program handle back to its variant.
func (c *programCache) lookup(id gfx.ProgramID) (*program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}
