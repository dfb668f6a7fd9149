// Package gfxtest provides a recording in-memory gfx.Context for tests.
//
// The fake records every draw call with a snapshot of the bound textures and
// uniforms, stores buffer writes, and models occlusion queries with
// test-controlled result latency.
package gfxtest

import (
	"fmt"

	"github.com/gogpu/mapsym/gfx"
)

// Draw is one recorded draw call.
type Draw struct {
	Params gfx.DrawParams

	// Program kind and flags the params' Program was resolved from.
	Kind  gfx.ProgramKind
	Flags gfx.ProgramFlags

	// Textures snapshots the bound texture units at draw time.
	Textures map[int]gfx.TextureID

	// Filters snapshots the per-unit filtering at draw time.
	Filters map[int]gfx.Filter

	// Query is the occlusion query the draw was scoped to, or InvalidID.
	Query gfx.QueryID
}

// queryState models one GPU query object.
type queryState struct {
	begun      bool // inside Begin/End
	pending    bool // ended, result not yet read
	available  bool // result ready
	result     uint64
	beginCount int
}

// Context is a recording fake gfx.Context.
type Context struct {
	// Draws are all recorded draw calls in issue order.
	Draws []Draw

	// NoQuerySupport makes SupportsOcclusionQuery report false.
	NoQuerySupport bool

	nextID   uint64
	programs map[programKey]gfx.ProgramID
	byID     map[gfx.ProgramID]programKey
	buffers  map[gfx.BufferID][]byte
	writes   map[gfx.BufferID]int
	bound    map[int]gfx.TextureID
	filters  map[int]gfx.Filter
	queries  map[gfx.QueryID]*queryState
	active   gfx.QueryID // query currently begun, InvalidID otherwise
}

type programKey struct {
	kind  gfx.ProgramKind
	flags gfx.ProgramFlags
}

// New creates an empty fake context.
func New() *Context {
	return &Context{
		nextID:   1,
		programs: make(map[programKey]gfx.ProgramID),
		byID:     make(map[gfx.ProgramID]programKey),
		buffers:  make(map[gfx.BufferID][]byte),
		writes:   make(map[gfx.BufferID]int),
		bound:    make(map[int]gfx.TextureID),
		filters:  make(map[int]gfx.Filter),
		queries:  make(map[gfx.QueryID]*queryState),
	}
}

func (c *Context) id() uint64 {
	id := c.nextID
	c.nextID++
	return id
}

// Program resolves (and memoizes) a program variant.
func (c *Context) Program(kind gfx.ProgramKind, flags gfx.ProgramFlags) (gfx.ProgramID, error) {
	k := programKey{kind, flags}
	if id, ok := c.programs[k]; ok {
		return id, nil
	}
	id := gfx.ProgramID(c.id())
	c.programs[k] = id
	c.byID[id] = k
	return id, nil
}

// CreateBuffer allocates a fake buffer.
func (c *Context) CreateBuffer(size int, _ gfx.BufferUsage) (gfx.BufferID, error) {
	if size <= 0 {
		return gfx.InvalidID, fmt.Errorf("gfxtest: buffer size must be positive")
	}
	id := gfx.BufferID(c.id())
	c.buffers[id] = make([]byte, size)
	return id, nil
}

// DestroyBuffer releases a fake buffer.
func (c *Context) DestroyBuffer(id gfx.BufferID) {
	delete(c.buffers, id)
}

// WriteBuffer stores data and counts writes per buffer.
func (c *Context) WriteBuffer(id gfx.BufferID, offset uint64, data []byte) {
	buf := c.buffers[id]
	need := int(offset) + len(data)
	if len(buf) < need {
		grown := make([]byte, need)
		copy(grown, buf)
		buf = grown
	}
	copy(buf[offset:], data)
	c.buffers[id] = buf
	c.writes[id]++
}

// BufferWrites returns how many times a buffer was written.
func (c *Context) BufferWrites(id gfx.BufferID) int { return c.writes[id] }

// BufferData returns the current contents of a buffer.
func (c *Context) BufferData(id gfx.BufferID) []byte { return c.buffers[id] }

// BindTexture records the binding for subsequent draws.
func (c *Context) BindTexture(unit int, id gfx.TextureID, filter gfx.Filter) {
	c.bound[unit] = id
	c.filters[unit] = filter
}

// DestroyTexture is a no-op for the fake.
func (c *Context) DestroyTexture(gfx.TextureID) {}

// NewTexture mints a texture ID for test fixtures.
func (c *Context) NewTexture() gfx.TextureID { return gfx.TextureID(c.id()) }

// DrawIndexed records the draw with current bindings.
func (c *Context) DrawIndexed(p *gfx.DrawParams) {
	d := Draw{
		Params:   *p,
		Textures: make(map[int]gfx.TextureID, len(c.bound)),
		Filters:  make(map[int]gfx.Filter, len(c.filters)),
		Query:    c.active,
	}
	if p.Uniforms != nil {
		d.Params.Uniforms = p.Uniforms.Clone()
	}
	if k, ok := c.byID[p.Program]; ok {
		d.Kind = k.kind
		d.Flags = k.flags
	}
	for u, t := range c.bound {
		d.Textures[u] = t
	}
	for u, f := range c.filters {
		d.Filters[u] = f
	}
	c.Draws = append(c.Draws, d)
}

// SupportsOcclusionQuery reports fake query support.
func (c *Context) SupportsOcclusionQuery() bool { return !c.NoQuerySupport }

// CreateQuery allocates a fake query object.
func (c *Context) CreateQuery() (gfx.QueryID, error) {
	if c.NoQuerySupport {
		return gfx.InvalidID, gfx.ErrQueryUnsupported
	}
	id := gfx.QueryID(c.id())
	c.queries[id] = &queryState{}
	return id, nil
}

// DestroyQuery releases a fake query object.
func (c *Context) DestroyQuery(id gfx.QueryID) {
	delete(c.queries, id)
}

// BeginQuery starts sample counting.
func (c *Context) BeginQuery(id gfx.QueryID) error {
	q, ok := c.queries[id]
	if !ok {
		return fmt.Errorf("gfxtest: unknown query %d", id)
	}
	if q.begun || q.pending {
		return fmt.Errorf("gfxtest: query %d reissued before its result was consumed", id)
	}
	q.begun = true
	q.beginCount++
	c.active = id
	return nil
}

// EndQuery stops sample counting; the result stays unavailable until the
// test calls Complete.
func (c *Context) EndQuery(id gfx.QueryID) {
	q, ok := c.queries[id]
	if !ok || !q.begun {
		return
	}
	q.begun = false
	q.pending = true
	c.active = gfx.InvalidID
}

// QueryAvailable reports result readiness without blocking.
func (c *Context) QueryAvailable(id gfx.QueryID) bool {
	q, ok := c.queries[id]
	return ok && q.available
}

// QueryResult reads the sample count and recycles the query.
func (c *Context) QueryResult(id gfx.QueryID) (uint64, error) {
	q, ok := c.queries[id]
	if !ok {
		return 0, fmt.Errorf("gfxtest: unknown query %d", id)
	}
	if !q.available {
		return 0, fmt.Errorf("gfxtest: query %d result not available", id)
	}
	q.available = false
	q.pending = false
	return q.result, nil
}

// Complete makes a pending query's result available with the given sample
// count. Tests call this to simulate the multi-frame GPU latency.
func (c *Context) Complete(id gfx.QueryID, samples uint64) {
	q, ok := c.queries[id]
	if !ok || !q.pending {
		return
	}
	q.available = true
	q.result = samples
}

// BeginCount returns how many times a query was begun.
func (c *Context) BeginCount(id gfx.QueryID) int {
	q, ok := c.queries[id]
	if !ok {
		return 0
	}
	return q.beginCount
}

// Pending reports whether a query was ended but not yet consumed.
func (c *Context) Pending(id gfx.QueryID) bool {
	q, ok := c.queries[id]
	return ok && q.pending
}
