package gfx

import "errors"

// Context errors.
var (
	// ErrQueryUnsupported is returned when occlusion queries are requested
	// from a backend that cannot provide them.
	ErrQueryUnsupported = errors.New("gfx: occlusion queries not supported")

	// ErrUnknownProgram is returned when no program exists for a
	// (kind, flags) pair.
	ErrUnknownProgram = errors.New("gfx: unknown program variant")
)

// Context abstracts over different GPU backend implementations.
//
// The symbol pipeline drives a Context once per frame from a single
// goroutine; implementations are not required to be safe for concurrent
// command recording. Resource creation and destruction follow the owner:
// buckets own their buffers and query arenas and release them when the tile
// is evicted.
type Context interface {
	// === Programs ===

	// Program resolves a compiled program variant. It is a pure function of
	// its inputs: repeated calls with the same (kind, flags) return the same
	// handle, so implementations cache compiled programs by the pair.
	Program(kind ProgramKind, flags ProgramFlags) (ProgramID, error)

	// === Buffers ===

	// CreateBuffer creates a GPU buffer of the given byte size.
	CreateBuffer(size int, usage BufferUsage) (BufferID, error)

	// DestroyBuffer releases a GPU buffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer writes data to a buffer at the given byte offset. The
	// dynamic vertex streams are fully rewritten through this every frame.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// === Textures ===

	// BindTexture binds a texture to a fixed texture unit with the given
	// filtering for subsequent draw calls.
	BindTexture(unit int, id TextureID, filter Filter)

	// DestroyTexture releases a GPU texture.
	DestroyTexture(id TextureID)

	// === Draw ===

	// DrawIndexed issues one indexed draw call.
	DrawIndexed(p *DrawParams)

	// === Occlusion queries ===
	//
	// A query object, once allocated, is reused indefinitely for the same
	// symbol instance. The pipeline never begins a query whose previous
	// result has not been consumed.

	// SupportsOcclusionQuery reports whether the backend can run visibility
	// queries. When false, occlusion testing degrades to a no-op.
	SupportsOcclusionQuery() bool

	// CreateQuery allocates a query object.
	CreateQuery() (QueryID, error)

	// DestroyQuery releases a query object. Pending results are abandoned.
	DestroyQuery(id QueryID)

	// BeginQuery starts sample counting scoped to the draw calls issued
	// until EndQuery.
	BeginQuery(id QueryID) error

	// EndQuery stops sample counting for the query.
	EndQuery(id QueryID)

	// QueryAvailable reports, without blocking, whether the query's result
	// can be read. Results typically land several frames after EndQuery.
	QueryAvailable(id QueryID) bool

	// QueryResult reads the passed-sample count of an available query and
	// recycles the query object for reuse.
	QueryResult(id QueryID) (uint64, error)
}
