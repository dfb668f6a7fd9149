// Package gfx abstracts the graphics context the symbol pipeline draws
// through.
//
// The pipeline never talks to a GPU API directly. Instead it holds opaque
// resource IDs (programs, textures, buffers, occlusion queries) and issues
// work through the Context interface. Each backend implementation maintains
// the mapping between IDs and actual GPU objects; backend/wgpu implements
// Context over gogpu/wgpu.
//
// Program variants are selected by a (ProgramKind, ProgramFlags) pair.
// ProgramFlags is a bitset of named capabilities; Program is a pure function
// of its inputs, so implementations cache compiled programs keyed by the
// pair and repeated calls are cheap.
package gfx
