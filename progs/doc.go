// Package progs decodes progs.dat, the compiled bytecode container produced
// by a QuakeC compiler, into an immutable in-memory representation.
//
// The entry point is [Load], which consumes a seekable byte stream and
// returns a [Progs] aggregate holding the decoded function, statement and
// definition records together with the raw string and global pools.
//
// # Immutability
//
// A Progs is immutable after Load returns and is safe for concurrent use:
//
//   - No mutation methods exist on any type
//   - All aggregate fields are unexported
//   - Collections are exposed through index-based accessors
//
// Records hold only raw offsets and indices. Name and value resolution is
// performed through the aggregate, which owns the string table and global
// pool:
//
//	fn := p.FunctionAt(0)
//	name, err := p.FunctionName(fn)
//
// # Errors
//
// Structural failures during Load ([ErrTruncated], [*InvalidEnumError])
// abort the whole decode; there is no partial Progs. Lookup failures after
// construction ([*BadOffsetError]) are local to the call and leave the
// aggregate intact.
package progs
