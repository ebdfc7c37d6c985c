// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

// Loader is the contract every format-specific loader (objformat.OBJParser,
// plyformat.PLYParser, binformat.Reader) satisfies.
//
// Control flow (spec.md §2): a caller constructs a Loader bound to a file,
// optionally registers callbacks, calls Load to obtain an Iterator, and
// drains it until exhausted. Materials becomes valid only after Load
// returns, and is read-only from then on.
type Loader interface {
	// Load opens the bound file, runs any required preflight pass, and
	// returns an Iterator. It fails with Kind=Locked if called while an
	// iterator from a previous Load is still active.
	Load() (Iterator, error)

	// Close releases the Loader's ByteStream. It is idempotent: closing
	// an already-closed Loader is a no-op, not an error.
	Close() error

	// Materials returns the materials collected while loading, in the
	// order they were declared. The returned slice must be treated as
	// read-only.
	Materials() []*Material

	// Metadata returns the comment/info lines captured while loading
	// (OBJ "# ..." lines, PLY "comment"/"obj_info" lines).
	Metadata() []string
}

// Iterator pulls chunks from a Loader, one at a time, in source-file
// order. Suspension points are the boundaries between Next calls: the
// caller may stop draining at any point and Close the iterator instead.
type Iterator interface {
	// Next returns the next chunk, or an *Error with Kind=NotAvailable
	// once the stream is exhausted. Any other error terminates the
	// iterator; Materials already collected and chunks already returned
	// remain valid.
	Next() (*Chunk, error)

	// Close releases the underlying ByteStream and clears any parser
	// caches. It is idempotent and safe to call after Next has returned
	// NotAvailable.
	Close() error
}

// ProgressFunc is invoked at most every 1% of processed input, with
// fraction in [0,1].
type ProgressFunc func(fraction float64)

// LoadHookFunc is invoked once at the start or end of a Load call.
type LoadHookFunc func()

// ChunkConfig holds the subset of per-loader options that apply to every
// format (spec.md §6): the hard vertex cap that triggers a chunk cut, the
// cross-face dedup toggle, and the mapped-vs-heap ByteStream threshold.
// Format-specific config structs (objformat.Config, plyformat.Config)
// embed this rather than repeating its fields.
type ChunkConfig struct {
	// MaxVerticesPerChunk is the hard cap that triggers a chunk cut.
	// Must be >= 1.
	MaxVerticesPerChunk int

	// AllowDuplicateVerticesInChunk disables cross-token dedup when true.
	AllowDuplicateVerticesInChunk bool

	// FileSizeLimitToKeepInMemory selects the heap-buffered ByteStream
	// backend when the source file is at or above this size, and the
	// memory-mapped backend below it. Zero disables mapping entirely.
	FileSizeLimitToKeepInMemory int64
}

// DefaultChunkConfig returns the spec.md §6 defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxVerticesPerChunk:           65535,
		AllowDuplicateVerticesInChunk: true,
		FileSizeLimitToKeepInMemory:   50 * 1024 * 1024,
	}
}

// Validate reports a Malformed-adjacent configuration error (Kind=
// Unsupported, since this is a caller mistake rather than a parse
// failure) if any option is out of its documented range.
func (c ChunkConfig) Validate(op string) error {
	if c.MaxVerticesPerChunk < 1 {
		return NewError(Unsupported, op, errf("MaxVerticesPerChunk must be >= 1, got %d", c.MaxVerticesPerChunk))
	}
	if c.FileSizeLimitToKeepInMemory < 0 {
		return NewError(Unsupported, op, errf("FileSizeLimitToKeepInMemory must be >= 0, got %d", c.FileSizeLimitToKeepInMemory))
	}
	return nil
}
