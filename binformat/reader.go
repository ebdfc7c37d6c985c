// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binformat

import (
	"os"

	"meshkit"
	"meshkit/base/errors"
	"meshkit/bytestream"
)

// Config holds Reader options.
type Config struct {
	// FileSizeLimitToKeepInMemory selects the heap-buffered ByteStream
	// backend at or above this size, mapped below it. Zero disables
	// mapping entirely.
	FileSizeLimitToKeepInMemory int64
}

// DefaultConfig returns the spec.md §6 default backend threshold.
func DefaultConfig() Config {
	return Config{FileSizeLimitToKeepInMemory: 50 * 1024 * 1024}
}

// Reader loads a V2 container written by [Writer] (or any conforming
// encoder). It implements [meshkit.Loader] and [meshkit.TextureEmitter]:
// texture records are read synchronously during Load, since the wire
// grammar places them before any chunk.
type Reader struct {
	path string
	cfg  Config

	listener meshkit.TextureListener

	lock   meshkit.Lock
	stream *bytestream.Stream
}

// New returns a Reader bound to path.
func New(path string, opts ...Option) *Reader {
	r := &Reader{path: path, cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// WithConfig overrides the default Config.
func WithConfig(cfg Config) Option { return func(r *Reader) { r.cfg = cfg } }

// SetTextureListener implements [meshkit.TextureEmitter].
func (r *Reader) SetTextureListener(l meshkit.TextureListener) { r.listener = l }

// Materials always returns nil: materials travel as part of each chunk's
// body, not as a loader-level collection (spec.md §4.5's `material`
// record is per-chunk).
func (r *Reader) Materials() []*meshkit.Material { return nil }

// Metadata always returns nil: the V2 container carries no comment
// records.
func (r *Reader) Metadata() []string { return nil }

// Close releases the underlying ByteStream. It is idempotent.
func (r *Reader) Close() error {
	r.lock.Release()
	if r.stream == nil {
		return nil
	}
	return errors.Log(r.stream.Close())
}

// Load opens path, validates the version byte, and reads every texture
// record up to the 0x00 terminator, forwarding each to the registered
// TextureListener (if any). It returns an Iterator positioned at the
// first chunk.
func (r *Reader) Load() (meshkit.Iterator, error) {
	const op = "binformat.Reader.Load"
	if err := r.lock.Acquire(op); err != nil {
		return nil, err
	}

	stream, err := bytestream.Open(r.path, r.cfg.FileSizeLimitToKeepInMemory)
	if err != nil {
		r.lock.Release()
		return nil, err
	}
	r.stream = stream

	version, err := stream.ReadU8()
	if err != nil {
		stream.Close()
		r.lock.Release()
		return nil, meshkit.NewError(meshkit.IO, op, err)
	}
	if version != Version {
		stream.Close()
		r.lock.Release()
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("unsupported container version %d, want %d", version, Version))
	}

	if err := r.readTextures(op); err != nil {
		stream.Close()
		r.lock.Release()
		return nil, err
	}

	return &readerIterator{r: r}, nil
}

func (r *Reader) readTextures(op string) error {
	for {
		tag, err := r.stream.ReadU8()
		if err != nil {
			return meshkit.NewError(meshkit.IO, op, err)
		}
		if tag == tagNoMoreTex {
			return nil
		}
		if tag != tagTexture {
			return meshkit.NewError(meshkit.Malformed, op, errf("unknown texture tag 0x%02x", tag))
		}

		fr := &fieldReader{s: r.stream, op: op}
		texID := fr.i32()
		width := fr.i32()
		height := fr.i32()
		length := fr.i64()
		if fr.err != nil {
			return fr.err
		}
		if length < 0 {
			return meshkit.NewError(meshkit.Malformed, op, errf("texture %d has negative length %d", texID, length))
		}
		if r.stream.Position()+length > r.stream.Length() {
			return meshkit.NewError(meshkit.Malformed, op, errf("texture %d length %d exceeds remaining file", texID, length))
		}

		if err := r.relayTexture(texID, width, height, length, op); err != nil {
			return err
		}
	}
}

func (r *Reader) relayTexture(texID, width, height int32, length int64, op string) error {
	if r.listener == nil {
		return r.stream.Skip(length)
	}
	destPath, ok := r.listener.TextureReceived(texID, width, height)
	if !ok {
		return r.stream.Skip(length)
	}
	f, err := os.Create(destPath)
	if err != nil {
		return meshkit.NewError(meshkit.IO, op, err)
	}
	defer f.Close()

	const bufSize = 64 * 1024
	var remaining int64 = length
	for remaining > 0 {
		n := int64(bufSize)
		if remaining < n {
			n = remaining
		}
		chunk, err := r.stream.ReadBytes(int(n))
		if err != nil {
			return meshkit.NewError(meshkit.IO, op, err)
		}
		if _, err := f.Write(chunk); err != nil {
			return meshkit.NewError(meshkit.IO, op, err)
		}
		remaining -= n
	}
	return r.listener.TextureDataAvailable(destPath, texID, width, height)
}

type readerIterator struct {
	r      *Reader
	closed bool
}

func (it *readerIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.r.lock.Release()
	return it.r.stream.Close()
}

func (it *readerIterator) Next() (*meshkit.Chunk, error) {
	const op = "binformat.Reader.Iterator.Next"
	if it.closed {
		return nil, meshkit.NewError(meshkit.NotAvailable, op, errf("iterator closed"))
	}
	s := it.r.stream
	if s.EOF() {
		return nil, meshkit.NewError(meshkit.NotAvailable, op, errf("no more chunks"))
	}

	size, err := s.ReadI32(bytestream.BigEndian)
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op, err)
	}
	if size < 0 {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("negative chunk size %d", size))
	}
	chunkStart := s.Position()
	chunkEnd := chunkStart + int64(size)
	if chunkEnd > s.Length() {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("chunk size %d exceeds remaining file", size))
	}

	fr := &fieldReader{s: s, op: op}
	chunk := &meshkit.Chunk{}

	if present := fr.u8(); present != 0 {
		chunk.Material = readMaterial(fr)
	}

	chunk.Vertices = readFloats(fr, chunkEnd)
	chunk.Colors, chunk.ColorComponents = readColors(fr, chunkEnd)
	chunk.Indices = readIndices(fr, chunkEnd)
	chunk.TexCoords = readFloats(fr, chunkEnd)
	chunk.Normals = readFloats(fr, chunkEnd)

	chunk.Min = [3]float32{fr.f32(), fr.f32(), fr.f32()}
	chunk.Max = [3]float32{fr.f32(), fr.f32(), fr.f32()}

	if fr.err != nil {
		return nil, fr.err
	}
	if s.Position() != chunkEnd {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("chunk body consumed %d bytes, declared size was %d", s.Position()-chunkStart, size))
	}
	if err := chunk.Validate(); err != nil {
		return nil, err
	}
	return chunk, nil
}

func readMaterial(fr *fieldReader) *meshkit.Material {
	m := &meshkit.Material{ID: int(fr.i32())}
	m.Ambient = readColor(fr)
	m.Diffuse = readColor(fr)
	m.Specular = readColor(fr)
	if present := fr.u8(); present != 0 {
		v := fr.f32()
		m.SpecularCoefficient = &v
	}
	m.AmbientMap = readTextureRef(fr)
	m.DiffuseMap = readTextureRef(fr)
	m.SpecularMap = readTextureRef(fr)
	m.AlphaMap = readTextureRef(fr)
	m.BumpMap = readTextureRef(fr)
	if present := fr.u8(); present != 0 {
		v := fr.u8()
		m.Transparency = &v
	}
	if present := fr.u8(); present != 0 {
		v := meshkit.Illumination(fr.i32())
		m.Illumination = &v
	}
	return m
}

func readColor(fr *fieldReader) *meshkit.Color {
	if present := fr.u8(); present != 0 {
		r, g, b := fr.u8(), fr.u8(), fr.u8()
		return &meshkit.Color{R: r, G: g, B: b}
	}
	return nil
}

func readTextureRef(fr *fieldReader) *meshkit.Texture {
	if present := fr.u8(); present != 0 {
		id, w, h := fr.i32(), fr.i32(), fr.i32()
		return &meshkit.Texture{ID: id, Width: w, Height: h}
	}
	return nil
}

func readFloats(fr *fieldReader, chunkEnd int64) []float32 {
	if fr.err != nil {
		return nil
	}
	sizeBytes := fr.i32()
	if fr.err != nil {
		return nil
	}
	if sizeBytes < 0 || sizeBytes%4 != 0 {
		fr.fail(meshkit.NewError(meshkit.Malformed, fr.op, errf("float section size %d is not a non-negative multiple of 4", sizeBytes)))
		return nil
	}
	if fr.s.Position()+int64(sizeBytes) > chunkEnd {
		fr.fail(meshkit.NewError(meshkit.Malformed, fr.op, errf("float section of %d bytes does not fit in chunk", sizeBytes)))
		return nil
	}
	n := sizeBytes / 4
	if n == 0 {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = fr.f32()
	}
	return out
}

func readColors(fr *fieldReader, chunkEnd int64) ([]uint8, int) {
	if fr.err != nil {
		return nil, 0
	}
	sizeBytes := fr.i32()
	if fr.err != nil {
		return nil, 0
	}
	if sizeBytes < 0 {
		fr.fail(meshkit.NewError(meshkit.Malformed, fr.op, errf("colors section has negative size %d", sizeBytes)))
		return nil, 0
	}
	if fr.s.Position()+int64(sizeBytes) > chunkEnd {
		fr.fail(meshkit.NewError(meshkit.Malformed, fr.op, errf("colors section of %d bytes does not fit in chunk", sizeBytes)))
		return nil, 0
	}
	if sizeBytes == 0 {
		return nil, 0
	}
	out := make([]uint8, sizeBytes)
	for i := range out {
		out[i] = fr.u8()
	}
	components := fr.i32()
	return out, int(components)
}

func readIndices(fr *fieldReader, chunkEnd int64) []uint32 {
	if fr.err != nil {
		return nil
	}
	sizeBytes := fr.i32()
	if fr.err != nil {
		return nil
	}
	if sizeBytes < 0 || sizeBytes%2 != 0 {
		fr.fail(meshkit.NewError(meshkit.Malformed, fr.op, errf("indices section size %d is not a non-negative multiple of 2", sizeBytes)))
		return nil
	}
	if fr.s.Position()+int64(sizeBytes) > chunkEnd {
		fr.fail(meshkit.NewError(meshkit.Malformed, fr.op, errf("indices section of %d bytes does not fit in chunk", sizeBytes)))
		return nil
	}
	n := sizeBytes / 2
	if n == 0 {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(fr.u16())
	}
	return out
}
