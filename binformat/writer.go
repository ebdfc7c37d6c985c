// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binformat

import (
	"io"
	"os"

	"meshkit"
	"meshkit/base/errors"
	"meshkit/bytestream"
)

// Writer encodes chunks (and the textures referenced by them) into a V2
// container. ProcessTextureFile calls, if any, must all happen before the
// first WriteChunk call: the wire grammar places the whole texture list
// ahead of the first chunk, and Writer enforces that ordering by writing
// the 0x00 terminator itself on the first WriteChunk.
type Writer struct {
	path   string
	stream *bytestream.Stream

	texturesClosed bool
	written        map[int32]bool

	scratchDir string
}

// Create truncates (or creates) path and returns a Writer ready to
// receive ProcessTextureFile and WriteChunk calls. scratchDir is used to
// hold a chunk's body while its length is being measured before the
// length-prefixed frame is appended to path; pass "" for the OS default.
func Create(path, scratchDir string) (*Writer, error) {
	const op = "binformat.Writer.Create"
	stream, err := bytestream.Create(path)
	if err != nil {
		return nil, err
	}
	if err := stream.WriteU8(Version); err != nil {
		stream.Close()
		return nil, meshkit.NewError(meshkit.IO, op, err)
	}
	return &Writer{
		path:       path,
		stream:     stream,
		written:    make(map[int32]bool),
		scratchDir: scratchDir,
	}, nil
}

// Close flushes the texture-list terminator (if no chunk has done so
// already) and closes the underlying file. It is idempotent.
func (w *Writer) Close() error {
	if w.stream == nil {
		return nil
	}
	if !w.texturesClosed {
		w.texturesClosed = true
		if err := w.stream.WriteU8(tagNoMoreTex); err != nil {
			return meshkit.NewError(meshkit.IO, "binformat.Writer.Close", err)
		}
	}
	s := w.stream
	w.stream = nil
	return errors.Log(s.Close())
}

// ProcessTextureFile streams the bytes at path into the container as one
// texture record, tagged with tex.ID/Width/Height. Forwarding the same
// texture ID twice is a no-op (spec.md §4.6: "each texture is forwarded
// at most once"). It must be called before the first WriteChunk.
func (w *Writer) ProcessTextureFile(tex *meshkit.Texture, path string) error {
	const op = "binformat.Writer.ProcessTextureFile"
	if tex == nil {
		return meshkit.NewError(meshkit.Malformed, op, errf("nil texture"))
	}
	if w.texturesClosed {
		return meshkit.NewError(meshkit.Unsupported, op, errf("texture %d arrived after the first chunk", tex.ID))
	}
	if w.written[tex.ID] {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return meshkit.NewError(meshkit.IO, op, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return meshkit.NewError(meshkit.IO, op, err)
	}

	fw := &fieldWriter{s: w.stream, op: op}
	fw.u8(tagTexture)
	fw.i32(tex.ID)
	fw.i32(tex.Width)
	fw.i32(tex.Height)
	fw.i64(info.Size())
	if fw.err != nil {
		return fw.err
	}

	buf := make([]byte, 64*1024)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if err := w.stream.WriteBytes(buf[:n]); err != nil {
				return meshkit.NewError(meshkit.IO, op, err)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return meshkit.NewError(meshkit.IO, op, rerr)
		}
	}

	w.written[tex.ID] = true
	return nil
}

// WriteChunk appends one chunk frame. The first call also writes the
// texture-list terminator, whether or not ProcessTextureFile was called.
func (w *Writer) WriteChunk(c *meshkit.Chunk) error {
	const op = "binformat.Writer.WriteChunk"
	if !w.texturesClosed {
		w.texturesClosed = true
		if err := w.stream.WriteU8(tagNoMoreTex); err != nil {
			return meshkit.NewError(meshkit.IO, op, err)
		}
	}

	body, err := encodeChunkBody(c, w.scratchDir, op)
	if err != nil {
		return err
	}
	fw := &fieldWriter{s: w.stream, op: op}
	fw.i32(int32(len(body)))
	fw.bytes(body)
	return fw.err
}

// encodeChunkBody writes c's fields into a scratch file through a second
// bytestream.Stream, then reads the whole thing back, so the length
// prefix required by the wire grammar can be computed without duplicating
// bytestream's big-endian encoding logic in this package.
func encodeChunkBody(c *meshkit.Chunk, scratchDir, op string) ([]byte, error) {
	scratch, err := os.CreateTemp(scratchDir, "meshkit-binformat-chunk-*")
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op, err)
	}
	scratchPath := scratch.Name()
	scratch.Close()
	defer os.Remove(scratchPath)

	s, err := bytestream.Create(scratchPath)
	if err != nil {
		return nil, err
	}

	fw := &fieldWriter{s: s, op: op}
	if c.Material != nil {
		fw.u8(1)
		writeMaterial(fw, c.Material)
	} else {
		fw.u8(0)
	}
	writeFloats(fw, c.Vertices)
	writeColors(fw, c.Colors, c.ColorComponents)
	writeIndices(fw, c.Indices)
	writeFloats(fw, c.TexCoords)
	writeFloats(fw, c.Normals)
	fw.f32(c.Min[0])
	fw.f32(c.Min[1])
	fw.f32(c.Min[2])
	fw.f32(c.Max[0])
	fw.f32(c.Max[1])
	fw.f32(c.Max[2])
	if fw.err != nil {
		s.Close()
		return nil, fw.err
	}

	length := s.Length()
	if err := s.Seek(0); err != nil {
		s.Close()
		return nil, err
	}
	body, err := s.ReadBytes(int(length))
	s.Close()
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op, err)
	}
	return body, nil
}

func writeMaterial(fw *fieldWriter, m *meshkit.Material) {
	fw.i32(int32(m.ID))
	writeColor(fw, m.Ambient)
	writeColor(fw, m.Diffuse)
	writeColor(fw, m.Specular)
	if m.SpecularCoefficient != nil {
		fw.u8(1)
		fw.f32(*m.SpecularCoefficient)
	} else {
		fw.u8(0)
	}
	writeTextureRef(fw, m.AmbientMap)
	writeTextureRef(fw, m.DiffuseMap)
	writeTextureRef(fw, m.SpecularMap)
	writeTextureRef(fw, m.AlphaMap)
	writeTextureRef(fw, m.BumpMap)
	if m.Transparency != nil {
		fw.u8(1)
		fw.u8(*m.Transparency)
	} else {
		fw.u8(0)
	}
	if m.Illumination != nil {
		fw.u8(1)
		fw.i32(int32(*m.Illumination))
	} else {
		fw.u8(0)
	}
}

func writeColor(fw *fieldWriter, c *meshkit.Color) {
	if c == nil {
		fw.u8(0)
		return
	}
	fw.u8(1)
	fw.u8(c.R)
	fw.u8(c.G)
	fw.u8(c.B)
}

func writeTextureRef(fw *fieldWriter, t *meshkit.Texture) {
	if t == nil {
		fw.u8(0)
		return
	}
	fw.u8(1)
	fw.i32(t.ID)
	fw.i32(t.Width)
	fw.i32(t.Height)
}

func writeFloats(fw *fieldWriter, vals []float32) {
	fw.i32(int32(4 * len(vals)))
	for _, v := range vals {
		fw.f32(v)
	}
}

func writeColors(fw *fieldWriter, vals []uint8, components int) {
	fw.i32(int32(len(vals)))
	for _, v := range vals {
		fw.u8(v)
	}
	if len(vals) > 0 {
		fw.i32(int32(components))
	}
}

func writeIndices(fw *fieldWriter, vals []uint32) {
	fw.i32(int32(2 * len(vals)))
	for _, v := range vals {
		fw.u16(uint16(v))
	}
}
