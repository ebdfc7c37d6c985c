// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plyformat

import (
	"strconv"
	"strings"

	"meshkit"
	"meshkit/base/errors"
	"meshkit/bytestream"
)

// PLYParser loads a Stanford PLY file (ASCII, binary_little_endian, or
// binary_big_endian) into a stream of [meshkit.Chunk] values. Unlike
// objformat's position-cache-backed random access, PLY's header gives an
// exact vertex count up front, so the vertex element is read in full
// before any face is processed (grounded on the df07 progressive
// raytracer PLY loader, which takes the same approach); only face
// records are streamed.
type PLYParser struct {
	path string
	cfg  Config

	onProgress   meshkit.ProgressFunc
	onLoadStart  meshkit.LoadHookFunc
	onLoadEnd    meshkit.LoadHookFunc
	triangulator meshkit.Triangulator

	lock   meshkit.Lock
	stream *bytestream.Stream

	hdr      *header
	metadata []string

	vertexCount     int
	positions       []float32
	normals         []float32
	texCoords       []float32
	colors          []uint8
	colorComponents int

	faceElem *element
}

// New returns a PLYParser bound to path, configured with the given
// options. It does not touch the filesystem until Load is called.
func New(path string, opts ...Option) *PLYParser {
	p := &PLYParser{
		path:         path,
		cfg:          DefaultConfig(),
		triangulator: meshkit.FanTriangulator{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Materials always returns nil: PLY carries no material definitions.
func (p *PLYParser) Materials() []*meshkit.Material { return nil }

// Metadata returns every "comment"/"obj_info" header line, in order.
func (p *PLYParser) Metadata() []string { return p.metadata }

// Close releases the underlying ByteStream. It is idempotent.
func (p *PLYParser) Close() error {
	p.lock.Release()
	if p.stream == nil {
		return nil
	}
	return errors.Log(p.stream.Close())
}

// Load parses the header, reads the vertex element in full, and returns
// an Iterator positioned at the start of the face element's records.
func (p *PLYParser) Load() (meshkit.Iterator, error) {
	const op = "plyformat.PLYParser.Load"
	if err := p.lock.Acquire(op); err != nil {
		return nil, err
	}
	if p.onLoadStart != nil {
		p.onLoadStart()
	}
	if err := p.cfg.ChunkConfig.Validate(op); err != nil {
		p.lock.Release()
		return nil, err
	}

	stream, err := bytestream.Open(p.path, p.cfg.FileSizeLimitToKeepInMemory)
	if err != nil {
		p.lock.Release()
		return nil, err
	}
	p.stream = stream

	hdr, err := parseHeader(stream, op)
	if err != nil {
		stream.Close()
		p.lock.Release()
		return nil, err
	}
	p.hdr = hdr
	p.metadata = hdr.comments

	vertexElem := hdr.element("vertex")
	if vertexElem == nil {
		stream.Close()
		p.lock.Release()
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("no vertex element"))
	}
	p.vertexCount = vertexElem.count

	for i := range hdr.elements {
		el := &hdr.elements[i]
		switch el.name {
		case "vertex":
			if err := p.readVertexElement(el, op); err != nil {
				stream.Close()
				p.lock.Release()
				return nil, err
			}
		case "face":
			p.faceElem = el
		default:
			if err := p.skipElementRecords(el, op); err != nil {
				stream.Close()
				p.lock.Release()
				return nil, err
			}
		}
		if p.faceElem != nil {
			break
		}
	}
	if p.positions == nil {
		stream.Close()
		p.lock.Release()
		return nil, meshkit.NewError(meshkit.Unsupported, op, errf("face element must be declared after vertex element"))
	}
	if p.faceElem == nil {
		stream.Close()
		p.lock.Release()
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("no face element"))
	}
	return &plyIterator{p: p}, nil
}

func (p *PLYParser) readVertexElement(vertexElem *element, op string) error {
	n := vertexElem.count
	posIdx := [3]int{vertexElem.indexOf("x"), vertexElem.indexOf("y"), vertexElem.indexOf("z")}
	if posIdx[0] < 0 || posIdx[1] < 0 || posIdx[2] < 0 {
		return meshkit.NewError(meshkit.Malformed, op, errf("vertex element missing x/y/z"))
	}
	normIdx := [3]int{vertexElem.indexOf("nx"), vertexElem.indexOf("ny"), vertexElem.indexOf("nz")}
	hasNormal := normIdx[0] >= 0 && normIdx[1] >= 0 && normIdx[2] >= 0
	texIdx := [2]int{vertexElem.indexOf("u", "s", "texture_u"), vertexElem.indexOf("v", "t", "texture_v")}
	hasTex := texIdx[0] >= 0 && texIdx[1] >= 0
	colorIdx := [4]int{
		vertexElem.indexOf("red", "r"),
		vertexElem.indexOf("green", "g"),
		vertexElem.indexOf("blue", "b"),
		vertexElem.indexOf("alpha", "a"),
	}
	hasColor := colorIdx[0] >= 0 && colorIdx[1] >= 0 && colorIdx[2] >= 0
	colorComponents := 0
	if hasColor {
		colorComponents = 3
		if colorIdx[3] >= 0 {
			colorComponents = 4
		}
	}

	p.positions = make([]float32, 3*n)
	if hasNormal {
		p.normals = make([]float32, 3*n)
	}
	if hasTex {
		p.texCoords = make([]float32, 2*n)
	}
	if hasColor {
		p.colors = make([]uint8, colorComponents*n)
		p.colorComponents = colorComponents
	}

	if p.hdr.format == "ascii" {
		for i := 0; i < n; i++ {
			line, ok, err := p.stream.ReadLine()
			if err != nil {
				return meshkit.NewError(meshkit.IO, op, err)
			}
			if !ok {
				return meshkit.NewError(meshkit.Malformed, op, errf("vertex %d missing before EOF", i))
			}
			fields := strings.Fields(strings.TrimSpace(line))
			if len(fields) < len(vertexElem.props) {
				return meshkit.NewError(meshkit.Malformed, op, errf("vertex %d has %d fields, want %d", i, len(fields), len(vertexElem.props)))
			}
			get := func(idx int) (float64, error) { return strconv.ParseFloat(fields[idx], 64) }

			x, err := get(posIdx[0])
			if err != nil {
				return meshkit.NewError(meshkit.Malformed, op, err)
			}
			y, err := get(posIdx[1])
			if err != nil {
				return meshkit.NewError(meshkit.Malformed, op, err)
			}
			z, err := get(posIdx[2])
			if err != nil {
				return meshkit.NewError(meshkit.Malformed, op, err)
			}
			p.positions[3*i], p.positions[3*i+1], p.positions[3*i+2] = float32(x), float32(y), float32(z)

			if hasNormal {
				nx, _ := get(normIdx[0])
				ny, _ := get(normIdx[1])
				nz, _ := get(normIdx[2])
				p.normals[3*i], p.normals[3*i+1], p.normals[3*i+2] = float32(nx), float32(ny), float32(nz)
			}
			if hasTex {
				u, _ := get(texIdx[0])
				v, _ := get(texIdx[1])
				p.texCoords[2*i], p.texCoords[2*i+1] = float32(u), float32(v)
			}
			if hasColor {
				r, _ := get(colorIdx[0])
				g, _ := get(colorIdx[1])
				b, _ := get(colorIdx[2])
				base := colorComponents * i
				p.colors[base], p.colors[base+1], p.colors[base+2] = uint8(r), uint8(g), uint8(b)
				if colorComponents == 4 {
					a, _ := get(colorIdx[3])
					p.colors[base+3] = uint8(a)
				}
			}
		}
		return nil
	}

	e := p.hdr.endian()
	for i := 0; i < n; i++ {
		values := make([]float64, len(vertexElem.props))
		for j, prop := range vertexElem.props {
			if prop.isList {
				cnt, err := readScalarUint(p.stream, prop.countType, e)
				if err != nil {
					return meshkit.NewError(meshkit.IO, op, err)
				}
				for k := uint64(0); k < cnt; k++ {
					if _, err := readScalarFloat(p.stream, prop.elemType, e); err != nil {
						return meshkit.NewError(meshkit.IO, op, err)
					}
				}
				continue
			}
			v, err := readScalarFloat(p.stream, prop.elemType, e)
			if err != nil {
				return meshkit.NewError(meshkit.IO, op, err)
			}
			values[j] = v
		}
		p.positions[3*i] = float32(values[posIdx[0]])
		p.positions[3*i+1] = float32(values[posIdx[1]])
		p.positions[3*i+2] = float32(values[posIdx[2]])
		if hasNormal {
			p.normals[3*i] = float32(values[normIdx[0]])
			p.normals[3*i+1] = float32(values[normIdx[1]])
			p.normals[3*i+2] = float32(values[normIdx[2]])
		}
		if hasTex {
			p.texCoords[2*i] = float32(values[texIdx[0]])
			p.texCoords[2*i+1] = float32(values[texIdx[1]])
		}
		if hasColor {
			base := colorComponents * i
			p.colors[base] = uint8(values[colorIdx[0]])
			p.colors[base+1] = uint8(values[colorIdx[1]])
			p.colors[base+2] = uint8(values[colorIdx[2]])
			if colorComponents == 4 {
				p.colors[base+3] = uint8(values[colorIdx[3]])
			}
		}
	}
	return nil
}

func (p *PLYParser) skipElementRecords(el *element, op string) error {
	if p.hdr.format == "ascii" {
		for i := 0; i < el.count; i++ {
			_, ok, err := p.stream.ReadLine()
			if err != nil {
				return meshkit.NewError(meshkit.IO, op, err)
			}
			if !ok {
				return meshkit.NewError(meshkit.Malformed, op, errf("element %q truncated", el.name))
			}
		}
		return nil
	}
	e := p.hdr.endian()
	for i := 0; i < el.count; i++ {
		for _, prop := range el.props {
			if prop.isList {
				cnt, err := readScalarUint(p.stream, prop.countType, e)
				if err != nil {
					return meshkit.NewError(meshkit.IO, op, err)
				}
				if err := p.stream.Skip(int64(cnt) * int64(prop.elemType.size())); err != nil {
					return err
				}
				continue
			}
			if err := p.stream.Skip(int64(prop.elemType.size())); err != nil {
				return err
			}
		}
	}
	return nil
}

// readFaceRecord reads exactly one face element record and returns its
// vertex_indices list. Other face properties are parsed (ascii) or
// read (binary) to keep the cursor in sync, then discarded.
func (p *PLYParser) readFaceRecord(op string) ([]uint32, error) {
	if p.hdr.format == "ascii" {
		line, ok, err := p.stream.ReadLine()
		if err != nil {
			return nil, meshkit.NewError(meshkit.IO, op, err)
		}
		if !ok {
			return nil, meshkit.NewError(meshkit.Malformed, op, errf("face record missing before EOF"))
		}
		fields := strings.Fields(strings.TrimSpace(line))
		pos := 0
		var indices []uint32
		for _, prop := range p.faceElem.props {
			if prop.isList {
				if pos >= len(fields) {
					return nil, meshkit.NewError(meshkit.Malformed, op, errf("face record truncated"))
				}
				cnt, err := strconv.Atoi(fields[pos])
				if err != nil {
					return nil, meshkit.NewError(meshkit.Malformed, op, err)
				}
				pos++
				if pos+cnt > len(fields) {
					return nil, meshkit.NewError(meshkit.Malformed, op, errf("face record truncated"))
				}
				vals := fields[pos : pos+cnt]
				pos += cnt
				if prop.name == "vertex_indices" || prop.name == "vertex_index" {
					indices = make([]uint32, cnt)
					for i, tok := range vals {
						v, err := strconv.ParseUint(tok, 10, 32)
						if err != nil {
							return nil, meshkit.NewError(meshkit.Malformed, op, err)
						}
						indices[i] = uint32(v)
					}
				}
			} else {
				pos++
			}
		}
		if indices == nil {
			return nil, meshkit.NewError(meshkit.Malformed, op, errf("face element has no vertex_indices property"))
		}
		return indices, nil
	}

	e := p.hdr.endian()
	var indices []uint32
	for _, prop := range p.faceElem.props {
		if prop.isList {
			cnt, err := readScalarUint(p.stream, prop.countType, e)
			if err != nil {
				return nil, meshkit.NewError(meshkit.IO, op, err)
			}
			vals := make([]uint32, cnt)
			for i := uint64(0); i < cnt; i++ {
				v, err := readScalarUint(p.stream, prop.elemType, e)
				if err != nil {
					return nil, meshkit.NewError(meshkit.IO, op, err)
				}
				vals[i] = uint32(v)
			}
			if prop.name == "vertex_indices" || prop.name == "vertex_index" {
				indices = vals
			}
		} else if _, err := readScalarFloat(p.stream, prop.elemType, e); err != nil {
			return nil, meshkit.NewError(meshkit.IO, op, err)
		}
	}
	if indices == nil {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("face element has no vertex_indices property"))
	}
	return indices, nil
}

func (p *PLYParser) resolveSlot(chunk *meshkit.Chunk, dedup map[uint32]uint32, origIdx uint32, seeded *bool, op string) (uint32, error) {
	if !p.cfg.AllowDuplicateVerticesInChunk {
		if slot, ok := dedup[origIdx]; ok {
			return slot, nil
		}
	}
	if int(origIdx) >= p.vertexCount {
		return 0, meshkit.NewError(meshkit.Malformed, op, errf("face references out-of-range vertex %d", origIdx))
	}
	slot := uint32(chunk.VertexCount())
	x, y, z := p.positions[3*origIdx], p.positions[3*origIdx+1], p.positions[3*origIdx+2]
	chunk.Vertices = append(chunk.Vertices, x, y, z)
	chunk.ExpandBounds(x, y, z, seeded)
	if p.normals != nil {
		chunk.Normals = append(chunk.Normals, p.normals[3*origIdx], p.normals[3*origIdx+1], p.normals[3*origIdx+2])
	}
	if p.texCoords != nil {
		chunk.TexCoords = append(chunk.TexCoords, p.texCoords[2*origIdx], p.texCoords[2*origIdx+1])
	}
	if p.colors != nil {
		cc := p.colorComponents
		chunk.ColorComponents = cc
		base := cc * int(origIdx)
		chunk.Colors = append(chunk.Colors, p.colors[base:base+cc]...)
	}
	if !p.cfg.AllowDuplicateVerticesInChunk {
		dedup[origIdx] = slot
	}
	return slot, nil
}

// plyIterator drains one Load call's worth of chunks.
type plyIterator struct {
	p         *PLYParser
	closed    bool
	done      bool
	facesRead int
	lastFrac  float64

	// pending holds the remainder of a single face's triangles that did
	// not fit in the chunk being built when the face itself was large
	// enough to overflow MaxVerticesPerChunk on its own.
	pending *plyPendingFace
}

// plyPendingFace is the carry-over state for a face whose triangles
// span more than one chunk.
type plyPendingFace struct {
	indices   []uint32
	triangles [][3]int
}

func (it *plyIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.p.lock.Release()
	if it.p.onLoadEnd != nil {
		it.p.onLoadEnd()
	}
	return it.p.stream.Close()
}

func (it *plyIterator) Next() (*meshkit.Chunk, error) {
	const op = "plyformat.PLYParser.Iterator.Next"
	if it.closed || it.done {
		return nil, meshkit.NewError(meshkit.NotAvailable, op, errf("no more chunks"))
	}
	chunk, err := it.readChunk(op)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		it.done = true
		return nil, meshkit.NewError(meshkit.NotAvailable, op, errf("no more chunks"))
	}
	return chunk, nil
}

func (it *plyIterator) readChunk(op string) (*meshkit.Chunk, error) {
	p := it.p
	chunk := &meshkit.Chunk{}
	seeded := false
	dedup := map[uint32]uint32{}

	if it.pending != nil {
		pend := it.pending
		it.pending = nil
		rest, err := it.appendTriangles(chunk, dedup, &seeded, pend.indices, pend.triangles, op)
		if err != nil {
			return nil, err
		}
		if rest != nil {
			it.pending = &plyPendingFace{indices: pend.indices, triangles: rest}
			return it.finalize(chunk)
		}
		it.facesRead++
		it.emitProgress()
	}

	for it.facesRead < p.faceElem.count {
		indices, err := p.readFaceRecord(op)
		if err != nil {
			return nil, err
		}
		if len(indices) < 3 {
			return nil, meshkit.NewError(meshkit.Malformed, op, errf("face has %d vertices, need at least 3", len(indices)))
		}

		polygon := make([][3]float32, len(indices))
		for i, idx := range indices {
			if int(idx) >= p.vertexCount {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("face references out-of-range vertex %d", idx))
			}
			polygon[i] = [3]float32{p.positions[3*idx], p.positions[3*idx+1], p.positions[3*idx+2]}
		}
		triangles, terr := p.triangulator.Triangulate(polygon)
		if terr != nil {
			if p.cfg.ContinueOnTriangulationError {
				it.facesRead++
				continue
			}
			return nil, meshkit.NewError(meshkit.Malformed, op, terr)
		}

		rest, aerr := it.appendTriangles(chunk, dedup, &seeded, indices, triangles, op)
		if aerr != nil {
			return nil, aerr
		}
		if rest != nil {
			// Either the chunk already held vertices from earlier faces
			// and this face doesn't fit at all, or this face alone
			// overflows MaxVerticesPerChunk and had to be cut
			// mid-triangle; either way the unconsumed triangles carry
			// over into the next chunk's pending state instead of being
			// re-parsed, since the record has already been fully read
			// off the stream.
			it.pending = &plyPendingFace{indices: indices, triangles: rest}
			return it.finalize(chunk)
		}
		it.facesRead++
		it.emitProgress()
	}

	if chunk.VertexCount() == 0 {
		return nil, nil
	}
	return it.finalize(chunk)
}

// appendTriangles appends triangles to chunk one at a time, stopping and
// returning the unappended remainder as soon as the next triangle would
// push the chunk past MaxVerticesPerChunk. The first triangle is always
// appended even into a chunk already at the cap, so a single face with
// far more triangles than fit in one chunk splits across several chunks
// instead of being emitted whole past the cap.
func (it *plyIterator) appendTriangles(chunk *meshkit.Chunk, dedup map[uint32]uint32, seeded *bool, indices []uint32, triangles [][3]int, op string) ([][3]int, error) {
	p := it.p
	for i, tri := range triangles {
		if chunk.VertexCount() > 0 && chunk.VertexCount()+3 > p.cfg.MaxVerticesPerChunk {
			return triangles[i:], nil
		}
		for _, ci := range tri {
			if ci < 0 || ci >= len(indices) {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("triangulator returned out-of-range corner %d", ci))
			}
			slot, serr := p.resolveSlot(chunk, dedup, indices[ci], seeded, op)
			if serr != nil {
				return nil, serr
			}
			chunk.Indices = append(chunk.Indices, slot)
		}
	}
	return nil, nil
}

func (it *plyIterator) finalize(chunk *meshkit.Chunk) (*meshkit.Chunk, error) {
	if err := chunk.Validate(); err != nil {
		return nil, err
	}
	return chunk, nil
}

func (it *plyIterator) emitProgress() {
	p := it.p
	if p.onProgress == nil || p.faceElem.count == 0 {
		return
	}
	frac := float64(it.facesRead) / float64(p.faceElem.count)
	if frac-it.lastFrac >= 0.01 || frac >= 1 {
		it.lastFrac = frac
		p.onProgress(frac)
	}
}

func readScalarFloat(s *bytestream.Stream, t scalarType, e bytestream.Endian) (float64, error) {
	switch t {
	case typeInt8:
		v, err := s.ReadI8()
		return float64(v), err
	case typeUInt8:
		v, err := s.ReadU8()
		return float64(v), err
	case typeInt16:
		v, err := s.ReadI16(e)
		return float64(v), err
	case typeUInt16:
		v, err := s.ReadU16(e)
		return float64(v), err
	case typeInt32:
		v, err := s.ReadI32(e)
		return float64(v), err
	case typeUInt32:
		v, err := s.ReadU32(e)
		return float64(v), err
	case typeFloat32:
		v, err := s.ReadF32(e)
		return float64(v), err
	case typeFloat64:
		return s.ReadF64(e)
	default:
		return 0, errf("unknown scalar type")
	}
}

func readScalarUint(s *bytestream.Stream, t scalarType, e bytestream.Endian) (uint64, error) {
	switch t {
	case typeInt8:
		v, err := s.ReadI8()
		return uint64(v), err
	case typeUInt8:
		v, err := s.ReadU8()
		return uint64(v), err
	case typeInt16:
		v, err := s.ReadI16(e)
		return uint64(v), err
	case typeUInt16:
		v, err := s.ReadU16(e)
		return uint64(v), err
	case typeInt32:
		v, err := s.ReadI32(e)
		return uint64(v), err
	case typeUInt32:
		v, err := s.ReadU32(e)
		return uint64(v), err
	default:
		return 0, errf("unsupported list count/index type")
	}
}
