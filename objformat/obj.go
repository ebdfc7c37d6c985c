// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package objformat implements the Wavefront OBJ/MTL loader (spec.md
// §4.2): a two-pass parser that locates attribute declarations once
// during a preflight sweep, then streams faces into fixed-size chunks
// without holding the whole mesh in memory.
package objformat

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"meshkit"
	"meshkit/base/errors"
	"meshkit/bytestream"
)

// OBJParser loads a Wavefront OBJ file, together with any materials its
// "mtllib" directives reference, into a stream of [meshkit.Chunk] values.
type OBJParser struct {
	path string
	cfg  Config

	materialResolver MaterialLoaderResolverFunc
	validateTexture  ValidateTextureFunc
	onProgress       meshkit.ProgressFunc
	onLoadStart      meshkit.LoadHookFunc
	onLoadEnd        meshkit.LoadHookFunc
	triangulator     meshkit.Triangulator

	lock   meshkit.Lock
	stream *bytestream.Stream

	materials      []*meshkit.Material
	materialByName map[string]*meshkit.Material
	metadata       []string
	textures       *meshkit.TextureSet

	firstVertexOffset   int64
	firstTexCoordOffset int64
	firstNormalOffset   int64
	firstFaceOffset     int64
	firstUsemtlOffset   int64
	totalFaceLines      int64

	vertexCache   *positionCache
	texCoordCache *positionCache
	normalCache   *positionCache
}

// New returns an OBJParser bound to path, configured with the given
// options. It does not touch the filesystem until Load is called.
func New(path string, opts ...Option) *OBJParser {
	p := &OBJParser{
		path:         path,
		cfg:          DefaultConfig(),
		triangulator: meshkit.FanTriangulator{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.materialResolver == nil {
		p.materialResolver = p.defaultMaterialResolver
	}
	if p.validateTexture == nil {
		p.validateTexture = defaultValidateTexture
	}
	return p
}

// Materials returns the materials loaded from every "mtllib" directive
// encountered, in declaration order. Valid only after Load returns.
func (p *OBJParser) Materials() []*meshkit.Material { return p.materials }

// Metadata returns every "# ..." comment line encountered, in file
// order. Valid only after Load returns.
func (p *OBJParser) Metadata() []string { return p.metadata }

// Close releases the underlying ByteStream. It is idempotent.
func (p *OBJParser) Close() error {
	p.lock.Release()
	if p.stream == nil {
		return nil
	}
	return errors.Log(p.stream.Close())
}

func (p *OBJParser) defaultMaterialResolver(mtlPath string) (MaterialLoader, bool) {
	full := mtlPath
	if !filepath.IsAbs(full) {
		full = filepath.Join(filepath.Dir(p.path), mtlPath)
	}
	if _, err := os.Stat(full); err != nil {
		return nil, false
	}
	return NewOBJMaterialParser(full, p.textures, p.validateTexture), true
}

// Load runs the preflight sweep and returns an Iterator positioned at
// the earliest point a chunk could start (the first "usemtl" or the
// first "f", whichever comes first).
func (p *OBJParser) Load() (meshkit.Iterator, error) {
	const op = "objformat.OBJParser.Load"
	if err := p.lock.Acquire(op); err != nil {
		return nil, err
	}
	if p.onLoadStart != nil {
		p.onLoadStart()
	}
	if err := p.cfg.validate(op); err != nil {
		p.lock.Release()
		return nil, err
	}

	stream, err := bytestream.Open(p.path, p.cfg.FileSizeLimitToKeepInMemory)
	if err != nil {
		p.lock.Release()
		return nil, err
	}
	p.stream = stream
	p.textures = meshkit.NewTextureSet()
	p.vertexCache = newPositionCache(p.cfg.MaxCachedPositions)
	p.texCoordCache = newPositionCache(p.cfg.MaxCachedPositions)
	p.normalCache = newPositionCache(p.cfg.MaxCachedPositions)
	p.firstVertexOffset, p.firstTexCoordOffset, p.firstNormalOffset = -1, -1, -1
	p.firstFaceOffset, p.firstUsemtlOffset = -1, -1

	if err := p.preflight(op); err != nil {
		p.stream.Close()
		p.lock.Release()
		return nil, err
	}

	start := p.firstFaceOffset
	if p.firstUsemtlOffset >= 0 && p.firstUsemtlOffset < start {
		start = p.firstUsemtlOffset
	}
	if err := p.stream.Seek(start); err != nil {
		p.stream.Close()
		p.lock.Release()
		return nil, err
	}
	return &objIterator{p: p}, nil
}

// preflight makes a single linear pass over the file, recording the
// byte offset of the first declaration of each attribute stream,
// counting face lines for progress reporting, capturing comments, and
// synchronously resolving and loading every "mtllib" directive.
func (p *OBJParser) preflight(op string) error {
	for {
		offset := p.stream.Position()
		line, ok, err := p.stream.ReadLine()
		if err != nil {
			return meshkit.NewError(meshkit.IO, op, err).At(offset)
		}
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			p.metadata = append(p.metadata, strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			continue
		}
		fields := strings.Fields(trimmed)
		directive, args := fields[0], fields[1:]
		switch directive {
		case "v":
			if p.firstVertexOffset < 0 {
				p.firstVertexOffset = offset
			}
		case "vt":
			if p.firstTexCoordOffset < 0 {
				p.firstTexCoordOffset = offset
			}
		case "vn":
			if p.firstNormalOffset < 0 {
				p.firstNormalOffset = offset
			}
		case "f":
			if p.firstFaceOffset < 0 {
				p.firstFaceOffset = offset
			}
			p.totalFaceLines++
		case "usemtl":
			if p.firstUsemtlOffset < 0 {
				p.firstUsemtlOffset = offset
			}
		case "mtllib":
			for _, name := range args {
				if err := p.loadMaterialLib(name, op); err != nil {
					return err
				}
			}
		}
	}
	if p.firstFaceOffset < 0 {
		return meshkit.NewError(meshkit.Malformed, op, errf("no faces found"))
	}
	return nil
}

func (p *OBJParser) loadMaterialLib(name, op string) error {
	loader, ok := p.materialResolver(name)
	if !ok {
		return nil
	}
	mats, err := loader.Load()
	if err != nil {
		return meshkit.NewError(meshkit.IO, op, err)
	}
	if p.materialByName == nil {
		p.materialByName = make(map[string]*meshkit.Material)
	}
	for _, m := range mats {
		p.materialByName[m.Name] = m
		p.materials = append(p.materials, m)
	}
	return nil
}

// fetchLine returns the split, directive-stripped fields of the target
// occurrence of directive, using cache to avoid rescanning from the
// start of the file on every call. The stream's cursor is restored to
// its pre-call position before returning.
func (p *OBJParser) fetchLine(cache *positionCache, directive string, firstOffset int64, target uint64, op string) ([]string, error) {
	if off, ok := cache.Get(target); ok {
		return p.readFieldsAt(off, op)
	}
	var count uint64
	var seekOffset int64
	if pk, ok := cache.Predecessor(target); ok {
		off, _ := cache.Get(pk)
		count, seekOffset = pk, off
	} else {
		if firstOffset < 0 {
			return nil, meshkit.NewError(meshkit.Malformed, op, errf("%s index %d referenced but no %q declarations exist", directive, target, directive))
		}
		seekOffset = firstOffset
	}

	saved := p.stream.Position()
	defer p.stream.Seek(saved)
	if err := p.stream.Seek(seekOffset); err != nil {
		return nil, err
	}
	if count > 0 {
		if _, _, err := p.stream.ReadLine(); err != nil {
			return nil, meshkit.NewError(meshkit.IO, op, err)
		}
	}
	for {
		lineOffset := p.stream.Position()
		line, ok, err := p.stream.ReadLine()
		if err != nil {
			return nil, meshkit.NewError(meshkit.IO, op, err).At(lineOffset)
		}
		if !ok {
			return nil, meshkit.NewError(meshkit.Malformed, op, errf("%s index %d not found before EOF", directive, target))
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		if fields[0] != directive {
			continue
		}
		count++
		cache.Put(count, lineOffset)
		if count == target {
			return fields[1:], nil
		}
	}
}

func (p *OBJParser) readFieldsAt(offset int64, op string) ([]string, error) {
	saved := p.stream.Position()
	defer p.stream.Seek(saved)
	if err := p.stream.Seek(offset); err != nil {
		return nil, err
	}
	line, ok, err := p.stream.ReadLine()
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op, err).At(offset)
	}
	if !ok {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("cached offset %d unreadable", offset)).At(offset)
	}
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("cached offset %d is empty", offset)).At(offset)
	}
	return fields[1:], nil
}

func (p *OBJParser) fetchVertex(idx uint64) (x, y, z float32, err error) {
	const op = "objformat.OBJParser.fetchVertex"
	fields, err := p.fetchLine(p.vertexCache, "v", p.firstVertexOffset, idx, op)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(fields) < 3 {
		return 0, 0, 0, meshkit.NewError(meshkit.Malformed, op, errf("vertex %d has %d components, need at least 3", idx, len(fields)))
	}
	vals, err := parseFloats(fields[:3], op)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, z = vals[0], vals[1], vals[2]
	if len(fields) >= 4 && fields[3] != "" {
		w, werr := strconv.ParseFloat(fields[3], 32)
		if werr != nil {
			return 0, 0, 0, meshkit.NewError(meshkit.Malformed, op, werr)
		}
		if fw := float32(w); fw != 0 {
			x, y, z = x/fw, y/fw, z/fw
		}
	}
	return x, y, z, nil
}

func (p *OBJParser) fetchTexCoord(idx uint64) (u, v float32, err error) {
	const op = "objformat.OBJParser.fetchTexCoord"
	fields, err := p.fetchLine(p.texCoordCache, "vt", p.firstTexCoordOffset, idx, op)
	if err != nil {
		return 0, 0, err
	}
	if len(fields) < 2 {
		return 0, 0, meshkit.NewError(meshkit.Malformed, op, errf("texcoord %d has %d components, need at least 2", idx, len(fields)))
	}
	vals, err := parseFloats(fields[:2], op)
	if err != nil {
		return 0, 0, err
	}
	u, v = vals[0], vals[1]
	if len(fields) >= 3 && fields[2] != "" {
		if wf, werr := strconv.ParseFloat(fields[2], 32); werr == nil {
			w := float32(wf)
			if w != 0 && !math32.IsInf(w, 0) && !math32.IsNaN(w) {
				u, v = u/w, v/w
			}
		}
	}
	return u, v, nil
}

func (p *OBJParser) fetchNormal(idx uint64) (x, y, z float32, err error) {
	const op = "objformat.OBJParser.fetchNormal"
	fields, err := p.fetchLine(p.normalCache, "vn", p.firstNormalOffset, idx, op)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(fields) < 3 {
		return 0, 0, 0, meshkit.NewError(meshkit.Malformed, op, errf("normal %d has %d components, need at least 3", idx, len(fields)))
	}
	vals, err := parseFloats(fields[:3], op)
	if err != nil {
		return 0, 0, 0, err
	}
	return vals[0], vals[1], vals[2], nil
}

func parseFloats(fields []string, op string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		if f == "" {
			return nil, meshkit.NewError(meshkit.Malformed, op, errf("empty coordinate component"))
		}
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, meshkit.NewError(meshkit.Malformed, op, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// faceCorner is one "v[/[vt][/vn]]" token of a face line.
type faceCorner struct {
	v, vt, vn    uint64
	hasVT, hasVN bool
	raw          string
}

func parseFaceToken(tok, op string) (faceCorner, error) {
	parts := strings.Split(tok, "/")
	v, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || v == 0 {
		return faceCorner{}, meshkit.NewError(meshkit.Malformed, op, errf("invalid face vertex index %q", tok))
	}
	fc := faceCorner{v: v, raw: tok}
	if len(parts) >= 2 && parts[1] != "" {
		vt, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return faceCorner{}, meshkit.NewError(meshkit.Malformed, op, errf("invalid face texcoord index %q", tok))
		}
		fc.vt, fc.hasVT = vt, true
	}
	if len(parts) >= 3 && parts[2] != "" {
		vn, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return faceCorner{}, meshkit.NewError(meshkit.Malformed, op, errf("invalid face normal index %q", tok))
		}
		fc.vn, fc.hasVN = vn, true
	}
	return fc, nil
}

// objIterator drains one Load call's worth of chunks.
type objIterator struct {
	p        *OBJParser
	closed   bool
	done     bool
	consumed int64
	lastFrac float64

	// pending holds the remainder of a single face's triangles that did
	// not fit in the chunk being built when the face itself was large
	// enough to overflow MaxVerticesPerChunk on its own; it is drained
	// into the next chunk before any new line is read.
	pending *pendingFace
}

// pendingFace is the carry-over state for a face whose triangles span
// more than one chunk.
type pendingFace struct {
	corners   []faceCorner
	triangles [][3]int
	material  *meshkit.Material
	lineStart int64
}

func (it *objIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.p.lock.Release()
	if it.p.onLoadEnd != nil {
		it.p.onLoadEnd()
	}
	it.p.vertexCache, it.p.texCoordCache, it.p.normalCache = nil, nil, nil
	return it.p.stream.Close()
}

func (it *objIterator) Next() (*meshkit.Chunk, error) {
	const op = "objformat.OBJParser.Iterator.Next"
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

// readChunk accumulates faces into one chunk until the stream is
// exhausted, a material change is seen, or adding the next face would
// exceed MaxVerticesPerChunk. It returns (nil, nil) when there is
// nothing left to read at all.
func (it *objIterator) readChunk(op string) (*meshkit.Chunk, error) {
	p := it.p
	chunk := &meshkit.Chunk{}
	var chunkMaterial *meshkit.Material
	seeded := false
	dedup := map[string]uint32{}

	if it.pending != nil {
		pend := it.pending
		it.pending = nil
		chunkMaterial = pend.material
		rest, err := it.appendTriangles(chunk, dedup, &seeded, pend.corners, pend.triangles, op, pend.lineStart)
		if err != nil {
			return nil, err
		}
		if rest != nil {
			it.pending = &pendingFace{corners: pend.corners, triangles: rest, material: pend.material, lineStart: pend.lineStart}
			return it.finalize(chunk, chunkMaterial, op)
		}
		it.consumed++
		it.emitProgress()
	}

	for {
		lineStart := p.stream.Position()
		line, ok, err := p.stream.ReadLine()
		if err != nil {
			return nil, meshkit.NewError(meshkit.IO, op, err).At(lineStart)
		}
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		directive, args := fields[0], fields[1:]

		switch directive {
		case "v", "vt", "vn", "#", "mtllib":
			continue

		case "usemtl":
			name := strings.Join(args, " ")
			mat, ok := p.materialByName[name]
			if !ok {
				if p.materialByName == nil {
					continue
				}
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("usemtl references unknown material %q", name)).At(lineStart)
			}
			if chunkMaterial == nil {
				chunkMaterial = mat
				continue
			}
			if chunkMaterial.Name != name {
				if err := p.stream.Seek(lineStart); err != nil {
					return nil, err
				}
				return it.finalize(chunk, chunkMaterial, op)
			}
			continue

		case "f":
			if len(args) < 3 {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("face has %d vertices, need at least 3", len(args))).At(lineStart)
			}
			corners := make([]faceCorner, len(args))
			polygon := make([][3]float32, len(args))
			for i, tok := range args {
				c, cerr := parseFaceToken(tok, op)
				if cerr != nil {
					return nil, cerr
				}
				corners[i] = c
				x, y, z, ferr := p.fetchVertex(c.v)
				if ferr != nil {
					return nil, ferr
				}
				polygon[i] = [3]float32{x, y, z}
			}
			triangles, terr := p.triangulator.Triangulate(polygon)
			if terr != nil {
				if p.cfg.ContinueOnTriangulationError {
					continue
				}
				return nil, meshkit.NewError(meshkit.Malformed, op, terr).At(lineStart)
			}

			rest, aerr := it.appendTriangles(chunk, dedup, &seeded, corners, triangles, op, lineStart)
			if aerr != nil {
				return nil, aerr
			}
			if rest != nil {
				// Either the chunk already held vertices from earlier
				// faces and this face doesn't fit at all, or this face
				// alone overflows MaxVerticesPerChunk and had to be cut
				// mid-triangle; either way the unconsumed triangles
				// carry over to the next chunk rather than being
				// re-parsed from the line.
				it.pending = &pendingFace{corners: corners, triangles: rest, material: chunkMaterial, lineStart: lineStart}
				return it.finalize(chunk, chunkMaterial, op)
			}
			it.consumed++
			it.emitProgress()

		default:
			// unsupported OBJ directive: ignored.
		}
	}

	if chunk.VertexCount() == 0 {
		return nil, nil
	}
	return it.finalize(chunk, chunkMaterial, op)
}

func (it *objIterator) finalize(chunk *meshkit.Chunk, mat *meshkit.Material, op string) (*meshkit.Chunk, error) {
	if mat != nil {
		chunk.Material = mat.Freeze()
	}
	if err := chunk.Validate(); err != nil {
		return nil, err
	}
	return chunk, nil
}

// appendTriangles appends triangles to chunk one at a time, stopping
// and returning the unappended remainder as soon as the next triangle
// would push the chunk past MaxVerticesPerChunk. The first triangle is
// always appended even into a chunk already at the cap, since a single
// triangle's 3 corners are the smallest unit of work that can be
// carried into a new chunk — this is what lets one oversized face (far
// more triangles than fit in one chunk) split across several chunks
// instead of bypassing the cap by being emitted whole.
func (it *objIterator) appendTriangles(chunk *meshkit.Chunk, dedup map[string]uint32, seeded *bool, corners []faceCorner, triangles [][3]int, op string, lineStart int64) ([][3]int, error) {
	p := it.p
	for i, tri := range triangles {
		if chunk.VertexCount() > 0 && chunk.VertexCount()+3 > p.cfg.MaxVerticesPerChunk {
			return triangles[i:], nil
		}
		for _, ci := range tri {
			if ci < 0 || ci >= len(corners) {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("triangulator returned out-of-range corner %d", ci)).At(lineStart)
			}
			slot, serr := p.resolveSlot(chunk, dedup, corners[ci], seeded)
			if serr != nil {
				return nil, serr
			}
			chunk.Indices = append(chunk.Indices, slot)
		}
	}
	return nil, nil
}

func (it *objIterator) emitProgress() {
	p := it.p
	if p.onProgress == nil || p.totalFaceLines == 0 {
		return
	}
	frac := float64(it.consumed) / float64(p.totalFaceLines)
	if frac-it.lastFrac >= 0.01 || frac >= 1 {
		it.lastFrac = frac
		p.onProgress(frac)
	}
}

// resolveSlot appends corner's attributes to chunk (or reuses an
// existing slot when dedup is enabled and this exact token has already
// been registered), keeping TexCoords/Normals in lockstep with
// Vertices: once either attribute is seen anywhere in the chunk, every
// slot carries an entry for it, zero-filled where a corner didn't
// reference one.
func (p *OBJParser) resolveSlot(chunk *meshkit.Chunk, dedup map[string]uint32, corner faceCorner, seeded *bool) (uint32, error) {
	if !p.cfg.AllowDuplicateVerticesInChunk {
		if slot, ok := dedup[corner.raw]; ok {
			return slot, nil
		}
	}

	x, y, z, err := p.fetchVertex(corner.v)
	if err != nil {
		return 0, err
	}
	slot := uint32(chunk.VertexCount())
	chunk.Vertices = append(chunk.Vertices, x, y, z)
	chunk.ExpandBounds(x, y, z, seeded)

	switch {
	case corner.hasVT:
		u, v, terr := p.fetchTexCoord(corner.vt)
		if terr != nil {
			return 0, terr
		}
		if len(chunk.TexCoords) == 0 && slot > 0 {
			chunk.TexCoords = make([]float32, 2*slot)
		}
		chunk.TexCoords = append(chunk.TexCoords, u, v)
	case len(chunk.TexCoords) > 0:
		chunk.TexCoords = append(chunk.TexCoords, 0, 0)
	}

	switch {
	case corner.hasVN:
		nx, ny, nz, nerr := p.fetchNormal(corner.vn)
		if nerr != nil {
			return 0, nerr
		}
		if len(chunk.Normals) == 0 && slot > 0 {
			chunk.Normals = make([]float32, 3*slot)
		}
		chunk.Normals = append(chunk.Normals, nx, ny, nz)
	case len(chunk.Normals) > 0:
		chunk.Normals = append(chunk.Normals, 0, 0, 0)
	}

	if !p.cfg.AllowDuplicateVerticesInChunk {
		dedup[corner.raw] = slot
	}
	return slot, nil
}
