// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objformat

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/h2non/filetype"

	"meshkit"
)

// OBJMaterialParser is the default MaterialLoader: it reads a Wavefront
// MTL file and produces one *meshkit.Material per "newmtl" block
// (spec.md §4.2). Unrecognized directives are ignored, matching the
// "Flexibility" the format allows (other_examples' obj package takes the
// same stance).
type OBJMaterialParser struct {
	Path            string
	ValidateTexture ValidateTextureFunc
	Textures        *meshkit.TextureSet
}

// NewOBJMaterialParser returns a parser for the MTL file at path. If
// textures is nil, a fresh TextureSet is allocated so map_* directives
// still dedup against one another within this one MTL file. validate
// may be nil, in which case defaultValidateTexture is used.
func NewOBJMaterialParser(path string, textures *meshkit.TextureSet, validate ValidateTextureFunc) *OBJMaterialParser {
	if textures == nil {
		textures = meshkit.NewTextureSet()
	}
	if validate == nil {
		validate = defaultValidateTexture
	}
	return &OBJMaterialParser{Path: path, ValidateTexture: validate, Textures: textures}
}

// Load reads and parses the whole MTL file, in declaration order.
func (p *OBJMaterialParser) Load() ([]*meshkit.Material, error) {
	const op = "objformat.OBJMaterialParser.Load"
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op, err)
	}
	dir := filepath.Dir(p.Path)

	var materials []*meshkit.Material
	var cur *meshkit.Material
	nextID := 0

	lines := strings.Split(string(data), "\n")
	for lineNo, raw := range lines {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		directive, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		// MTL directive names are case-insensitive (spec.md §4.2); fold
		// before dispatch so "NEWMTL"/"kd"/etc. parse the same as their
		// canonical-case spelling.
		key := strings.ToLower(directive)

		switch key {
		case "newmtl":
			if rest == "" {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("newmtl missing a name")).AtLine(lineNo + 1)
			}
			cur = &meshkit.Material{ID: nextID, Name: rest}
			nextID++
			materials = append(materials, cur)
		case "ka", "kd", "ks":
			if err := p.requireCurrent(cur, op, lineNo); err != nil {
				return nil, err
			}
			c, err := parseColor(rest, op, lineNo)
			if err != nil {
				return nil, err
			}
			switch key {
			case "ka":
				cur.Ambient = c
			case "kd":
				cur.Diffuse = c
			case "ks":
				cur.Specular = c
			}
		case "ns":
			if err := p.requireCurrent(cur, op, lineNo); err != nil {
				return nil, err
			}
			v, err := parseFloatField(rest, op, lineNo)
			if err != nil {
				return nil, err
			}
			cur.SpecularCoefficient = &v
		case "d", "tr":
			if err := p.requireCurrent(cur, op, lineNo); err != nil {
				return nil, err
			}
			v, err := parseFloatField(rest, op, lineNo)
			if err != nil {
				return nil, err
			}
			if key == "tr" {
				v = 1 - v
			}
			tr := uint8(clamp01(v) * 255)
			cur.Transparency = &tr
		case "illum":
			if err := p.requireCurrent(cur, op, lineNo); err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(rest)
			if err != nil {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("illum: %v", err)).AtLine(lineNo + 1)
			}
			illum := meshkit.Illumination(n)
			if !illum.IsValid() {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("illum %d out of range", n)).AtLine(lineNo + 1)
			}
			cur.Illumination = &illum
		case "map_ka", "map_kd", "map_ks", "map_d", "map_bump", "bump":
			if err := p.requireCurrent(cur, op, lineNo); err != nil {
				return nil, err
			}
			if rest == "" {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("%s missing a filename", directive)).AtLine(lineNo + 1)
			}
			source := rest
			if !filepath.IsAbs(source) {
				source = filepath.Join(dir, source)
			}
			tex, err := p.loadTexture(source, op, lineNo)
			if err != nil {
				return nil, err
			}
			switch key {
			case "map_ka":
				cur.AmbientMap = tex
			case "map_kd":
				cur.DiffuseMap = tex
			case "map_ks":
				cur.SpecularMap = tex
			case "map_d":
				cur.AlphaMap = tex
			case "map_bump", "bump":
				cur.BumpMap = tex
			}
		default:
			// unsupported MTL directive: ignored.
		}
	}
	return materials, nil
}

func (p *OBJMaterialParser) requireCurrent(cur *meshkit.Material, op string, lineNo int) error {
	if cur == nil {
		return meshkit.NewError(meshkit.Malformed, op, errf("property given before any newmtl")).AtLine(lineNo + 1)
	}
	return nil
}

func (p *OBJMaterialParser) loadTexture(source, op string, lineNo int) (*meshkit.Texture, error) {
	for _, t := range p.Textures.All() {
		if t.Source == source {
			return t, nil
		}
	}
	tex := p.Textures.GetOrAdd(int32(p.Textures.Len()), source)
	ok, err := p.ValidateTexture(tex)
	if err != nil {
		return nil, meshkit.NewError(meshkit.InvalidTexture, op, err).AtLine(lineNo + 1)
	}
	if !ok {
		return nil, meshkit.NewError(meshkit.InvalidTexture, op, errf("texture %q rejected by validator", source)).AtLine(lineNo + 1)
	}
	probeTextureDimensions(tex)
	return tex, nil
}

func parseColor(rest string, op string, lineNo int) (*meshkit.Color, error) {
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("expected 3 color components, got %d", len(fields))).AtLine(lineNo + 1)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, meshkit.NewError(meshkit.Malformed, op, err).AtLine(lineNo + 1)
		}
		rgb[i] = uint8(clamp01(float32(v)) * 255)
	}
	return &meshkit.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func parseFloatField(rest string, op string, lineNo int) (float32, error) {
	fields := strings.Fields(rest)
	if len(fields) < 1 {
		return 0, meshkit.NewError(meshkit.Malformed, op, errf("missing numeric value")).AtLine(lineNo + 1)
	}
	v, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return 0, meshkit.NewError(meshkit.Malformed, op, err).AtLine(lineNo + 1)
	}
	return float32(v), nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// defaultValidateTexture sniffs the file's leading bytes with
// h2non/filetype and accepts anything recognized as an image.
func defaultValidateTexture(tex *meshkit.Texture) (bool, error) {
	if !tex.HasSource() {
		return false, errf("texture has no source path")
	}
	f, err := os.Open(tex.Source)
	if err != nil {
		return false, err
	}
	defer f.Close()
	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return false, err
	}
	return filetype.IsImage(head[:n]), nil
}
