// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objformat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshkit"
)

func TestOBJMaterialParserParsesCoreDirectives(t *testing.T) {
	dir := t.TempDir()
	mtlPath := filepath.Join(dir, "m.mtl")
	require.NoError(t, os.WriteFile(mtlPath, []byte(`
# comment
newmtl shiny
Ka 0.2 0.2 0.2
Kd 0.8 0.0 0.0
Ks 1.0 1.0 1.0
Ns 96
d 0.5
illum 2
`), 0o644))

	p := NewOBJMaterialParser(mtlPath, nil, func(*meshkit.Texture) (bool, error) { return true, nil })
	mats, err := p.Load()
	require.NoError(t, err)
	require.Len(t, mats, 1)

	m := mats[0]
	assert.Equal(t, "shiny", m.Name)
	require.NotNil(t, m.Ambient)
	assert.Equal(t, uint8(51), m.Ambient.R) // 0.2 * 255, truncated
	require.NotNil(t, m.Diffuse)
	assert.Equal(t, uint8(0), m.Diffuse.G)
	require.NotNil(t, m.SpecularCoefficient)
	assert.Equal(t, float32(96), *m.SpecularCoefficient)
	require.NotNil(t, m.Transparency)
	assert.Equal(t, uint8(127), *m.Transparency) // 0.5 * 255, truncated
	require.NotNil(t, m.Illumination)
	assert.Equal(t, meshkit.IlluminationHighlight, *m.Illumination)
}

// spec.md §4.2 requires case-insensitive MTL directive names.
func TestOBJMaterialParserDirectivesAreCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	mtlPath := filepath.Join(dir, "m.mtl")
	require.NoError(t, os.WriteFile(mtlPath, []byte(`
NEWMTL shiny
ka 0.2 0.2 0.2
kD 0.8 0.0 0.0
KS 1.0 1.0 1.0
nS 96
D 0.5
ILLUM 2
`), 0o644))

	p := NewOBJMaterialParser(mtlPath, nil, func(*meshkit.Texture) (bool, error) { return true, nil })
	mats, err := p.Load()
	require.NoError(t, err)
	require.Len(t, mats, 1)

	m := mats[0]
	assert.Equal(t, "shiny", m.Name)
	require.NotNil(t, m.Ambient)
	assert.Equal(t, uint8(51), m.Ambient.R)
	require.NotNil(t, m.Diffuse)
	assert.Equal(t, uint8(0), m.Diffuse.G)
	require.NotNil(t, m.Specular)
	require.NotNil(t, m.SpecularCoefficient)
	assert.Equal(t, float32(96), *m.SpecularCoefficient)
	require.NotNil(t, m.Transparency)
	assert.Equal(t, uint8(127), *m.Transparency)
	require.NotNil(t, m.Illumination)
	assert.Equal(t, meshkit.IlluminationHighlight, *m.Illumination)
}

func TestOBJMaterialParserRejectsPropertyBeforeNewmtl(t *testing.T) {
	mtlPath := filepath.Join(t.TempDir(), "bad.mtl")
	require.NoError(t, os.WriteFile(mtlPath, []byte("Kd 1 1 1\n"), 0o644))

	p := NewOBJMaterialParser(mtlPath, nil, nil)
	_, err := p.Load()
	require.Error(t, err)
	assert.True(t, meshkit.Is(err, meshkit.Malformed))
}

func TestOBJMaterialParserWiresTextureValidator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tex.png"), []byte("not a real png"), 0o644))
	mtlPath := filepath.Join(dir, "m.mtl")
	require.NoError(t, os.WriteFile(mtlPath, []byte("newmtl m\nmap_Kd tex.png\n"), 0o644))

	var seen *meshkit.Texture
	p := NewOBJMaterialParser(mtlPath, nil, func(tex *meshkit.Texture) (bool, error) {
		seen = tex
		return true, nil
	})
	mats, err := p.Load()
	require.NoError(t, err)
	require.NotNil(t, mats[0].DiffuseMap)
	require.NotNil(t, seen)
	assert.Contains(t, seen.Source, "tex.png")
}

func TestOBJMaterialParserTextureRejection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tex.bin"), []byte("nope"), 0o644))
	mtlPath := filepath.Join(dir, "m.mtl")
	require.NoError(t, os.WriteFile(mtlPath, []byte("newmtl m\nmap_Kd tex.bin\n"), 0o644))

	p := NewOBJMaterialParser(mtlPath, nil, func(*meshkit.Texture) (bool, error) { return false, nil })
	_, err := p.Load()
	require.Error(t, err)
	assert.True(t, meshkit.Is(err, meshkit.InvalidTexture))
}
