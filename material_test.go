// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialFreezeIsIndependentCopy(t *testing.T) {
	coef := float32(96)
	m := &Material{
		ID:                  1,
		Name:                "brick",
		Diffuse:             &Color{200, 50, 50},
		SpecularCoefficient: &coef,
	}

	frozen := m.Freeze()
	require.True(t, frozen.Frozen())
	require.False(t, m.Frozen())

	// Mutating the source material (as a loader would while continuing
	// to read the file) must not retroactively change the snapshot.
	m.Diffuse.R = 0
	*m.SpecularCoefficient = 1

	assert.EqualValues(t, 200, frozen.Diffuse.R)
	assert.EqualValues(t, 96, *frozen.SpecularCoefficient)
	assert.Equal(t, "brick", frozen.Name)
}

func TestMaterialFreezeNil(t *testing.T) {
	var m *Material
	assert.Nil(t, m.Freeze())
}
