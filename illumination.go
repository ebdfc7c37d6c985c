// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

// Illumination is the OBJ/MTL "illum" shading model enumeration.
// Values follow the Wavefront MTL convention (illum 0 through illum 10).
type Illumination int32

const (
	// IlluminationColorOnly disables lighting: color on, ambient off.
	IlluminationColorOnly Illumination = iota
	// IlluminationAmbient is color on and ambient on.
	IlluminationAmbient
	// IlluminationHighlight is highlight on (full Phong).
	IlluminationHighlight
	// IlluminationReflectionRayTrace is reflection on, ray trace on.
	IlluminationReflectionRayTrace
	// IlluminationGlassRayTrace is transparency: glass on, reflection ray trace on.
	IlluminationGlassRayTrace
	// IlluminationFresnelRayTrace is reflection Fresnel on, ray trace on.
	IlluminationFresnelRayTrace
	// IlluminationRefractionRayTrace is transparency refraction on, reflection
	// Fresnel off, ray trace on.
	IlluminationRefractionRayTrace
	// IlluminationRefractionFresnelRayTrace is transparency refraction on,
	// reflection Fresnel on, ray trace on.
	IlluminationRefractionFresnelRayTrace
	// IlluminationReflection is reflection on, ray trace off.
	IlluminationReflection
	// IlluminationGlass is transparency glass on, reflection ray trace off.
	IlluminationGlass
	// IlluminationShadows casts shadows onto invisible surfaces.
	IlluminationShadows
)

// IsValid reports whether i is one of the eleven standard illum values.
func (i Illumination) IsValid() bool {
	return i >= IlluminationColorOnly && i <= IlluminationShadows
}

func (i Illumination) String() string {
	switch i {
	case IlluminationColorOnly:
		return "ColorOnly"
	case IlluminationAmbient:
		return "Ambient"
	case IlluminationHighlight:
		return "Highlight"
	case IlluminationReflectionRayTrace:
		return "ReflectionRayTrace"
	case IlluminationGlassRayTrace:
		return "GlassRayTrace"
	case IlluminationFresnelRayTrace:
		return "FresnelRayTrace"
	case IlluminationRefractionRayTrace:
		return "RefractionRayTrace"
	case IlluminationRefractionFresnelRayTrace:
		return "RefractionFresnelRayTrace"
	case IlluminationReflection:
		return "Reflection"
	case IlluminationGlass:
		return "Glass"
	case IlluminationShadows:
		return "Shadows"
	default:
		return "Unknown"
	}
}
