package lights

import (
	"github.com/spectraforge/spectraforge/pkg/core"
)

// LightType identifies the kind of light source
type LightType int

const (
	LightTypePoint LightType = iota
	LightTypeDirectional
	LightTypeQuad
	LightTypeSphere
)

// LightSample is the result of sampling a light from a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction from the shading point toward the light
	Distance  float64   // Distance to the sampled point (+Inf for directional)
	Emission  core.Vec3 // Radiance arriving along Direction
	PDF       float64   // Solid-angle density of the sample; delta lights report 1
}

// Light is a sampleable light source. Delta lights (point, directional)
// cannot be hit by rays; area lights are additionally registered as shapes
// so BSDF-sampled rays can find them.
type Light interface {
	// Type returns the light kind
	Type() LightType

	// Sample draws a direction toward the light from the given point
	Sample(point core.Vec3, sample core.Vec2) LightSample

	// PDF returns the solid-angle density of sampling the given direction
	// from the point, used for multiple importance sampling. Delta lights
	// return 0: a BSDF sample can never hit them.
	PDF(point core.Vec3, direction core.Vec3) float64

	// Power returns the approximate total emitted power, used to weight
	// light selection
	Power() float64
}

// IsDelta reports whether the light is a delta distribution in direction or
// position, meaning MIS against BSDF sampling does not apply
func IsDelta(light Light) bool {
	t := light.Type()
	return t == LightTypePoint || t == LightTypeDirectional
}

// averageIntensity is the scalar brightness used in power heuristics
func averageIntensity(color core.Vec3) float64 {
	return (color.X + color.Y + color.Z) / 3.0
}
