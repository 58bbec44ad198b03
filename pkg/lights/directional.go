package lights

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// DirectionalLight models a distant source like the sun: parallel rays,
// no distance falloff
type DirectionalLight struct {
	Direction core.Vec3 // Direction the light travels (from the light)
	Color     core.Vec3
	Intensity float64
}

// NewDirectionalLight creates a directional light. direction is the
// direction the light travels, e.g. (0, -1, 0) for a straight-down sun.
func NewDirectionalLight(direction, color core.Vec3, intensity float64) *DirectionalLight {
	return &DirectionalLight{Direction: direction.Normalize(), Color: color, Intensity: intensity}
}

// Type returns LightTypeDirectional
func (d *DirectionalLight) Type() LightType {
	return LightTypeDirectional
}

// Sample returns the fixed direction toward the light
func (d *DirectionalLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	return LightSample{
		Direction: d.Direction.Negate(),
		Distance:  math.Inf(1),
		Emission:  d.Color.Multiply(d.Intensity),
		PDF:       1.0, // Delta light
	}
}

// PDF is zero: a scattered ray can never hit a directional light
func (d *DirectionalLight) PDF(point core.Vec3, direction core.Vec3) float64 {
	return 0
}

// Power returns the scalar brightness used for light selection
func (d *DirectionalLight) Power() float64 {
	return d.Intensity * averageIntensity(d.Color)
}
