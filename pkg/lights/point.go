package lights

import (
	"github.com/spectraforge/spectraforge/pkg/core"
)

// PointLight emits light equally in all directions from a single point,
// producing hard shadows with inverse-square falloff
type PointLight struct {
	Position  core.Vec3
	Color     core.Vec3
	Intensity float64
}

// NewPointLight creates a point light
func NewPointLight(position, color core.Vec3, intensity float64) *PointLight {
	return &PointLight{Position: position, Color: color, Intensity: intensity}
}

// Type returns LightTypePoint
func (p *PointLight) Type() LightType {
	return LightTypePoint
}

// Sample returns the single direction toward the light with inverse-square
// attenuation folded into the emission
func (p *PointLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	toLight := p.Position.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-9 {
		return LightSample{PDF: 1}
	}

	attenuation := 1.0 / (distance * distance)

	return LightSample{
		Direction: toLight.Multiply(1.0 / distance),
		Distance:  distance,
		Emission:  p.Color.Multiply(p.Intensity * attenuation),
		PDF:       1.0, // Delta light
	}
}

// PDF is zero: a scattered ray can never hit a point light
func (p *PointLight) PDF(point core.Vec3, direction core.Vec3) float64 {
	return 0
}

// Power returns the scalar brightness used for light selection
func (p *PointLight) Power() float64 {
	return p.Intensity * averageIntensity(p.Color)
}
