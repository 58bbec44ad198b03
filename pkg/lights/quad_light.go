package lights

import (
	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/geometry"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// QuadLight is a rectangular area light. It doubles as a shape so that
// BSDF-sampled rays intersect its emissive surface, while the light side
// drives next-event estimation. Both registrations share one emission, so
// neither path double-counts.
type QuadLight struct {
	Corner    core.Vec3
	U, V      core.Vec3
	Color     core.Vec3
	Intensity float64

	normal core.Vec3
	area   float64
	quad   *geometry.Quad
}

// NewQuadLight creates a rectangular area light from a corner and two edges
func NewQuadLight(corner, u, v, color core.Vec3, intensity float64) *QuadLight {
	emissive := material.NewEmissive(color.Multiply(intensity))
	quad := geometry.NewQuad(corner, u, v, emissive)

	return &QuadLight{
		Corner:    corner,
		U:         u,
		V:         v,
		Color:     color,
		Intensity: intensity,
		normal:    quad.Normal,
		area:      quad.Area(),
		quad:      quad,
	}
}

// Type returns LightTypeQuad
func (q *QuadLight) Type() LightType {
	return LightTypeQuad
}

// Emission returns the radiance emitted from the front face
func (q *QuadLight) Emission() core.Vec3 {
	return q.Color.Multiply(q.Intensity)
}

// Sample draws a uniform point on the rectangle and converts the area
// density to a solid-angle density at the shading point
func (q *QuadLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	lightPoint := q.Corner.Add(q.U.Multiply(sample.X)).Add(q.V.Multiply(sample.Y))

	toLight := lightPoint.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-9 {
		return LightSample{PDF: 1}
	}
	direction := toLight.Multiply(1.0 / distance)

	// Behind the emitting face: zero contribution
	cosAngle := -direction.Dot(q.normal)
	if cosAngle <= 0 {
		return LightSample{Direction: direction, Distance: distance, PDF: 1}
	}

	// pdf_area = 1/area, converted to solid angle: d² / (cosθ · area)
	pdf := distance * distance / (cosAngle * q.area)

	return LightSample{
		Direction: direction,
		Distance:  distance,
		Emission:  q.Emission(),
		PDF:       pdf,
	}
}

// PDF returns the solid-angle density of hitting the light along direction,
// zero when the ray misses the rectangle or approaches from behind
func (q *QuadLight) PDF(point core.Vec3, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	hit, ok := q.quad.Hit(ray, core.DefaultTMin, 1e12)
	if !ok {
		return 0
	}

	cosAngle := -direction.Normalize().Dot(q.normal)
	if cosAngle <= 0 {
		return 0
	}

	distance := hit.Point.Subtract(point).Length()
	return distance * distance / (cosAngle * q.area)
}

// Power scales with surface area and brightness
func (q *QuadLight) Power() float64 {
	return q.area * q.Intensity * averageIntensity(q.Color)
}

// Hit implements geometry.Shape by delegating to the underlying quad
func (q *QuadLight) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	return q.quad.Hit(ray, tMin, tMax)
}

// BoundingBox implements geometry.Shape
func (q *QuadLight) BoundingBox() core.AABB {
	return q.quad.BoundingBox()
}
