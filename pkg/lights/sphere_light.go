package lights

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/geometry"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// SphereLight is a spherical area light, useful for bulb-like sources.
// Like QuadLight it doubles as a shape for BSDF-sampled rays.
type SphereLight struct {
	Center    core.Vec3
	Radius    float64
	Color     core.Vec3
	Intensity float64

	sphere *geometry.Sphere
}

// NewSphereLight creates a spherical light
func NewSphereLight(center core.Vec3, radius float64, color core.Vec3, intensity float64) *SphereLight {
	emissive := material.NewEmissive(color.Multiply(intensity))
	return &SphereLight{
		Center:    center,
		Radius:    radius,
		Color:     color,
		Intensity: intensity,
		sphere:    geometry.NewSphere(center, radius, emissive),
	}
}

// Type returns LightTypeSphere
func (s *SphereLight) Type() LightType {
	return LightTypeSphere
}

// Emission returns the radiance emitted from the surface
func (s *SphereLight) Emission() core.Vec3 {
	return s.Color.Multiply(s.Intensity)
}

// Sample draws a direction uniformly within the cone subtended by the
// sphere as seen from the shading point
func (s *SphereLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	toCenter := s.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	if distanceToCenter < s.Radius {
		// Inside the sphere: every direction reaches the surface at the
		// ray-sphere exit distance
		direction := core.SampleOnUnitSphere(sample)
		oc := point.Subtract(s.Center)
		b := oc.Dot(direction)
		exit := -b + math.Sqrt(math.Max(0, b*b-(oc.LengthSquared()-s.Radius*s.Radius)))
		return LightSample{
			Direction: direction,
			Distance:  exit,
			Emission:  s.Emission(),
			PDF:       1.0 / (4.0 * math.Pi),
		}
	}

	cosThetaMax := s.coneCosine(distanceToCenter)
	direction := core.SampleCone(toCenter.Multiply(1.0/distanceToCenter), cosThetaMax, sample)

	// Intersect the cone sample with the sphere for the true distance
	proj := toCenter.Dot(direction)
	dSq := toCenter.LengthSquared() - proj*proj
	thc := math.Sqrt(math.Max(0, s.Radius*s.Radius-dSq))
	distance := proj - thc
	if distance < 0 {
		distance = proj + thc
	}

	return LightSample{
		Direction: direction,
		Distance:  distance,
		Emission:  s.Emission(),
		PDF:       s.conePDF(cosThetaMax),
	}
}

// PDF returns the cone-sampling density when the direction hits the sphere
func (s *SphereLight) PDF(point core.Vec3, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	if _, ok := s.sphere.Hit(ray, core.DefaultTMin, 1e12); !ok {
		return 0
	}

	distanceToCenter := s.Center.Subtract(point).Length()
	if distanceToCenter < s.Radius {
		return 1.0 / (4.0 * math.Pi)
	}
	return s.conePDF(s.coneCosine(distanceToCenter))
}

// Power integrates emission over the sphere surface
func (s *SphereLight) Power() float64 {
	return 4.0 * math.Pi * s.Radius * s.Radius * s.Intensity * averageIntensity(s.Color)
}

// Hit implements geometry.Shape by delegating to the underlying sphere
func (s *SphereLight) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	return s.sphere.Hit(ray, tMin, tMax)
}

// BoundingBox implements geometry.Shape
func (s *SphereLight) BoundingBox() core.AABB {
	return s.sphere.BoundingBox()
}

func (s *SphereLight) coneCosine(distanceToCenter float64) float64 {
	sinThetaMax := s.Radius / distanceToCenter
	return math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
}

func (s *SphereLight) conePDF(cosThetaMax float64) float64 {
	solidAngle := 2.0 * math.Pi * (1.0 - cosThetaMax)
	if solidAngle < 1e-12 {
		solidAngle = 1e-12
	}
	return 1.0 / solidAngle
}
