package material

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with a texture
func NewTexturedLambertian(albedoTexture ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	// Generate cosine-weighted random direction in hemisphere around normal
	scatterDirection := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	scattered := core.NewRayAt(hit.Point, scatterDirection, rayIn.Time)

	// PDF: cos(θ) / π where θ is angle from normal
	cosTheta := scatterDirection.Normalize().Dot(hit.Normal)
	if cosTheta <= 0 {
		// Degenerate sample, caller treats as zero contribution
		return ScatterResult{}, false
	}
	pdf := cosTheta / math.Pi

	albedo := l.Albedo.Evaluate(hit.UV, hit.Point)

	// BRDF: albedo / π (energy conservation)
	attenuation := albedo.Multiply(1.0 / math.Pi)

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: attenuation,
		PDF:         pdf,
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (l *Lambertian) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	// Lambertian BRDF is constant: albedo / π
	cosTheta := outgoingDir.Dot(hit.Normal)
	if cosTheta <= 0 {
		return core.Vec3{} // Below surface
	}

	albedo := l.Albedo.Evaluate(hit.UV, hit.Point)
	return albedo.Multiply(1.0 / math.Pi)
}

// PDF calculates the probability density for specific incoming/outgoing directions
func (l *Lambertian) PDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) (float64, bool) {
	// Cosine-weighted hemisphere sampling: cos(θ) / π
	cosTheta := outgoingDir.Dot(hit.Normal)
	if cosTheta <= 0 {
		return 0.0, false
	}
	return cosTheta / math.Pi, false
}

// BaseColor returns the albedo at the hit point
func (l *Lambertian) BaseColor(hit *SurfaceInteraction) core.Vec3 {
	return l.Albedo.Evaluate(hit.UV, hit.Point)
}
