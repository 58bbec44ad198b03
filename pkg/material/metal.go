package material

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// Metal represents a metallic material with specular reflection.
// Roughness > 0 perturbs the reflection by reflecting about a sampled
// GGX microfacet normal instead of the geometric normal.
type Metal struct {
	Albedo    core.Vec3 // Metal color
	Roughness float64   // 0.0 = perfect mirror, 1.0 = very rough
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, roughness float64) *Metal {
	if roughness > 1.0 {
		roughness = 1.0
	}
	if roughness < 0.0 {
		roughness = 0.0
	}
	return &Metal{Albedo: albedo, Roughness: roughness}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	unitDirection := rayIn.Direction.Normalize()
	if unitDirection.LengthSquared() == 0 {
		return ScatterResult{}, false
	}

	normal := hit.Normal
	if m.Roughness > 0 {
		// Reflect about a sampled microfacet normal instead of the shading normal
		normal = sampleGGXHalfVector(hit.Normal, m.Roughness*m.Roughness, sampler.Get2D())
	}
	reflected := core.Reflect(unitDirection, normal)

	scattered := core.NewRayAt(hit.Point, reflected, rayIn.Time)

	// Only scatter if the ray stays above the surface (absorbed otherwise)
	scatters := reflected.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo, // No π factor for specular
		PDF:         0,        // Specular materials have no PDF
	}, scatters
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (m *Metal) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	// Delta function: only the perfect reflection direction contributes
	reflected := core.Reflect(incomingDir.Normalize(), hit.Normal)
	if outgoingDir.Subtract(reflected).Length() < 1e-3 {
		return m.Albedo
	}
	return core.Vec3{}
}

// PDF calculates the probability density for specific incoming/outgoing directions
func (m *Metal) PDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) (float64, bool) {
	// Delta function: PDF is 0 for evaluation, handled specially in the integrator
	return 0.0, true
}

// BaseColor returns the metal color
func (m *Metal) BaseColor(hit *SurfaceInteraction) core.Vec3 {
	return m.Albedo
}

// sampleGGXHalfVector samples a microfacet half-vector from the GGX
// distribution with the given alpha (= roughness²) around the normal
func sampleGGXHalfVector(normal core.Vec3, alpha float64, sample core.Vec2) core.Vec3 {
	// Inverse-CDF sampling of the GGX NDF
	phi := 2.0 * math.Pi * sample.X
	cosTheta := math.Sqrt((1.0 - sample.Y) / (1.0 + (alpha*alpha-1.0)*sample.Y))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	x := sinTheta * math.Cos(phi)
	y := sinTheta * math.Sin(phi)

	tangent, bitangent := core.OrthonormalBasis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(cosTheta)).Normalize()
}
