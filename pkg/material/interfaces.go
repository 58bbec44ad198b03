package material

import (
	"github.com/spectraforge/spectraforge/pkg/core"
)

// Material is the closed interface every shading kind implements:
// Scatter draws an outgoing direction (sample), EvaluateBRDF returns the BSDF
// value for a direction pair (evaluate), and PDF returns the density Scatter
// would have used for that pair (pdf).
type Material interface {
	// Scatter generates a scattered ray for the incoming ray at the hit point.
	// Returns false when the material absorbs the ray (emissive terminals) or
	// the sample is degenerate; callers treat that as a zero-contribution sample.
	Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool)

	// EvaluateBRDF evaluates the BSDF for a specific incoming/outgoing direction
	// pair. incomingDir is the direction the incoming ray travels (toward the
	// surface); outgoingDir points away from the surface.
	EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3

	// PDF returns the probability density Scatter uses for the given outgoing
	// direction. isDelta is true for perfectly specular kinds whose density is
	// a delta function (metal with zero roughness, dielectric).
	PDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) (pdf float64, isDelta bool)

	// BaseColor returns the material's albedo at the hit point, used for the
	// auxiliary albedo buffer consumed by external denoisers.
	BaseColor(hit *SurfaceInteraction) core.Vec3
}

// Emitter interface for materials that emit light
type Emitter interface {
	Emit(rayIn core.Ray) core.Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // BSDF value for the sampled direction
	PDF         float64   // Probability density of the sampled direction (0 for specular)
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// SurfaceInteraction contains information about a ray-object intersection.
// It is transient: produced per query, never persisted.
type SurfaceInteraction struct {
	Point       core.Vec3 // Point of intersection
	Normal      core.Vec3 // Shading normal, flipped to face the incoming ray
	GeoNormal   core.Vec3 // Geometric normal (outward, before face flipping)
	T           float64   // Parameter t along the ray
	FrontFace   bool      // Whether the ray hit the front face
	UV          core.Vec2 // Texture coordinates at the hit point
	Material    Material  // Material of the hit object
	PrimitiveID int       // Identifier of the hit primitive for aux buffers
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *SurfaceInteraction) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.GeoNormal = outwardNormal
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}
