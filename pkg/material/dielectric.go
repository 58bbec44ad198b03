package material

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"

	"github.com/spectraforge/spectraforge/pkg/media"
)

// Dielectric represents a transparent material like glass that can both
// reflect and refract. An optional interior medium approximates subsurface
// scattering beneath the boundary.
type Dielectric struct {
	RefractiveIndex float64       // Index of refraction (e.g., 1.5 for glass)
	Interior        *media.Medium // Optional participating medium inside the boundary
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// NewSubsurfaceDielectric creates a dielectric whose interior scatters light,
// approximating subsurface scattering
func NewSubsurfaceDielectric(refractiveIndex float64, interior *media.Medium) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Interior: interior}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass does not absorb at the boundary
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	// Entering or exiting the material?
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	} else {
		refractionRatio = d.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()
	if unitDirection.LengthSquared() == 0 {
		return ScatterResult{}, false
	}

	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinThetaSq := 1.0 - cosTheta*cosTheta
	if sinThetaSq < 0 {
		// Degenerate angle, drop the sample rather than propagate a NaN
		return ScatterResult{}, false
	}
	sinTheta := math.Sqrt(sinThetaSq)

	// Total internal reflection check
	cannotRefract := refractionRatio*sinTheta > 1.0

	// Choose reflect vs refract stochastically, weighted by Schlick's Fresnel
	var direction core.Vec3
	if cannotRefract || core.SchlickReflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = core.Reflect(unitDirection, hit.Normal)
	} else {
		direction = core.Refract(unitDirection, hit.Normal, refractionRatio)
	}

	if !direction.IsFinite() {
		return ScatterResult{}, false
	}

	scattered := core.NewRayAt(hit.Point, direction, rayIn.Time)

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: attenuation,
		PDF:         0, // Specular materials have no PDF
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (d *Dielectric) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	// Delta function material: light sampling cannot hit the reflection or
	// refraction direction, so evaluation is always zero
	return core.Vec3{}
}

// PDF calculates the probability density for specific incoming/outgoing directions
func (d *Dielectric) PDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) (float64, bool) {
	// Always a delta function, consistent with ScatterResult.PDF = 0
	return 0.0, true
}

// BaseColor returns white: clear dielectrics carry no albedo of their own
func (d *Dielectric) BaseColor(hit *SurfaceInteraction) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}
