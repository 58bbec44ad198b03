package material

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// PBR is a Cook-Torrance microfacet material with a GGX normal distribution,
// Smith geometric shadowing and Schlick Fresnel, combining a diffuse lobe and
// a specular lobe. Metallic surfaces tint the specular lobe by the albedo and
// lose their diffuse component.
type PBR struct {
	Albedo    ColorSource
	Metallic  float64 // 0 = dielectric, 1 = metal
	Roughness float64 // Perceptual roughness; alpha = roughness²
}

// NewPBR creates a Cook-Torrance material with a solid base color
func NewPBR(albedo core.Vec3, metallic, roughness float64) *PBR {
	return NewTexturedPBR(NewSolidColor(albedo), metallic, roughness)
}

// NewTexturedPBR creates a Cook-Torrance material with a textured base color
func NewTexturedPBR(albedo ColorSource, metallic, roughness float64) *PBR {
	if metallic < 0 {
		metallic = 0
	}
	if metallic > 1 {
		metallic = 1
	}
	// Keep a roughness floor so the specular pdf stays finite
	if roughness < 0.03 {
		roughness = 0.03
	}
	if roughness > 1 {
		roughness = 1
	}
	return &PBR{Albedo: albedo, Metallic: metallic, Roughness: roughness}
}

// alpha returns the GGX width parameter
func (p *PBR) alpha() float64 {
	return p.Roughness * p.Roughness
}

// f0 returns the reflectance at normal incidence
func (p *PBR) f0(albedo core.Vec3) core.Vec3 {
	dielectric := core.NewVec3(0.04, 0.04, 0.04)
	return dielectric.Lerp(albedo, p.Metallic)
}

// Scatter implements the Material interface: importance-sample either the
// cosine-weighted diffuse lobe or the GGX specular lobe
func (p *PBR) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	view := rayIn.Direction.Normalize().Negate() // Points away from the surface
	cosView := view.Dot(hit.Normal)
	if cosView <= 0 {
		return ScatterResult{}, false
	}

	albedo := p.Albedo.Evaluate(hit.UV, hit.Point)
	specularProb := p.specularProbability(albedo, cosView)

	var outgoing core.Vec3
	if sampler.Get1D() < specularProb {
		// Specular lobe: sample the GGX half-vector and reflect the view about it
		half := sampleGGXHalfVector(hit.Normal, p.alpha(), sampler.Get2D())
		outgoing = core.Reflect(view.Negate(), half)
	} else {
		// Diffuse lobe: cosine-weighted hemisphere
		outgoing = core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	}

	if outgoing.Dot(hit.Normal) <= 0 {
		// Sampled below the horizon, zero-contribution degenerate sample
		return ScatterResult{}, false
	}

	pdf, _ := p.PDF(rayIn.Direction, outgoing, &hit)
	if pdf <= 1e-9 {
		return ScatterResult{}, false
	}

	brdf := p.EvaluateBRDF(rayIn.Direction, outgoing, &hit)

	return ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, outgoing, rayIn.Time),
		Attenuation: brdf,
		PDF:         pdf,
	}, true
}

// EvaluateBRDF combines the Fresnel-weighted diffuse and Cook-Torrance
// specular lobes per the standard microfacet formulation
func (p *PBR) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	view := incomingDir.Normalize().Negate()
	light := outgoingDir.Normalize()

	cosView := view.Dot(hit.Normal)
	cosLight := light.Dot(hit.Normal)
	if cosView <= 0 || cosLight <= 0 {
		return core.Vec3{}
	}

	half := view.Add(light)
	if half.LengthSquared() < 1e-18 {
		return core.Vec3{}
	}
	half = half.Normalize()

	albedo := p.Albedo.Evaluate(hit.UV, hit.Point)
	f0 := p.f0(albedo)

	d := ggxDistribution(hit.Normal, half, p.alpha())
	g := smithGeometry(cosView, cosLight, p.alpha())
	f := schlickFresnel(f0, view.Dot(half))

	// Specular: D*G*F / (4 * cosView * cosLight)
	specular := f.Multiply(d * g / (4.0 * cosView * cosLight))

	// Diffuse: energy not reflected specularly and not absorbed by metal
	oneMinusF := core.NewVec3(1, 1, 1).Subtract(f)
	diffuse := albedo.MultiplyVec(oneMinusF).Multiply((1.0 - p.Metallic) / math.Pi)

	return diffuse.Add(specular)
}

// PDF returns the combined lobe-weighted sampling density
func (p *PBR) PDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) (float64, bool) {
	view := incomingDir.Normalize().Negate()
	light := outgoingDir.Normalize()

	cosView := view.Dot(hit.Normal)
	cosLight := light.Dot(hit.Normal)
	if cosView <= 0 || cosLight <= 0 {
		return 0.0, false
	}

	half := view.Add(light)
	if half.LengthSquared() < 1e-18 {
		return 0.0, false
	}
	half = half.Normalize()

	albedo := p.Albedo.Evaluate(hit.UV, hit.Point)
	specularProb := p.specularProbability(albedo, cosView)

	// GGX half-vector pdf converted to solid angle around the outgoing direction
	cosHalf := half.Dot(hit.Normal)
	viewDotHalf := view.Dot(half)
	var specPDF float64
	if viewDotHalf > 1e-9 {
		specPDF = ggxDistribution(hit.Normal, half, p.alpha()) * cosHalf / (4.0 * viewDotHalf)
	}

	diffusePDF := cosLight / math.Pi

	return specularProb*specPDF + (1.0-specularProb)*diffusePDF, false
}

// BaseColor returns the albedo at the hit point
func (p *PBR) BaseColor(hit *SurfaceInteraction) core.Vec3 {
	return p.Albedo.Evaluate(hit.UV, hit.Point)
}

// specularProbability balances lobe selection by the Fresnel reflectance,
// clamped so both lobes always have a nonzero chance of being sampled
func (p *PBR) specularProbability(albedo core.Vec3, cosView float64) float64 {
	f := schlickFresnel(p.f0(albedo), cosView)
	prob := f.Luminance()
	if p.Metallic >= 1 {
		return 1.0
	}
	return math.Min(0.9, math.Max(0.1, prob))
}

// ggxDistribution is the GGX/Trowbridge-Reitz normal distribution function
func ggxDistribution(normal, half core.Vec3, alpha float64) float64 {
	cosHalf := normal.Dot(half)
	if cosHalf <= 0 {
		return 0
	}
	a2 := alpha * alpha
	denom := cosHalf*cosHalf*(a2-1.0) + 1.0
	return a2 / (math.Pi * denom * denom)
}

// smithGeometry is the Smith height-correlated approximation built from the
// separable Schlick-GGX terms for view and light directions
func smithGeometry(cosView, cosLight, alpha float64) float64 {
	k := alpha / 2.0
	gv := cosView / (cosView*(1.0-k) + k)
	gl := cosLight / (cosLight*(1.0-k) + k)
	return gv * gl
}

// schlickFresnel is Schlick's approximation with a vector-valued F0
func schlickFresnel(f0 core.Vec3, cosTheta float64) core.Vec3 {
	c := math.Min(math.Max(cosTheta, 0), 1)
	white := core.NewVec3(1, 1, 1)
	return f0.Add(white.Subtract(f0).Multiply(math.Pow(1.0-c, 5)))
}
