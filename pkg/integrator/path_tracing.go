package integrator

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
	"github.com/spectraforge/spectraforge/pkg/media"
	"github.com/spectraforge/spectraforge/pkg/scene"
)

// PathTracer is a unidirectional path tracer with next-event estimation,
// multiple importance sampling and support for homogeneous participating
// media. The bounce loop is iterative, so path length is bounded by
// configuration rather than the call stack.
type PathTracer struct {
	config PathTracingConfig
}

// NewPathTracer creates a path tracer with the given termination settings
func NewPathTracer(config PathTracingConfig) *PathTracer {
	if config.MaxDepth <= 0 {
		config.MaxDepth = 1
	}
	if config.RRSurvivalMin <= 0 {
		config.RRSurvivalMin = 0.05
	}
	return &PathTracer{config: config}
}

// Far clip for escape rays when sampling media without a surface hit
const mediumEscapeDistance = 1e8

// RayColor estimates the radiance arriving along the ray
func (pt *PathTracer) RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler, aux *AuxRecord) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	// MIS bookkeeping: the density of the previous bounce's direction
	// sample, and whether that bounce was specular (no MIS applies)
	prevPDF := 0.0
	specularBounce := true
	prevPoint := ray.Origin

	currentMedium := scn.Medium
	auxPending := aux != nil

	for depth := 0; depth < pt.config.MaxDepth; depth++ {
		hit, hitSurface := scn.Hit(ray, ray.TMin, ray.TMax)

		// Free-flight sampling through the enclosing medium. The ray either
		// scatters mid-flight or reaches the surface with adjusted throughput.
		if currentMedium != nil {
			maxDistance := mediumEscapeDistance
			if hitSurface {
				maxDistance = hit.T
			}
			distance, weight, scattered := currentMedium.SampleDistance(maxDistance, sampler)
			throughput = throughput.MultiplyVec(weight)
			if !throughput.IsFinite() {
				break
			}

			if scattered {
				scatterPoint := ray.At(distance)

				// Next-event estimation from the medium point
				radiance = radiance.Add(throughput.MultiplyVec(
					pt.sampleLightFromMedium(scn, currentMedium, scatterPoint, ray.Direction, sampler)))

				// Continue the path in a phase-sampled direction. The phase
				// function is normalized, so value/pdf = 1 and throughput
				// is unchanged.
				newDirection, phasePDF := currentMedium.Phase.Sample(ray.Direction, sampler.Get2D())
				if phasePDF <= 0 {
					break
				}
				prevPDF = phasePDF
				prevPoint = scatterPoint
				specularBounce = false
				ray = core.NewRayAt(scatterPoint, newDirection, ray.Time)

				if !pt.survivesRoulette(depth, &throughput, sampler) {
					break
				}
				continue
			}
		}

		if !hitSurface {
			// Escaped: the environment is not part of the light sampler, so
			// its contribution arrives here at full weight
			radiance = radiance.Add(throughput.MultiplyVec(scn.Environment(ray)))
			break
		}

		if auxPending {
			aux.Albedo = hit.Material.BaseColor(hit)
			aux.Normal = hit.Normal
			aux.Depth = hit.T
			aux.PrimitiveID = hit.PrimitiveID
			aux.Valid = true
			auxPending = false
		}

		// Emitted light, MIS-weighted against the light sampling strategy
		// that could have produced this same direction
		if emitter, isEmitter := hit.Material.(material.Emitter); isEmitter {
			emitted := emitter.Emit(ray)
			if emitted.MaxComponent() > 0 {
				weight := 1.0
				if !specularBounce && prevPDF > 0 {
					lightPDF := scn.Sampler.PDF(prevPoint, ray.Direction)
					weight = core.PowerHeuristic(1, prevPDF, 1, lightPDF)
				}
				radiance = radiance.Add(throughput.MultiplyVec(emitted).Multiply(weight))
			}
		}

		// Direct lighting via next-event estimation, skipped for delta
		// materials whose BSDF evaluates to zero everywhere
		_, isDelta := hit.Material.PDF(ray.Direction, hit.Normal, hit)
		if !isDelta {
			radiance = radiance.Add(throughput.MultiplyVec(
				pt.sampleLightFromSurface(scn, currentMedium, ray, hit, sampler)))
		}

		// Continue the path with a BSDF sample
		result, ok := hit.Material.Scatter(ray, *hit, sampler)
		if !ok {
			break
		}

		if result.IsSpecular() {
			throughput = throughput.MultiplyVec(result.Attenuation)
			specularBounce = true
			prevPDF = 0
		} else {
			cosTheta := result.Scattered.Direction.Normalize().Dot(hit.Normal)
			if cosTheta <= 0 || result.PDF <= 1e-12 {
				break
			}
			throughput = throughput.MultiplyVec(result.Attenuation).Multiply(cosTheta / result.PDF)
			specularBounce = false
			prevPDF = result.PDF
		}

		// Numerical degeneracy guard: drop the path rather than spread NaNs
		// into the framebuffer
		if !throughput.IsFinite() || throughput.MaxComponent() <= 0 {
			break
		}

		currentMedium = pt.transitionMedium(scn, currentMedium, hit, result.Scattered.Direction)
		prevPoint = hit.Point
		ray = result.Scattered

		if !pt.survivesRoulette(depth, &throughput, sampler) {
			break
		}
	}

	if !radiance.IsFinite() {
		return core.Vec3{}
	}
	return radiance
}

// sampleLightFromSurface estimates direct lighting at a surface hit using
// one power-weighted light sample, with MIS against BSDF sampling
func (pt *PathTracer) sampleLightFromSurface(scn *scene.Scene, medium *media.Medium, rayIn core.Ray, hit *material.SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	lightSample, light, ok := scn.Sampler.Sample(hit.Point, sampler)
	if !ok || lightSample.Emission.MaxComponent() <= 0 {
		return core.Vec3{}
	}

	cosTheta := lightSample.Direction.Dot(hit.Normal)
	if cosTheta <= 0 {
		return core.Vec3{}
	}

	brdf := hit.Material.EvaluateBRDF(rayIn.Direction, lightSample.Direction, hit)
	if brdf.MaxComponent() <= 0 {
		return core.Vec3{}
	}

	if pt.occluded(scn, hit.Point, lightSample.Direction, lightSample.Distance) {
		return core.Vec3{}
	}

	transmittance := shadowTransmittance(medium, lightSample.Distance)

	// MIS: weight against the BSDF strategy unless the light is a delta
	// source no BSDF sample could ever hit
	weight := 1.0
	if light.PDF(hit.Point, lightSample.Direction) > 0 {
		bsdfPDF, _ := hit.Material.PDF(rayIn.Direction, lightSample.Direction, hit)
		weight = core.PowerHeuristic(1, lightSample.PDF, 1, bsdfPDF)
	}

	contribution := brdf.MultiplyVec(lightSample.Emission).
		MultiplyVec(transmittance).
		Multiply(cosTheta * weight / lightSample.PDF)
	if !contribution.IsFinite() {
		return core.Vec3{}
	}
	return contribution
}

// sampleLightFromMedium estimates direct lighting at a medium scattering
// event, with the phase function in place of the BSDF
func (pt *PathTracer) sampleLightFromMedium(scn *scene.Scene, medium *media.Medium, point core.Vec3, rayDirection core.Vec3, sampler core.Sampler) core.Vec3 {
	lightSample, light, ok := scn.Sampler.Sample(point, sampler)
	if !ok || lightSample.Emission.MaxComponent() <= 0 {
		return core.Vec3{}
	}

	phase := medium.Phase.PDF(rayDirection, lightSample.Direction)
	if phase <= 0 {
		return core.Vec3{}
	}

	if pt.occluded(scn, point, lightSample.Direction, lightSample.Distance) {
		return core.Vec3{}
	}

	transmittance := shadowTransmittance(medium, lightSample.Distance)

	weight := 1.0
	if light.PDF(point, lightSample.Direction) > 0 {
		weight = core.PowerHeuristic(1, lightSample.PDF, 1, phase)
	}

	contribution := lightSample.Emission.MultiplyVec(transmittance).
		Multiply(phase * weight / lightSample.PDF)
	if !contribution.IsFinite() {
		return core.Vec3{}
	}
	return contribution
}

// occluded runs the shadow query with an any-hit traversal
func (pt *PathTracer) occluded(scn *scene.Scene, point, direction core.Vec3, distance float64) bool {
	shadowRay := core.NewRay(point, direction)
	tMax := distance - 1e-4
	if math.IsInf(distance, 1) {
		tMax = mediumEscapeDistance
	}
	return scn.HitAny(shadowRay, core.DefaultTMin, tMax)
}

// shadowTransmittance attenuates a shadow ray through the enclosing medium
func shadowTransmittance(medium *media.Medium, distance float64) core.Vec3 {
	if medium == nil {
		return core.NewVec3(1, 1, 1)
	}
	if math.IsInf(distance, 1) {
		distance = mediumEscapeDistance
	}
	return medium.Transmittance(distance)
}

// transitionMedium tracks which medium encloses the ray after a boundary
// interaction. Dielectrics with an interior medium switch it on when the
// refracted ray passes inside and back to the scene medium on exit.
func (pt *PathTracer) transitionMedium(scn *scene.Scene, current *media.Medium, hit *material.SurfaceInteraction, newDirection core.Vec3) *media.Medium {
	dielectric, isDielectric := hit.Material.(*material.Dielectric)
	if !isDielectric || dielectric.Interior == nil {
		return current
	}

	// GeoNormal is the shape's outward normal. A new direction pointing
	// against it lands inside the object: refraction in, or internal
	// reflection staying in. Pointing along it, the ray is back outside.
	if newDirection.Dot(hit.GeoNormal) < 0 {
		return dielectric.Interior
	}
	return scn.Medium
}

// survivesRoulette applies Russian roulette after the configured depth.
// The survival probability follows the throughput's largest channel, so
// dim paths die early while the division keeps the estimator unbiased.
func (pt *PathTracer) survivesRoulette(depth int, throughput *core.Vec3, sampler core.Sampler) bool {
	if !pt.config.RussianRoulette || depth < pt.config.MinRRDepth {
		return true
	}

	survival := throughput.MaxComponent()
	if survival > 1 {
		survival = 1
	}
	if survival < pt.config.RRSurvivalMin {
		survival = pt.config.RRSurvivalMin
	}

	if sampler.Get1D() > survival {
		return false
	}
	*throughput = throughput.Multiply(1.0 / survival)
	return true
}
