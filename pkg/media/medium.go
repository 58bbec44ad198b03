package media

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// Medium is a homogeneous participating medium characterized by absorption
// and scattering coefficients (per unit distance) and a phase function.
type Medium struct {
	SigmaA core.Vec3 // Absorption coefficient
	SigmaS core.Vec3 // Scattering coefficient
	Phase  PhaseFunction
}

// NewMedium creates a homogeneous medium. A nil phase function defaults to
// isotropic scattering.
func NewMedium(sigmaA, sigmaS core.Vec3, phase PhaseFunction) *Medium {
	if phase == nil {
		phase = NewIsotropic()
	}
	return &Medium{SigmaA: sigmaA, SigmaS: sigmaS, Phase: phase}
}

// SigmaT returns the extinction coefficient (absorption + scattering)
func (m *Medium) SigmaT() core.Vec3 {
	return m.SigmaA.Add(m.SigmaS)
}

// Transmittance returns the Beer-Lambert attenuation over a path of the
// given length through the medium
func (m *Medium) Transmittance(distance float64) core.Vec3 {
	if distance <= 0 {
		return core.NewVec3(1, 1, 1)
	}
	sigmaT := m.SigmaT()
	return core.NewVec3(
		math.Exp(-sigmaT.X*distance),
		math.Exp(-sigmaT.Y*distance),
		math.Exp(-sigmaT.Z*distance),
	)
}

// SampleDistance draws a free-flight distance along a ray through the medium.
// It samples the exponential distribution for a uniformly chosen channel of
// the extinction coefficient and returns:
//
//	distance  - sampled scattering distance (may exceed maxDistance)
//	weight    - throughput adjustment Tr/pdf for the sampled event
//	scattered - true if the distance lies before maxDistance (a medium event),
//	            false if the ray reaches the surface at maxDistance first
func (m *Medium) SampleDistance(maxDistance float64, sampler core.Sampler) (distance float64, weight core.Vec3, scattered bool) {
	sigmaT := m.SigmaT()

	// Pick a channel uniformly to drive the exponential sampling
	var channel float64
	switch int(sampler.Get1D() * 3) {
	case 0:
		channel = sigmaT.X
	case 1:
		channel = sigmaT.Y
	default:
		channel = sigmaT.Z
	}

	if channel <= 0 {
		// Vacuum in the sampled channel, treat as pass-through
		return maxDistance, m.Transmittance(maxDistance).MultiplyVec(pdfSurface(sigmaT, maxDistance).reciprocal()), false
	}

	distance = -math.Log(1.0-sampler.Get1D()) / channel
	if distance >= maxDistance {
		// Ray escapes the medium before scattering: weight by Tr / P(surface)
		tr := m.Transmittance(maxDistance)
		return maxDistance, tr.MultiplyVec(pdfSurface(sigmaT, maxDistance).reciprocal()), false
	}

	// Medium scattering event at the sampled distance
	tr := m.Transmittance(distance)
	pdf := pdfDistance(sigmaT, distance)
	weight = tr.MultiplyVec(m.SigmaS).MultiplyVec(pdf.reciprocal())
	return distance, weight, true
}

// channelAverage is used to build scalar pdfs from per-channel densities
type rgbPDF core.Vec3

// pdfDistance is the per-channel density of sampling a scatter at distance t,
// averaged over the uniformly chosen channels
func pdfDistance(sigmaT core.Vec3, t float64) rgbPDF {
	p := (math.Exp(-sigmaT.X*t)*sigmaT.X +
		math.Exp(-sigmaT.Y*t)*sigmaT.Y +
		math.Exp(-sigmaT.Z*t)*sigmaT.Z) / 3.0
	if p < 1e-12 {
		p = 1e-12
	}
	return rgbPDF(core.NewVec3(p, p, p))
}

// pdfSurface is the probability of the sampled distance exceeding maxDistance,
// averaged over the uniformly chosen channels
func pdfSurface(sigmaT core.Vec3, maxDistance float64) rgbPDF {
	p := (math.Exp(-sigmaT.X*maxDistance) +
		math.Exp(-sigmaT.Y*maxDistance) +
		math.Exp(-sigmaT.Z*maxDistance)) / 3.0
	if p < 1e-12 {
		p = 1e-12
	}
	return rgbPDF(core.NewVec3(p, p, p))
}

func (p rgbPDF) reciprocal() core.Vec3 {
	return core.NewVec3(1.0/p.X, 1.0/p.Y, 1.0/p.Z)
}
