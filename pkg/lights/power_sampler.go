package lights

import (
	"github.com/spectraforge/spectraforge/pkg/core"
)

// PowerLightSampler selects lights with probability proportional to their
// emitted power, so bright lights receive more samples. The selection
// probability is folded into every returned sample's PDF, which keeps the
// estimator unbiased without callers tracking which light was chosen.
type PowerLightSampler struct {
	lights     []Light
	cumulative []float64 // Cumulative power prefix sums
	totalPower float64
}

// NewPowerLightSampler builds a sampler over the given lights. Lights with
// zero power are kept but never selected.
func NewPowerLightSampler(lightList []Light) *PowerLightSampler {
	sampler := &PowerLightSampler{
		lights:     lightList,
		cumulative: make([]float64, len(lightList)),
	}
	for i, light := range lightList {
		sampler.totalPower += light.Power()
		sampler.cumulative[i] = sampler.totalPower
	}
	return sampler
}

// Count returns the number of lights
func (s *PowerLightSampler) Count() int {
	return len(s.lights)
}

// TotalPower returns the summed power of all lights
func (s *PowerLightSampler) TotalPower() float64 {
	return s.totalPower
}

// SelectionProbability returns the probability of picking the given light
func (s *PowerLightSampler) SelectionProbability(light Light) float64 {
	if s.totalPower <= 0 {
		return 0
	}
	return light.Power() / s.totalPower
}

// Sample picks a light by power and samples it from the shading point. The
// returned sample's PDF already includes the selection probability. Returns
// false when there are no lights or all have zero power.
func (s *PowerLightSampler) Sample(point core.Vec3, sampler core.Sampler) (LightSample, Light, bool) {
	light, ok := s.pick(sampler.Get1D())
	if !ok {
		return LightSample{}, nil, false
	}

	lightSample := light.Sample(point, sampler.Get2D())
	lightSample.PDF *= s.SelectionProbability(light)
	if lightSample.PDF <= 0 {
		return LightSample{}, nil, false
	}
	return lightSample, light, true
}

// PDF returns the combined density of sampling the given direction from the
// point through light sampling: the selection-weighted sum over all lights.
// Used as the counterpart strategy density in MIS weighting of BSDF samples.
func (s *PowerLightSampler) PDF(point core.Vec3, direction core.Vec3) float64 {
	if s.totalPower <= 0 {
		return 0
	}
	pdf := 0.0
	for _, light := range s.lights {
		lightPDF := light.PDF(point, direction)
		if lightPDF > 0 {
			pdf += s.SelectionProbability(light) * lightPDF
		}
	}
	return pdf
}

// pick selects a light by binary search over the cumulative power table
func (s *PowerLightSampler) pick(u float64) (Light, bool) {
	if len(s.lights) == 0 || s.totalPower <= 0 {
		return nil, false
	}
	if len(s.lights) == 1 {
		return s.lights[0], true
	}

	target := u * s.totalPower
	lo, hi := 0, len(s.cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if s.cumulative[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return s.lights[lo], true
}
