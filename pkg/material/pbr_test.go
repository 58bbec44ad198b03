package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/spectraforge/spectraforge/pkg/core"
)

func TestPBRScatterStaysAboveSurface(t *testing.T) {
	pbr := NewPBR(core.NewVec3(0.8, 0.6, 0.2), 0.5, 0.4)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))
	hit := testHit(core.NewVec3(0, 1, 0))
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0.3, -1, 0.1).Normalize())

	accepted := 0
	for i := 0; i < 2000; i++ {
		result, ok := pbr.Scatter(rayIn, hit, sampler)
		if !ok {
			continue
		}
		accepted++
		if result.Scattered.Direction.Dot(hit.Normal) <= 0 {
			t.Fatalf("scattered direction below surface: %v", result.Scattered.Direction)
		}
		if result.PDF <= 0 {
			t.Errorf("expected positive PDF, got %f", result.PDF)
		}
		if !result.Attenuation.IsFinite() {
			t.Errorf("non-finite attenuation %v", result.Attenuation)
		}
	}
	if accepted < 1000 {
		t.Errorf("expected most samples to be accepted, got %d/2000", accepted)
	}
}

func TestPBRScatterPDFConsistent(t *testing.T) {
	// The PDF reported with each sample must agree with the queryable PDF()
	// for the same direction pair, otherwise MIS weighting would be biased.
	pbr := NewPBR(core.NewVec3(0.9, 0.9, 0.9), 0.0, 0.6)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(11)))
	hit := testHit(core.NewVec3(0, 1, 0))
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0.2, -1, 0).Normalize())

	for i := 0; i < 500; i++ {
		result, ok := pbr.Scatter(rayIn, hit, sampler)
		if !ok {
			continue
		}
		pdf, isDelta := pbr.PDF(rayIn.Direction, result.Scattered.Direction, &hit)
		if isDelta {
			t.Fatal("rough PBR should not report a delta PDF")
		}
		if math.Abs(pdf-result.PDF) > 1e-9*math.Max(1, pdf) {
			t.Fatalf("PDF mismatch: scatter %g, query %g", result.PDF, pdf)
		}
	}
}

func TestPBRMetallicKillsDiffuse(t *testing.T) {
	albedo := core.NewVec3(1.0, 0.8, 0.4)
	pbr := NewPBR(albedo, 1.0, 0.5)
	hit := testHit(core.NewVec3(0, 1, 0))

	// Pick a direction far from the mirror reflection so the specular lobe is
	// weak; a fully metallic surface must not add any diffuse floor there.
	incoming := core.NewVec3(0.7, -1, 0).Normalize()
	outgoing := core.NewVec3(0.7, 1, 0).Normalize()

	full := NewPBR(albedo, 0.0, 0.5).EvaluateBRDF(incoming, outgoing, &hit)
	metal := pbr.EvaluateBRDF(incoming, outgoing, &hit)

	if metal.Luminance() >= full.Luminance() {
		t.Errorf("metallic BRDF %f should be below dielectric %f away from the specular peak",
			metal.Luminance(), full.Luminance())
	}
}

func TestPBRRoughnessSpreadsHighlight(t *testing.T) {
	// Rough surfaces scatter over a wider cone: the mean angular deviation of
	// sampled directions from the mirror direction must grow with roughness.
	hit := testHit(core.NewVec3(0, 1, 0))
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0.5, -1, 0).Normalize())
	mirror := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)

	spread := func(roughness float64) float64 {
		pbr := NewPBR(core.NewVec3(1, 1, 1), 1.0, roughness)
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(19)))
		total := 0.0
		count := 0
		for i := 0; i < 5000; i++ {
			result, ok := pbr.Scatter(rayIn, hit, sampler)
			if !ok {
				continue
			}
			cos := result.Scattered.Direction.Normalize().Dot(mirror)
			total += math.Acos(math.Min(1, math.Max(-1, cos)))
			count++
		}
		return total / float64(count)
	}

	smooth := spread(0.1)
	rough := spread(0.8)
	if rough <= smooth {
		t.Errorf("rough spread %f should exceed smooth spread %f", rough, smooth)
	}
}

func TestGGXDistributionNormalization(t *testing.T) {
	// ∫ D(h) cos(θh) dω over the hemisphere = 1 for a valid NDF.
	// Estimate with uniform hemisphere sampling: E[D·cosθ·2π] over directions.
	normal := core.NewVec3(0, 1, 0)
	alpha := 0.25
	rng := rand.New(rand.NewSource(23))
	sampler := core.NewRandomSampler(rng)

	const n = 400000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := core.SampleOnUnitSphere(sampler.Get2D())
		if dir.Y < 0 {
			dir = dir.Negate()
		}
		sum += ggxDistribution(normal, dir, alpha) * dir.Y * 2.0 * math.Pi
	}

	estimate := sum / float64(n)
	if math.Abs(estimate-1.0) > 0.05 {
		t.Errorf("GGX NDF normalization estimate %f, expected 1", estimate)
	}
}

func TestSchlickFresnelLimits(t *testing.T) {
	f0 := core.NewVec3(0.04, 0.04, 0.04)

	atNormal := schlickFresnel(f0, 1.0)
	if atNormal.Subtract(f0).Length() > 1e-12 {
		t.Errorf("Fresnel at normal incidence should equal F0, got %v", atNormal)
	}

	atGrazing := schlickFresnel(f0, 0.0)
	white := core.NewVec3(1, 1, 1)
	if atGrazing.Subtract(white).Length() > 1e-12 {
		t.Errorf("Fresnel at grazing incidence should approach 1, got %v", atGrazing)
	}
}
