package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/spectraforge/spectraforge/pkg/core"
)

func TestPointLightInverseSquareFalloff(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1), 100)

	near := light.Sample(core.NewVec3(0, 5, 0), core.NewVec2(0.5, 0.5))
	far := light.Sample(core.NewVec3(0, 0, 0), core.NewVec2(0.5, 0.5))

	// Twice the distance, a quarter of the emission
	ratio := near.Emission.X / far.Emission.X
	if math.Abs(ratio-4.0) > 1e-9 {
		t.Errorf("expected 4x falloff ratio, got %f", ratio)
	}
	if near.PDF != 1.0 {
		t.Errorf("delta light sample PDF should be 1, got %f", near.PDF)
	}
	if light.PDF(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)) != 0 {
		t.Error("delta light directional PDF should be 0")
	}
}

func TestDirectionalLightConstantEmission(t *testing.T) {
	light := NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewVec3(1, 0.9, 0.8), 2)

	a := light.Sample(core.NewVec3(0, 0, 0), core.NewVec2(0.5, 0.5))
	b := light.Sample(core.NewVec3(100, 0, 100), core.NewVec2(0.5, 0.5))

	if a.Emission.Subtract(b.Emission).Length() > 1e-12 {
		t.Error("directional light should have no falloff")
	}
	if !math.IsInf(a.Distance, 1) {
		t.Errorf("directional light distance should be +Inf, got %f", a.Distance)
	}
	expected := core.NewVec3(0, 1, 0)
	if a.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("expected direction %v toward the light, got %v", expected, a.Direction)
	}
}

func TestQuadLightPDFGeometry(t *testing.T) {
	// 2x2 quad at height 5 facing down
	light := NewQuadLight(
		core.NewVec3(-1, 5, -1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		core.NewVec3(1, 1, 1), 10,
	)

	point := core.NewVec3(0, 0, 0)
	sample := light.Sample(point, core.NewVec2(0.5, 0.5))

	// Sampled the quad center: distance 5, cosθ depends on the quad's facing.
	// Solid-angle pdf = d² / (cosθ · area)
	cosTheta := math.Abs(sample.Direction.Dot(core.NewVec3(0, 1, 0)))
	expected := 25.0 / (cosTheta * 4.0)
	if math.Abs(sample.PDF-expected) > 1e-9 {
		t.Errorf("expected pdf %f, got %f", expected, sample.PDF)
	}

	// Queried PDF along the sampled direction must match
	queried := light.PDF(point, sample.Direction)
	if math.Abs(queried-sample.PDF) > 1e-6 {
		t.Errorf("queried pdf %f disagrees with sample pdf %f", queried, sample.PDF)
	}

	// Directions that miss the quad have zero pdf
	if pdf := light.PDF(point, core.NewVec3(1, 0, 0)); pdf != 0 {
		t.Errorf("expected zero pdf for a missing direction, got %f", pdf)
	}
}

func TestQuadLightBackfaceIsDark(t *testing.T) {
	// U×V points -Y, so the emitting face looks down; a point above the
	// quad sees only the back face
	light := NewQuadLight(
		core.NewVec3(-1, 0, -1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		core.NewVec3(1, 1, 1), 10,
	)

	behind := light.Sample(core.NewVec3(0, 5, 0), core.NewVec2(0.3, 0.7))
	if behind.Emission.Length() > 0 {
		t.Errorf("back face should emit nothing, got %v", behind.Emission)
	}
}

func TestSphereLightConePDF(t *testing.T) {
	light := NewSphereLight(core.NewVec3(0, 10, 0), 2, core.NewVec3(1, 1, 1), 5)
	point := core.NewVec3(0, 0, 0)

	sample := light.Sample(point, core.NewVec2(0.4, 0.6))

	sinThetaMax := 2.0 / 10.0
	cosThetaMax := math.Sqrt(1 - sinThetaMax*sinThetaMax)
	expected := 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
	if math.Abs(sample.PDF-expected) > 1e-9 {
		t.Errorf("expected cone pdf %f, got %f", expected, sample.PDF)
	}

	// The sampled direction must actually reach the sphere
	if sample.Distance <= 0 || sample.Distance > 10 {
		t.Errorf("implausible sample distance %f", sample.Distance)
	}
	if pdf := light.PDF(point, sample.Direction); math.Abs(pdf-expected) > 1e-9 {
		t.Errorf("queried pdf %f disagrees with expected %f", pdf, expected)
	}
}

func TestSphereLightSampleHitsSphere(t *testing.T) {
	light := NewSphereLight(core.NewVec3(3, 8, -2), 1.5, core.NewVec3(1, 1, 1), 5)
	point := core.NewVec3(0, 0, 0)
	rng := rand.New(rand.NewSource(21))

	for i := 0; i < 2000; i++ {
		sample := light.Sample(point, core.NewVec2(rng.Float64(), rng.Float64()))
		hitPoint := point.Add(sample.Direction.Multiply(sample.Distance))
		radial := hitPoint.Subtract(light.Center).Length()
		if math.Abs(radial-light.Radius) > 1e-6 {
			t.Fatalf("sample %d lands at radius %f, expected %f", i, radial, light.Radius)
		}
	}
}

func TestSphereLightSampleFromInside(t *testing.T) {
	light := NewSphereLight(core.NewVec3(1, 2, 3), 2, core.NewVec3(1, 1, 1), 5)
	// Off-center interior point, so the exit distance varies by direction
	point := core.NewVec3(2, 2.5, 3)
	rng := rand.New(rand.NewSource(33))

	for i := 0; i < 2000; i++ {
		sample := light.Sample(point, core.NewVec2(rng.Float64(), rng.Float64()))
		hitPoint := point.Add(sample.Direction.Multiply(sample.Distance))
		radial := hitPoint.Subtract(light.Center).Length()
		if math.Abs(radial-light.Radius) > 1e-9 {
			t.Fatalf("interior sample %d exits at radius %f, expected %f", i, radial, light.Radius)
		}
		if sample.PDF != 1.0/(4.0*math.Pi) {
			t.Fatalf("interior sampling should be uniform over the sphere, pdf %f", sample.PDF)
		}
	}
}

func TestSpherePower(t *testing.T) {
	light := NewSphereLight(core.NewVec3(0, 0, 0), 2, core.NewVec3(1, 1, 1), 3)
	expected := 4 * math.Pi * 4 * 3 * 1.0
	if math.Abs(light.Power()-expected) > 1e-9 {
		t.Errorf("expected power %f, got %f", expected, light.Power())
	}
}

func TestPowerSamplerSelectionProportionalToPower(t *testing.T) {
	weak := NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1), 1)
	strong := NewPointLight(core.NewVec3(5, 5, 0), core.NewVec3(1, 1, 1), 9)
	sampler := NewPowerLightSampler([]Light{weak, strong})

	if p := sampler.SelectionProbability(weak); math.Abs(p-0.1) > 1e-9 {
		t.Errorf("expected weak selection probability 0.1, got %f", p)
	}
	if p := sampler.SelectionProbability(strong); math.Abs(p-0.9) > 1e-9 {
		t.Errorf("expected strong selection probability 0.9, got %f", p)
	}

	rng := core.NewRandomSampler(rand.New(rand.NewSource(6)))
	point := core.NewVec3(0, 0, 0)
	strongCount := 0
	const n = 100000
	for i := 0; i < n; i++ {
		_, picked, ok := sampler.Sample(point, rng)
		if !ok {
			t.Fatal("sampling failed with positive total power")
		}
		if picked == Light(strong) {
			strongCount++
		}
	}

	frequency := float64(strongCount) / n
	if math.Abs(frequency-0.9) > 0.01 {
		t.Errorf("strong light picked %f of the time, expected 0.9", frequency)
	}
}

func TestPowerSamplerFoldsSelectionPDF(t *testing.T) {
	// One quad light among point lights: the area sample's pdf must carry
	// the selection probability
	quad := NewQuadLight(
		core.NewVec3(-1, 5, -1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		core.NewVec3(1, 1, 1), 10,
	)
	point := NewPointLight(core.NewVec3(5, 5, 5), core.NewVec3(1, 1, 1), quad.Power())
	sampler := NewPowerLightSampler([]Light{quad, point})

	rng := core.NewRandomSampler(rand.New(rand.NewSource(14)))
	shading := core.NewVec3(0, 0, 0)
	for i := 0; i < 1000; i++ {
		lightSample, picked, ok := sampler.Sample(shading, rng)
		if !ok {
			continue
		}
		if picked == Light(quad) {
			bare := quad.PDF(shading, lightSample.Direction)
			expected := bare * sampler.SelectionProbability(quad)
			if math.Abs(lightSample.PDF-expected) > 1e-6*math.Max(1, expected) {
				t.Fatalf("sample pdf %f, expected selection-weighted %f", lightSample.PDF, expected)
			}
		}
	}
}

func TestPowerSamplerEmptyAndZeroPower(t *testing.T) {
	empty := NewPowerLightSampler(nil)
	rng := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	if _, _, ok := empty.Sample(core.NewVec3(0, 0, 0), rng); ok {
		t.Error("empty sampler should not produce samples")
	}

	dark := NewPowerLightSampler([]Light{NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 0), 0)})
	if _, _, ok := dark.Sample(core.NewVec3(0, 0, 0), rng); ok {
		t.Error("zero-power sampler should not produce samples")
	}
	if pdf := dark.PDF(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)); pdf != 0 {
		t.Errorf("zero-power sampler pdf should be 0, got %f", pdf)
	}
}

func TestIsDelta(t *testing.T) {
	if !IsDelta(NewPointLight(core.Vec3{}, core.NewVec3(1, 1, 1), 1)) {
		t.Error("point light should be delta")
	}
	if !IsDelta(NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1), 1)) {
		t.Error("directional light should be delta")
	}
	if IsDelta(NewSphereLight(core.Vec3{}, 1, core.NewVec3(1, 1, 1), 1)) {
		t.Error("sphere light should not be delta")
	}
}
