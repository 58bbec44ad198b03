package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/spectraforge/spectraforge/pkg/core"
)

func TestDielectricAlwaysScatters(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	hit := testHit(core.NewVec3(0, 1, 0))
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0.3, -1, 0).Normalize())

	for i := 0; i < 1000; i++ {
		result, ok := glass.Scatter(rayIn, hit, sampler)
		if !ok {
			t.Fatal("dielectric should always scatter for a valid hit")
		}
		if result.PDF != 0 {
			t.Errorf("dielectric is a delta material, expected PDF 0, got %f", result.PDF)
		}
		if !result.Scattered.Direction.IsFinite() {
			t.Fatalf("non-finite scatter direction %v", result.Scattered.Direction)
		}
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	// Ray leaving glass at a grazing angle: sin(θ)·1.5 > 1, must reflect
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, -1, 0), // Flipped: exiting
		FrontFace: false,
	}
	direction := core.NewVec3(1, 0.2, 0).Normalize()
	rayIn := core.NewRay(core.NewVec3(-1, -0.2, 0), direction)

	for i := 0; i < 100; i++ {
		result, ok := glass.Scatter(rayIn, hit, sampler)
		if !ok {
			t.Fatal("TIR should still produce a reflected ray")
		}
		// Reflected ray stays on the normal side of the boundary
		if result.Scattered.Direction.Dot(hit.Normal) <= 0 {
			t.Fatalf("TIR ray crossed the boundary: %v", result.Scattered.Direction)
		}
	}
}

func TestDielectricSchlickAtNormalIncidence(t *testing.T) {
	// r0 = ((1-n)/(1+n))^2, which is 0.04 for n = 1.5
	got := core.SchlickReflectance(1.0, 1.0/1.5)
	expected := math.Pow((1-1.0/1.5)/(1+1.0/1.5), 2)
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected reflectance %f, got %f", expected, got)
	}
	if math.Abs(expected-0.04) > 1e-3 {
		t.Errorf("glass normal-incidence reflectance should be near 0.04, got %f", expected)
	}
}

func TestDielectricRefractionBendsTowardNormal(t *testing.T) {
	// Entering a denser medium the refracted ray bends toward the normal
	glass := NewDielectric(1.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(99)))
	hit := testHit(core.NewVec3(0, 1, 0))
	incoming := core.NewVec3(1, -1, 0).Normalize()
	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), incoming)

	sinIn := math.Sqrt(1 - math.Pow(-incoming.Dot(hit.Normal), 2))

	refracted := 0
	for i := 0; i < 1000; i++ {
		result, ok := glass.Scatter(rayIn, hit, sampler)
		if !ok {
			continue
		}
		if result.Scattered.Direction.Dot(hit.Normal) < 0 {
			// Transmitted through the boundary
			refracted++
			sinOut := math.Sqrt(1 - math.Pow(result.Scattered.Direction.Normalize().Dot(hit.Normal), 2))
			if math.Abs(sinOut-sinIn/1.5) > 1e-9 {
				t.Fatalf("Snell violation: sin(in)=%f sin(out)=%f", sinIn, sinOut)
			}
		}
	}
	if refracted == 0 {
		t.Error("expected some refraction at 45 degrees on glass")
	}
}

func TestMetalMirrorReflection(t *testing.T) {
	mirror := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(5)))
	hit := testHit(core.NewVec3(0, 1, 0))
	incoming := core.NewVec3(1, -1, 0).Normalize()
	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), incoming)

	result, ok := mirror.Scatter(rayIn, hit, sampler)
	if !ok {
		t.Fatal("mirror should scatter")
	}
	expected := core.NewVec3(1, 1, 0).Normalize()
	if result.Scattered.Direction.Normalize().Subtract(expected).Length() > 1e-9 {
		t.Errorf("expected mirror direction %v, got %v", expected, result.Scattered.Direction)
	}
}

func TestMetalRoughnessPerturbsReflection(t *testing.T) {
	rough := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(8)))
	hit := testHit(core.NewVec3(0, 1, 0))
	incoming := core.NewVec3(1, -1, 0).Normalize()
	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), incoming)
	mirror := core.NewVec3(1, 1, 0).Normalize()

	perturbed := 0
	for i := 0; i < 200; i++ {
		result, ok := rough.Scatter(rayIn, hit, sampler)
		if !ok {
			continue
		}
		if result.Scattered.Direction.Normalize().Subtract(mirror).Length() > 1e-6 {
			perturbed++
		}
	}
	if perturbed == 0 {
		t.Error("rough metal should perturb the mirror direction")
	}
}

func TestEmissiveDoesNotScatter(t *testing.T) {
	light := NewEmissive(core.NewVec3(5, 5, 5))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	hit := testHit(core.NewVec3(0, 1, 0))
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if _, ok := light.Scatter(rayIn, hit, sampler); ok {
		t.Error("emissive material must not scatter")
	}
	if emitted := light.Emit(rayIn); emitted.Subtract(core.NewVec3(5, 5, 5)).Length() > 1e-12 {
		t.Errorf("unexpected emission %v", emitted)
	}
}
