package core

import (
	"math"
	"testing"
)

func TestPixelSamplerDeterminism(t *testing.T) {
	a := NewPixelSampler(42, 10, 20, 3)
	b := NewPixelSampler(42, 10, 20, 3)
	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatalf("streams for identical (seed, x, y, sample) diverged at draw %d", i)
		}
	}
}

func TestPixelSamplerStreamIndependence(t *testing.T) {
	// Neighboring pixels and consecutive samples must get distinct streams
	base := NewPixelSampler(42, 10, 20, 0).Get1D()
	variants := []*RandomSampler{
		NewPixelSampler(42, 11, 20, 0),
		NewPixelSampler(42, 10, 21, 0),
		NewPixelSampler(42, 10, 20, 1),
		NewPixelSampler(43, 10, 20, 0),
	}
	for i, s := range variants {
		if s.Get1D() == base {
			t.Errorf("variant %d produced the same first draw as the base stream", i)
		}
	}
}

func TestPowerHeuristic(t *testing.T) {
	// Equal pdfs split the weight evenly
	if w := PowerHeuristic(1, 0.5, 1, 0.5); math.Abs(w-0.5) > 1e-12 {
		t.Errorf("equal pdfs should weight 0.5, got %f", w)
	}
	// Complementary weights sum to one
	wf := PowerHeuristic(1, 0.8, 1, 0.2)
	wg := PowerHeuristic(1, 0.2, 1, 0.8)
	if math.Abs(wf+wg-1.0) > 1e-12 {
		t.Errorf("complementary weights should sum to 1, got %f", wf+wg)
	}
	// Dominant strategy gets nearly all the weight
	if w := PowerHeuristic(1, 100, 1, 0.01); w < 0.99 {
		t.Errorf("dominant pdf should get weight near 1, got %f", w)
	}
	if w := PowerHeuristic(1, 0, 1, 0); w != 0 {
		t.Errorf("zero pdfs should weight 0, got %f", w)
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	sampler := NewPixelSampler(1, 0, 0, 0)

	n := 20000
	meanCos := 0.0
	for i := 0; i < n; i++ {
		dir := SampleCosineHemisphere(normal, sampler.Get2D())
		if math.Abs(dir.Length()-1.0) > 1e-9 {
			t.Fatalf("direction not normalized: length %f", dir.Length())
		}
		cos := dir.Dot(normal)
		if cos < 0 {
			t.Fatalf("direction below the hemisphere: cos %f", cos)
		}
		meanCos += cos
	}
	meanCos /= float64(n)

	// Cosine-weighted sampling has E[cos θ] = 2/3
	if math.Abs(meanCos-2.0/3.0) > 0.01 {
		t.Errorf("expected mean cosine 2/3, got %f", meanCos)
	}
}

func TestOrthonormalBasis(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 2, 3).Normalize(),
	}
	for _, n := range normals {
		tangent, bitangent := OrthonormalBasis(n)
		if math.Abs(tangent.Dot(n)) > 1e-9 || math.Abs(bitangent.Dot(n)) > 1e-9 ||
			math.Abs(tangent.Dot(bitangent)) > 1e-9 {
			t.Errorf("basis for %v not orthogonal", n)
		}
		if math.Abs(tangent.Length()-1) > 1e-9 || math.Abs(bitangent.Length()-1) > 1e-9 {
			t.Errorf("basis for %v not normalized", n)
		}
	}
}

func TestSampleCone(t *testing.T) {
	axis := NewVec3(0, 0, 1)
	cosWidth := math.Cos(0.3)
	sampler := NewPixelSampler(2, 0, 0, 0)

	for i := 0; i < 1000; i++ {
		dir := SampleCone(axis, cosWidth, sampler.Get2D())
		if dir.Dot(axis) < cosWidth-1e-9 {
			t.Fatalf("sample outside the cone: cos %f < %f", dir.Dot(axis), cosWidth)
		}
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	sampler := NewPixelSampler(3, 0, 0, 0)
	mean := NewVec3(0, 0, 0)
	n := 20000
	for i := 0; i < n; i++ {
		dir := SampleOnUnitSphere(sampler.Get2D())
		if math.Abs(dir.Length()-1.0) > 1e-9 {
			t.Fatalf("direction not on the unit sphere: length %f", dir.Length())
		}
		mean = mean.Add(dir)
	}
	// Uniform sphere sampling averages to the origin
	if mean.Multiply(1.0 / float64(n)).Length() > 0.02 {
		t.Errorf("sphere samples not balanced: mean %v", mean.Multiply(1.0/float64(n)))
	}
}

func TestSamplePointInUnitDisk(t *testing.T) {
	sampler := NewPixelSampler(4, 0, 0, 0)
	for i := 0; i < 1000; i++ {
		p := SamplePointInUnitDisk(sampler.Get2D())
		if p.Z != 0 {
			t.Fatalf("disk point has nonzero z: %v", p)
		}
		if p.Length() > 1.0+1e-9 {
			t.Fatalf("point outside the unit disk: %v", p)
		}
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0).Normalize()
	n := NewVec3(0, 1, 0)
	r := Reflect(v, n)
	expected := NewVec3(1, 1, 0).Normalize()
	if r.Subtract(expected).Length() > 1e-9 {
		t.Errorf("expected %v, got %v", expected, r)
	}
}

func TestRefractSnell(t *testing.T) {
	// Entering glass at 45 degrees
	v := NewVec3(1, -1, 0).Normalize()
	n := NewVec3(0, 1, 0)
	ratio := 1.0 / 1.5
	r := Refract(v, n, ratio)

	sinIncident := math.Sqrt(1 - math.Pow(-v.Dot(n), 2))
	sinRefracted := math.Sqrt(1 - math.Pow(-r.Dot(n), 2))
	if math.Abs(sinRefracted-ratio*sinIncident) > 1e-9 {
		t.Errorf("Snell's law violated: sin_t=%f, expected %f", sinRefracted, ratio*sinIncident)
	}
}

func TestSchlickReflectance(t *testing.T) {
	// Grazing incidence approaches total reflection
	if r := SchlickReflectance(0, 1.5); r < 0.99 {
		t.Errorf("grazing reflectance should approach 1, got %f", r)
	}
	// Normal incidence matches ((1-n)/(1+n))²
	expected := math.Pow((1-1.5)/(1+1.5), 2)
	if r := SchlickReflectance(1, 1.5); math.Abs(r-expected) > 1e-9 {
		t.Errorf("normal incidence reflectance: expected %f, got %f", expected, r)
	}
}

func TestAABBHit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	hit := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))
	if !box.Hit(hit, 0.001, math.Inf(1)) {
		t.Error("centered ray should hit the box")
	}

	miss := NewRay(NewVec3(0, 5, -5), NewVec3(0, 0, 1))
	if box.Hit(miss, 0.001, math.Inf(1)) {
		t.Error("offset ray should miss the box")
	}

	// Hit lies beyond tMax
	if box.Hit(hit, 0.001, 1.0) {
		t.Error("hit beyond tMax should be rejected")
	}

	// Parallel ray inside the slab
	parallel := NewRay(NewVec3(0, 0.5, -5), NewVec3(0, 0, 1))
	if !box.Hit(parallel, 0.001, math.Inf(1)) {
		t.Error("axis-parallel ray through the box should hit")
	}
}

func TestAABBEntryDistance(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))

	entry, ok := box.EntryDistance(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected an entry distance")
	}
	if math.Abs(entry-4.0) > 1e-9 {
		t.Errorf("expected entry at t=4, got %f", entry)
	}

	if _, ok := box.EntryDistance(NewRay(NewVec3(0, 5, -5), NewVec3(0, 0, 1)), 0.001, math.Inf(1)); ok {
		t.Error("missing ray should report no entry")
	}
}

func TestAABBUnionAndContains(t *testing.T) {
	a := NewAABB(NewVec3(-1, -1, -1), NewVec3(0, 0, 0))
	b := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 1, 1))
	u := a.Union(b)

	if !u.Contains(a) || !u.Contains(b) {
		t.Error("union should contain both boxes")
	}
	if u.LongestAxis() != 0 {
		t.Errorf("expected X as the longest axis, got %d", u.LongestAxis())
	}
	if math.Abs(u.SurfaceArea()-2*(3*2+2*2+3*2)) > 1e-9 {
		t.Errorf("unexpected surface area %f", u.SurfaceArea())
	}
}
