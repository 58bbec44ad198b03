package scene

import (
	"math"
	"testing"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/geometry"
	"github.com/spectraforge/spectraforge/pkg/lights"
	"github.com/spectraforge/spectraforge/pkg/material"
)

func testCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	}
}

func TestPreprocessBuildsCameraAndSampler(t *testing.T) {
	s := NewScene(testCameraConfig())
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0, 0), 1,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1), 10))

	if s.Prepared() {
		t.Error("scene should not report prepared before Preprocess")
	}
	if err := s.Preprocess(); err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if !s.Prepared() || s.Camera == nil || s.Sampler == nil {
		t.Error("preprocess should build the camera and light sampler")
	}
	if s.Sampler.Count() != 1 {
		t.Errorf("expected 1 light in the sampler, got %d", s.Sampler.Count())
	}
}

func TestPreprocessRejectsBadCamera(t *testing.T) {
	config := testCameraConfig()
	config.VFov = 0
	s := NewScene(config)
	if err := s.Preprocess(); err == nil {
		t.Error("degenerate camera should fail preprocessing")
	}
}

func TestMutationInvalidatesPreparedState(t *testing.T) {
	s := NewScene(testCameraConfig())
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0, 0), 1,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	s.AddShape(geometry.NewSphere(core.NewVec3(3, 0, 0), 1,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	if s.Prepared() {
		t.Error("adding a shape should invalidate the prepared state")
	}
}

func TestHitRoutesThroughBVHAndUnbounded(t *testing.T) {
	s := NewScene(testCameraConfig())
	// An infinite plane stays out of the BVH, the sphere goes in
	s.AddShape(geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0, 0), 0.5,
		material.NewLambertian(core.NewVec3(0.8, 0.2, 0.2))))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	// Straight at the sphere: the sphere is closer than the plane
	hit, ok := s.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.T-4.5) > 1e-9 {
		t.Errorf("expected the sphere at t=4.5, got t=%f", hit.T)
	}

	// Downward past the sphere: only the plane can catch it
	hit, ok = s.Hit(core.NewRay(core.NewVec3(3, 0, 0), core.NewVec3(0, -1, 0)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected the unbounded plane to catch the ray")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("expected the plane at t=1, got t=%f", hit.T)
	}

	if !s.HitAny(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)) {
		t.Error("HitAny should report the sphere")
	}
	if s.HitAny(core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0)), 0.001, math.Inf(1)) {
		t.Error("upward ray should escape")
	}
}

func TestAreaLightIsHittable(t *testing.T) {
	s := NewScene(testCameraConfig())
	light := lights.NewQuadLight(
		core.NewVec3(-1, 3, -1),
		core.NewVec3(0, 0, 2),
		core.NewVec3(2, 0, 0),
		core.NewVec3(1, 1, 1), 5,
	)
	s.AddQuadLight(light)
	if err := s.Preprocess(); err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	// Dual registration: one light for sampling, one shape for intersection
	if s.Sampler.Count() != 1 {
		t.Errorf("expected 1 light, got %d", s.Sampler.Count())
	}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	hit, ok := s.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("ray at the light surface should hit")
	}
	emitter, isEmissive := hit.Material.(material.Emitter)
	if !isEmissive {
		t.Fatal("the light surface should be emissive")
	}
	if emitter.Emit(ray).MaxComponent() <= 0 {
		t.Errorf("expected positive emission, got %v", emitter.Emit(ray))
	}
}

func TestHasIllumination(t *testing.T) {
	s := NewScene(testCameraConfig())
	if s.HasIllumination() {
		t.Error("a fresh scene has no emission")
	}

	s.SetEnvironment(GradientEnvironment(core.NewVec3(1, 1, 1), core.NewVec3(0.5, 0.7, 1)))
	if !s.HasIllumination() {
		t.Error("an installed environment counts as illumination")
	}
	s.SetEnvironment(nil)
	if s.HasIllumination() {
		t.Error("clearing the environment restores the dark default")
	}

	s.AddLight(lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1), 10))
	if !s.HasIllumination() {
		t.Error("a registered light counts as illumination")
	}
}

func TestEnvironmentFunctions(t *testing.T) {
	up := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	down := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))

	if BlackEnvironment(up).MaxComponent() != 0 {
		t.Error("black environment should return no radiance")
	}

	horizon := core.NewVec3(1, 1, 1)
	zenith := core.NewVec3(0.2, 0.4, 0.8)
	env := GradientEnvironment(horizon, zenith)
	if env(up).Subtract(zenith).Length() > 1e-9 {
		t.Errorf("upward ray should return the zenith color, got %v", env(up))
	}
	if env(down).Subtract(horizon).Length() > 1e-9 {
		t.Errorf("downward ray should return the horizon color, got %v", env(down))
	}
}

func TestBuiltinScenesPreprocess(t *testing.T) {
	scenes := map[string]*Scene{
		"default": NewDefaultScene(16.0 / 9.0),
		"cornell": NewCornellScene(1.0),
		"foggy":   NewFoggyScene(16.0 / 9.0),
	}
	for name, s := range scenes {
		if err := s.Preprocess(); err != nil {
			t.Errorf("scene %s failed to preprocess: %v", name, err)
			continue
		}
		if len(s.Lights) == 0 {
			t.Errorf("scene %s has no lights", name)
		}
		if s.BVHStats().TotalNodes == 0 {
			t.Errorf("scene %s built no acceleration structure", name)
		}
	}
	if NewFoggyScene(1.0).Medium == nil {
		t.Error("foggy scene should carry a medium")
	}
}
