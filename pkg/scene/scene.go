package scene

import (
	"fmt"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/geometry"
	"github.com/spectraforge/spectraforge/pkg/lights"
	"github.com/spectraforge/spectraforge/pkg/material"
	"github.com/spectraforge/spectraforge/pkg/media"
)

// EnvironmentFunc returns the radiance arriving from the environment for a
// ray that escapes the scene
type EnvironmentFunc func(ray core.Ray) core.Vec3

// Scene holds everything needed to render one image: geometry, lights,
// camera, optional participating medium, and the environment. Preprocess
// must run before the first ray query; after that the scene is immutable
// and safe for concurrent reads.
type Scene struct {
	CameraConfig geometry.CameraConfig
	Camera       *geometry.Camera

	Shapes      []geometry.Shape
	Lights      []lights.Light
	Sampler     *lights.PowerLightSampler
	Medium      *media.Medium // Optional scene-global medium (fog)
	Environment EnvironmentFunc

	bvh         *geometry.BVH
	unbounded   []geometry.Shape // Infinite shapes kept out of the BVH
	envEmissive bool             // True once a caller installed an environment
	prepared    bool
}

// Shapes with bounds beyond this extent are treated as unbounded and tested
// linearly instead of through the BVH, where they would collapse every
// subtree's bounds into one giant box.
const unboundedExtent = 1e7

// NewScene creates an empty scene with the given camera configuration
func NewScene(cameraConfig geometry.CameraConfig) *Scene {
	return &Scene{
		CameraConfig: cameraConfig,
		Environment:  BlackEnvironment,
	}
}

// AddShape registers a shape for ray intersection
func (s *Scene) AddShape(shape geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)
	s.prepared = false
}

// AddLight registers a delta light (point or directional). Area lights
// should go through AddQuadLight or AddSphereLight instead so their
// surfaces are also hittable.
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
	s.prepared = false
}

// AddQuadLight registers a rectangular area light both as a light (for
// next-event estimation) and as a shape (so scattered rays hit its
// emissive surface)
func (s *Scene) AddQuadLight(light *lights.QuadLight) {
	s.Lights = append(s.Lights, light)
	s.Shapes = append(s.Shapes, light)
	s.prepared = false
}

// AddSphereLight registers a spherical area light as both light and shape
func (s *Scene) AddSphereLight(light *lights.SphereLight) {
	s.Lights = append(s.Lights, light)
	s.Shapes = append(s.Shapes, light)
	s.prepared = false
}

// AddMesh registers every face of a triangle mesh as an individual shape so
// the BVH partitions inside the mesh
func (s *Scene) AddMesh(mesh *geometry.TriangleMesh) {
	s.Shapes = append(s.Shapes, mesh.Triangles()...)
	s.prepared = false
}

// SetMedium installs a scene-global participating medium
func (s *Scene) SetMedium(medium *media.Medium) {
	s.Medium = medium
}

// SetEnvironment installs the escape-radiance function. Passing nil
// restores the black default.
func (s *Scene) SetEnvironment(env EnvironmentFunc) {
	if env == nil {
		s.Environment = BlackEnvironment
		s.envEmissive = false
		return
	}
	s.Environment = env
	s.envEmissive = true
}

// HasIllumination reports whether anything in the scene can emit light: a
// registered light (emissive geometry goes through AddQuadLight and
// AddSphereLight) or an installed environment. A scene without either can
// only render black.
func (s *Scene) HasIllumination() bool {
	return len(s.Lights) > 0 || s.envEmissive
}

// Preprocess builds the camera, the acceleration structure and the light
// selection distribution. It must be called after the scene is assembled
// and before any rays are traced.
func (s *Scene) Preprocess() error {
	camera, err := geometry.NewCamera(s.CameraConfig)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	s.Camera = camera

	var bounded []geometry.Shape
	s.unbounded = nil
	for _, shape := range s.Shapes {
		size := shape.BoundingBox().Size()
		if size.MaxComponent() > unboundedExtent {
			s.unbounded = append(s.unbounded, shape)
		} else {
			bounded = append(bounded, shape)
		}
	}

	s.bvh = nil
	if len(bounded) > 0 {
		bvh, err := geometry.NewBVH(bounded)
		if err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		s.bvh = bvh
	}

	s.Sampler = lights.NewPowerLightSampler(s.Lights)
	if s.Environment == nil {
		s.Environment = BlackEnvironment
	}

	s.prepared = true
	return nil
}

// Prepared reports whether Preprocess has run since the last mutation
func (s *Scene) Prepared() bool {
	return s.prepared
}

// Hit returns the closest surface intersection along the ray
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	var closest *material.SurfaceInteraction
	closestT := tMax

	if s.bvh != nil {
		if hit, ok := s.bvh.Hit(ray, tMin, closestT); ok {
			closest = hit
			closestT = hit.T
		}
	}
	for _, shape := range s.unbounded {
		if hit, ok := shape.Hit(ray, tMin, closestT); ok {
			closest = hit
			closestT = hit.T
		}
	}

	return closest, closest != nil
}

// HitAny reports whether any surface occludes the ray within (tMin, tMax).
// Shadow queries use this instead of Hit to exit on the first intersection.
func (s *Scene) HitAny(ray core.Ray, tMin, tMax float64) bool {
	if s.bvh != nil && s.bvh.HitAny(ray, tMin, tMax) {
		return true
	}
	for _, shape := range s.unbounded {
		if _, ok := shape.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	return false
}

// BVHStats returns acceleration structure statistics for diagnostics.
// Returns the zero value when the scene has no bounded shapes.
func (s *Scene) BVHStats() geometry.Stats {
	if s.bvh == nil {
		return geometry.Stats{}
	}
	return s.bvh.Stats()
}

// BlackEnvironment is the default: escaping rays carry no radiance
func BlackEnvironment(ray core.Ray) core.Vec3 {
	return core.Vec3{}
}

// GradientEnvironment returns a vertical gradient between a horizon and a
// zenith color, the classic clear-sky background
func GradientEnvironment(horizon, zenith core.Vec3) EnvironmentFunc {
	return func(ray core.Ray) core.Vec3 {
		t := 0.5 * (ray.Direction.Normalize().Y + 1.0)
		return horizon.Multiply(1.0 - t).Add(zenith.Multiply(t))
	}
}
