package scene

import (
	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/geometry"
	"github.com/spectraforge/spectraforge/pkg/lights"
	"github.com/spectraforge/spectraforge/pkg/material"
	"github.com/spectraforge/spectraforge/pkg/media"
)

// NewDefaultScene builds the showcase scene: a checkered ground plane with
// one sphere per material kind under a sphere light and a gradient sky
func NewDefaultScene(aspectRatio float64) *Scene {
	s := NewScene(geometry.CameraConfig{
		Center:      core.NewVec3(0, 2, 6),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: aspectRatio,
	})

	ground := material.NewTexturedLambertian(
		material.NewCheckerTexture(core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.2, 0.3, 0.2), 2.0))
	s.AddShape(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), ground))

	s.AddShape(geometry.NewSphere(core.NewVec3(-2.5, 1, 0), 1,
		material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))))
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 1, 0), 1,
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.05)))
	s.AddShape(geometry.NewSphere(core.NewVec3(2.5, 1, 0), 1,
		material.NewDielectric(1.5)))
	s.AddShape(geometry.NewSphere(core.NewVec3(-1.2, 0.5, 1.8), 0.5,
		material.NewPBR(core.NewVec3(0.9, 0.6, 0.2), 1.0, 0.3)))
	s.AddShape(geometry.NewSphere(core.NewVec3(1.2, 0.5, 1.8), 0.5,
		material.NewSubsurfaceDielectric(1.3, media.NewSubsurface(core.NewVec3(0.8, 0.4, 0.3), 0.3))))
	s.AddShape(geometry.NewCylinder(core.NewVec3(-4.2, 0.75, 1.2), 0.4, 1.5,
		material.NewMetal(core.NewVec3(0.9, 0.7, 0.3), 0.2)))
	s.AddShape(geometry.NewCone(core.NewVec3(4.2, 0, 1.2), 0.6, 1.8,
		material.NewLambertian(core.NewVec3(0.3, 0.5, 0.7))))

	s.AddSphereLight(lights.NewSphereLight(core.NewVec3(0, 6, 2), 0.8, core.NewVec3(1, 0.95, 0.9), 20))
	s.AddLight(lights.NewDirectionalLight(core.NewVec3(-0.4, -1, -0.3), core.NewVec3(1, 0.97, 0.9), 0.5))

	s.SetEnvironment(GradientEnvironment(core.NewVec3(1, 1, 1), core.NewVec3(0.5, 0.7, 1.0)))
	return s
}

// NewFoggyScene wraps the default scene in a thin global medium
func NewFoggyScene(aspectRatio float64) *Scene {
	s := NewDefaultScene(aspectRatio)
	s.SetMedium(media.NewFog(0.05))
	return s
}
