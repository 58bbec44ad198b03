package scene

import (
	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/geometry"
	"github.com/spectraforge/spectraforge/pkg/lights"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// NewCornellScene builds the classic Cornell box: white walls, red and
// green side walls, two boxes, and a quad light in the ceiling. The box
// spans [0, 555]³ with the camera looking down -Z.
func NewCornellScene(aspectRatio float64) *Scene {
	s := NewScene(geometry.CameraConfig{
		Center:      core.NewVec3(278, 278, -800),
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: aspectRatio,
	})

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Walls
	s.AddShape(geometry.NewQuad(core.NewVec3(555, 0, 0),
		core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), green)) // Left
	s.AddShape(geometry.NewQuad(core.NewVec3(0, 0, 0),
		core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), red)) // Right
	s.AddShape(geometry.NewQuad(core.NewVec3(0, 0, 0),
		core.NewVec3(555, 0, 0), core.NewVec3(0, 0, 555), white)) // Floor
	s.AddShape(geometry.NewQuad(core.NewVec3(0, 555, 0),
		core.NewVec3(555, 0, 0), core.NewVec3(0, 0, 555), white)) // Ceiling
	s.AddShape(geometry.NewQuad(core.NewVec3(0, 0, 555),
		core.NewVec3(555, 0, 0), core.NewVec3(0, 555, 0), white)) // Back

	// Boxes
	s.AddShape(geometry.NewBox(core.NewVec3(130, 0, 65), core.NewVec3(295, 165, 230), white))
	s.AddShape(geometry.NewBox(core.NewVec3(265, 0, 295), core.NewVec3(430, 330, 460), white))

	// Ceiling light, emitting face pointing down into the box
	s.AddQuadLight(lights.NewQuadLight(
		core.NewVec3(213, 554, 227),
		core.NewVec3(130, 0, 0),
		core.NewVec3(0, 0, 105),
		core.NewVec3(1, 0.9, 0.7), 15,
	))

	return s
}
