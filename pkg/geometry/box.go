package geometry

import (
	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// Box is an axis-aligned box built from six quads
type Box struct {
	Min, Max core.Vec3
	Material material.Material
	faces    *ShapeList
}

// NewBox creates an axis-aligned box spanning the two corner points
func NewBox(min, max core.Vec3, mat material.Material) *Box {
	box := &Box{Min: min, Max: max, Material: mat}

	dx := core.NewVec3(max.X-min.X, 0, 0)
	dy := core.NewVec3(0, max.Y-min.Y, 0)
	dz := core.NewVec3(0, 0, max.Z-min.Z)

	box.faces = NewShapeList(
		NewQuad(core.NewVec3(min.X, min.Y, max.Z), dx, dy, mat),          // Front
		NewQuad(core.NewVec3(max.X, min.Y, min.Z), dx.Negate(), dy, mat), // Back
		NewQuad(core.NewVec3(max.X, min.Y, max.Z), dz.Negate(), dy, mat), // Right
		NewQuad(core.NewVec3(min.X, min.Y, min.Z), dz, dy, mat),          // Left
		NewQuad(core.NewVec3(min.X, max.Y, max.Z), dx, dz.Negate(), mat), // Top
		NewQuad(core.NewVec3(min.X, min.Y, min.Z), dx, dz, mat),          // Bottom
	)

	return box
}

// Hit tests the ray against the six faces
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	return b.faces.Hit(ray, tMin, tMax)
}

// BoundingBox returns the exact bounds of the box
func (b *Box) BoundingBox() core.AABB {
	return core.NewAABB(b.Min, b.Max)
}
