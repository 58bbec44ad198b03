package geometry

import (
	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// Shape is anything a ray can intersect
type Shape interface {
	// Hit tests the ray against the shape within (tMin, tMax) and returns the
	// closest interaction, if any
	Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool)
	// BoundingBox returns the axis-aligned bounds of the shape
	BoundingBox() core.AABB
}

// ShapeList is a flat list of shapes tested by brute force. Small scenes and
// tests use it directly; larger scenes go through the BVH.
type ShapeList struct {
	Shapes []Shape
}

// NewShapeList creates a list from the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends a shape to the list
func (sl *ShapeList) Add(shape Shape) {
	sl.Shapes = append(sl.Shapes, shape)
}

// Hit returns the closest intersection across all shapes
func (sl *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	var closest *material.SurfaceInteraction
	closestT := tMax

	for i, shape := range sl.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closestT); ok {
			hit.PrimitiveID = i
			closest = hit
			closestT = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the union of all shape bounds
func (sl *ShapeList) BoundingBox() core.AABB {
	if len(sl.Shapes) == 0 {
		return core.NewAABB(core.Vec3{}, core.Vec3{})
	}
	box := sl.Shapes[0].BoundingBox()
	for _, shape := range sl.Shapes[1:] {
		box = box.Union(shape.BoundingBox())
	}
	return box
}
