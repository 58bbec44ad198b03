package geometry

import (
	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// Triangle represents a single triangle with optional per-vertex shading
// normals and UVs. Zero-value normals fall back to the face normal.
type Triangle struct {
	V0, V1, V2 core.Vec3 // Vertices
	N0, N1, N2 core.Vec3 // Optional per-vertex normals for smooth shading
	UV0        core.Vec2 // Optional per-vertex texture coordinates
	UV1        core.Vec2
	UV2        core.Vec2
	Material   material.Material

	faceNormal core.Vec3
	smooth     bool
}

// NewTriangle creates a flat-shaded triangle
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Material: mat}
	t.faceNormal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return t
}

// NewSmoothTriangle creates a triangle with interpolated vertex normals
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, mat material.Material) *Triangle {
	t := NewTriangle(v0, v1, v2, mat)
	t.N0, t.N1, t.N2 = n0, n1, n2
	t.smooth = true
	return t
}

// SetUVs assigns per-vertex texture coordinates
func (t *Triangle) SetUVs(uv0, uv1, uv2 core.Vec2) {
	t.UV0, t.UV1, t.UV2 = uv0, uv1, uv2
}

// Hit tests if a ray intersects the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray parallel to the triangle plane
	if a > -1e-12 && a < 1e-12 {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return nil, false
	}

	root := f * edge2.Dot(q)
	if root < tMin || root > tMax {
		return nil, false
	}

	// Barycentric interpolation of shading attributes
	w := 1.0 - u - v
	normal := t.faceNormal
	if t.smooth {
		normal = t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	}
	uv := core.NewVec2(
		w*t.UV0.X+u*t.UV1.X+v*t.UV2.X,
		w*t.UV0.Y+u*t.UV1.Y+v*t.UV2.Y,
	)

	hit := &material.SurfaceInteraction{
		T:        root,
		Point:    ray.At(root),
		UV:       uv,
		Material: t.Material,
	}
	hit.SetFaceNormal(ray, normal)
	hit.GeoNormal = t.faceNormal

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle,
// padded slightly so degenerate thin triangles remain hittable
func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2).Expand(1e-4)
}
