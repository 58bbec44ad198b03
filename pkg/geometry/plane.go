package geometry

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// Plane represents an infinite plane
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal of the plane
	Material material.Material

	// Cached in-plane axes for UV mapping
	uAxis core.Vec3
	vAxis core.Vec3
}

// NewPlane creates a new infinite plane
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	n := normal.Normalize()
	u, v := core.OrthonormalBasis(n)
	return &Plane{Point: point, Normal: n, Material: mat, uAxis: u, vAxis: v}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	local := point.Subtract(p.Point)

	hit := &material.SurfaceInteraction{
		T:        t,
		Point:    point,
		UV:       core.NewVec2(local.Dot(p.uAxis), local.Dot(p.vAxis)),
		Material: p.Material,
	}
	hit.SetFaceNormal(ray, p.Normal)

	return hit, true
}

// BoundingBox returns a large but finite box; infinite planes cannot be
// bounded exactly, so they bypass the BVH and are tested directly
func (p *Plane) BoundingBox() core.AABB {
	const extent = 1e8
	return core.NewAABB(
		core.NewVec3(-extent, -extent, -extent),
		core.NewVec3(extent, extent, extent),
	)
}
