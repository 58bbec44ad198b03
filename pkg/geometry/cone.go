package geometry

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// Cone is a capped cone aligned with the Y axis: a base disk of the given
// radius centered at Base, tapering to an apex Height above it.
type Cone struct {
	Base     core.Vec3
	Radius   float64
	Height   float64
	Material material.Material
}

// NewCone creates a Y-axis aligned cone with a base cap
func NewCone(base core.Vec3, radius, height float64, mat material.Material) *Cone {
	return &Cone{Base: base, Radius: radius, Height: height, Material: mat}
}

// Hit tests the lateral surface and the base cap
func (c *Cone) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	apex := c.Base.Add(core.NewVec3(0, c.Height, 0))
	k := c.Radius / c.Height
	k2 := k * k

	var best *material.SurfaceInteraction
	closest := tMax

	// Lateral surface: x² + z² = k²(apexY − y)² with the apex as origin
	oc := ray.Origin.Subtract(apex)
	d := ray.Direction
	a := d.X*d.X + d.Z*d.Z - k2*d.Y*d.Y
	halfB := oc.X*d.X + oc.Z*d.Z - k2*oc.Y*d.Y
	cc := oc.X*oc.X + oc.Z*oc.Z - k2*oc.Y*oc.Y

	if math.Abs(a) > 1e-12 {
		discriminant := halfB*halfB - a*cc
		if discriminant >= 0 {
			sqrtD := math.Sqrt(discriminant)
			roots := []float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a}
			if roots[0] > roots[1] {
				roots[0], roots[1] = roots[1], roots[0]
			}
			for _, root := range roots {
				if root < tMin || root > closest {
					continue
				}
				point := ray.At(root)
				if point.Y < c.Base.Y || point.Y > apex.Y {
					continue
				}
				// Normal: radial direction tilted up by the slope
				radial := core.NewVec3(point.X-c.Base.X, 0, point.Z-c.Base.Z)
				if radial.Length() < 1e-12 {
					continue // Apex point, degenerate normal
				}
				outwardNormal := radial.Normalize().Add(core.NewVec3(0, k, 0)).Normalize()
				hit := &material.SurfaceInteraction{
					T:        root,
					Point:    point,
					UV:       c.sideUV(point),
					Material: c.Material,
				}
				hit.SetFaceNormal(ray, outwardNormal)
				best = hit
				closest = root
				break
			}
		}
	}

	// Base cap
	if math.Abs(ray.Direction.Y) > 1e-12 {
		root := (c.Base.Y - ray.Origin.Y) / ray.Direction.Y
		if root >= tMin && root <= closest {
			point := ray.At(root)
			dx := point.X - c.Base.X
			dz := point.Z - c.Base.Z
			if dx*dx+dz*dz <= c.Radius*c.Radius {
				hit := &material.SurfaceInteraction{
					T:     root,
					Point: point,
					UV: core.NewVec2(
						(dx/c.Radius+1)/2,
						(dz/c.Radius+1)/2,
					),
					Material: c.Material,
				}
				hit.SetFaceNormal(ray, core.NewVec3(0, -1, 0))
				best = hit
			}
		}
	}

	return best, best != nil
}

// BoundingBox returns the axis-aligned bounding box for this cone
func (c *Cone) BoundingBox() core.AABB {
	return core.NewAABB(
		c.Base.Subtract(core.NewVec3(c.Radius, 0, c.Radius)),
		c.Base.Add(core.NewVec3(c.Radius, c.Height, c.Radius)),
	)
}

// sideUV maps a point on the lateral surface: u from the azimuth, v from
// the height fraction
func (c *Cone) sideUV(point core.Vec3) core.Vec2 {
	phi := math.Atan2(point.Z-c.Base.Z, point.X-c.Base.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), (point.Y-c.Base.Y)/c.Height)
}
