package geometry

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// Cylinder is a capped cylinder aligned with the Y axis. Center is the
// midpoint of the axis segment.
type Cylinder struct {
	Center   core.Vec3
	Radius   float64
	Height   float64
	Material material.Material
}

// NewCylinder creates a capped Y-axis aligned cylinder
func NewCylinder(center core.Vec3, radius, height float64, mat material.Material) *Cylinder {
	return &Cylinder{Center: center, Radius: radius, Height: height, Material: mat}
}

// Hit tests the side surface and both caps, returning the closest
// intersection
func (c *Cylinder) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	yMin := c.Center.Y - c.Height/2
	yMax := c.Center.Y + c.Height/2

	var best *material.SurfaceInteraction
	closest := tMax

	// Side: project onto the XZ plane and solve the circle quadratic
	oc := ray.Origin.Subtract(c.Center)
	a := ray.Direction.X*ray.Direction.X + ray.Direction.Z*ray.Direction.Z
	halfB := oc.X*ray.Direction.X + oc.Z*ray.Direction.Z
	cc := oc.X*oc.X + oc.Z*oc.Z - c.Radius*c.Radius

	if a > 1e-12 {
		discriminant := halfB*halfB - a*cc
		if discriminant >= 0 {
			sqrtD := math.Sqrt(discriminant)
			for _, root := range []float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
				if root < tMin || root > closest {
					continue
				}
				point := ray.At(root)
				if point.Y < yMin || point.Y > yMax {
					continue
				}
				outwardNormal := core.NewVec3(point.X-c.Center.X, 0, point.Z-c.Center.Z).Multiply(1.0 / c.Radius)
				hit := &material.SurfaceInteraction{
					T:        root,
					Point:    point,
					UV:       c.sideUV(point, yMin),
					Material: c.Material,
				}
				hit.SetFaceNormal(ray, outwardNormal)
				best = hit
				closest = root
				break // Roots are ordered, the first in range is the closest
			}
		}
	}

	// Caps: intersect the two bounding planes and test the disk radius
	for _, disk := range []struct {
		y      float64
		normal core.Vec3
	}{
		{yMax, core.NewVec3(0, 1, 0)},
		{yMin, core.NewVec3(0, -1, 0)},
	} {
		if math.Abs(ray.Direction.Y) < 1e-12 {
			continue
		}
		root := (disk.y - ray.Origin.Y) / ray.Direction.Y
		if root < tMin || root > closest {
			continue
		}
		point := ray.At(root)
		dx := point.X - c.Center.X
		dz := point.Z - c.Center.Z
		if dx*dx+dz*dz > c.Radius*c.Radius {
			continue
		}
		hit := &material.SurfaceInteraction{
			T:     root,
			Point: point,
			UV: core.NewVec2(
				(dx/c.Radius+1)/2,
				(dz/c.Radius+1)/2,
			),
			Material: c.Material,
		}
		hit.SetFaceNormal(ray, disk.normal)
		best = hit
		closest = root
	}

	return best, best != nil
}

// BoundingBox returns the axis-aligned bounding box for this cylinder
func (c *Cylinder) BoundingBox() core.AABB {
	extent := core.NewVec3(c.Radius, c.Height/2, c.Radius)
	return core.NewAABB(c.Center.Subtract(extent), c.Center.Add(extent))
}

// sideUV maps a point on the side surface: u from the azimuth, v from the
// height along the axis
func (c *Cylinder) sideUV(point core.Vec3, yMin float64) core.Vec2 {
	phi := math.Atan2(point.Z-c.Center.Z, point.X-c.Center.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), (point.Y-yMin)/c.Height)
}
