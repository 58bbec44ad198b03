package geometry

import (
	"math"
	"testing"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

func TestCylinderSideHit(t *testing.T) {
	cyl := NewCylinder(core.NewVec3(0, 0, 0), 1, 2,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	ray := core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0))
	hit, ok := cyl.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a side hit")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("expected t=4, got %f", hit.T)
	}
	if hit.Normal.Subtract(core.NewVec3(1, 0, 0)).Length() > 1e-9 {
		t.Errorf("expected normal +X, got %v", hit.Normal)
	}
}

func TestCylinderCapHit(t *testing.T) {
	cyl := NewCylinder(core.NewVec3(0, 0, 0), 1, 2,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	ray := core.NewRay(core.NewVec3(0.5, 5, 0), core.NewVec3(0, -1, 0))
	hit, ok := cyl.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a top cap hit")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("expected t=4 at the top cap, got %f", hit.T)
	}
	if hit.Normal.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("expected normal +Y, got %v", hit.Normal)
	}
}

func TestCylinderMisses(t *testing.T) {
	cyl := NewCylinder(core.NewVec3(0, 0, 0), 1, 2,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	// Above the side surface
	if _, ok := cyl.Hit(core.NewRay(core.NewVec3(5, 3, 0), core.NewVec3(-1, 0, 0)), 0.001, math.Inf(1)); ok {
		t.Error("ray above the cylinder should miss")
	}
	// Beside the caps
	if _, ok := cyl.Hit(core.NewRay(core.NewVec3(2, 5, 0), core.NewVec3(0, -1, 0)), 0.001, math.Inf(1)); ok {
		t.Error("ray outside the cap radius should miss")
	}
	// Hit beyond tMax
	if _, ok := cyl.Hit(core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0)), 0.001, 1.0); ok {
		t.Error("hit beyond tMax should be rejected")
	}
}

func TestCylinderBoundingBox(t *testing.T) {
	cyl := NewCylinder(core.NewVec3(1, 2, 3), 0.5, 4,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	box := cyl.BoundingBox()
	if box.Min.Subtract(core.NewVec3(0.5, 0, 2.5)).Length() > 1e-9 ||
		box.Max.Subtract(core.NewVec3(1.5, 4, 3.5)).Length() > 1e-9 {
		t.Errorf("unexpected bounds %v - %v", box.Min, box.Max)
	}
}

func TestConeSideHit(t *testing.T) {
	cone := NewCone(core.NewVec3(0, 0, 0), 1, 2,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	// Aim at half height, where the radius is 0.5
	ray := core.NewRay(core.NewVec3(5, 1, 0), core.NewVec3(-1, 0, 0))
	hit, ok := cone.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a lateral hit")
	}
	if math.Abs(hit.T-4.5) > 1e-9 {
		t.Errorf("expected t=4.5 at half height, got %f", hit.T)
	}
	// The lateral normal tilts upward for an upward-tapering cone
	if hit.Normal.Y <= 0 {
		t.Errorf("expected an upward-tilted normal, got %v", hit.Normal)
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("normal not normalized: %v", hit.Normal)
	}
}

func TestConeBaseHit(t *testing.T) {
	cone := NewCone(core.NewVec3(0, 0, 0), 1, 2,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	ray := core.NewRay(core.NewVec3(0.5, -5, 0), core.NewVec3(0, 1, 0))
	hit, ok := cone.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a base cap hit")
	}
	if math.Abs(hit.T-5.0) > 1e-9 {
		t.Errorf("expected t=5 at the base, got %f", hit.T)
	}
}

func TestConeMissesMirrorCone(t *testing.T) {
	cone := NewCone(core.NewVec3(0, 0, 0), 1, 2,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	// The algebraic double cone extends above the apex; rays there must miss
	if _, ok := cone.Hit(core.NewRay(core.NewVec3(5, 3, 0), core.NewVec3(-1, 0, 0)), 0.001, math.Inf(1)); ok {
		t.Error("ray through the mirror cone region should miss")
	}
	if _, ok := cone.Hit(core.NewRay(core.NewVec3(5, -1, 0), core.NewVec3(-1, 0, 0)), 0.001, math.Inf(1)); ok {
		t.Error("ray below the base should miss")
	}
}

func TestConeBoundingBox(t *testing.T) {
	cone := NewCone(core.NewVec3(0, 1, 0), 2, 3,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	box := cone.BoundingBox()
	if box.Min.Subtract(core.NewVec3(-2, 1, -2)).Length() > 1e-9 ||
		box.Max.Subtract(core.NewVec3(2, 4, 2)).Length() > 1e-9 {
		t.Errorf("unexpected bounds %v - %v", box.Min, box.Max)
	}
}
