package material

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// ColorSource supplies a color for a surface point. Textured sources look up
// by UV; the core never decodes image files itself.
type ColorSource interface {
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor is a constant color source
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the constant color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// TextureFunc adapts an external UV→color lookup into a ColorSource.
// Image decoding lives with the collaborator that provides the function.
type TextureFunc func(uv core.Vec2) core.Vec3

// Evaluate calls the wrapped lookup
func (f TextureFunc) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return f(uv)
}

// CheckerTexture is a procedural checker pattern in world space
type CheckerTexture struct {
	Odd   core.Vec3
	Even  core.Vec3
	Scale float64
}

// NewCheckerTexture creates a checker texture with the given colors and scale
func NewCheckerTexture(even, odd core.Vec3, scale float64) *CheckerTexture {
	return &CheckerTexture{Even: even, Odd: odd, Scale: scale}
}

// Evaluate returns the checker color for the given world position
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	sines := math.Sin(c.Scale*point.X) * math.Sin(c.Scale*point.Y) * math.Sin(c.Scale*point.Z)
	if sines < 0 {
		return c.Odd
	}
	return c.Even
}
