package integrator

import (
	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/scene"
)

// AuxRecord captures first-hit geometry for the auxiliary buffers consumed
// by external denoisers
type AuxRecord struct {
	Albedo      core.Vec3 // Base color of the first visible surface
	Normal      core.Vec3 // Shading normal of the first visible surface
	Depth       float64   // Distance to the first visible surface
	PrimitiveID int       // Identifier of the first visible primitive
	Valid       bool      // False when the ray escaped without hitting anything
}

// Integrator estimates the radiance arriving along a single ray
type Integrator interface {
	// RayColor traces the ray through the scene and returns one unbiased
	// radiance sample. When aux is non-nil, first-hit geometry is recorded
	// into it.
	RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler, aux *AuxRecord) core.Vec3
}

// PathTracingConfig controls path termination
type PathTracingConfig struct {
	MaxDepth        int     // Hard cap on path length
	MinRRDepth      int     // Bounces before Russian roulette may terminate paths
	RRSurvivalMin   float64 // Floor for the roulette survival probability
	RussianRoulette bool    // Disable for fixed-length paths in tests
}

// DefaultPathTracingConfig returns sensible production settings
func DefaultPathTracingConfig() PathTracingConfig {
	return PathTracingConfig{
		MaxDepth:        12,
		MinRRDepth:      3,
		RRSurvivalMin:   0.05,
		RussianRoulette: true,
	}
}
