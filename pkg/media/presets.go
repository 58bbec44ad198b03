package media

import (
	"github.com/spectraforge/spectraforge/pkg/core"
)

// NewFog creates a thin, nearly isotropic medium suitable for filling a
// whole scene with atmospheric haze. Density scales both absorption and
// scattering linearly.
func NewFog(density float64) *Medium {
	if density < 0 {
		density = 0
	}
	return NewMedium(
		core.NewVec3(0.01, 0.01, 0.01).Multiply(density),
		core.NewVec3(0.9, 0.9, 0.9).Multiply(density),
		NewHenyeyGreenstein(0.2),
	)
}

// NewSmoke creates a dense, absorbing medium with a gray tint and mild
// forward scattering
func NewSmoke(density float64) *Medium {
	if density < 0 {
		density = 0
	}
	return NewMedium(
		core.NewVec3(0.5, 0.5, 0.5).Multiply(density),
		core.NewVec3(0.4, 0.4, 0.4).Multiply(density),
		NewHenyeyGreenstein(0.4),
	)
}

// NewSubsurface creates a strongly forward-scattering interior medium tinted
// by the given color, meant to sit inside a dielectric boundary to
// approximate subsurface scattering
func NewSubsurface(tint core.Vec3, meanFreePath float64) *Medium {
	if meanFreePath < 1e-6 {
		meanFreePath = 1e-6
	}
	sigmaT := 1.0 / meanFreePath
	// Scattering albedo follows the tint; the remainder is absorbed
	sigmaS := tint.Multiply(sigmaT)
	sigmaA := core.NewVec3(sigmaT, sigmaT, sigmaT).Subtract(sigmaS)
	return NewMedium(sigmaA, sigmaS, NewHenyeyGreenstein(0.7))
}
