package media

import (
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// PhaseFunction describes the angular distribution of light scattered at a
// point inside a participating medium. Directions follow the ray convention:
// incomingDir points along the ray into the scattering event, outgoingDir
// points away from it.
type PhaseFunction interface {
	// Sample draws an outgoing direction and returns it with its PDF
	Sample(incomingDir core.Vec3, sample core.Vec2) (outgoingDir core.Vec3, pdf float64)
	// PDF evaluates the density of sampling outgoingDir given incomingDir
	PDF(incomingDir, outgoingDir core.Vec3) float64
}

// Isotropic scatters uniformly over the sphere
type Isotropic struct{}

// NewIsotropic creates a uniform phase function
func NewIsotropic() *Isotropic {
	return &Isotropic{}
}

// Sample draws a uniform direction on the unit sphere
func (iso *Isotropic) Sample(incomingDir core.Vec3, sample core.Vec2) (core.Vec3, float64) {
	return core.SampleOnUnitSphere(sample), 1.0 / (4.0 * math.Pi)
}

// PDF is constant over the sphere
func (iso *Isotropic) PDF(incomingDir, outgoingDir core.Vec3) float64 {
	return 1.0 / (4.0 * math.Pi)
}

// HenyeyGreenstein is the standard one-parameter anisotropic phase function.
// The asymmetry parameter g lies in (-1, 1): positive values favor forward
// scattering, negative values favor back scattering, zero is isotropic.
type HenyeyGreenstein struct {
	G float64
}

// NewHenyeyGreenstein creates an anisotropic phase function, clamping g away
// from the +-1 singularities
func NewHenyeyGreenstein(g float64) *HenyeyGreenstein {
	const limit = 0.999
	if g > limit {
		g = limit
	}
	if g < -limit {
		g = -limit
	}
	return &HenyeyGreenstein{G: g}
}

// phase evaluates the HG distribution for a given cosine between directions
func (hg *HenyeyGreenstein) phase(cosTheta float64) float64 {
	g2 := hg.G * hg.G
	denom := 1.0 + g2 - 2.0*hg.G*cosTheta
	return (1.0 - g2) / (4.0 * math.Pi * denom * math.Sqrt(denom))
}

// Sample draws an outgoing direction by inverting the HG CDF in cos(θ)
// around the incoming direction, with uniform azimuth
func (hg *HenyeyGreenstein) Sample(incomingDir core.Vec3, sample core.Vec2) (core.Vec3, float64) {
	forward := incomingDir.Normalize()

	var cosTheta float64
	if math.Abs(hg.G) < 1e-3 {
		cosTheta = 1.0 - 2.0*sample.X
	} else {
		sq := (1.0 - hg.G*hg.G) / (1.0 - hg.G + 2.0*hg.G*sample.X)
		cosTheta = (1.0 + hg.G*hg.G - sq*sq) / (2.0 * hg.G)
	}

	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	tangent, bitangent := core.OrthonormalBasis(forward)
	outgoing := tangent.Multiply(sinTheta * math.Cos(phi)).
		Add(bitangent.Multiply(sinTheta * math.Sin(phi))).
		Add(forward.Multiply(cosTheta))

	return outgoing, hg.phase(cosTheta)
}

// PDF evaluates the HG distribution; for phase functions the PDF equals the
// normalized phase value itself
func (hg *HenyeyGreenstein) PDF(incomingDir, outgoingDir core.Vec3) float64 {
	cosTheta := incomingDir.Normalize().Dot(outgoingDir.Normalize())
	return hg.phase(cosTheta)
}
