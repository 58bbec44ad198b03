package geometry

import (
	"fmt"
	"math"

	"github.com/spectraforge/spectraforge/pkg/core"
)

// CameraConfig holds the user-facing camera parameters
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // World up vector
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter; 0 disables depth of field
	FocusDistance float64   // Distance to the focal plane; 0 uses |LookAt - Center|
	ShutterOpen   float64   // Start of the exposure interval
	ShutterClose  float64   // End of the exposure interval
}

// Camera generates primary rays with optional depth of field and motion blur
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v            core.Vec3 // Lens plane basis for aperture sampling
	lensRadius      float64
}

// NewCamera creates a camera from the given configuration. It returns an
// error for degenerate configurations rather than producing NaN rays later.
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.VFov <= 0 || config.VFov >= 180 {
		return nil, fmt.Errorf("vertical fov must be in (0, 180), got %g", config.VFov)
	}
	if config.AspectRatio <= 0 {
		return nil, fmt.Errorf("aspect ratio must be positive, got %g", config.AspectRatio)
	}
	if config.Aperture < 0 {
		return nil, fmt.Errorf("aperture must be non-negative, got %g", config.Aperture)
	}
	if config.ShutterClose < config.ShutterOpen {
		return nil, fmt.Errorf("shutter close %g before shutter open %g", config.ShutterClose, config.ShutterOpen)
	}

	gaze := config.LookAt.Subtract(config.Center)
	if gaze.Length() < 1e-12 {
		return nil, fmt.Errorf("camera center and look-at point coincide")
	}

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = gaze.Length()
	}

	// Orthonormal camera basis: w points backwards, u right, v up
	w := gaze.Negate().Normalize()
	uCross := config.Up.Cross(w)
	if uCross.Length() < 1e-12 {
		return nil, fmt.Errorf("up vector is parallel to the viewing direction")
	}
	u := uCross.Normalize()
	v := w.Cross(u)

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		lensRadius:      config.Aperture / 2,
	}, nil
}

// GetRay generates a primary ray for the pixel (i, j) in an image of the
// given dimensions, jittered within the pixel by the sampler. Aperture
// sampling and shutter time also draw from the sampler, so rays are fully
// deterministic for a deterministic sampler.
func (c *Camera) GetRay(i, j, width, height int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	s := (float64(i) + jitter.X) / float64(width)
	t := 1.0 - (float64(j)+jitter.Y)/float64(height) // Image rows grow downward

	origin := c.origin
	if c.lensRadius > 0 {
		// Depth of field: offset the ray origin within the lens disk
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	time := c.config.ShutterOpen
	if c.config.ShutterClose > c.config.ShutterOpen {
		time += sampler.Get1D() * (c.config.ShutterClose - c.config.ShutterOpen)
	}

	return core.NewRayAt(origin, direction, time)
}
