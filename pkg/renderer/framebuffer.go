package renderer

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/integrator"
)

// PixelStats accumulates radiance samples for one pixel using Welford's
// online algorithm, so the mean and variance are available at any time
// without storing individual samples
type PixelStats struct {
	Mean        core.Vec3 // Running mean color
	m2          float64   // Sum of squared luminance deviations
	lumMean     float64   // Running mean luminance
	SampleCount int
}

// AddSample folds one radiance sample into the running statistics
func (ps *PixelStats) AddSample(sample core.Vec3) {
	ps.SampleCount++
	n := float64(ps.SampleCount)

	ps.Mean = ps.Mean.Add(sample.Subtract(ps.Mean).Multiply(1.0 / n))

	lum := sample.Luminance()
	delta := lum - ps.lumMean
	ps.lumMean += delta / n
	ps.m2 += delta * (lum - ps.lumMean)
}

// Variance returns the sample variance of the pixel's luminance
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return math.Inf(1)
	}
	return ps.m2 / float64(ps.SampleCount-1)
}

// RelativeError returns the coefficient of variation of the luminance mean,
// the adaptive sampling convergence metric
func (ps *PixelStats) RelativeError() float64 {
	if ps.SampleCount < 2 {
		return math.Inf(1)
	}
	if ps.lumMean <= 1e-8 {
		// Dark pixels: converged once the variance itself is negligible
		if ps.Variance() < 1e-6 {
			return 0
		}
		return math.Inf(1)
	}
	standardError := math.Sqrt(ps.Variance() / float64(ps.SampleCount))
	return standardError / ps.lumMean
}

// Framebuffer stores per-pixel radiance statistics plus the auxiliary
// buffers (albedo, normal, depth, primitive ID) recorded at the first
// sample. Workers render disjoint tiles, so per-pixel access needs no
// locking.
type Framebuffer struct {
	Width, Height int
	pixels        []PixelStats
	albedo        []core.Vec3
	normal        []core.Vec3
	depth         []float64
	primitiveID   []int32
}

// NewFramebuffer allocates a framebuffer for the given image size
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:       width,
		Height:      height,
		pixels:      make([]PixelStats, width*height),
		albedo:      make([]core.Vec3, width*height),
		normal:      make([]core.Vec3, width*height),
		depth:       make([]float64, width*height),
		primitiveID: make([]int32, width*height),
	}
	for i := range fb.primitiveID {
		fb.primitiveID[i] = -1
		fb.depth[i] = math.Inf(1)
	}
	return fb
}

func (fb *Framebuffer) index(x, y int) int {
	return y*fb.Width + x
}

// Pixel returns the statistics accumulator for a pixel
func (fb *Framebuffer) Pixel(x, y int) *PixelStats {
	return &fb.pixels[fb.index(x, y)]
}

// AddSample records a radiance sample and, on the pixel's first sample,
// the auxiliary first-hit geometry
func (fb *Framebuffer) AddSample(x, y int, sample core.Vec3, aux *integrator.AuxRecord) {
	idx := fb.index(x, y)
	if fb.pixels[idx].SampleCount == 0 && aux != nil && aux.Valid {
		fb.albedo[idx] = aux.Albedo
		fb.normal[idx] = aux.Normal
		fb.depth[idx] = aux.Depth
		fb.primitiveID[idx] = int32(aux.PrimitiveID)
	}
	fb.pixels[idx].AddSample(sample)
}

// Color returns the current mean radiance for a pixel
func (fb *Framebuffer) Color(x, y int) core.Vec3 {
	return fb.pixels[fb.index(x, y)].Mean
}

// Albedo returns the first-hit base color for a pixel
func (fb *Framebuffer) Albedo(x, y int) core.Vec3 {
	return fb.albedo[fb.index(x, y)]
}

// Normal returns the first-hit shading normal for a pixel
func (fb *Framebuffer) Normal(x, y int) core.Vec3 {
	return fb.normal[fb.index(x, y)]
}

// Depth returns the first-hit distance for a pixel (+Inf for escaped rays)
func (fb *Framebuffer) Depth(x, y int) float64 {
	return fb.depth[fb.index(x, y)]
}

// PrimitiveID returns the first-hit primitive identifier, -1 for none
func (fb *Framebuffer) PrimitiveID(x, y int) int32 {
	return fb.primitiveID[fb.index(x, y)]
}

// TotalSamples sums the sample counts of all pixels
func (fb *Framebuffer) TotalSamples() int64 {
	var total int64
	for i := range fb.pixels {
		total += int64(fb.pixels[i].SampleCount)
	}
	return total
}

// ToImage converts the mean radiance to an 8-bit image with the given
// gamma, clamping to [0, 1] first
func (fb *Framebuffer) ToImage(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Color(x, y).Clamp(0, 1).GammaCorrect(gamma)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255.0 + 0.5),
				G: uint8(c.Y*255.0 + 0.5),
				B: uint8(c.Z*255.0 + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// Raw HDR dump header magic: "SFFB" plus a format version byte
var rawMagic = [5]byte{'S', 'F', 'F', 'B', 1}

// WriteRaw streams the uncompressed radiance means as gzip-compressed
// little-endian float64 RGB triples in row-major order, preceded by a
// small header with the image dimensions. This is the lossless export
// consumed by external denoisers and tooling.
func (fb *Framebuffer) WriteRaw(w io.Writer) error {
	zw := gzip.NewWriter(w)

	if _, err := zw.Write(rawMagic[:]); err != nil {
		return err
	}
	header := []uint32{uint32(fb.Width), uint32(fb.Height)}
	if err := binary.Write(zw, binary.LittleEndian, header); err != nil {
		return err
	}

	row := make([]float64, fb.Width*3)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Color(x, y)
			row[x*3+0] = c.X
			row[x*3+1] = c.Y
			row[x*3+2] = c.Z
		}
		if err := binary.Write(zw, binary.LittleEndian, row); err != nil {
			return err
		}
	}

	return zw.Close()
}

// ReadRawHeader validates a raw dump's magic bytes and returns its
// dimensions, for tooling that consumes WriteRaw output
func ReadRawHeader(r io.Reader) (width, height int, err error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return 0, 0, err
	}

	var magic [5]byte
	if _, err := io.ReadFull(zr, magic[:]); err != nil {
		return 0, 0, err
	}
	if magic != rawMagic {
		return 0, 0, io.ErrUnexpectedEOF
	}

	var header [2]uint32
	if err := binary.Read(zr, binary.LittleEndian, &header); err != nil {
		return 0, 0, err
	}
	return int(header[0]), int(header[1]), nil
}
