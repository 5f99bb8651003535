package whiteboard

import (
	"image"
	"math"

	"github.com/pkg/errors"
)

// MaxRasterSide bounds either side of a raster handed out by MemoryDisplay.
const MaxRasterSide = 16384

var (
	// ErrNoSurface means the host did not hand back a drawable raster.
	ErrNoSurface = errors.New("whiteboard: drawing surface unavailable")
	// ErrNoDownloader means an export was requested without a download target.
	ErrNoDownloader = errors.New("whiteboard: no download target")
)

// Point is a surface-local position in logical (unscaled) units.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

func (p Point) dist(q Point) float32 {
	return float32(math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y)))
}

// Display is the host area the board draws into.
type Display interface {
	// Size is the logical size of the drawing area.
	Size() (width, height float32)
	// Scale is the device pixel density factor.
	Scale() float32
	// NewRaster hands back a drawable raster of the given device size.
	NewRaster(width, height int) (*image.RGBA, error)
}

// Downloader offers exported bytes to the user.
type Downloader interface {
	Offer(name, contentType string, data []byte) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(name, contentType string, data []byte) error

// Offer calls f.
func (f DownloaderFunc) Offer(name, contentType string, data []byte) error {
	return f(name, contentType, data)
}

// MemoryDisplay is an off-screen Display backed by plain memory.
type MemoryDisplay struct {
	Width, Height float32
	PixelScale    float32
}

// Size returns the configured logical area.
func (d MemoryDisplay) Size() (float32, float32) {
	return d.Width, d.Height
}

// Scale returns PixelScale; New treats zero as 1.
func (d MemoryDisplay) Scale() float32 {
	return d.PixelScale
}

// NewRaster allocates a zeroed raster, refusing empty or oversized ones.
func (d MemoryDisplay) NewRaster(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || width > MaxRasterSide || height > MaxRasterSide {
		return nil, errors.Errorf("raster %dx%d out of range", width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}
