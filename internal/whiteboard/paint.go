package whiteboard

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = 0.5522847498

// painter rasterises stroked primitives onto a board raster in device
// pixels. Primitives of one operation accumulate coverage in mask and are
// composited in flush, so overlaps within a single operation do not
// darken a translucent paint.
type painter struct {
	dst   *image.RGBA
	mask  *image.Alpha
	z     vector.Rasterizer
	dirty image.Rectangle
}

func newPainter(dst *image.RGBA) *painter {
	return &painter{dst: dst, mask: image.NewAlpha(dst.Bounds())}
}

// area converts a float bounding box into a clipped pixel rectangle.
func (pt *painter) area(minX, minY, maxX, maxY float32) image.Rectangle {
	r := image.Rect(
		int(math.Floor(float64(minX)))-1,
		int(math.Floor(float64(minY)))-1,
		int(math.Ceil(float64(maxX)))+1,
		int(math.Ceil(float64(maxY)))+1,
	)
	return r.Intersect(pt.dst.Bounds())
}

// rasterise runs build on a rasteriser sized to r. build receives the
// origin of r and must subtract it from every coordinate.
func (pt *painter) rasterise(r image.Rectangle, build func(z *vector.Rasterizer, ox, oy float32)) {
	if r.Empty() {
		return
	}
	pt.z.Reset(r.Dx(), r.Dy())
	pt.z.DrawOp = draw.Over
	build(&pt.z, float32(r.Min.X), float32(r.Min.Y))
	pt.z.Draw(pt.mask, r, image.Opaque, image.Point{})
	pt.dirty = pt.dirty.Union(r)
}

func addCircle(z *vector.Rasterizer, cx, cy, radius float32, clockwise bool) {
	kr := kappa * radius
	z.MoveTo(cx, cy-radius)
	if clockwise {
		z.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
		z.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
		z.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
		z.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	} else {
		z.CubeTo(cx-kr, cy-radius, cx-radius, cy-kr, cx-radius, cy)
		z.CubeTo(cx-radius, cy+kr, cx-kr, cy+radius, cx, cy+radius)
		z.CubeTo(cx+kr, cy+radius, cx+radius, cy+kr, cx+radius, cy)
		z.CubeTo(cx+radius, cy-kr, cx+kr, cy-radius, cx, cy-radius)
	}
	z.ClosePath()
}

// disc fills a circle of radius r around c.
func (pt *painter) disc(c Point, r float32) {
	if r <= 0 {
		return
	}
	pt.rasterise(pt.area(c.X-r, c.Y-r, c.X+r, c.Y+r), func(z *vector.Rasterizer, ox, oy float32) {
		addCircle(z, c.X-ox, c.Y-oy, r, true)
	})
}

// ring fills the band between two concentric circles.
func (pt *painter) ring(c Point, outer, inner float32) {
	if inner <= 0 {
		pt.disc(c, outer)
		return
	}
	pt.rasterise(pt.area(c.X-outer, c.Y-outer, c.X+outer, c.Y+outer), func(z *vector.Rasterizer, ox, oy float32) {
		addCircle(z, c.X-ox, c.Y-oy, outer, true)
		addCircle(z, c.X-ox, c.Y-oy, inner, false)
	})
}

// fillPolygon fills a simple polygon.
func (pt *painter) fillPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	minX, minY, maxX, maxY := bounds(pts)
	pt.rasterise(pt.area(minX, minY, maxX, maxY), func(z *vector.Rasterizer, ox, oy float32) {
		z.MoveTo(pts[0].X-ox, pts[0].Y-oy)
		for _, p := range pts[1:] {
			z.LineTo(p.X-ox, p.Y-oy)
		}
		z.ClosePath()
	})
}

// segment fills the rectangle of half-width h around a→b, without caps.
func (pt *painter) segment(a, b Point, h float32) {
	l := a.dist(b)
	if l == 0 {
		return
	}
	nx, ny := -(b.Y-a.Y)/l*h, (b.X-a.X)/l*h
	pt.fillPolygon([]Point{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	})
}

// capsule strokes a→b with round caps.
func (pt *painter) capsule(a, b Point, h float32) {
	pt.disc(a, h)
	pt.segment(a, b, h)
	if b != a {
		pt.disc(b, h)
	}
}

// polyline strokes through pts with round caps and joins.
func (pt *painter) polyline(pts []Point, h float32, closed bool) {
	switch len(pts) {
	case 0:
		return
	case 1:
		pt.disc(pts[0], h)
		return
	}
	for i := 1; i < len(pts); i++ {
		pt.capsule(pts[i-1], pts[i], h)
	}
	if closed {
		pt.segment(pts[len(pts)-1], pts[0], h)
	}
}

// rectOutline strokes the axis-aligned box spanned by a and b with mitred
// corners. a and b may be given in any order.
func (pt *painter) rectOutline(a, b Point, h float32) {
	x0, x1 := minmax(a.X, b.X)
	y0, y1 := minmax(a.Y, b.Y)
	ox0, oy0, ox1, oy1 := x0-h, y0-h, x1+h, y1+h
	ix0, iy0, ix1, iy1 := x0+h, y0+h, x1-h, y1-h
	pt.rasterise(pt.area(ox0, oy0, ox1, oy1), func(z *vector.Rasterizer, ox, oy float32) {
		z.MoveTo(ox0-ox, oy0-oy)
		z.LineTo(ox1-ox, oy0-oy)
		z.LineTo(ox1-ox, oy1-oy)
		z.LineTo(ox0-ox, oy1-oy)
		z.ClosePath()
		if ix1 > ix0 && iy1 > iy0 {
			z.MoveTo(ix0-ox, iy0-oy)
			z.LineTo(ix0-ox, iy1-oy)
			z.LineTo(ix1-ox, iy1-oy)
			z.LineTo(ix1-ox, iy0-oy)
			z.ClosePath()
		}
	})
}

// circleOutline strokes a circle of radius r around c.
func (pt *painter) circleOutline(c Point, r, h float32) {
	pt.ring(c, r+h, r-h)
}

// flush composites the accumulated coverage onto dst and clears it.
// With erase set, covered pixels lose alpha instead of taking paint.
func (pt *painter) flush(paint color.NRGBA, erase bool) {
	r := pt.dirty
	if r.Empty() {
		return
	}
	if erase {
		punch(pt.dst, pt.mask, r)
	} else {
		draw.DrawMask(pt.dst, r, image.NewUniform(paint), image.Point{}, pt.mask, r.Min, draw.Over)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := pt.mask.PixOffset(r.Min.X, y)
		clear(pt.mask.Pix[i : i+r.Dx()])
	}
	pt.dirty = image.Rectangle{}
}

// punch scales every pixel in r by the inverse of its mask coverage, so
// full coverage leaves a transparent pixel.
func punch(dst *image.RGBA, mask *image.Alpha, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := mask.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			m := uint32(mask.Pix[mi+x])
			if m == 0 {
				continue
			}
			k := 0xFF - m
			px := dst.Pix[di+4*x : di+4*x+4 : di+4*x+4]
			for i := range px {
				px[i] = uint8((uint32(px[i])*k + 0x7F) / 0xFF)
			}
		}
	}
}

// wipe makes every pixel of dst transparent.
func wipe(dst *image.RGBA) {
	clear(dst.Pix)
}

func bounds(pts []Point) (minX, minY, maxX, maxY float32) {
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return
}

func minmax(a, b float32) (float32, float32) {
	if a > b {
		return b, a
	}
	return a, b
}
