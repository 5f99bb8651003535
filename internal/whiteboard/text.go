package whiteboard

import (
	"image"
	"image/color"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce sync.Once
	fontSans *opentype.Font
	fontErr  error
)

func sansFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		fontSans, fontErr = opentype.Parse(goregular.TTF)
	})
	return fontSans, fontErr
}

// newTextFace returns the board's text face at TextSize scaled to device pixels.
func newTextFace(scale float32) (font.Face, error) {
	f, err := sansFont()
	if err != nil {
		return nil, errors.Wrap(err, "parse text font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    TextSize * float64(scale),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create text face")
	}
	return face, nil
}

// drawText paints s with its baseline starting at p (device pixels).
func drawText(dst *image.RGBA, face font.Face, s string, p Point, paint color.NRGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(paint),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)},
	}
	d.DrawString(s)
}
