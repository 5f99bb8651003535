package export

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

const pageMargin = 10.0 // mm

// PDFOptions controls how a board raster is laid out on the page.
type PDFOptions struct {
	Title string
	// Background is painted under transparent pixels. Nil keeps white.
	Background color.Color
}

// PDF writes img fitted onto a single A4 landscape page.
func PDF(w io.Writer, img image.Image, opts PDFOptions) error {
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	flat := image.NewRGBA(img.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)

	var png bytes.Buffer
	if err := PNG(&png, flat); err != nil {
		return err
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.SetCreator("StudyBoard", true)
	if opts.Title != "" {
		p.SetTitle(opts.Title, true)
	}
	p.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("board", imgOpts, &png)

	pageW, pageH := p.GetPageSize()
	x, y, fw, fh := fit(float64(img.Bounds().Dx()), float64(img.Bounds().Dy()),
		pageW-2*pageMargin, pageH-2*pageMargin)
	p.ImageOptions("board", pageMargin+x, pageMargin+y, fw, fh, false, imgOpts, 0, "")

	if err := p.Output(w); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	return nil
}

// EncodePDF is PDF into a byte slice.
func EncodePDF(img image.Image, opts PDFOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := PDF(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit scales a w x h box into maxW x maxH keeping its aspect ratio and
// returns the centred offset and size.
func fit(w, h, maxW, maxH float64) (x, y, fw, fh float64) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	fw, fh = w*scale, h*scale
	return (maxW - fw) / 2, (maxH - fh) / 2, fw, fh
}
