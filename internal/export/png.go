// Package export encodes board rasters into downloadable files.
package export

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"
)

const (
	PNGName = "whiteboard.png"
	PDFName = "whiteboard.pdf"

	PNGType = "image/png"
	PDFType = "application/pdf"
)

// PNG writes img as a PNG stream, keeping transparency.
func PNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}

// EncodePNG is PNG into a byte slice.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
