package whiteboard

import (
	"StudyBoard/internal/export"
)

// ExportPNG encodes the visible raster as PNG. It does not change the board.
func (s *Surface) ExportPNG() ([]byte, error) {
	return export.EncodePNG(s.img)
}

// ExportPDF lays the visible raster out on a PDF page.
func (s *Surface) ExportPDF() ([]byte, error) {
	return export.EncodePDF(s.img, export.PDFOptions{Title: "Whiteboard"})
}

// DownloadPNG offers the PNG export through the configured Downloader.
func (s *Surface) DownloadPNG() error {
	return s.download(export.PNGName, export.PNGType, s.ExportPNG)
}

// DownloadPDF offers the PDF export through the configured Downloader.
func (s *Surface) DownloadPDF() error {
	return s.download(export.PDFName, export.PDFType, s.ExportPDF)
}

// SetDownloader replaces the export target.
func (s *Surface) SetDownloader(d Downloader) {
	s.downloader = d
}

func (s *Surface) download(name, contentType string, encode func() ([]byte, error)) error {
	if s.downloader == nil {
		return ErrNoDownloader
	}
	data, err := encode()
	if err != nil {
		return err
	}
	return s.downloader.Offer(name, contentType, data)
}
