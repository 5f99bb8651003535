package ui

import (
	"os"
	"path/filepath"

	"StudyBoard/internal/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/pkg/errors"
)

// fileSaver offers exports either straight into a directory or through a
// save dialog.
type fileSaver struct {
	window fyne.Window
	dir    string
	log    logger.Logger
	status func(string)
}

func newFileSaver(w fyne.Window, dir string, l logger.Logger, status func(string)) *fileSaver {
	return &fileSaver{window: w, dir: dir, log: l, status: status}
}

func (f *fileSaver) Offer(name, contentType string, data []byte) error {
	if f.dir != "" {
		return f.writeDir(name, data)
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, f.window)
			return
		}
		if writer == nil {
			return // cancelled
		}
		f.save(writer, data)
	}, f.window)
	d.SetFileName(name)
	d.SetFilter(storage.NewExtensionFileFilter([]string{filepath.Ext(name)}))
	d.Show()
	return nil
}

func (f *fileSaver) writeDir(name string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create export dir %s", f.dir)
	}
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	f.log.Info("[EXPORT] Saved " + path)
	f.status("Saved " + path)
	return nil
}

func (f *fileSaver) save(writer fyne.URIWriteCloser, data []byte) {
	defer func() {
		if err := writer.Close(); err != nil {
			f.log.Warn("[EXPORT] Error closing writer", err)
		}
	}()
	if _, err := writer.Write(data); err != nil {
		f.log.Error("[EXPORT] Error writing export", err)
		dialog.ShowError(errors.Wrap(err, "write export"), f.window)
		return
	}
	f.log.Info("[EXPORT] Saved " + writer.URI().String())
	f.status("Saved " + writer.URI().Name())
}
