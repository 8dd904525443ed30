package viewer

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/stlsort/internal/engine/raster"
	"github.com/Faultbox/stlsort/internal/shading"
)

// ErrNoCapture is returned by Screenshot when capturing is disabled.
var ErrNoCapture = errors.New("screenshots disabled")

// Screenshot renders the current frame in software and hands it to the
// configured Capturer. The image matches the display size.
func (v *Viewer) Screenshot() (string, error) {
	if v.opts.Capture == nil {
		return "", ErrNoCapture
	}
	if v.current == nil {
		return "", errors.New("no mesh on screen")
	}

	width, height := v.display.Size()
	target := raster.NewTarget(width, height)
	target.Clear(v.opts.Background)

	f := v.frame()
	target.DrawMesh(v.current, f.model, f.view, f.projection, shading.Lambert{Light: f.light})

	return v.opts.Capture.Capture(target.Image, v.current.Path)
}

func (v *Viewer) screenshot() {
	path, err := v.Screenshot()
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", path))
	v.notice = "saved " + path
}
