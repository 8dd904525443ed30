// Package viewer runs the frame loop: it routes input to the orientation
// controller and the classification dispatcher, keeps the current mesh
// loaded, and draws it.
package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/stlsort/internal/classify"
	"github.com/Faultbox/stlsort/internal/engine/camera"
	"github.com/Faultbox/stlsort/internal/input"
	"github.com/Faultbox/stlsort/internal/logger"
	"github.com/Faultbox/stlsort/internal/mesh"
	"github.com/Faultbox/stlsort/internal/orientation"
	"github.com/Faultbox/stlsort/internal/shading"
	"github.com/Faultbox/stlsort/pkg/math"
)

// Display is the window the viewer draws into.
type Display interface {
	Poll() []input.RawEvent // Pending events in arrival order
	Present()
	SetTitle(title string)
	Size() (width, height int)
}

// Renderer draws one mesh at a time.
type Renderer interface {
	Upload(m *mesh.Mesh) error
	Release()
	Draw(model, view, projection math.Mat4, light shading.LightParameters) error
	Resize(width, height int)
}

// Capturer stores a screenshot and returns where it went.
type Capturer interface {
	Capture(img image.Image, label string) (string, error)
}

// Loader produces a mesh for a queued path.
type Loader func(path string) (*mesh.Mesh, error)

// State is the frame loop state.
type State int

const (
	Running State = iota
	Done          // Queue exhausted
	Quit          // Operator quit
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options holds the optional collaborators and settings of a Viewer.
type Options struct {
	Light        shading.LightParameters
	FollowCamera bool       // Place the light at the eye every frame
	Background   color.RGBA // Screenshot background
	Capture      Capturer   // nil disables screenshots
	Logger       *zap.Logger
}

// Summary describes how a session ended.
type Summary struct {
	State   State
	Index   int // Queue position the session stopped at
	Len     int
	Skipped int            // Paths that failed to load
	Tally   map[string]int // Recorded paths per destination
}

// Viewer ties the collaborators together. It is driven from one goroutine.
type Viewer struct {
	display    Display
	renderer   Renderer
	load       Loader
	dispatcher *classify.Dispatcher
	controller *orientation.Controller
	keymap     *input.Keymap
	camera     *camera.FitCamera
	opts       Options
	log        *zap.Logger

	state        State
	current      *mesh.Mesh
	currentIndex int
	drawFailed   bool
	skipped      int
	notice       string
	title        string
}

// New creates a viewer. The keymap is built from the dispatcher's bindings.
func New(
	display Display,
	renderer Renderer,
	load Loader,
	dispatcher *classify.Dispatcher,
	controller *orientation.Controller,
	opts Options,
) *Viewer {
	log := opts.Logger
	if log == nil {
		log = logger.Log
	}
	return &Viewer{
		display:      display,
		renderer:     renderer,
		load:         load,
		dispatcher:   dispatcher,
		controller:   controller,
		keymap:       input.NewKeymap(dispatcher.Keys()),
		camera:       camera.NewFitCamera(),
		opts:         opts,
		log:          log,
		currentIndex: -1,
	}
}

// State returns the loop state.
func (v *Viewer) State() State {
	return v.state
}

// Current returns the mesh on screen, or nil.
func (v *Viewer) Current() *mesh.Mesh {
	return v.current
}

// Summary reports the session outcome so far.
func (v *Viewer) Summary() Summary {
	return Summary{
		State:   v.state,
		Index:   v.dispatcher.Index(),
		Len:     v.dispatcher.Len(),
		Skipped: v.skipped,
		Tally:   v.dispatcher.Tally(),
	}
}

// Step runs one frame iteration with dt seconds elapsed and returns the
// resulting state. Once the loop has stopped Step does nothing.
func (v *Viewer) Step(dt float32) State {
	if v.state != Running {
		return v.state
	}

	v.handleEvents()
	v.controller.Tick(dt)

	if v.dispatcher.QuitRequested() {
		v.finish(Quit)
		return v.state
	}
	if !v.ensureMesh() {
		v.finish(Done)
		return v.state
	}

	v.draw()
	v.updateTitle()
	v.display.Present()
	return v.state
}

// Run steps until the queue is exhausted, the operator quits, or ctx is
// cancelled. Cancellation counts as a quit.
func (v *Viewer) Run(ctx context.Context) Summary {
	v.log.Info("starting frame loop",
		zap.Int("queue", v.dispatcher.Len()),
		zap.Int("start", v.dispatcher.Index()),
	)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	for v.state == Running {
		if ctx.Err() != nil {
			v.dispatcher.Quit()
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		v.Step(float32(dt))

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return v.Summary()
}

func (v *Viewer) handleEvents() {
	for _, raw := range v.display.Poll() {
		action := v.keymap.Translate(raw)
		switch action.Kind {
		case input.Rotate:
			v.controller.ApplyArrow(action.Dir)
		case input.Zoom:
			v.controller.ApplyScroll(action.Delta)
		case input.Drag:
			v.controller.ApplyDrag(action.DX, action.DY)
		case input.Pause:
			v.controller.TogglePause()
		case input.Resize:
			v.renderer.Resize(action.Width, action.Height)
		case input.Screenshot:
			v.screenshot()
		case input.Classify:
			v.classify(action.Key)
		case input.Quit:
			v.log.Info("quit requested")
			v.dispatcher.Quit()
			// The rest of the batch must not touch the queue.
			return
		}
	}
}

func (v *Viewer) classify(key string) {
	path, ok := v.dispatcher.CurrentPath()
	if !ok {
		return
	}
	dest, _ := v.dispatcher.Destination(key)

	outcome, err := v.dispatcher.Classify(key)
	if err != nil {
		v.log.Error("classification not recorded",
			zap.String("path", path),
			zap.String("key", key),
			zap.Error(err),
		)
		v.notice = "write to " + dest + " failed, press again to retry"
		return
	}
	if outcome == classify.Recorded {
		v.log.Info("classified",
			zap.String("path", path),
			zap.String("key", key),
			zap.String("destination", dest),
			zap.Int("index", v.dispatcher.Index()-1),
		)
		v.notice = ""
	}
}

// ensureMesh makes the mesh at the current index resident, skipping paths
// that fail to load. It returns false once the queue is exhausted.
func (v *Viewer) ensureMesh() bool {
	for {
		path, ok := v.dispatcher.CurrentPath()
		if !ok {
			return false
		}
		index := v.dispatcher.Index()
		if v.current != nil && v.currentIndex == index {
			return true
		}

		m, err := v.load(path)
		if err == nil {
			err = v.renderer.Upload(m)
		}
		if err != nil {
			v.log.Warn("skipping mesh",
				zap.String("path", path),
				zap.Int("index", index),
				zap.Error(err),
			)
			v.skipped++
			if !v.dispatcher.Skip() {
				return false
			}
			continue
		}

		v.current = m
		v.currentIndex = index
		v.camera.Fit(m.Radius)
		v.drawFailed = false
		v.notice = ""
		v.log.Debug("mesh loaded",
			zap.String("path", path),
			zap.Int("index", index),
			zap.Int("triangles", m.TriangleCount()),
			zap.Float32("radius", m.Radius),
		)
	}
}

// frame holds the matrices and light of the current frame.
type frame struct {
	model, view, projection math.Mat4
	light                   shading.LightParameters
}

func (v *Viewer) frame() frame {
	distance := v.controller.Distance()
	width, height := v.display.Size()
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	light := v.opts.Light
	if v.opts.FollowCamera {
		light.Position = v.camera.Eye(distance)
	}

	return frame{
		model:      v.controller.ModelMatrix(v.current.Center()),
		view:       v.camera.ViewMatrix(distance),
		projection: v.camera.Projection(distance, aspect),
		light:      light,
	}
}

func (v *Viewer) draw() {
	f := v.frame()
	err := v.renderer.Draw(f.model, f.view, f.projection, f.light)
	if err != nil && !v.drawFailed {
		// Logged once per mesh.
		v.log.Error("draw failed", zap.String("path", v.current.Path), zap.Error(err))
	}
	v.drawFailed = err != nil
}

func (v *Viewer) updateTitle() {
	title := FormatTitle(v.dispatcher.Index(), v.dispatcher.Len(), v.current.Path, v.controller.Paused(), v.notice)
	if title != v.title {
		v.title = title
		v.display.SetTitle(title)
	}
}

// FormatTitle builds the window title, e.g. "stlsort [3/40] parts/a.stl (paused)".
// index is zero-based.
func FormatTitle(index, total int, path string, paused bool, notice string) string {
	title := fmt.Sprintf("stlsort [%d/%d] %s", index+1, total, path)
	if paused {
		title += " (paused)"
	}
	if notice != "" {
		title += " - " + notice
	}
	return title
}

func (v *Viewer) finish(state State) {
	v.state = state
	if v.current != nil {
		v.renderer.Release()
		v.current = nil
		v.currentIndex = -1
	}

	s := v.Summary()
	fields := []zap.Field{
		zap.Stringer("state", s.State),
		zap.Int("stopped_at", s.Index),
		zap.Int("queue", s.Len),
		zap.Int("skipped", s.Skipped),
	}
	for dest, n := range s.Tally {
		fields = append(fields, zap.Int(dest, n))
	}
	v.log.Info("session finished", fields...)
}
