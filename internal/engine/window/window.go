// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/stlsort/internal/input"
	"github.com/Faultbox/stlsort/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// Samples is the multisample count; 0 disables multisampling.
	Samples int
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	events    []input.RawEvent
}

func setMultisample(samples int) {
	if samples > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, samples)
		return
	}
	sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 0)
	sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, 0)
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	setMultisample(cfg.Samples)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	create := func() (*sdl.Window, error) {
		return sdl.CreateWindow(
			cfg.Title,
			sdl.WINDOWPOS_CENTERED,
			sdl.WINDOWPOS_CENTERED,
			int32(cfg.Width),
			int32(cfg.Height),
			flags,
		)
	}

	var err error
	w.sdlWindow, err = create()
	if err != nil && cfg.Samples > 0 {
		logger.Warn("multisampled window unavailable, retrying without",
			zap.Int("samples", cfg.Samples), zap.Error(err))
		setMultisample(0)
		w.sdlWindow, err = create()
	}
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			logger.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Poll drains the SDL event queue in arrival order.
// The returned slice is reused by the next call.
func (w *Window) Poll() []input.RawEvent {
	w.events = w.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if raw, ok := translate(event); ok {
			w.events = append(w.events, raw)
		}
	}
	return w.events
}

func translate(event sdl.Event) (input.RawEvent, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.RawEvent{Type: input.RawClose}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return input.RawEvent{Type: input.RawClose}, true
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			// Viewport wants drawable pixels, not window points.
			window, err := sdl.GetWindowFromID(e.WindowID)
			if err != nil {
				return input.RawEvent{Type: input.RawResize, Width: int(e.Data1), Height: int(e.Data2)}, true
			}
			dw, dh := window.GLGetDrawableSize()
			return input.RawEvent{Type: input.RawResize, Width: int(dw), Height: int(dh)}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN {
			return input.RawEvent{}, false
		}
		return input.RawEvent{
			Type:   input.RawKeyDown,
			Key:    sdl.GetKeyName(e.Keysym.Sym),
			Repeat: e.Repeat != 0,
			Ctrl:   sdl.GetModState()&sdl.KMOD_CTRL != 0,
		}, true

	case *sdl.MouseWheelEvent:
		y := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		return input.RawEvent{Type: input.RawWheel, WheelY: y}, true

	case *sdl.MouseMotionEvent:
		return input.RawEvent{
			Type: input.RawMouseMotion,
			DX:   float32(e.XRel),
			DY:   float32(e.YRel),
			Held: e.State&(1<<(sdl.BUTTON_LEFT-1)) != 0,
		}, true
	}
	return input.RawEvent{}, false
}

// Present swaps the OpenGL buffers.
func (w *Window) Present() {
	w.sdlWindow.GLSwap()
}

// Size returns the drawable size in pixels.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}
