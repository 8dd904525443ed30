// Package main is the entry point for stlsort, an interactive viewer for
// sorting STL meshes into buckets by keypress.
package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/stlsort/internal/classify"
	"github.com/Faultbox/stlsort/internal/config"
	"github.com/Faultbox/stlsort/internal/engine/debug"
	"github.com/Faultbox/stlsort/internal/engine/renderer"
	"github.com/Faultbox/stlsort/internal/engine/window"
	"github.com/Faultbox/stlsort/internal/logger"
	"github.com/Faultbox/stlsort/internal/mesh"
	"github.com/Faultbox/stlsort/internal/orientation"
	"github.com/Faultbox/stlsort/internal/viewer"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	log, sessionID := logger.NewSession()
	log.Info("=== stlsort ===",
		zap.Int("queue", len(cfg.Session.Queue)),
		zap.Int("start", cfg.Session.StartIndex),
	)
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path, err := cfg.SaveRequested(); err != nil {
		log.Error("failed to save config", zap.Error(err))
		return 1
	} else if path != "" {
		log.Info("saved effective config", zap.String("path", path))
	}

	dests := make([]string, 0, len(cfg.Session.Bindings))
	for _, dest := range cfg.Session.Bindings {
		dests = append(dests, dest)
	}
	sink, err := classify.OpenFileSink(dests)
	if err != nil {
		log.Error("failed to open classification files", zap.Error(err))
		return 1
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Error("failed to close classification files", zap.Error(err))
		}
	}()

	win, err := window.New(window.Config{
		Title:      "stlsort",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		log.Error("failed to create window", zap.Error(err))
		return 1
	}
	defer win.Close()

	width, height := win.Size()
	rend, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: cfg.Window.Background,
	})
	if err != nil {
		log.Error("failed to create renderer", zap.Error(err))
		return 1
	}
	defer rend.Close()

	dispatcher := classify.NewDispatcher(
		cfg.Session.Queue,
		classify.Bindings(cfg.Session.Bindings),
		sink,
		cfg.Session.StartIndex,
	)

	v := viewer.New(win, rend, mesh.Load, dispatcher,
		orientation.New(cfg.Orientation.Settings()),
		viewer.Options{
			Light:        cfg.Lighting.Parameters(),
			FollowCamera: cfg.Lighting.FollowCamera,
			Background:   rgba(cfg.Window.Background),
			Capture:      debug.NewScreenshotCapture(cfg.Capture.Dir, cfg.Capture.Prefix),
			Logger:       log,
		},
	)

	// Ctrl+C in the terminal quits like Q does.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := v.Run(ctx)
	printSummary(summary, sessionID)
	return 0
}

func printSummary(s viewer.Summary, sessionID string) {
	fmt.Printf("Stopped at file #%d of %d (%s, session %s)\n", s.Index, s.Len, s.State, sessionID)

	dests := make([]string, 0, len(s.Tally))
	for dest := range s.Tally {
		dests = append(dests, dest)
	}
	sort.Strings(dests)
	for _, dest := range dests {
		fmt.Printf("  %-20s %d\n", dest, s.Tally[dest])
	}
	if s.Skipped > 0 {
		fmt.Printf("  %-20s %d\n", "(failed to load)", s.Skipped)
	}
}

func rgba(c [3]float32) color.RGBA {
	conv := func(x float32) uint8 {
		return uint8(min(max(x, 0), 1)*255 + 0.5)
	}
	return color.RGBA{R: conv(c[0]), G: conv(c[1]), B: conv(c[2]), A: 255}
}
