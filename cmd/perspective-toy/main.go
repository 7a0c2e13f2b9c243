// Package main is the entry point for the perspective toy.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/perspective-toy/internal/app"
	"github.com/Faultbox/perspective-toy/internal/config"
	"github.com/Faultbox/perspective-toy/internal/engine/canvas"
	"github.com/Faultbox/perspective-toy/internal/engine/window"
	"github.com/Faultbox/perspective-toy/internal/logger"
)

const windowTitle = "Perspective Toy"

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Perspective Toy ===", zap.String("config", config.LoadedPath()))
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Create window (this also creates the OpenGL context)
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		return 1
	}

	// Canvas must come after the window, since it needs a current context
	w, h := win.Size()
	fbw, fbh := win.DrawableSize()
	cv, err := canvas.New(w, h, fbw, fbh)
	if err != nil {
		logger.Error("failed to create canvas", zap.Error(err))
		win.Close()
		return 1
	}

	a, err := app.New(cfg, win, cv)
	if err != nil {
		logger.Error("failed to create app", zap.Error(err))
		cv.Close()
		win.Close()
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("close failed", zap.Error(err))
		}
	}()

	if path, err := config.EnsureFile(); err != nil {
		logger.Warn("config hot reload disabled", zap.Error(err))
	} else if err := a.WatchConfig(path); err != nil {
		logger.Warn("config hot reload disabled", zap.Error(err))
	}

	if err := a.Run(); err != nil {
		logger.Error("app error", zap.Error(err))
		return 1
	}

	logger.Info("closed normally")
	return 0
}
