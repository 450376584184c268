package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/grmflow/internal/config"
	"github.com/specialistvlad/grmflow/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	appCfg   *Config
	pipeline *config.Pipeline
}

// NewApp is the constructor for the main application. It loads the pipeline
// configuration file and builds the App's isolated logger. A failure to
// load or decode the configuration is a fatal startup error and panics;
// the caller recovers it into a clean exit.
func NewApp(outW io.Writer, appCfg *Config) *App {
	logger := newLogger(appCfg.LogLevel, appCfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	pipeline, err := config.Load(ctx, appCfg.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load pipeline configuration: %w", err))
	}
	if appCfg.OutputDir != "" {
		pipeline.OutputDir = appCfg.OutputDir
	}
	logger.Debug("Pipeline configuration loaded.")

	return &App{
		outW:     outW,
		logger:   logger,
		appCfg:   appCfg,
		pipeline: pipeline,
	}
}

// Pipeline returns the loaded pipeline configuration. Primarily for testing.
func (a *App) Pipeline() *config.Pipeline {
	return a.pipeline
}
