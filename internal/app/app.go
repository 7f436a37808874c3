package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/docfmt"
	"github.com/specialistvlad/climeta/internal/hcl"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	codecs *config.Registry
}

// NewApp creates an App writing results to outW and logs to logW. Without
// codecs it supports the flat and HCL document formats.
func NewApp(outW, logW io.Writer, cfg *Config, codecs ...config.Codec) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	if len(codecs) == 0 {
		codecs = []config.Codec{docfmt.NewCodec(), hcl.NewCodec()}
	}
	a := &App{
		outW:   outW,
		logger: logger,
		codecs: config.NewRegistry(codecs...),
	}
	logger.Debug("App configured.", "formats", a.codecs.Formats())
	return a
}

// context returns ctx carrying the app logger.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Codecs returns the document codec registry.
func (a *App) Codecs() *config.Registry {
	return a.codecs
}
