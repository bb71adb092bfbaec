package main

import (
	stderrors "errors"
	"io"
	"log/slog"
	"strings"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/bridge"
	"github.com/vango-dev/loom/pkg/protocol"
	"github.com/vango-dev/loom/pkg/tree"
)

// loadConfig reads the file at path. Without a path it reads loom.yaml from
// the working directory, falling back to defaults when there is none.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.Load(".")
	var lerr *errors.LoomError
	if stderrors.As(err, &lerr) && lerr.Code == "E141" {
		return config.New(), nil
	}
	return cfg, err
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// renderOptions maps the render section onto tree options.
func renderOptions(cfg config.RenderConfig) (tree.RenderOptions, error) {
	format, err := tree.ParseFormat(cfg.Format)
	if err != nil {
		return tree.RenderOptions{}, errors.New("E121").Wrap(err)
	}
	return tree.RenderOptions{Format: format, Doctype: cfg.Doctype}, nil
}

// bridgeOptions maps a validated config onto handler options. Metrics are
// registered with the default Prometheus registry.
func bridgeOptions(cfg *config.Config, logger *slog.Logger) (bridge.Options, error) {
	enc, err := protocol.ParseEncoding(cfg.Bridge.Encoding)
	if err != nil {
		return bridge.Options{}, errors.New("E121").Wrap(err)
	}
	render, err := renderOptions(cfg.Render)
	if err != nil {
		return bridge.Options{}, err
	}

	opts := bridge.Options{
		Encoding: enc,
		Session: bridge.SessionConfig{
			ReadTimeout:    config.Duration(cfg.Bridge.ReadTimeout),
			WriteTimeout:   config.Duration(cfg.Bridge.WriteTimeout),
			PingInterval:   config.Duration(cfg.Bridge.PingInterval),
			MaxMessageSize: cfg.Bridge.MaxMessageSize,
		},
		EventQueue:  cfg.Bridge.EventQueue,
		PageTTL:     config.Duration(cfg.Bridge.PageTTL),
		Render:      render,
		StaticDir:   cfg.Server.StaticDir,
		MetricsPath: cfg.Metrics.Path,
		Logger:      logger,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = bridge.NewMetrics(bridge.WithNamespace(cfg.Metrics.Namespace))
	}
	if cfg.Tracing.Enabled {
		opts.Tracer = bridge.Tracer(cfg.Tracing.Tracer)
	}
	return opts, nil
}
