package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/pkg/protocol"
	"github.com/vango-dev/loom/pkg/tree"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "render")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("output = %q, want doctype first", out)
	}
	if !strings.Contains(out, `id="heading"`) {
		t.Errorf("output misses the page heading: %s", out)
	}

	small, err := run(t, "render", "--minify", "--doctype=false")
	if err != nil {
		t.Fatalf("render --minify error = %v", err)
	}
	if strings.HasPrefix(small, "<!DOCTYPE") {
		t.Errorf("--doctype=false output starts with a doctype")
	}

	if _, err := run(t, "render", "nope"); err == nil || !strings.Contains(err.Error(), "unknown page") {
		t.Errorf("render nope error = %v, want unknown page", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "--dir", dir, "--minify=false")
	if err != nil {
		t.Fatalf("export error = %v\n%s", err, out)
	}
	for _, name := range []string{"index.html", "about.html"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("ReadFile(%s) error = %v", name, err)
			continue
		}
		if !strings.Contains(string(data), "<html") {
			t.Errorf("%s = %q, want a page", name, data)
		}
	}
	if !strings.Contains(out, "Exported 2 pages") {
		t.Errorf("output = %q, want summary", out)
	}
}

func TestExportCommandBucketNeedsRegion(t *testing.T) {
	_, err := run(t, "export", "--bucket", "site")
	if err == nil || !strings.Contains(err.Error(), "E121") {
		t.Errorf("export --bucket error = %v, want E121", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") without a file error = %v", err)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("Port = %d, want default %d", cfg.Server.Port, config.DefaultPort)
	}

	if _, err := loadConfig("missing.yaml"); err == nil {
		t.Error("loadConfig(missing.yaml) succeeded")
	}

	os.WriteFile(config.ConfigFileName, []byte("server:\n  port: 8080\nbridge:\n  encoding: binary\n"), 0644)
	cfg, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Bridge.Encoding != "binary" {
		t.Errorf("config = %+v, want port 8080 and binary encoding", cfg)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level  string
		format string
		debug  bool
		json   bool
	}{
		{"debug", "text", true, false},
		{"info", "json", false, true},
		{"bogus", "text", false, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := newLogger(config.LogConfig{Level: tt.level, Format: tt.format}, &buf)
		if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.debug {
			t.Errorf("level %q debug enabled = %v, want %v", tt.level, got, tt.debug)
		}
		logger.Info("hello")
		if got := strings.HasPrefix(buf.String(), "{"); got != tt.json {
			t.Errorf("format %q json = %v, want %v", tt.format, got, tt.json)
		}
	}
}

func TestBridgeOptions(t *testing.T) {
	cfg := config.New()
	cfg.Bridge.Encoding = "binary"
	cfg.Render.Format = "minified"

	opts, err := bridgeOptions(cfg, slog.Default())
	if err != nil {
		t.Fatalf("bridgeOptions() error = %v", err)
	}
	if opts.Encoding != protocol.EncodingBinary {
		t.Errorf("Encoding = %v, want binary", opts.Encoding)
	}
	if opts.Render.Format != tree.FormatMinified || !opts.Render.Doctype {
		t.Errorf("Render = %+v, want minified with doctype", opts.Render)
	}
	if opts.Session.ReadTimeout.Seconds() != 60 {
		t.Errorf("ReadTimeout = %v, want 60s", opts.Session.ReadTimeout)
	}
	if opts.EventQueue != cfg.Bridge.EventQueue {
		t.Errorf("EventQueue = %d, want %d", opts.EventQueue, cfg.Bridge.EventQueue)
	}
	if opts.Metrics != nil || opts.Tracer != nil {
		t.Error("metrics or tracing enabled by default")
	}

	cfg.Bridge.Encoding = "xml"
	if _, err := bridgeOptions(cfg, slog.Default()); err == nil {
		t.Error("bridgeOptions() with unknown encoding succeeded")
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "init", dir); err != nil {
		t.Fatalf("init error = %v", err)
	}
	cfg, err := loadConfig(filepath.Join(dir, config.ConfigFileName))
	if err != nil {
		t.Fatalf("loadConfig() of written file error = %v", err)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Server.Port, config.DefaultPort)
	}

	if _, err := run(t, "init", dir); err == nil || !strings.Contains(err.Error(), "E140") {
		t.Errorf("second init error = %v, want E140", err)
	}
	if _, err := run(t, "init", dir, "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
	if _, err := run(t, "init", dir, "--json"); err != nil {
		t.Fatalf("init --json error = %v", err)
	}
	if _, err := loadConfig(filepath.Join(dir, "loom.json")); err != nil {
		t.Errorf("loadConfig(loom.json) error = %v", err)
	}
}
