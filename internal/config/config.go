package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/loom/internal/errors"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "loom.yaml"

	// DefaultPort is the default live server port.
	DefaultPort = 3000

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultExportDir is the default static export directory.
	DefaultExportDir = "dist"
)

// Config is the complete loom configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Bridge  BridgeConfig  `json:"bridge" yaml:"bridge"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Export  ExportConfig  `json:"export" yaml:"export"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig configures the live HTTP server.
type ServerConfig struct {
	Host string `json:"host" yaml:"host" validate:"required"`
	Port int    `json:"port" yaml:"port" validate:"min=0,max=65535"`

	// StaticDir is served under /static/ when set.
	StaticDir string `json:"static_dir,omitempty" yaml:"static_dir,omitempty"`

	ShutdownTimeout string `json:"shutdown_timeout" yaml:"shutdown_timeout" validate:"duration"`
}

// RenderConfig configures page serialization.
type RenderConfig struct {
	Format  string `json:"format" yaml:"format" validate:"oneof=html minified"`
	Doctype bool   `json:"doctype" yaml:"doctype"`
}

// BridgeConfig configures live sessions.
type BridgeConfig struct {
	// Encoding is the wire format of change batches and events.
	Encoding string `json:"encoding" yaml:"encoding" validate:"oneof=json binary"`

	ReadTimeout  string `json:"read_timeout" yaml:"read_timeout" validate:"duration"`
	WriteTimeout string `json:"write_timeout" yaml:"write_timeout" validate:"duration"`
	PingInterval string `json:"ping_interval" yaml:"ping_interval" validate:"duration"`

	// MaxMessageSize limits inbound messages in bytes.
	MaxMessageSize int64 `json:"max_message_size" yaml:"max_message_size" validate:"min=512"`

	// EventQueue is the capacity of a session's owner loop.
	EventQueue int `json:"event_queue" yaml:"event_queue" validate:"min=1,max=65536"`

	// PageTTL is how long a rendered page waits for its live connection.
	PageTTL string `json:"page_ttl" yaml:"page_ttl" validate:"duration"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace" validate:"required_if=Enabled true"`
	Path      string `json:"path" yaml:"path" validate:"startswith=/"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Tracer  string `json:"tracer" yaml:"tracer"`
}

// LogConfig configures the slog handler of the CLI.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// ExportConfig configures static export. Bucket selects S3 over Dir.
type ExportConfig struct {
	Dir    string `json:"dir" yaml:"dir"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint for S3 compatible services.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Minify bool   `json:"minify" yaml:"minify"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "10s",
		},
		Render: RenderConfig{
			Format:  "html",
			Doctype: true,
		},
		Bridge: BridgeConfig{
			Encoding:       "json",
			ReadTimeout:    "60s",
			WriteTimeout:   "10s",
			PingInterval:   "30s",
			MaxMessageSize: 64 * 1024,
			EventQueue:     256,
			PageTTL:        "2m",
		},
		Metrics: MetricsConfig{
			Namespace: "loom",
			Path:      "/metrics",
		},
		Tracing: TracingConfig{
			Tracer: "github.com/vango-dev/loom",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Export: ExportConfig{
			Dir:    DefaultExportDir,
			Minify: true,
		},
	}
}

// Load reads loom.yaml from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Keys missing
// from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveTo writes the configuration to the specified path, as YAML or JSON
// depending on the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in values the file set to empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Render.Format == "" {
		c.Render.Format = d.Render.Format
	}
	if c.Bridge.Encoding == "" {
		c.Bridge.Encoding = d.Bridge.Encoding
	}
	if c.Bridge.EventQueue == 0 {
		c.Bridge.EventQueue = d.Bridge.EventQueue
	}
	if c.Bridge.MaxMessageSize == 0 {
		c.Bridge.MaxMessageSize = d.Bridge.MaxMessageSize
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Export.Dir == "" {
		c.Export.Dir = d.Export.Dir
	}
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		d, err := time.ParseDuration(s)
		return err == nil && d >= 0
	})
	return v
}()

// Validate checks struct constraints and the cross-field rules tags cannot
// express. Failures are E121 errors naming the offending key.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			e := verrs[0]
			return errors.New("E121").
				WithDetail(fmt.Sprintf("%s fails %q (value %v)", e.Namespace(), tagWithParam(e), e.Value())).
				Wrap(err)
		}
		return errors.New("E121").Wrap(err)
	}
	if c.Export.Bucket != "" && c.Export.Region == "" {
		return errors.New("E121").
			WithDetail("Export.Region is required when Export.Bucket is set")
	}
	return nil
}

func tagWithParam(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}

// Address returns the listen address of the live server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Duration parses a duration field that passed validation. Empty strings are
// zero.
func Duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
