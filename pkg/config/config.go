// Package config handles scriptpdf configuration loading.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/layout"
)

// Config is the root configuration structure.
type Config struct {
	Layout  LayoutConfig  `yaml:"layout"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// LayoutConfig holds page geometry and pagination settings.
type LayoutConfig struct {
	PageWidth  float64 `yaml:"page_width"`
	PageHeight float64 `yaml:"page_height"`
	Margin     float64 `yaml:"margin"`

	// MaxSlides rejects larger lessons before layout. 0 = unbounded.
	MaxSlides int `yaml:"max_slides"`

	// ContinuationPages lets long sections flow onto extra pages.
	ContinuationPages bool `yaml:"continuation_pages"`
}

// Geometry returns the configured page geometry.
func (l LayoutConfig) Geometry() layout.Geometry {
	return layout.Geometry{Width: l.PageWidth, Height: l.PageHeight, Margin: l.Margin}
}

// ExportConfig holds rendering and output settings.
type ExportConfig struct {
	Backend     string `yaml:"backend"`
	ToolName    string `yaml:"tool_name"`
	Author      string `yaml:"author"`
	FontFamily  string `yaml:"font_family"`
	Compress    bool   `yaml:"compress"`
	Verify      bool   `yaml:"verify"`
	OutputDir   string `yaml:"output_dir"`
	Concurrency int    `yaml:"concurrency"`
}

// ServerConfig holds API server settings.
type ServerConfig struct {
	Host          string        `yaml:"host" json:"host"`
	Port          int           `yaml:"port" json:"port"`
	ReadTimeout   time.Duration `yaml:"read_timeout" json:"readTimeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout" json:"writeTimeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" json:"idleTimeout"`
	CORSOrigins   []string      `yaml:"cors_origins" json:"corsOrigins"`
	EnableLogging bool          `yaml:"enable_logging" json:"enableLogging"`

	// MaxBodyBytes bounds lesson uploads.
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"maxBodyBytes"`
}

// StorageConfig selects where lessons are read from and reports written to.
type StorageConfig struct {
	// Source is "file" or "firestore".
	Source    string `yaml:"source"`
	LessonDir string `yaml:"lesson_dir"`

	FirestoreProject    string `yaml:"firestore_project"`
	FirestoreCollection string `yaml:"firestore_collection"`

	// Sink is "local" or "gcs".
	Sink      string `yaml:"sink"`
	GCSBucket string `yaml:"gcs_bucket"`
	GCSPrefix string `yaml:"gcs_prefix"`

	// GCSCreateOnly refuses to replace an existing report object.
	GCSCreateOnly bool `yaml:"gcs_create_only"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	geo := layout.A4()
	return &Config{
		Layout: LayoutConfig{
			PageWidth:  geo.Width,
			PageHeight: geo.Height,
			Margin:     geo.Margin,
		},
		Export: ExportConfig{
			Backend:     "pdf",
			ToolName:    "scriptpdf",
			FontFamily:  "Helvetica",
			Compress:    true,
			Verify:      true,
			OutputDir:   "./reports",
			Concurrency: 4,
		},
		Server: DefaultServerConfig(),
		Storage: StorageConfig{
			Source:              "file",
			LessonDir:           "./lessons",
			FirestoreCollection: "projects",
			Sink:                "local",
			GCSPrefix:           "reports/",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultServerConfig returns sensible defaults for the API server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:          "localhost",
		Port:          8081,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		CORSOrigins:   []string{"http://localhost:5173"},
		EnableLogging: true,
		MaxBodyBytes:  8 << 20,
	}
}

// Load loads configuration from a file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.WrapConfig(err, rerrors.ErrConfigNotFound, "config file not found").
				WithContext("path", path).
				WithSuggestion("Run 'scriptpdf init' to create a default config")
		}
		return nil, rerrors.WrapConfig(err, rerrors.ErrConfigNotFound, "failed to read config").
			WithContext("path", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, rerrors.WrapConfig(err, rerrors.ErrConfigParseFailed, "failed to parse config").
			WithContext("path", path)
	}

	if err := cfg.Validate(); err != nil {
		if re, ok := rerrors.AsReportError(err); ok {
			re.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return rerrors.WrapConfig(err, rerrors.ErrConfigWriteFailed, "failed to create config directory").
			WithContext("path", dir)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return rerrors.WrapConfig(err, rerrors.ErrConfigWriteFailed, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return rerrors.WrapConfig(err, rerrors.ErrConfigWriteFailed, "failed to write config file").
			WithContext("path", path)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("scriptpdf.yaml"); err == nil {
		return "scriptpdf.yaml"
	}
	if _, err := os.Stat("config/scriptpdf.yaml"); err == nil {
		return "config/scriptpdf.yaml"
	}
	return "scriptpdf.yaml"
}

// InitConfig creates a default config file if it doesn't exist. It reports
// whether a file was written.
func InitConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := Default().Save(path); err != nil {
		return false, err
	}
	return true, nil
}
