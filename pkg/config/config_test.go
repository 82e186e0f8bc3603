package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Layout.Geometry().ContentWidth() != 170 {
		t.Errorf("expected A4 content width 170, got %v", cfg.Layout.Geometry().ContentWidth())
	}
	if cfg.Export.Backend != "pdf" {
		t.Errorf("expected pdf backend, got %s", cfg.Export.Backend)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scriptpdf.yaml")
	data := "layout:\n  margin: 15\n  max_slides: 50\nexport:\n  backend: text\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Layout.Margin != 15 || cfg.Layout.MaxSlides != 50 {
		t.Errorf("expected overrides applied, got %+v", cfg.Layout)
	}
	if cfg.Layout.PageWidth != 210 {
		t.Errorf("expected default width kept, got %v", cfg.Layout.PageWidth)
	}
	if cfg.Export.Backend != "text" || cfg.Export.Concurrency != 4 {
		t.Errorf("unexpected export section %+v", cfg.Export)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	if !rerrors.IsCode(err, rerrors.ErrConfigNotFound) {
		t.Errorf("expected CONFIG_NOT_FOUND, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("layout: [unclosed"), 0644)
	_, err = Load(bad)
	if !rerrors.IsCode(err, rerrors.ErrConfigParseFailed) {
		t.Errorf("expected CONFIG_PARSE_FAILED, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("layout:\n  margin: 200\n"), 0644)
	_, err = Load(invalid)
	if !rerrors.IsCode(err, rerrors.ErrConfigInvalid) {
		t.Errorf("expected CONFIG_INVALID, got %v", err)
	}
	if !rerrors.IsCode(err, rerrors.ErrConfigInvalid) || !strings.Contains(err.Error(), "content_width") {
		t.Errorf("expected geometry cause in %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative max slides", func(c *Config) { c.Layout.MaxSlides = -1 }, "layout.max_slides"},
		{"empty backend", func(c *Config) { c.Export.Backend = "" }, "export.backend"},
		{"zero concurrency", func(c *Config) { c.Export.Concurrency = 0 }, "export.concurrency"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown source", func(c *Config) { c.Storage.Source = "s3" }, "storage.source"},
		{"firestore without project", func(c *Config) { c.Storage.Source = "firestore" }, "storage.firestore_project"},
		{"unknown sink", func(c *Config) { c.Storage.Sink = "ftp" }, "storage.sink"},
		{"gcs without bucket", func(c *Config) { c.Storage.Sink = "gcs" }, "storage.gcs_bucket"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			re, ok := rerrors.AsReportError(err)
			if !ok || re.Code != rerrors.ErrConfigInvalid {
				t.Fatalf("expected CONFIG_INVALID, got %v", err)
			}
			if re.Context["field"] != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, re.Context["field"])
			}
		})
	}
}

func TestSaveAndInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "scriptpdf.yaml")

	created, err := InitConfig(path)
	if err != nil || !created {
		t.Fatalf("expected config created, got %v %v", created, err)
	}
	created, err = InitConfig(path)
	if err != nil || created {
		t.Errorf("expected existing config left alone, got %v %v", created, err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load after init failed: %v", err)
	}
	if cfg.Server.Port != 8081 || cfg.Storage.LessonDir != "./lessons" {
		t.Errorf("unexpected round-tripped config %+v", cfg)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil || cfg == nil {
		t.Fatalf("expected default config, got %v", err)
	}
	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil || cfg.Export.Backend != "pdf" {
		t.Errorf("expected default for missing file, got %v", err)
	}
}

func TestConfigureLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	if err := ConfigureLogger(l, LogConfig{Level: "debug", Format: "json"}, &buf); err != nil {
		t.Fatal(err)
	}
	l.WithField("component", "test").Debug("hello")
	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	if err := ConfigureLogger(l, LogConfig{Level: "nope"}, &buf); err == nil {
		t.Error("expected error for unknown level")
	}
}
