package config

import (
	"strconv"

	"github.com/sirupsen/logrus"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

func invalid(field, msg string) *rerrors.ReportError {
	return rerrors.New(rerrors.ErrConfigInvalid, rerrors.CategoryConfig, msg).
		WithContext("field", field)
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.Layout.Geometry().Validate(); err != nil {
		return rerrors.WrapConfig(err, rerrors.ErrConfigInvalid, "invalid page geometry").
			WithContext("field", "layout")
	}
	if c.Layout.MaxSlides < 0 {
		return invalid("layout.max_slides", "max_slides must not be negative")
	}

	if c.Export.Backend == "" {
		return invalid("export.backend", "export backend is required").
			WithSuggestion("Set export.backend to \"pdf\" or \"text\"")
	}
	if c.Export.Concurrency < 1 {
		return invalid("export.concurrency", "concurrency must be at least 1")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", "port out of range")
	}

	switch c.Storage.Source {
	case "file":
	case "firestore":
		if c.Storage.FirestoreProject == "" {
			return invalid("storage.firestore_project", "firestore source requires a project ID")
		}
	default:
		return invalid("storage.source", "unknown lesson source "+strconv.Quote(c.Storage.Source)).
			WithSuggestion("Use \"file\" or \"firestore\"")
	}

	switch c.Storage.Sink {
	case "local":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return invalid("storage.gcs_bucket", "gcs sink requires a bucket")
		}
	default:
		return invalid("storage.sink", "unknown report sink "+strconv.Quote(c.Storage.Sink)).
			WithSuggestion("Use \"local\" or \"gcs\"")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return rerrors.WrapConfig(err, rerrors.ErrConfigInvalid, "invalid log level").
			WithContext("field", "log.level")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format", "log format must be \"text\" or \"json\"")
	}
	return nil
}
