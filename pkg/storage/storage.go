// Package storage reads lessons from sources and writes rendered reports to
// sinks. File and local-directory implementations work offline; Firestore
// and Cloud Storage implementations back the hosted deployment.
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/r3d91ll/scriptpdf/pkg/config"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

var log = logrus.WithField("component", "storage")

// Source loads lessons by project ID.
type Source interface {
	Load(ctx context.Context, id string) (*lesson.Lesson, error)
	List(ctx context.Context) ([]string, error)
}

// Sink stores a rendered report and returns its location.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// NewSource creates the lesson source selected by cfg.
func NewSource(ctx context.Context, cfg config.StorageConfig) (Source, error) {
	switch cfg.Source {
	case "", "file":
		return NewFileSource(cfg.LessonDir), nil
	case "firestore":
		return NewFirestoreSource(ctx, cfg.FirestoreProject, cfg.FirestoreCollection)
	default:
		return nil, fmt.Errorf("unknown lesson source %q", cfg.Source)
	}
}

// NewSink creates the report sink selected by cfg. Local sinks write to dir.
func NewSink(ctx context.Context, cfg config.StorageConfig, dir string) (Sink, error) {
	switch cfg.Sink {
	case "", "local":
		return NewLocalSink(dir), nil
	case "gcs":
		return NewGCSSink(ctx, cfg.GCSBucket, cfg.GCSPrefix, cfg.GCSCreateOnly)
	default:
		return nil, fmt.Errorf("unknown report sink %q", cfg.Sink)
	}
}
