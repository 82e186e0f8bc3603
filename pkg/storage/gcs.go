package storage

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

// GCSSink writes reports as Cloud Storage objects under a prefix. Saving a
// report replaces any object with the same name, as LocalSink does. With
// CreateOnly set, the write carries a does-not-exist precondition and an
// existing object fails with REPORT_EXISTS.
type GCSSink struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
	prefix string

	CreateOnly bool
}

// NewGCSSink creates a Cloud Storage client for bucket.
func NewGCSSink(ctx context.Context, bucket, prefix string, createOnly bool) (*GCSSink, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to create Cloud Storage client").
			WithContext("bucket", bucket)
	}
	return &GCSSink{
		client:     client,
		bucket:     client.Bucket(bucket),
		name:       bucket,
		prefix:     prefix,
		CreateOnly: createOnly,
	}, nil
}

// ObjectName returns the object path a report name is stored under.
func (s *GCSSink) ObjectName(name string) string {
	return path.Join(s.prefix, path.Base(name))
}

// Save uploads data and returns its gs:// URL.
func (s *GCSSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	object := s.ObjectName(name)
	location := "gs://" + s.name + "/" + object
	entry := log.WithField("object", location)

	handle := s.bucket.Object(object)
	if s.CreateOnly {
		handle = handle.If(storage.Conditions{DoesNotExist: true})
	}
	w := handle.NewWriter(ctx)
	// reports are small; one request per upload
	w.ChunkSize = 0
	if ct := mime.TypeByExtension(path.Ext(object)); ct != "" {
		w.ContentType = ct
	}

	_, err := w.Write(data)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if alreadyExists(err) {
			entry.Warn("report object already exists")
			return "", rerrors.WrapIO(err, rerrors.ErrReportExists, "report already exists in Cloud Storage").
				WithContext("object", location).
				WithSuggestion("Disable storage.gcs_create_only to replace existing reports")
		}
		return "", rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to write to Cloud Storage").
			WithContext("object", location)
	}

	entry.WithField("bytes", len(data)).Info("report uploaded")
	return location, nil
}

// Close releases the Cloud Storage client.
func (s *GCSSink) Close() error {
	return s.client.Close()
}

func alreadyExists(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
