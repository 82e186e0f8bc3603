package storage

import (
	"context"
	"encoding/json"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

// FirestoreSource reads lessons from a collection of project documents. Each
// project document holds id, title and speakers; its "slides" sub-collection
// holds one document per slide ordered by an integer "index" field.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreSource creates a Firestore client for projectID.
func NewFirestoreSource(ctx context.Context, projectID, collection string) (*FirestoreSource, error) {
	if projectID == "" {
		return nil, rerrors.New(rerrors.ErrSourceUnavailable, rerrors.CategoryInput,
			"projectID must be provided to create a firestore client")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, rerrors.WrapInput(err, rerrors.ErrSourceUnavailable, "failed to create Firestore client").
			WithContext("project", projectID)
	}
	return NewFirestoreSourceFromClient(client, collection), nil
}

// NewFirestoreSourceFromClient wraps an existing client.
func NewFirestoreSourceFromClient(client *firestore.Client, collection string) *FirestoreSource {
	if collection == "" {
		collection = "projects"
	}
	return &FirestoreSource{client: client, collection: collection}
}

// Load reads the project document and its slides.
func (s *FirestoreSource) Load(ctx context.Context, id string) (*lesson.Lesson, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, rerrors.WrapInput(err, rerrors.ErrLessonNotFound, "project document not found").
				WithContext("id", id).
				WithContext("collection", s.collection)
		}
		return nil, rerrors.WrapInput(err, rerrors.ErrSourceUnavailable, "failed to read project document").
			WithContext("id", id)
	}

	var l lesson.Lesson
	if err := decodeData(snap.Data(), &l.Project); err != nil {
		return nil, rerrors.WrapInput(err, rerrors.ErrLessonParseFailed, "failed to decode project document").
			WithContext("id", id)
	}
	if l.Project.ID == "" {
		l.Project.ID = snap.Ref.ID
	}

	docs, err := snap.Ref.Collection("slides").OrderBy("index", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, rerrors.WrapInput(err, rerrors.ErrSourceUnavailable, "failed to read slides").
			WithContext("id", id)
	}
	l.Slides = make([]lesson.Slide, 0, len(docs))
	for _, d := range docs {
		var slide lesson.Slide
		if err := decodeData(d.Data(), &slide); err != nil {
			return nil, rerrors.WrapInput(err, rerrors.ErrLessonParseFailed, "failed to decode slide").
				WithContext("id", id).
				WithContext("slide", d.Ref.ID)
		}
		l.Slides = append(l.Slides, slide)
	}

	log.WithField("id", id).WithField("slides", len(l.Slides)).Debug("lesson loaded from firestore")
	return &l, nil
}

// List returns the IDs of every project document, sorted.
func (s *FirestoreSource) List(ctx context.Context) ([]string, error) {
	iter := s.client.Collection(s.collection).DocumentRefs(ctx)
	var ids []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, rerrors.WrapInput(err, rerrors.ErrSourceUnavailable, "failed to list projects").
				WithContext("collection", s.collection)
		}
		ids = append(ids, ref.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close releases the Firestore client.
func (s *FirestoreSource) Close() error {
	return s.client.Close()
}

// decodeData maps a Firestore field map onto a tagged struct by way of JSON,
// so the lesson types need only one set of field tags.
func decodeData(data map[string]interface{}, v interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
