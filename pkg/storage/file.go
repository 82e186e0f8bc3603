package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

var lessonExts = []string{".json", ".yaml", ".yml"}

// FileSource reads lessons from a directory; the project ID is the file name
// without its extension.
type FileSource struct {
	Dir string
}

// NewFileSource creates a source over dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Load reads {id}.json, {id}.yaml or {id}.yml, in that order.
func (s *FileSource) Load(ctx context.Context, id string) (*lesson.Lesson, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return nil, rerrors.Newf(rerrors.ErrLessonNotFound, rerrors.CategoryInput, "invalid lesson id %q", id).
			WithContext("id", id)
	}
	for _, ext := range lessonExts {
		path := filepath.Join(s.Dir, id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		l, err := lesson.LoadFile(path)
		if err != nil {
			return nil, err
		}
		l.Project.DefaultID(id)
		log.WithField("id", id).WithField("path", path).Debug("lesson loaded from file")
		return l, nil
	}
	return nil, rerrors.Newf(rerrors.ErrLessonNotFound, rerrors.CategoryInput, "lesson %q not found", id).
		WithContext("id", id).
		WithContext("dir", s.Dir)
}

// List returns the IDs of every lesson file in the directory, sorted.
func (s *FileSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, rerrors.WrapIO(err, rerrors.ErrSourceUnavailable, "failed to read lesson directory").
			WithContext("dir", s.Dir)
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range lessonExts {
			if ext != want {
				continue
			}
			id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// LocalSink writes reports into a directory.
type LocalSink struct {
	Dir string
}

// NewLocalSink creates a sink over dir. The directory is created on first save.
func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{Dir: dir}
}

// Save writes data to Dir/name through a temporary file and a rename, so a
// reader never sees a partial report.
func (s *LocalSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to create output directory").
			WithContext("dir", s.Dir)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return "", rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to create temporary file").
			WithContext("dir", s.Dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to write report").
			WithContext("name", name)
	}
	if err := tmp.Close(); err != nil {
		return "", rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to write report").
			WithContext("name", name)
	}

	path := filepath.Join(s.Dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to move report into place").
			WithContext("path", path)
	}
	log.WithField("path", path).WithField("bytes", len(data)).Info("report saved")
	return path, nil
}
