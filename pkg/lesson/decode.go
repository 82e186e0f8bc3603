package lesson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

// Params is an ordered list of visual-function arguments. Script generators
// emit numbers and booleans as well as strings, so any scalar is accepted and
// kept in its textual form.
type Params []string

// UnmarshalJSON accepts an array of JSON scalars.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("params must be an array: %w", err)
	}
	out := make(Params, 0, len(raw))
	for _, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			out = append(out, "null")
			continue
		}
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var v interface{}
		if err := json.Unmarshal(r, &v); err != nil {
			return err
		}
		switch t := v.(type) {
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(t))
		default:
			out = append(out, string(bytes.TrimSpace(r)))
		}
	}
	*p = out
	return nil
}

// UnmarshalYAML accepts a sequence of YAML scalars.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("params must be a sequence (line %d)", node.Line)
	}
	out := make(Params, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("params entries must be scalars (line %d)", item.Line)
		}
		out = append(out, item.Value)
	}
	*p = out
	return nil
}

// Format identifies a lesson encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension; unknown extensions
// are treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a lesson envelope in the given format.
func Decode(r io.Reader, format Format) (*Lesson, error) {
	var l Lesson
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&l); err != nil && err != io.EOF {
			return nil, rerrors.WrapInput(err, rerrors.ErrLessonParseFailed, "failed to parse YAML lesson")
		}
	default:
		if err := json.NewDecoder(r).Decode(&l); err != nil {
			return nil, rerrors.WrapInput(err, rerrors.ErrLessonParseFailed, "failed to parse JSON lesson")
		}
	}
	return &l, nil
}

// LoadFile reads a lesson from a .json, .yaml or .yml file. The project ID is
// left as written; see FileID for the name-based fallback.
func LoadFile(path string) (*Lesson, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.WrapInput(err, rerrors.ErrLessonNotFound, "lesson file not found").
				WithContext("path", path)
		}
		return nil, rerrors.WrapIO(err, rerrors.ErrLessonParseFailed, "failed to open lesson file").
			WithContext("path", path)
	}
	defer f.Close()

	l, err := Decode(f, FormatForPath(path))
	if err != nil {
		if re, ok := rerrors.AsReportError(err); ok {
			re.WithContext("path", path)
		}
		return nil, err
	}
	return l, nil
}

// FileID is the project ID implied by a lesson file name: the base name
// without its extension.
func FileID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Encode writes a lesson envelope in the given format.
func Encode(w io.Writer, l *Lesson, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	}
}
