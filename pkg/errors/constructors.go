package errors

import (
	"fmt"
	"strconv"
)

// -----------------------------------------------------------------------------
// Constructors for the layout core
// -----------------------------------------------------------------------------

// MissingBackend reports that a build was attempted without a render backend.
func MissingBackend() *ReportError {
	return New(ErrMissingBackend, CategoryBackend, "no render backend configured").
		WithSuggestion("Configure export.backend (\"pdf\" or \"text\") or pass a backend factory to the builder")
}

// InvalidGeometry reports a non-positive geometry value.
func InvalidGeometry(field string, value float64) *ReportError {
	return Newf(ErrInvalidGeometry, CategoryLayout, "%s must be positive", field).
		WithContext("field", field).
		WithContext("value", strconv.FormatFloat(value, 'f', -1, 64)).
		WithSuggestion("Check layout.page_width, layout.page_height and layout.margin in the config file")
}

// TooManySlides reports a slide list larger than the configured bound.
func TooManySlides(count, max int) *ReportError {
	return Newf(ErrTooManySlides, CategoryValidation, "lesson has %d slides, limit is %d", count, max).
		WithContext("count", strconv.Itoa(count)).
		WithContext("max", strconv.Itoa(max)).
		WithSuggestion("Split the lesson or raise layout.max_slides")
}

// RenderFailed wraps a deferred drawing failure reported by a backend.
func RenderFailed(backend string, cause error) *ReportError {
	return Wrap(cause, ErrBackendRenderFailed, CategoryBackend, "render backend failed while drawing").
		WithContext("backend", backend)
}

// SerializeFailed wraps a backend serialization failure.
func SerializeFailed(backend string, cause error) *ReportError {
	return Wrap(cause, ErrBackendSerializeFailed, CategoryBackend, "render backend failed to serialize document").
		WithContext("backend", backend)
}

// BackendNotFound reports an unknown backend name.
func BackendNotFound(name string, available []string) *ReportError {
	err := Newf(ErrBackendNotFound, CategoryBackend, "backend %q is not registered", name).
		WithContext("backend", name)
	if len(available) > 0 {
		err.WithSuggestion(fmt.Sprintf("Available backends: %v", available))
	}
	return err
}

// -----------------------------------------------------------------------------
// Wrapping Helpers
// -----------------------------------------------------------------------------

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, code, message string) *ReportError {
	return Wrap(err, code, CategoryConfig, message)
}

// WrapInput wraps an error as a lesson input error.
func WrapInput(err error, code, message string) *ReportError {
	return Wrap(err, code, CategoryInput, message)
}

// WrapIO wraps an error as an IO error.
func WrapIO(err error, code, message string) *ReportError {
	return Wrap(err, code, CategoryIO, message)
}

// WrapBackend wraps an error as a backend error.
func WrapBackend(err error, code, message string) *ReportError {
	return Wrap(err, code, CategoryBackend, message)
}
