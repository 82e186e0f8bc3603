package errors

// -----------------------------------------------------------------------------
// Layout Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrInvalidGeometry indicates a non-positive page dimension, margin,
	// content width, or wrap width.
	ErrInvalidGeometry = "INVALID_GEOMETRY"
)

// -----------------------------------------------------------------------------
// Validation Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrTooManySlides indicates the slide list exceeds the configured bound.
	// Rejected before layout starts.
	ErrTooManySlides = "TOO_MANY_SLIDES"

	// ErrInvalidRequest indicates a malformed API request body.
	ErrInvalidRequest = "INVALID_REQUEST"
)

// -----------------------------------------------------------------------------
// Backend Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrMissingBackend indicates no render backend is configured.
	ErrMissingBackend = "MISSING_BACKEND"

	// ErrBackendNotFound indicates the requested backend is not registered.
	ErrBackendNotFound = "BACKEND_NOT_FOUND"

	// ErrBackendAlreadyRegistered indicates a backend with this name already exists.
	ErrBackendAlreadyRegistered = "BACKEND_ALREADY_REGISTERED"

	// ErrBackendRenderFailed indicates the backend reported a failure while drawing.
	ErrBackendRenderFailed = "BACKEND_RENDER_FAILED"

	// ErrBackendSerializeFailed indicates the backend could not produce bytes.
	ErrBackendSerializeFailed = "BACKEND_SERIALIZE_FAILED"

	// ErrVerifyFailed indicates exported PDF bytes could not be parsed.
	ErrVerifyFailed = "VERIFY_FAILED"

	// ErrPageCountMismatch indicates the exported PDF page count differs
	// from the laid-out document.
	ErrPageCountMismatch = "PAGE_COUNT_MISMATCH"
)

// -----------------------------------------------------------------------------
// Input Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrLessonNotFound indicates the requested lesson does not exist in the source.
	ErrLessonNotFound = "LESSON_NOT_FOUND"

	// ErrLessonParseFailed indicates a lesson file or document could not be decoded.
	ErrLessonParseFailed = "LESSON_PARSE_FAILED"

	// ErrSourceUnavailable indicates the lesson source could not be reached.
	ErrSourceUnavailable = "SOURCE_UNAVAILABLE"
)

// -----------------------------------------------------------------------------
// IO Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrSaveFailed indicates a report could not be written to its sink.
	ErrSaveFailed = "SAVE_FAILED"

	// ErrReportExists indicates a create-only sink already holds a report
	// under the same name.
	ErrReportExists = "REPORT_EXISTS"
)

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = "CONFIG_NOT_FOUND"

	// ErrConfigParseFailed indicates the configuration file could not be parsed.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates configuration values are invalid.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigWriteFailed indicates the config file could not be written.
	ErrConfigWriteFailed = "CONFIG_WRITE_FAILED"
)
