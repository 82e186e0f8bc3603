package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

// HandlerFunc is the function signature for API handlers.
type HandlerFunc func(w http.ResponseWriter, r *http.Request)

// Route is a registered route.
type Route struct {
	Method  string
	Pattern string
	Handler HandlerFunc
}

// Router is a small HTTP router with :param path segments.
type Router struct {
	routes []Route
	mu     sync.RWMutex

	// NotFound is called when no route matches
	NotFound http.Handler
}

// NewRouter creates a new Router.
func NewRouter() *Router {
	return &Router{
		routes: make([]Route, 0),
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, http.StatusNotFound, "not_found", "The requested resource was not found")
		}),
	}
}

// Handle registers a handler for the given method and pattern, e.g.
// /api/projects/:id/export.
func (rt *Router) Handle(method, pattern string, handler HandlerFunc) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.routes = append(rt.routes, Route{
		Method:  method,
		Pattern: pattern,
		Handler: handler,
	})
}

// GET registers a handler for GET requests.
func (rt *Router) GET(pattern string, handler HandlerFunc) {
	rt.Handle(http.MethodGet, pattern, handler)
}

// POST registers a handler for POST requests.
func (rt *Router) POST(pattern string, handler HandlerFunc) {
	rt.Handle(http.MethodPost, pattern, handler)
}

// ServeHTTP implements http.Handler. A path that matches only under another
// method answers 405.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	methodMismatch := false
	for _, route := range rt.routes {
		params, matched := matchPath(route.Pattern, r.URL.Path)
		if !matched {
			continue
		}
		if route.Method != r.Method {
			methodMismatch = true
			continue
		}
		if len(params) > 0 {
			r = setPathParams(r, params)
		}
		route.Handler(w, r)
		return
	}

	if methodMismatch {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed for this resource")
		return
	}
	rt.NotFound.ServeHTTP(w, r)
}

// matchPath matches a URL path against a pattern and extracts parameters.
func matchPath(pattern, path string) (map[string]string, bool) {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return nil, false
			}
			params[part[1:]] = pathParts[i]
		} else if part != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

type contextKey string

const pathParamsKey contextKey = "pathParams"

func setPathParams(r *http.Request, params map[string]string) *http.Request {
	ctx := context.WithValue(r.Context(), pathParamsKey, params)
	return r.WithContext(ctx)
}

// PathParam extracts a path parameter from the request.
func PathParam(r *http.Request, name string) string {
	params, ok := r.Context().Value(pathParamsKey).(map[string]string)
	if !ok {
		return ""
	}
	return params[name]
}

// -----------------------------------------------------------------------------
// Response Helpers
// -----------------------------------------------------------------------------

// APIResponse is the standard response wrapper for API endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeAPIError(w, status, &APIError{Code: code, Message: message})
}

// WriteReportError maps a pipeline error onto an HTTP status and writes it.
// Errors that are not *errors.ReportError become 500 internal_error.
func WriteReportError(w http.ResponseWriter, err error) {
	re, ok := rerrors.AsReportError(err)
	if !ok {
		log.WithError(err).Error("unexpected error")
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	writeAPIError(w, StatusFor(re), &APIError{Code: re.Code, Message: re.Message, Context: re.Context})
}

// StatusFor returns the HTTP status for a report error.
func StatusFor(re *rerrors.ReportError) int {
	switch re.Code {
	case rerrors.ErrLessonNotFound:
		return http.StatusNotFound
	case rerrors.ErrBackendNotFound, rerrors.ErrInvalidRequest:
		return http.StatusBadRequest
	case rerrors.ErrTooManySlides:
		return http.StatusUnprocessableEntity
	case rerrors.ErrSourceUnavailable:
		return http.StatusServiceUnavailable
	case rerrors.ErrReportExists:
		return http.StatusConflict
	}
	switch re.Category {
	case rerrors.CategoryValidation, rerrors.CategoryInput, rerrors.CategoryLayout:
		return http.StatusBadRequest
	case rerrors.CategoryIO:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeAPIError(w http.ResponseWriter, status int, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: false, Error: apiErr})
}
