// Package backend provides render backends for laid-out script reports: a PDF
// writer on gofpdf and a deterministic text recorder, plus a registry of named
// factories and PDF verification.
package backend

import (
	"sort"
	"sync"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/layout"
)

// Info describes a registered backend.
type Info struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
}

type entry struct {
	info    Info
	factory layout.BackendFactory
}

// Registry manages the available backend factories.
type Registry struct {
	backends map[string]entry
	mu       sync.RWMutex
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]entry),
	}
}

// Register adds a backend factory under info.Name.
func (r *Registry) Register(info Info, factory layout.BackendFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[info.Name]; exists {
		return rerrors.Newf(rerrors.ErrBackendAlreadyRegistered, rerrors.CategoryBackend,
			"backend %q already registered", info.Name).
			WithContext("backend", info.Name)
	}
	r.backends[info.Name] = entry{info: info, factory: factory}
	return nil
}

// Get retrieves a backend factory by name.
func (r *Registry) Get(name string) (layout.BackendFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.backends[name]
	return e.factory, ok
}

// Lookup is Get with a BACKEND_NOT_FOUND error listing the alternatives.
func (r *Registry) Lookup(name string) (layout.BackendFactory, Info, error) {
	r.mu.RLock()
	e, ok := r.backends[name]
	r.mu.RUnlock()
	if !ok {
		return nil, Info{}, rerrors.BackendNotFound(name, r.List())
	}
	return e.factory, e.info, nil
}

// List returns all registered backend names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.backends))
	for name := range r.backends {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Infos returns descriptions of every backend, sorted by name.
func (r *Registry) Infos() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.backends))
	for _, e := range r.backends {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Default creates a registry with the pdf and text backends.
func Default(opts PDFOptions) *Registry {
	registry := NewRegistry()
	// Errors impossible here since registry is freshly created (no duplicates)
	_ = registry.Register(PDFInfo, NewPDFFactory(opts))
	_ = registry.Register(TextInfo, TextFactory)
	return registry
}
