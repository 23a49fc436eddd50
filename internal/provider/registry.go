// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package provider

import (
	"strings"
	"sync"

	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// Registry manages provider registration and model reference resolution.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider

	defaultRef string // "provider/model" format
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, apperr.New(
			apperr.CodeProviderNotFound,
			"provider not found: "+name,
			apperr.FieldProvider(name),
		)
	}
	return p, nil
}

// Names lists registered provider names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// SetDefault sets the default "provider/model" reference used when a request
// names no model. Returns an error if the provider portion of the ref is not
// registered.
func (r *Registry) SetDefault(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	provName, model := parseRef(ref)
	if model == "" {
		return apperr.Errorf(
			apperr.CodeProviderInvalidModelRef,
			"default model %q must use provider/model format", ref,
		)
	}
	if _, ok := r.providers[provName]; !ok {
		return apperr.New(
			apperr.CodeProviderNotFound,
			"SetDefault: provider not registered: "+provName,
			apperr.FieldProvider(provName),
		)
	}
	r.defaultRef = ref
	return nil
}

// DefaultRef returns the configured default "provider/model" reference.
func (r *Registry) DefaultRef() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultRef
}

// Resolve maps a model reference to a registered provider and bare model
// name. An empty ref (or "default") resolves to the configured default.
func (r *Registry) Resolve(ref string) (Provider, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ref == "" || ref == "default" {
		ref = r.defaultRef
	}
	if ref == "" {
		return nil, "", apperr.New(
			apperr.CodeProviderNotFound,
			"no default model configured",
		)
	}

	provName, model := parseRef(ref)
	if model == "" {
		return nil, "", apperr.Errorf(
			apperr.CodeProviderInvalidModelRef,
			"model %q must use provider/model format", ref,
		)
	}

	p, ok := r.providers[provName]
	if !ok {
		return nil, "", apperr.New(
			apperr.CodeProviderNotFound,
			"provider not found: "+provName,
			apperr.FieldProvider(provName),
		)
	}

	return p, model, nil
}

// Close shuts down all registered providers.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return apperr.Join(errs...)
	}
	return nil
}

// parseRef splits a "provider/model" reference on the first "/".
func parseRef(ref string) (providerName, model string) {
	idx := strings.Index(ref, "/")
	if idx < 0 {
		return ref, ""
	}
	return ref[:idx], ref[idx+1:]
}
