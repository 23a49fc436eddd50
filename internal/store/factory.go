// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package store

import (
	"sync"

	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// defaultDimensions matches OpenAI text-embedding-3-small.
const defaultDimensions = 1536

// StorageConfig selects and parameterizes the storage backend.
type StorageConfig struct {
	Backend    string
	Dimensions int
}

// Factory creates a VectorStore rooted at dataDir with the given embedding
// dimension.
type Factory func(dataDir string, dimensions int) (VectorStore, error)

var (
	factories   = map[string]Factory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers a factory for a named storage backend.
// Backend packages call this from init(). Goroutine-safe.
func RegisterBackend(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Open creates the configured VectorStore.
func Open(cfg *StorageConfig, dataDir string) (VectorStore, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "sqlite"
	}

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, apperr.Errorf(apperr.CodeStoreBackendUnsupported, "unsupported storage backend: %q", backend)
	}

	dims := cfg.Dimensions
	if dims <= 0 {
		dims = defaultDimensions
	}

	return factory(dataDir, dims)
}
