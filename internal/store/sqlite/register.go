// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package sqlite

import (
	"path/filepath"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", newVectorStore)
}

func newVectorStore(dataDir string, dimensions int) (store.VectorStore, error) {
	return NewVectorStore(filepath.Join(dataDir, "schemes.db"), dimensions)
}
