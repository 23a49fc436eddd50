// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package memory provides an in-process VectorStore with brute-force
// nearest-neighbor scan. It backs tests and ephemeral runs; nothing is
// persisted between sessions.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

func init() {
	store.RegisterBackend("memory", func(_ string, dimensions int) (store.VectorStore, error) {
		return NewVectorStore(dimensions), nil
	})
}

// Compile-time interface check.
var _ store.VectorStore = (*VectorStore)(nil)

type entry struct {
	chunk  store.Chunk
	vector []float32
}

// VectorStore is an in-memory store.VectorStore.
type VectorStore struct {
	mu         sync.RWMutex
	dimensions int
	docs       []store.Document
	entries    []entry
}

// NewVectorStore creates an empty in-memory store with the given dimension.
func NewVectorStore(dimensions int) *VectorStore {
	return &VectorStore{dimensions: dimensions}
}

func (v *VectorStore) Add(_ context.Context, doc store.Document, chunks []store.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return apperr.Errorf(apperr.CodeStoreInvalidInput,
			"chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != v.dimensions {
			return apperr.Errorf(apperr.CodeStoreDimensionMismatch,
				"vector %d has dimension %d, store expects %d", i, len(vec), v.dimensions)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	doc.Text = "" // text is transient, only chunks are kept
	v.docs = append(v.docs, doc)
	for i, chunk := range chunks {
		v.entries = append(v.entries, entry{chunk: chunk, vector: vectors[i]})
	}
	return nil
}

func (v *VectorStore) Query(_ context.Context, vector []float32, k int) ([]store.QueryResult, error) {
	if k <= 0 {
		return nil, apperr.Errorf(apperr.CodeStoreInvalidInput, "k must be positive, got %d", k)
	}
	if len(vector) != v.dimensions {
		return nil, apperr.Errorf(apperr.CodeStoreDimensionMismatch,
			"query vector has dimension %d, store expects %d", len(vector), v.dimensions)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	results := make([]store.QueryResult, 0, len(v.entries))
	for _, e := range v.entries {
		results = append(results, store.QueryResult{Chunk: e.chunk, Distance: l2(vector, e.vector)})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (v *VectorStore) Documents(_ context.Context) ([]store.Document, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	docs := make([]store.Document, len(v.docs))
	copy(docs, v.docs)
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].FetchedAt.After(docs[j].FetchedAt) })
	return docs, nil
}

func (v *VectorStore) Document(_ context.Context, id string) (store.Document, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for _, doc := range v.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return store.Document{}, apperr.Errorf(apperr.CodeStoreDocumentNotFound, "document %s not found", id)
}

func (v *VectorStore) ChunkCount(_ context.Context) (int64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return int64(len(v.entries)), nil
}

func (v *VectorStore) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.docs = nil
	v.entries = nil
	return nil
}

func (v *VectorStore) Dimensions() int {
	return v.dimensions
}

func (v *VectorStore) Close() error {
	return nil
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
