// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package store

import (
	"context"
	"time"
)

// DocumentKind identifies where a document's text came from.
type DocumentKind string

const (
	DocumentKindURL DocumentKind = "url"
	DocumentKindPDF DocumentKind = "pdf"
)

// Document is one ingested source: a scheme URL or an uploaded PDF.
// Text is transient. It is chunked on ingest and not persisted whole.
type Document struct {
	ID        string
	Source    string // original URL, or /uploads/<name> for PDFs
	Kind      DocumentKind
	Title     string
	Text      string
	FilePath  string // local path of the saved PDF, empty for URLs
	FetchedAt time.Time
}

// Chunk is a bounded segment of a document's text, the unit of retrieval.
type Chunk struct {
	ID         string
	DocumentID string
	Source     string
	Position   int
	Text       string
}

// QueryResult is one retrieval hit, ranked by ascending distance.
type QueryResult struct {
	Chunk    Chunk
	Distance float64
}

// VectorStore persists (vector, chunk, source) tuples and answers
// k-nearest-neighbor queries. The collection is append-only; Reset is the
// only removal path and clears everything.
type VectorStore interface {
	// Add appends a document, its chunks, and their embedding vectors.
	// vectors[i] belongs to chunks[i]; every vector must match the store's
	// dimension.
	Add(ctx context.Context, doc Document, chunks []Chunk, vectors [][]float32) error

	// Query returns up to k chunks nearest to the query vector. An empty
	// store yields no results and no error.
	Query(ctx context.Context, vector []float32, k int) ([]QueryResult, error)

	// Documents lists all ingested documents, newest first.
	Documents(ctx context.Context) ([]Document, error)

	// Document fetches a single document by ID.
	Document(ctx context.Context, id string) (Document, error)

	// ChunkCount reports how many chunks the store holds.
	ChunkCount(ctx context.Context) (int64, error)

	// Reset removes all documents, chunks, and vectors.
	Reset(ctx context.Context) error

	// Dimensions returns the fixed embedding dimension of this store.
	Dimensions() int

	Close() error
}
