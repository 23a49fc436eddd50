// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package chunker provides a fixed-size overlapping text chunker.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 300

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 20

// Chunker splits document text into fixed-size overlapping chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave the window moving forward.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured chunk size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits the document's text into ordered chunks. Consecutive chunks
// share exactly overlap characters, so concatenating chunk 0 with each later
// chunk minus its leading overlap reconstructs the text. Empty text yields
// no chunks; the final partial chunk is kept.
//
// Sizes count characters, not bytes. Scheme documents are largely non-ASCII,
// so windows advance over runes to keep every chunk valid UTF-8.
func (c *Chunker) Chunk(doc store.Document) []store.Chunk {
	if doc.Text == "" {
		return nil
	}

	runes := []rune(doc.Text)
	total := len(runes)
	estimated := total/(c.chunkSize-c.overlap) + 1
	chunks := make([]store.Chunk, 0, estimated)

	position := 0
	for start := 0; start < total; {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, store.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Source:     doc.Source,
			Position:   position,
			Text:       string(runes[start:end]),
		})
		position++

		if end == total {
			break
		}
		start = end - c.overlap
	}

	return chunks
}

// Reassemble concatenates chunks with the overlap removed. It is the inverse
// of Chunk for chunks produced by this chunker in order.
func (c *Chunker) Reassemble(chunks []store.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString(chunks[0].Text)
	for _, chunk := range chunks[1:] {
		runes := []rune(chunk.Text)
		if len(runes) <= c.overlap {
			continue
		}
		out.WriteString(string(runes[c.overlap:]))
	}
	return out.String()
}
