// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package embedding converts chunk text into fixed-length vectors.
package embedding

import "context"

// Embedder turns text into embedding vectors. Implementations must be
// deterministic for a fixed model and input.
type Embedder interface {
	// EmbedMany embeds a batch of texts, one vector per input, in order.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// Embed embeds a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector length this embedder produces.
	Dimensions() int

	// Model identifies the embedding model.
	Model() string
}
