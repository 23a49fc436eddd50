// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package embedding

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// DefaultModel is the default embedding model.
const DefaultModel = "text-embedding-3-small"

// DefaultDimensions is the vector length of DefaultModel.
const DefaultDimensions = 1536

// Config holds OpenAI embedder configuration.
type Config struct {
	APIKey     string
	BaseURL    string // optional, useful for testing against a mock server
	Model      string
	Dimensions int
}

// Compile-time interface check.
var _ Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder implements Embedder using the OpenAI Embeddings API.
type OpenAIEmbedder struct {
	client     openaisdk.Client
	model      string
	dimensions int
}

// NewOpenAI creates a new OpenAI embedder. Returns an error if the API key
// is missing.
func NewOpenAI(cfg Config) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, apperr.New(apperr.CodeEmbeddingRequestInvalid, "openai embedder: missing api_key in config")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = DefaultDimensions
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEmbedder{
		client:     openaisdk.NewClient(opts...),
		model:      model,
		dimensions: dims,
	}, nil
}

// EmbedMany embeds a batch of texts in one API call, preserving input order.
func (e *OpenAIEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Model: openaisdk.EmbeddingModel(e.model),
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeEmbeddingUpstreamFailure, "creating embeddings", apperr.FieldModel(e.model))
	}

	if len(resp.Data) != len(texts) {
		return nil, apperr.Errorf(apperr.CodeEmbeddingResponseInvalid,
			"embedding response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, apperr.Errorf(apperr.CodeEmbeddingResponseInvalid, "embedding response index %d out of range", d.Index)
		}
		if len(d.Embedding) != e.dimensions {
			return nil, apperr.Errorf(apperr.CodeEmbeddingResponseInvalid,
				"embedding %d has dimension %d, expected %d", d.Index, len(d.Embedding), e.dimensions)
		}

		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}

	// Duplicate indices would leave a slot unfilled.
	for i, vec := range vectors {
		if vec == nil {
			return nil, apperr.Errorf(apperr.CodeEmbeddingResponseInvalid,
				"embedding response is missing a vector for input %d", i)
		}
	}

	return vectors, nil
}

// Embed embeds a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimensions returns the configured vector length.
func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// Model returns the embedding model name.
func (e *OpenAIEmbedder) Model() string { return e.model }
