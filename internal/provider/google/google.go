// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package google implements provider.Provider on the Google Gemini API.
package google

import (
	"context"

	"google.golang.org/genai"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/provider"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// Config holds Google provider configuration.
type Config struct {
	APIKey string
}

// Provider implements provider.Provider using the Google Gemini API.
type Provider struct {
	client *genai.Client
}

var _ provider.Provider = (*Provider)(nil)

// New creates a new Google provider. Returns an error if the API key is
// missing.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, apperr.New(apperr.CodeProviderRequestInvalid, "google: missing api_key in config", apperr.FieldProvider("google"))
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.CodeProviderUpstreamFailure, "google: creating client")
	}

	return &Provider{client: client}, nil
}

func (p *Provider) Name() string { return "google" }

func (p *Provider) Available(_ context.Context) bool {
	return true
}

// Complete runs a single non-streaming generation.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.Completion, error) {
	if req.Model == "" {
		return nil, apperr.New(apperr.CodeProviderRequestInvalid, "missing model", apperr.FieldProvider("google"))
	}

	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	result, err := p.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProviderUpstreamFailure, "content generation failed",
			apperr.FieldProvider("google"), apperr.FieldModel(req.Model))
	}

	completion := &provider.Completion{Text: result.Text()}
	if result.UsageMetadata != nil {
		completion.Usage = provider.Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
		}
	}

	return completion, nil
}

func (p *Provider) Close() error { return nil }
