// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package openai implements provider.Provider on the OpenAI Chat Completions
// API. Groq exposes the same API surface, so the same implementation serves
// both when given Groq's base URL.
package openai

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/provider"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// GroqBaseURL is the OpenAI-compatible endpoint Groq serves.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// Config holds OpenAI-compatible provider configuration.
type Config struct {
	Name    string // registry name, defaults to "openai"
	APIKey  string
	BaseURL string // optional, set to GroqBaseURL for Groq
}

// Provider implements provider.Provider using the OpenAI Chat Completions API.
type Provider struct {
	client openaisdk.Client
	name   string
}

var _ provider.Provider = (*Provider)(nil)

// New creates a new OpenAI-compatible provider. Returns an error if the API
// key is missing.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, apperr.New(apperr.CodeProviderRequestInvalid, "openai: missing api_key in config")
	}

	name := cfg.Name
	if name == "" {
		name = "openai"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{client: openaisdk.NewClient(opts...), name: name}, nil
}

// NewGroq creates a provider named "groq" pointed at Groq's endpoint.
func NewGroq(apiKey string) (*Provider, error) {
	return New(Config{Name: "groq", APIKey: apiKey, BaseURL: GroqBaseURL})
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Available(_ context.Context) bool {
	return true
}

// Complete runs a single non-streaming chat completion.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.Completion, error) {
	if req.Model == "" {
		return nil, apperr.New(apperr.CodeProviderRequestInvalid, "missing model", apperr.FieldProvider(p.name))
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: buildMessages(req),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = param.NewOpt(float64(req.Temperature))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProviderUpstreamFailure, "chat completion failed",
			apperr.FieldProvider(p.name), apperr.FieldModel(req.Model))
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.New(apperr.CodeProviderUpstreamFailure, "chat completion returned no choices",
			apperr.FieldProvider(p.name), apperr.FieldModel(req.Model))
	}

	return &provider.Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: provider.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

func (p *Provider) Close() error { return nil }

func buildMessages(req provider.CompletionRequest) []openaisdk.ChatCompletionMessageParamUnion {
	var msgs []openaisdk.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		msgs = append(msgs, openaisdk.SystemMessage(req.SystemPrompt))
	}
	return append(msgs, openaisdk.UserMessage(req.Prompt))
}
