// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package provider defines the LLM completion interface and the registry
// that resolves "provider/model" references to concrete backends.
package provider

import (
	"context"
)

// Provider is the core interface for LLM completion backends.
type Provider interface {
	Name() string
	Available(ctx context.Context) bool
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	Close() error
}

// CompletionRequest is a single-turn completion request. Retrieval context
// is folded into Prompt by the caller.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	Temperature  float32
	MaxTokens    int
}

// Completion is the provider's full response.
type Completion struct {
	Text  string
	Usage Usage
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
