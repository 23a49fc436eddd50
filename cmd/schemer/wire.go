// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/chunker"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/config"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/embedding"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/engine"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/loader"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/provider"
	anthropicprov "github.com/vishnuvardhanreddythornala/scheme-research/internal/provider/anthropic"
	googleprov "github.com/vishnuvardhanreddythornala/scheme-research/internal/provider/google"
	openaiprov "github.com/vishnuvardhanreddythornala/scheme-research/internal/provider/openai"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	_ "github.com/vishnuvardhanreddythornala/scheme-research/internal/store/memory" // register memory backend
	_ "github.com/vishnuvardhanreddythornala/scheme-research/internal/store/sqlite" // register sqlite backend
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// App holds the wired engine and the resources it owns.
type App struct {
	Engine   *engine.Engine
	Store    store.VectorStore
	Registry *provider.Registry
	Config   *config.Config
}

// Close releases the store and provider clients.
func (a *App) Close() error {
	var errs []error
	if err := a.Registry.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return apperr.Join(errs...)
	}
	return nil
}

// wireApp builds the full pipeline from configuration: loader, chunker,
// embedder, vector store, provider registry, and engine.
func wireApp(cfg *config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, apperr.Errorf(apperr.CodeCLISetupFailure, "creating data directory: %w", err)
	}

	st, err := store.Open(&store.StorageConfig{
		Backend:    cfg.Storage.Backend,
		Dimensions: cfg.Embedding.Dimensions,
	}, cfg.Storage.DataDir)
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.CodeCLISetupFailure, "opening vector store")
	}

	embedder, err := wireEmbedder(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	registry := provider.NewRegistry()
	registerBuiltinProviders(cfg, registry)

	if err := registry.SetDefault(cfg.LLM.DefaultModel); err != nil {
		_ = st.Close()
		return nil, apperr.Wrapf(err, apperr.CodeCLISetupFailure, "setting default model %s", cfg.LLM.DefaultModel)
	}

	eng, err := engine.New(engine.Config{
		Loader:      loader.New(cfg.UploadsDir()),
		Chunker:     chunker.New(chunker.WithChunkSize(cfg.Ingest.ChunkSize), chunker.WithOverlap(cfg.Ingest.ChunkOverlap)),
		Embedder:    embedder,
		Store:       st,
		Registry:    registry,
		Logger:      slog.Default(),
		TopK:        cfg.LLM.TopK,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		_ = st.Close()
		_ = registry.Close()
		return nil, err
	}

	return &App{Engine: eng, Store: st, Registry: registry, Config: cfg}, nil
}

// wireEmbedder builds the embedding client. The API key comes from the
// matching providers entry; the endpoint override serves OpenAI-compatible
// embedding servers.
func wireEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	apiKey := cfg.Providers[cfg.Embedding.Provider].APIKey
	if apiKey == "" {
		return nil, apperr.Errorf(apperr.CodeCLISetupFailure,
			"embedding provider %q has no api_key configured", cfg.Embedding.Provider)
	}

	return embedding.NewOpenAI(embedding.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.Embedding.Endpoint,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})
}

// builtinProviderFactories maps config provider names to constructors.
var builtinProviderFactories = map[string]func(config.ProviderConfig) (provider.Provider, error){
	"groq": func(pc config.ProviderConfig) (provider.Provider, error) {
		endpoint := pc.Endpoint
		if endpoint == "" {
			endpoint = openaiprov.GroqBaseURL
		}
		return openaiprov.New(openaiprov.Config{Name: "groq", APIKey: pc.APIKey, BaseURL: endpoint})
	},
	"openai": func(pc config.ProviderConfig) (provider.Provider, error) {
		return openaiprov.New(openaiprov.Config{APIKey: pc.APIKey, BaseURL: pc.Endpoint})
	},
	"anthropic": func(pc config.ProviderConfig) (provider.Provider, error) {
		return anthropicprov.New(anthropicprov.Config{APIKey: pc.APIKey, BaseURL: pc.Endpoint})
	},
	"google": func(pc config.ProviderConfig) (provider.Provider, error) {
		return googleprov.New(googleprov.Config{APIKey: pc.APIKey})
	},
}

// registerBuiltinProviders iterates configured providers and registers
// matching built-in implementations. Unknown names or empty API keys are
// logged and skipped, neither is fatal at startup.
func registerBuiltinProviders(cfg *config.Config, reg *provider.Registry) {
	for name, pc := range cfg.Providers {
		if pc.APIKey == "" {
			slog.Warn("skipping provider with empty API key", "provider", name)
			continue
		}
		factory, ok := builtinProviderFactories[name]
		if !ok {
			slog.Warn("unknown provider in config, skipping", "provider", name)
			continue
		}
		p, err := factory(pc)
		if err != nil {
			slog.Warn("failed to create provider", "provider", name, "error", err)
			continue
		}
		reg.Register(name, p)
		slog.Debug("registered provider", "provider", name)
	}
}
