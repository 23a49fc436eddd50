// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package config loads and validates schemer configuration from defaults,
// an optional YAML file, and SCHEMER_-prefixed environment variables.
package config

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// Config is the top-level schemer configuration.
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`
	Storage   StorageConfig             `mapstructure:"storage"`
	Ingest    IngestConfig              `mapstructure:"ingest"`
	Embedding EmbeddingConfig           `mapstructure:"embedding"`
	LLM       LLMConfig                 `mapstructure:"llm"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

// ServerConfig controls the HTTP API listener.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig selects the vector store backend and data directory.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
}

// IngestConfig controls document chunking.
type IngestConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
}

// EmbeddingConfig selects the embedding provider and model.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	Endpoint   string `mapstructure:"endpoint"`
}

// LLMConfig controls completion defaults.
type LLMConfig struct {
	DefaultModel string  `mapstructure:"default_model"`
	Temperature  float32 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	TopK         int     `mapstructure:"top_k"`
}

// ProviderConfig holds credentials and endpoint for an LLM provider.
// APIKey may be a keyring:// URI resolved at load time.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// UploadsDir is where ingested PDFs are kept under the data directory.
func (c *Config) UploadsDir() string {
	return filepath.Join(c.Storage.DataDir, "uploads")
}

// DefaultDataDir returns ~/.local/share/schemer, falling back to ./schemer-data
// when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "schemer-data"
	}
	return filepath.Join(home, ".local", "share", "schemer")
}

// SetDefaults installs configuration defaults on a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", "127.0.0.1:8501")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.data_dir", DefaultDataDir())
	v.SetDefault("ingest.chunk_size", 300)
	v.SetDefault("ingest.chunk_overlap", 20)
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 1536)
	v.SetDefault("llm.default_model", "groq/llama3-8b-8192")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.top_k", 10)
}

// SetupEnv enables SCHEMER_ environment variable overrides, with dots
// replaced by underscores (SCHEMER_SERVER_LISTEN, SCHEMER_LLM_TOP_K, ...).
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("SCHEMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults only when empty)
// with environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperr.Errorf(apperr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a populated Viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Errorf(apperr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, apperr.Errorf(apperr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It collects all
// problems rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateIngest()...)
	errs = append(errs, c.validateEmbedding()...)
	errs = append(errs, c.validateLLM()...)

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err,
		))
		return errs
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q", portStr))
	} else if port < 1 || port > 65535 {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 1 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"sqlite": true, "memory": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: storage.backend must be one of [sqlite, memory], got %q",
			c.Storage.Backend,
		))
	}

	if c.Storage.DataDir == "" {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: storage.data_dir must not be empty"))
	}

	return errs
}

func (c *Config) validateIngest() []error {
	var errs []error

	if c.Ingest.ChunkSize <= 0 {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: ingest.chunk_size must be greater than 0, got %d", c.Ingest.ChunkSize))
	}

	if c.Ingest.ChunkOverlap < 0 {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: ingest.chunk_overlap must not be negative, got %d", c.Ingest.ChunkOverlap))
	} else if c.Ingest.ChunkSize > 0 && c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: ingest.chunk_overlap (%d) must be smaller than ingest.chunk_size (%d)",
			c.Ingest.ChunkOverlap, c.Ingest.ChunkSize,
		))
	}

	return errs
}

func (c *Config) validateEmbedding() []error {
	var errs []error

	validProviders := map[string]bool{"openai": true}
	if !validProviders[c.Embedding.Provider] {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: embedding.provider must be one of [openai], got %q",
			c.Embedding.Provider,
		))
	}

	if c.Embedding.Model == "" {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: embedding.model must not be empty"))
	}

	if c.Embedding.Dimensions <= 0 {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: embedding.dimensions must be greater than 0, got %d", c.Embedding.Dimensions))
	}

	return errs
}

func (c *Config) validateLLM() []error {
	var errs []error

	if c.LLM.DefaultModel == "" {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: llm.default_model must not be empty"))
	} else if !strings.Contains(c.LLM.DefaultModel, "/") {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: llm.default_model must be in \"provider/model\" format, got %q",
			c.LLM.DefaultModel,
		))
	} else if c.Providers != nil {
		// Only cross-reference providers when the providers section exists.
		// A nil map means defaults only (fresh install), which is valid.
		providerName := providerFromModel(c.LLM.DefaultModel)
		if _, ok := c.Providers[providerName]; !ok {
			errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
				"config: llm.default_model %q references provider %q which is not configured",
				c.LLM.DefaultModel, providerName,
			))
		}
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: llm.temperature must be between 0 and 2, got %g", c.LLM.Temperature))
	}

	if c.LLM.MaxTokens < 0 {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: llm.max_tokens must not be negative, got %d", c.LLM.MaxTokens))
	}

	if c.LLM.TopK <= 0 {
		errs = append(errs, apperr.Errorf(apperr.CodeConfigValidateInvalidValue,
			"config: llm.top_k must be greater than 0, got %d", c.LLM.TopK))
	}

	return errs
}

// providerFromModel extracts the provider prefix from a "provider/model" string.
func providerFromModel(model string) string {
	if idx := strings.Index(model, "/"); idx > 0 {
		return model[:idx]
	}
	return model
}
