// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package server_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/chunker"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/engine"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/loader"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/provider"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/server"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store/memory"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	registry := provider.NewRegistry()
	registry.Register("groq", stubProvider{})
	require.NoError(t, registry.SetDefault("groq/llama3-8b-8192"))

	eng, err := engine.New(engine.Config{
		Loader:   loader.New(filepath.Join(t.TempDir(), "uploads")),
		Chunker:  chunker.New(),
		Embedder: stubEmbedder{},
		Store:    memory.NewVectorStore(testDims),
		Registry: registry,
	})
	require.NoError(t, err)
	return eng
}

func TestNew_RequiresListenAddr(t *testing.T) {
	_, err := server.New(server.Config{}, newTestEngine(t))
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeServerStartFailure))
}

func TestNew_RequiresEngine(t *testing.T) {
	_, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, nil)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeServerStartFailure))
}

func TestStart_GracefulShutdownOnCancel(t *testing.T) {
	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, newTestEngine(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	// Give the listener a moment, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}

func TestStart_FailsOnBadAddress(t *testing.T) {
	srv, err := server.New(server.Config{ListenAddr: "256.0.0.1:99999"}, newTestEngine(t))
	require.NoError(t, err)

	err = srv.Start(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeServerStartFailure))
}
