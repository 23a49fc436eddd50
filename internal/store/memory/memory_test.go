// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store/memory"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

func TestVectorStore_QueryRanksByDistance(t *testing.T) {
	ctx := context.Background()
	vs := memory.NewVectorStore(3)

	doc := store.Document{ID: "d1", Source: "https://example.gov/a", Kind: store.DocumentKindURL, FetchedAt: time.Now()}
	chunks := []store.Chunk{
		{ID: "c1", DocumentID: "d1", Source: doc.Source, Position: 0, Text: "far"},
		{ID: "c2", DocumentID: "d1", Source: doc.Source, Position: 1, Text: "near"},
	}
	require.NoError(t, vs.Add(ctx, doc, chunks, [][]float32{{0, 1, 0}, {1, 0, 0}}))

	results, err := vs.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c2", results[0].Chunk.ID)
	assert.Zero(t, results[0].Distance)
}

func TestVectorStore_EmptyQuery(t *testing.T) {
	vs := memory.NewVectorStore(3)

	results, err := vs.Query(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorStore_DimensionChecked(t *testing.T) {
	ctx := context.Background()
	vs := memory.NewVectorStore(3)

	doc := store.Document{ID: "d1", Source: "x", Kind: store.DocumentKindURL, FetchedAt: time.Now()}
	err := vs.Add(ctx, doc, []store.Chunk{{ID: "c1"}}, [][]float32{{1, 0}})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreDimensionMismatch))

	_, err = vs.Query(ctx, []float32{1, 0}, 3)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreDimensionMismatch))
}

func TestVectorStore_ResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	vs := memory.NewVectorStore(2)

	doc := store.Document{ID: "d1", Source: "x", Kind: store.DocumentKindURL, FetchedAt: time.Now()}
	require.NoError(t, vs.Add(ctx, doc, []store.Chunk{{ID: "c1", DocumentID: "d1"}}, [][]float32{{1, 0}}))

	require.NoError(t, vs.Reset(ctx))

	n, err := vs.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	docs, err := vs.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOpenMemoryBackend(t *testing.T) {
	vs, err := store.Open(&store.StorageConfig{Backend: "memory", Dimensions: 8}, "")
	require.NoError(t, err)
	assert.Equal(t, 8, vs.Dimensions())
	require.NoError(t, vs.Close())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := store.Open(&store.StorageConfig{Backend: "bolt"}, "")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreBackendUnsupported))
}
