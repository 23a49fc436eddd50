// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package engine_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/chunker"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/engine"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/loader"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/provider"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store/memory"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

const fakeDims = 8

// fakeEmbedder maps text to a deterministic bag-of-terms vector: each term
// it knows about owns one dimension. Texts sharing terms land close together.
type fakeEmbedder struct {
	terms []string
	fail  error
}

func newFakeEmbedder(terms ...string) *fakeEmbedder {
	return &fakeEmbedder{terms: terms}
}

func (f *fakeEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, fakeDims)
		lower := strings.ToLower(text)
		for j, term := range f.terms {
			if j >= fakeDims {
				break
			}
			if strings.Contains(lower, term) {
				vec[j] = 1
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) Dimensions() int { return fakeDims }
func (f *fakeEmbedder) Model() string   { return "fake" }

// scriptedProvider echoes the prompt back so tests can inspect what the
// engine stuffed into it.
type scriptedProvider struct {
	name    string
	reply   string
	fail    error
	prompts []string
}

func (s *scriptedProvider) Name() string                   { return s.name }
func (s *scriptedProvider) Available(context.Context) bool { return true }
func (s *scriptedProvider) Close() error                   { return nil }
func (s *scriptedProvider) Complete(_ context.Context, req provider.CompletionRequest) (*provider.Completion, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.prompts = append(s.prompts, req.Prompt)
	reply := s.reply
	if reply == "" {
		reply = "scripted answer"
	}
	return &provider.Completion{Text: reply, Usage: provider.Usage{InputTokens: 10, OutputTokens: 5}}, nil
}

type fixture struct {
	engine   *engine.Engine
	store    *memory.VectorStore
	provider *scriptedProvider
	embedder *fakeEmbedder
	uploads  string
	server   *httptest.Server
}

const grantPage = `<!DOCTYPE html>
<html><head><title>Grant Scheme</title></head><body><article>
<h1>Grant Scheme</h1>
<p>The scheme pays a housing grant to eligible families. The grant covers
construction costs and requires a ration card for the application.</p>
</article></body></html>`

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(grantPage))
	}))
	t.Cleanup(srv.Close)

	emb := newFakeEmbedder("grant", "housing", "ration", "eligible", "benefit", "apply")
	st := memory.NewVectorStore(fakeDims)
	prov := &scriptedProvider{name: "groq"}

	registry := provider.NewRegistry()
	registry.Register("groq", prov)
	require.NoError(t, registry.SetDefault("groq/llama3-8b-8192"))

	uploads := filepath.Join(t.TempDir(), "uploads")
	eng, err := engine.New(engine.Config{
		Loader:   loader.New(uploads),
		Chunker:  chunker.New(chunker.WithChunkSize(80), chunker.WithOverlap(10)),
		Embedder: emb,
		Store:    st,
		Registry: registry,
	})
	require.NoError(t, err)

	return &fixture{engine: eng, store: st, provider: prov, embedder: emb, uploads: uploads, server: srv}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := engine.New(engine.Config{})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEngineInvalidInput))
}

func TestIngestURL_StoresChunks(t *testing.T) {
	f := newFixture(t)

	res, err := f.engine.IngestURL(context.Background(), f.server.URL)
	require.NoError(t, err)

	assert.Equal(t, store.DocumentKindURL, res.Document.Kind)
	assert.Greater(t, res.Chunks, 1)

	count, err := f.store.ChunkCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(res.Chunks), count)
}

func TestSummarize_BeforeFirstIngest(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Summarize(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEngineEmptyCorpus))
	assert.True(t, apperr.IsConflict(err))
}

func TestAsk_BeforeFirstIngest(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Ask(context.Background(), "What are the benefits?", "")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEngineEmptyCorpus))
}

func TestAsk_EmptyQuestion(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Ask(context.Background(), "   ", "")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEngineInvalidInput))
}

func TestAsk_RetrievesIngestedSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	f.provider.reply = "A housing grant for eligible families."
	answer, err := f.engine.Ask(ctx, "Who is eligible for the housing grant?", "")
	require.NoError(t, err)

	assert.Equal(t, "groq/llama3-8b-8192", answer.Model)
	assert.Equal(t, "A housing grant for eligible families.", answer.Text)
	assert.Equal(t, []string{f.server.URL}, answer.Sources.URLs)
	assert.Empty(t, answer.Sources.PDFs)

	// The stuffed prompt carries the retrieved excerpts and the question.
	require.Len(t, f.provider.prompts, 1)
	assert.Contains(t, f.provider.prompts[0], "housing grant")
	assert.Contains(t, f.provider.prompts[0], "Question: Who is eligible for the housing grant?")
	assert.Contains(t, f.provider.prompts[0], f.server.URL)
}

func TestAsk_ModelOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	answer, err := f.engine.Ask(ctx, "What does the grant cover?", "groq/llama3-70b-8192")
	require.NoError(t, err)
	assert.Equal(t, "groq/llama3-70b-8192", answer.Model)
}

func TestAsk_UnknownProviderRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	_, err = f.engine.Ask(ctx, "What does the grant cover?", "openai/gpt-4.1")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeProviderNotFound))
}

func TestAsk_ProviderFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	f.provider.fail = apperr.New(apperr.CodeProviderUpstreamFailure, "model overloaded")
	_, err = f.engine.Ask(ctx, "What does the grant cover?", "")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeProviderUpstreamFailure))
}

func TestAsk_EmbedderFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	f.embedder.fail = apperr.New(apperr.CodeEmbeddingUpstreamFailure, "rate limited")
	_, err = f.engine.Ask(ctx, "What does the grant cover?", "")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEmbeddingUpstreamFailure))
}

func TestSummarize_ProducesFourSections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	f.provider.reply = "Section content."
	summary, err := f.engine.Summarize(ctx, "")
	require.NoError(t, err)

	require.Len(t, summary.Sections, 4)
	titles := make([]string, 0, 4)
	for _, s := range summary.Sections {
		titles = append(titles, s.Title)
		assert.Equal(t, "Section content.", s.Content)
	}
	assert.Equal(t, []string{
		"Scheme Benefits",
		"Application Process",
		"Eligibility Criteria",
		"Required Documents",
	}, titles)
	assert.Equal(t, []string{f.server.URL}, summary.Sources.URLs)
}

func TestDocuments_ListsIngested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	docs, err := f.engine.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, res.Document.ID, docs[0].ID)

	doc, err := f.engine.Document(ctx, res.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Document.Source, doc.Source)
}

func TestReset_ClearsStoreAndUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.IngestURL(ctx, f.server.URL)
	require.NoError(t, err)

	// Simulate a saved upload.
	require.NoError(t, os.MkdirAll(f.uploads, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.uploads, "scheme.pdf"), []byte("%PDF-1.4"), 0o644))

	require.NoError(t, f.engine.Reset(ctx))

	count, err := f.store.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, statErr := os.Stat(f.uploads)
	assert.True(t, os.IsNotExist(statErr))

	// Retrieval operations are rejected again until the next ingest.
	_, err = f.engine.Summarize(ctx, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeEngineEmptyCorpus))
}
