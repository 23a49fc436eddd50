// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package engine ties the pipeline together: ingest loads, chunks, embeds,
// and stores scheme documents; summarize and ask retrieve top-k chunks and
// run them through an LLM provider.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/chunker"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/embedding"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/loader"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/provider"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// DefaultTopK is how many chunks each retrieval call stuffs into the prompt.
const DefaultTopK = 10

// Config wires the engine's collaborators.
type Config struct {
	Loader   *loader.Loader
	Chunker  *chunker.Chunker
	Embedder embedding.Embedder
	Store    store.VectorStore
	Registry *provider.Registry
	Logger   *slog.Logger

	TopK        int
	Temperature float32
	MaxTokens   int
}

// Engine runs the ingest, summarize, and ask operations over one corpus.
type Engine struct {
	loader   *loader.Loader
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	store    store.VectorStore
	registry *provider.Registry
	log      *slog.Logger

	topK        int
	temperature float32
	maxTokens   int
}

// New creates an Engine. All collaborators are required.
func New(cfg Config) (*Engine, error) {
	if cfg.Loader == nil || cfg.Chunker == nil || cfg.Embedder == nil || cfg.Store == nil || cfg.Registry == nil {
		return nil, apperr.New(apperr.CodeEngineInvalidInput, "engine: missing collaborator")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	return &Engine{
		loader:      cfg.Loader,
		chunker:     cfg.Chunker,
		embedder:    cfg.Embedder,
		store:       cfg.Store,
		registry:    cfg.Registry,
		log:         log,
		topK:        topK,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// IngestResult reports what one ingest call added to the corpus.
type IngestResult struct {
	Document store.Document
	Chunks   int
}

// IngestURL fetches a scheme page and adds it to the corpus.
func (e *Engine) IngestURL(ctx context.Context, rawURL string) (IngestResult, error) {
	doc, err := e.loader.LoadURL(ctx, rawURL)
	if err != nil {
		return IngestResult{}, err
	}
	return e.ingest(ctx, doc)
}

// IngestPDF saves an uploaded PDF and adds its text to the corpus.
func (e *Engine) IngestPDF(ctx context.Context, filename string, data []byte) (IngestResult, error) {
	doc, err := e.loader.LoadPDF(ctx, filename, data)
	if err != nil {
		return IngestResult{}, err
	}
	return e.ingest(ctx, doc)
}

func (e *Engine) ingest(ctx context.Context, doc store.Document) (IngestResult, error) {
	chunks := e.chunker.Chunk(doc)
	if len(chunks) == 0 {
		return IngestResult{}, apperr.New(apperr.CodeEngineNoUsableText, "no usable content found", apperr.FieldSource(doc.Source))
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := e.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return IngestResult{}, err
	}

	if err := e.store.Add(ctx, doc, chunks, vectors); err != nil {
		return IngestResult{}, err
	}

	e.log.Info("document ingested",
		"source", doc.Source,
		"kind", doc.Kind,
		"chunks", len(chunks))

	return IngestResult{Document: doc, Chunks: len(chunks)}, nil
}

// Section is one rendered summary section.
type Section struct {
	Key     string
	Title   string
	Content string
}

// Summary is the fixed four-section scheme summary.
type Summary struct {
	Model    string
	Sections []Section
	Sources  Sources
}

// Answer is the response to a free-form question.
type Answer struct {
	Model   string
	Text    string
	Sources Sources
}

// Sources lists the deduped origins of the retrieved chunks, split by kind.
type Sources struct {
	URLs []string
	PDFs []string
}

// Summarize asks the four fixed section questions against the corpus.
// Sections whose retrieval or completion yields nothing usable read
// "No information found." instead of failing the whole summary.
func (e *Engine) Summarize(ctx context.Context, modelRef string) (*Summary, error) {
	if err := e.ensureCorpus(ctx); err != nil {
		return nil, err
	}

	p, model, err := e.registry.Resolve(modelRef)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Model: p.Name() + "/" + model}
	var all []store.QueryResult

	for _, section := range summarySections {
		results, err := e.retrieve(ctx, section.Prompt)
		if err != nil {
			return nil, err
		}

		content := NoInformationFound
		if len(results) > 0 {
			completion, err := p.Complete(ctx, provider.CompletionRequest{
				Model:        model,
				SystemPrompt: systemPrompt,
				Prompt:       stuffPrompt(section.Prompt, results),
				Temperature:  e.temperature,
				MaxTokens:    e.maxTokens,
			})
			if err != nil {
				return nil, err
			}
			if text := strings.TrimSpace(completion.Text); text != "" {
				content = text
			}
		}

		summary.Sections = append(summary.Sections, Section{
			Key:     section.Key,
			Title:   section.Title,
			Content: content,
		})
		all = append(all, results...)
	}

	summary.Sources = collectSources(all)
	e.log.Info("summary generated", "model", summary.Model, "sections", len(summary.Sections))
	return summary, nil
}

// Ask answers a free-form question from the corpus.
func (e *Engine) Ask(ctx context.Context, question, modelRef string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperr.New(apperr.CodeEngineInvalidInput, "empty question")
	}

	if err := e.ensureCorpus(ctx); err != nil {
		return nil, err
	}

	p, model, err := e.registry.Resolve(modelRef)
	if err != nil {
		return nil, err
	}

	results, err := e.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &Answer{Model: p.Name() + "/" + model, Text: NoInformationFound}, nil
	}

	completion, err := p.Complete(ctx, provider.CompletionRequest{
		Model:        model,
		SystemPrompt: systemPrompt,
		Prompt:       stuffPrompt(question, results),
		Temperature:  e.temperature,
		MaxTokens:    e.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Model:   p.Name() + "/" + model,
		Text:    strings.TrimSpace(completion.Text),
		Sources: collectSources(results),
	}
	e.log.Info("question answered", "model", answer.Model, "retrieved", len(results))
	return answer, nil
}

// Documents lists all ingested documents, newest first.
func (e *Engine) Documents(ctx context.Context) ([]store.Document, error) {
	return e.store.Documents(ctx)
}

// Document fetches one ingested document by ID.
func (e *Engine) Document(ctx context.Context, id string) (store.Document, error) {
	return e.store.Document(ctx, id)
}

// Reset clears the corpus and removes saved uploads.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.store.Reset(ctx); err != nil {
		return err
	}

	uploads := e.loader.UploadsDir()
	if uploads != "" {
		if err := os.RemoveAll(uploads); err != nil {
			return apperr.Wrapf(err, apperr.CodeLoaderPDFWriteFailure, "clearing uploads directory %s", uploads)
		}
	}

	e.log.Info("corpus reset", "uploads_dir", uploads)
	return nil
}

// ensureCorpus rejects retrieval operations before the first ingest.
func (e *Engine) ensureCorpus(ctx context.Context) error {
	count, err := e.store.ChunkCount(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.New(apperr.CodeEngineEmptyCorpus, "no documents ingested yet")
	}
	return nil
}

func (e *Engine) retrieve(ctx context.Context, query string) ([]store.QueryResult, error) {
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return e.store.Query(ctx, vector, e.topK)
}

// stuffPrompt folds the retrieved excerpts and the question into one prompt.
func stuffPrompt(question string, results []store.QueryResult) string {
	var sb strings.Builder
	sb.WriteString("Excerpts from the scheme documents:\n\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] (source: %s)\n%s\n\n", i+1, r.Chunk.Source, r.Chunk.Text)
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}

// collectSources dedupes chunk sources in retrieval order, split into URL
// and PDF origins. PDF sources carry the /uploads/ prefix from ingest.
func collectSources(results []store.QueryResult) Sources {
	seen := make(map[string]bool, len(results))
	var src Sources
	for _, r := range results {
		s := r.Chunk.Source
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if strings.HasPrefix(s, "/uploads/") {
			src.PDFs = append(src.PDFs, s)
		} else {
			src.URLs = append(src.URLs, s)
		}
	}
	return src
}
