// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/engine"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "ingest",
		Method:      http.MethodPost,
		Path:        "/api/v1/ingest",
		Summary:     "Ingest scheme URLs and PDF uploads",
		Tags:        []string{"corpus"},
	}, s.handleIngest)

	huma.Register(s.api, huma.Operation{
		OperationID: "summary",
		Method:      http.MethodPost,
		Path:        "/api/v1/summary",
		Summary:     "Generate the four-section scheme summary",
		Tags:        []string{"analysis"},
	}, s.handleSummary)

	huma.Register(s.api, huma.Operation{
		OperationID: "ask",
		Method:      http.MethodPost,
		Path:        "/api/v1/ask",
		Summary:     "Ask a question about the ingested schemes",
		Tags:        []string{"analysis"},
	}, s.handleAsk)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-documents",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents",
		Summary:     "List ingested documents",
		Tags:        []string{"corpus"},
	}, s.handleListDocuments)

	huma.Register(s.api, huma.Operation{
		OperationID: "reset",
		Method:      http.MethodPost,
		Path:        "/api/v1/reset",
		Summary:     "Clear the corpus and uploaded files",
		Tags:        []string{"corpus"},
	}, s.handleReset)

	// Raw chi route: streams the stored PDF instead of a JSON body.
	s.router.Get("/api/v1/documents/{id}/download", s.handleDownload)
}

// --- Request/Response types for huma ---

type pdfUpload struct {
	Filename string `json:"filename" minLength:"1" doc:"Original PDF filename"`
	Data     []byte `json:"data" doc:"PDF bytes, base64-encoded"`
}

type ingestInput struct {
	Body struct {
		URLs []string    `json:"urls,omitempty" doc:"Scheme page URLs to fetch"`
		PDFs []pdfUpload `json:"pdfs,omitempty" doc:"PDF uploads"`
	}
}

type ingestedDocument struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Kind   string `json:"kind" enum:"url,pdf"`
	Title  string `json:"title,omitempty"`
	Chunks int    `json:"chunks" doc:"Number of chunks stored"`
}

type ingestOutput struct {
	Body struct {
		Documents   []ingestedDocument `json:"documents"`
		TotalChunks int                `json:"total_chunks"`
	}
}

type summaryInput struct {
	Body struct {
		Model string `json:"model,omitempty" doc:"Override model as provider/model"`
	}
}

type summarySection struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type sourceList struct {
	URLs []string `json:"urls,omitempty"`
	PDFs []string `json:"pdfs,omitempty"`
}

type summaryOutput struct {
	Body struct {
		Model    string           `json:"model"`
		Sections []summarySection `json:"sections"`
		Sources  sourceList       `json:"sources"`
	}
}

type askInput struct {
	Body struct {
		Question string `json:"question" minLength:"1" doc:"Free-form question"`
		Model    string `json:"model,omitempty" doc:"Override model as provider/model"`
	}
}

type askOutput struct {
	Body struct {
		Model   string     `json:"model"`
		Answer  string     `json:"answer"`
		Sources sourceList `json:"sources"`
	}
}

type documentSummary struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Kind      string    `json:"kind" enum:"url,pdf"`
	Title     string    `json:"title,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

type listDocumentsOutput struct {
	Body struct {
		Documents []documentSummary `json:"documents"`
	}
}

type resetOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// --- Handlers ---

func (s *Server) handleIngest(ctx context.Context, input *ingestInput) (*ingestOutput, error) {
	if len(input.Body.URLs) == 0 && len(input.Body.PDFs) == 0 {
		return nil, huma.Error400BadRequest("provide at least one url or pdf")
	}

	out := &ingestOutput{}
	out.Body.Documents = []ingestedDocument{}

	ingestOne := func(res engine.IngestResult) {
		out.Body.Documents = append(out.Body.Documents, ingestedDocument{
			ID:     res.Document.ID,
			Source: res.Document.Source,
			Kind:   string(res.Document.Kind),
			Title:  res.Document.Title,
			Chunks: res.Chunks,
		})
		out.Body.TotalChunks += res.Chunks
	}

	for _, url := range input.Body.URLs {
		res, err := s.engine.IngestURL(ctx, url)
		if err != nil {
			return nil, mapError(err)
		}
		ingestOne(res)
	}

	for _, pdf := range input.Body.PDFs {
		res, err := s.engine.IngestPDF(ctx, pdf.Filename, pdf.Data)
		if err != nil {
			return nil, mapError(err)
		}
		ingestOne(res)
	}

	return out, nil
}

func (s *Server) handleSummary(ctx context.Context, input *summaryInput) (*summaryOutput, error) {
	summary, err := s.engine.Summarize(ctx, input.Body.Model)
	if err != nil {
		return nil, mapError(err)
	}

	out := &summaryOutput{}
	out.Body.Model = summary.Model
	out.Body.Sections = make([]summarySection, 0, len(summary.Sections))
	for _, sec := range summary.Sections {
		out.Body.Sections = append(out.Body.Sections, summarySection{
			Key:     sec.Key,
			Title:   sec.Title,
			Content: sec.Content,
		})
	}
	out.Body.Sources = sourceList{URLs: summary.Sources.URLs, PDFs: summary.Sources.PDFs}
	return out, nil
}

func (s *Server) handleAsk(ctx context.Context, input *askInput) (*askOutput, error) {
	answer, err := s.engine.Ask(ctx, input.Body.Question, input.Body.Model)
	if err != nil {
		return nil, mapError(err)
	}

	out := &askOutput{}
	out.Body.Model = answer.Model
	out.Body.Answer = answer.Text
	out.Body.Sources = sourceList{URLs: answer.Sources.URLs, PDFs: answer.Sources.PDFs}
	return out, nil
}

func (s *Server) handleListDocuments(ctx context.Context, _ *struct{}) (*listDocumentsOutput, error) {
	docs, err := s.engine.Documents(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	out := &listDocumentsOutput{}
	out.Body.Documents = make([]documentSummary, 0, len(docs))
	for _, doc := range docs {
		out.Body.Documents = append(out.Body.Documents, documentSummary{
			ID:        doc.ID,
			Source:    doc.Source,
			Kind:      string(doc.Kind),
			Title:     doc.Title,
			FetchedAt: doc.FetchedAt,
		})
	}
	return out, nil
}

func (s *Server) handleReset(ctx context.Context, _ *struct{}) (*resetOutput, error) {
	if err := s.engine.Reset(ctx); err != nil {
		return nil, mapError(err)
	}

	out := &resetOutput{}
	out.Body.Status = "reset"
	return out, nil
}

// handleDownload streams the stored PDF for a document.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.engine.Document(r.Context(), id)
	if err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	if doc.Kind != store.DocumentKindPDF || doc.FilePath == "" {
		http.Error(w, "document has no downloadable file", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(doc.FilePath)))
	http.ServeFile(w, r, doc.FilePath)
}

// mapError converts an engine error into the huma status error its code
// implies: 404 not found, 409 conflict, 400 invalid input, 502 upstream.
func mapError(err error) error {
	return huma.NewError(apperr.HTTPStatus(err), err.Error())
}
