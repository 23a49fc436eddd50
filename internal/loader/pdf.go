// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// LoadPDF saves an uploaded PDF under the uploads directory and extracts its
// text. The saved file is kept so the source can be downloaded later.
func (l *Loader) LoadPDF(ctx context.Context, filename string, data []byte) (store.Document, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return store.Document{}, apperr.Errorf(apperr.CodeLoaderPDFInvalidInput, "invalid PDF filename: %q", filename)
	}
	if len(data) == 0 {
		return store.Document{}, apperr.New(apperr.CodeLoaderPDFInvalidInput, "empty PDF upload", apperr.FieldSource(name))
	}

	if err := os.MkdirAll(l.uploadsDir, 0o755); err != nil {
		return store.Document{}, apperr.Wrapf(err, apperr.CodeLoaderPDFWriteFailure, "creating uploads directory %s", l.uploadsDir)
	}

	path := filepath.Join(l.uploadsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return store.Document{}, apperr.Wrapf(err, apperr.CodeLoaderPDFWriteFailure, "saving upload %s", path)
	}

	text, err := extractText(ctx, path)
	if err != nil {
		return store.Document{}, err
	}
	if text == "" {
		return store.Document{}, apperr.New(apperr.CodeLoaderPDFParseFailure, "no usable text in PDF", apperr.FieldSource(name))
	}

	return store.Document{
		ID:        newDocumentID(),
		Source:    "/uploads/" + name,
		Kind:      store.DocumentKindPDF,
		Title:     strings.TrimSuffix(name, filepath.Ext(name)),
		Text:      text,
		FilePath:  path,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func extractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperr.Wrapf(err, apperr.CodeLoaderPDFParseFailure, "extracting text from %s", path)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", apperr.Wrapf(err, apperr.CodeLoaderPDFParseFailure, "opening PDF %s", path)
	}
	defer func() { _ = f.Close() }()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", apperr.Wrapf(err, apperr.CodeLoaderPDFParseFailure, "extracting text from %s", path)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", apperr.Wrapf(err, apperr.CodeLoaderPDFParseFailure, "reading text from %s", path)
	}

	return strings.TrimSpace(buf.String()), nil
}
