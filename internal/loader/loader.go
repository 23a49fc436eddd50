// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package loader turns scheme sources (URLs and uploaded PDFs) into
// plain-text documents ready for chunking.
package loader

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultFetchTimeout bounds a single URL fetch.
const DefaultFetchTimeout = 30 * time.Second

// Loader fetches raw text from scheme URLs and uploaded PDF files.
type Loader struct {
	client     *http.Client
	uploadsDir string
}

// Option configures the loader.
type Option func(*Loader)

// WithHTTPClient overrides the HTTP client used for URL fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// New creates a loader that saves uploaded PDFs under uploadsDir.
func New(uploadsDir string, opts ...Option) *Loader {
	l := &Loader{
		client:     &http.Client{Timeout: DefaultFetchTimeout},
		uploadsDir: uploadsDir,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// UploadsDir returns the directory uploaded PDFs are saved to.
func (l *Loader) UploadsDir() string { return l.uploadsDir }

func newDocumentID() string {
	return uuid.New().String()
}
