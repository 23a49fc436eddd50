// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package loader

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

// LoadURL fetches a scheme page and extracts its readable text.
func (l *Loader) LoadURL(ctx context.Context, rawURL string) (store.Document, error) {
	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return store.Document{}, apperr.Errorf(apperr.CodeLoaderURLInvalidInput, "invalid scheme URL: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return store.Document{}, apperr.Wrapf(err, apperr.CodeLoaderURLInvalidInput, "building request for %s", pageURL)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return store.Document{}, apperr.Wrap(err, apperr.CodeLoaderURLFetchFailure, "fetching scheme page", apperr.FieldSource(pageURL.String()))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return store.Document{}, apperr.New(apperr.CodeLoaderURLFetchFailure,
			"fetching scheme page: unexpected status "+resp.Status,
			apperr.FieldSource(pageURL.String()),
			apperr.Field("status", resp.StatusCode))
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return store.Document{}, apperr.Wrap(err, apperr.CodeLoaderURLFetchFailure, "extracting readable content", apperr.FieldSource(pageURL.String()))
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return store.Document{}, apperr.New(apperr.CodeLoaderURLEmptyContent, "no usable content found", apperr.FieldSource(pageURL.String()))
	}

	return store.Document{
		ID:        newDocumentID(),
		Source:    pageURL.String(),
		Kind:      store.DocumentKindURL,
		Title:     article.Title,
		Text:      text,
		FetchedAt: time.Now().UTC(),
	}, nil
}
