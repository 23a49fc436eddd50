// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/loader"
	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

const schemePage = `<!DOCTYPE html>
<html>
<head><title>Housing Assistance Scheme</title></head>
<body>
<article>
<h1>Housing Assistance Scheme</h1>
<p>The scheme provides a one-time grant of 50,000 rupees to eligible
households for home construction. Applicants must hold a valid ration
card and have an annual income below the notified ceiling.</p>
<p>Applications are submitted online through the state portal along with
income certificate, identity proof, and land ownership documents.</p>
</article>
</body>
</html>`

func TestLoadURL_ExtractsReadableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(schemePage))
	}))
	defer srv.Close()

	l := loader.New(t.TempDir())
	doc, err := l.LoadURL(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, store.DocumentKindURL, doc.Kind)
	assert.Equal(t, srv.URL, doc.Source)
	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.FetchedAt.IsZero())
	assert.Contains(t, doc.Text, "one-time grant of 50,000 rupees")
	assert.Contains(t, doc.Text, "income certificate")
	assert.NotContains(t, doc.Text, "<p>")
}

func TestLoadURL_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := loader.New(t.TempDir())
	_, err := l.LoadURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeLoaderURLFetchFailure))
	assert.Equal(t, srv.URL, apperr.FieldsOf(err)["source"])
}

func TestLoadURL_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	l := loader.New(t.TempDir())
	_, err := l.LoadURL(context.Background(), url)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeLoaderURLFetchFailure))
}

func TestLoadURL_InvalidURL(t *testing.T) {
	l := loader.New(t.TempDir())

	for _, bad := range []string{"", "ftp://example.gov/scheme", "not a url", "file:///etc/passwd"} {
		_, err := l.LoadURL(context.Background(), bad)
		require.Error(t, err, "url %q", bad)
		assert.True(t, apperr.HasCode(err, apperr.CodeLoaderURLInvalidInput), "url %q", bad)
	}
}

func TestLoadPDF_RejectsInvalidUploads(t *testing.T) {
	l := loader.New(t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"empty filename", "", []byte("%PDF-1.4")},
		{"wrong extension", "scheme.txt", []byte("%PDF-1.4")},
		{"empty data", "scheme.pdf", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.LoadPDF(ctx, tc.filename, tc.data)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeLoaderPDFInvalidInput))
		})
	}
}

func TestLoadPDF_CorruptFileSurfacesParseFailure(t *testing.T) {
	dir := t.TempDir()
	l := loader.New(dir)

	_, err := l.LoadPDF(context.Background(), "broken.pdf", []byte("this is not a pdf"))
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeLoaderPDFParseFailure))

	// The upload is still saved before parsing; the file should exist.
	_, statErr := os.Stat(filepath.Join(dir, "broken.pdf"))
	assert.NoError(t, statErr)
}

func TestLoadPDF_StripsDirectoryFromFilename(t *testing.T) {
	dir := t.TempDir()
	l := loader.New(dir)

	// Path components must not escape the uploads directory.
	_, err := l.LoadPDF(context.Background(), "../../etc/evil.pdf", []byte("junk"))
	require.Error(t, err) // junk fails parsing, but the write lands inside dir
	_, statErr := os.Stat(filepath.Join(dir, "evil.pdf"))
	assert.NoError(t, statErr)
}
