// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

func TestNewIncludesCodeAndFields(t *testing.T) {
	err := apperr.New(
		apperr.CodeLoaderURLFetchFailure,
		"fetching scheme page",
		apperr.FieldSource("https://example.gov/scheme"),
		apperr.Field("status", 502),
	)

	require.Error(t, err)
	assert.Equal(t, apperr.CodeLoaderURLFetchFailure, apperr.CodeOf(err))
	assert.True(t, apperr.HasCode(err, apperr.CodeLoaderURLFetchFailure))

	fields := apperr.FieldsOf(err)
	assert.Equal(t, "https://example.gov/scheme", fields["source"])
	assert.Equal(t, 502, fields["status"])
}

func TestErrorfFormatsMessage(t *testing.T) {
	err := apperr.Errorf(apperr.CodeStoreDatabaseFailure, "opening store at %s: attempt %d", "/tmp/schemes.db", 1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeStoreDatabaseFailure, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "opening store at /tmp/schemes.db: attempt 1")
}

func TestErrorfWrapsInnerError(t *testing.T) {
	inner := stderrors.New("disk full")
	err := apperr.Errorf(apperr.CodeStoreDatabaseFailure, "write failed: %w", inner)
	require.Error(t, err)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, apperr.CodeStoreDatabaseFailure, apperr.CodeOf(err))
}

func TestWrapPreservesWrappedErrorAndCode(t *testing.T) {
	root := stderrors.New("record missing")
	err := apperr.Wrap(
		root,
		apperr.CodeStoreDocumentNotFound,
		"loading document",
		apperr.FieldDocumentID("doc-42"),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, root)
	assert.Equal(t, apperr.CodeStoreDocumentNotFound, apperr.CodeOf(err))
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "doc-42", apperr.FieldsOf(err)["document_id"])
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, apperr.Wrap(nil, apperr.CodeStoreDatabaseFailure, "ignored"))
	assert.NoError(t, apperr.Wrapf(nil, apperr.CodeStoreDatabaseFailure, "ignored %d", 1))
	assert.NoError(t, apperr.With(nil, apperr.Field("k", "v")))
}

func TestCodeOfNonOopsError(t *testing.T) {
	assert.Equal(t, apperr.Code(""), apperr.CodeOf(stderrors.New("plain")))
	assert.Equal(t, apperr.Code(""), apperr.CodeOf(nil))
}

func TestClassificationPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", apperr.New(apperr.CodeStoreDocumentNotFound, "x"), apperr.IsNotFound},
		{"conflict", apperr.New(apperr.CodeEngineEmptyCorpus, "x"), apperr.IsConflict},
		{"invalid input", apperr.New(apperr.CodeStoreDimensionMismatch, "x"), apperr.IsInvalidInput},
		{"invalid format", apperr.New(apperr.CodeEmbeddingResponseInvalid, "x"), apperr.IsInvalidInput},
		{"upstream", apperr.New(apperr.CodeProviderUpstreamFailure, "x"), apperr.IsUpstreamFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))
		})
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperr.New(apperr.CodeStoreDocumentNotFound, "x"), http.StatusNotFound},
		{"conflict", apperr.New(apperr.CodeEngineEmptyCorpus, "x"), http.StatusConflict},
		{"bad request", apperr.New(apperr.CodeEngineInvalidInput, "x"), http.StatusBadRequest},
		{"bad gateway", apperr.New(apperr.CodeEmbeddingUpstreamFailure, "x"), http.StatusBadGateway},
		{"internal", apperr.New(apperr.CodeServerInternalFailure, "x"), http.StatusInternalServerError},
		{"plain error", stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.HTTPStatus(tc.err))
		})
	}
}

func TestWithAddsFieldsPreservingCode(t *testing.T) {
	err := apperr.New(apperr.CodeProviderUpstreamFailure, "completion failed")
	err = apperr.With(err, apperr.FieldProvider("groq"), apperr.FieldModel("llama3-8b-8192"))

	assert.Equal(t, apperr.CodeProviderUpstreamFailure, apperr.CodeOf(err))
	fields := apperr.FieldsOf(err)
	assert.Equal(t, "groq", fields["provider"])
	assert.Equal(t, "llama3-8b-8192", fields["model"])
}
