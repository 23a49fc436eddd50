// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/provider"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

type fakeProvider struct {
	name   string
	closed bool
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) Available(context.Context) bool     { return true }
func (f *fakeProvider) Close() error                       { f.closed = true; return nil }
func (f *fakeProvider) Complete(_ context.Context, req provider.CompletionRequest) (*provider.Completion, error) {
	return &provider.Completion{Text: f.name + ":" + req.Model}, nil
}

func TestRegistry_GetUnknownProvider(t *testing.T) {
	r := provider.NewRegistry()

	_, err := r.Get("groq")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeProviderNotFound))
}

func TestRegistry_ResolveQualifiedRef(t *testing.T) {
	r := provider.NewRegistry()
	r.Register("groq", &fakeProvider{name: "groq"})

	p, model, err := r.Resolve("groq/llama3-70b-8192")
	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())
	assert.Equal(t, "llama3-70b-8192", model)
}

func TestRegistry_ResolveDefault(t *testing.T) {
	r := provider.NewRegistry()
	r.Register("groq", &fakeProvider{name: "groq"})
	require.NoError(t, r.SetDefault("groq/llama3-8b-8192"))

	for _, ref := range []string{"", "default"} {
		p, model, err := r.Resolve(ref)
		require.NoError(t, err, "ref %q", ref)
		assert.Equal(t, "groq", p.Name())
		assert.Equal(t, "llama3-8b-8192", model)
	}
}

func TestRegistry_ResolveNoDefaultConfigured(t *testing.T) {
	r := provider.NewRegistry()

	_, _, err := r.Resolve("")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeProviderNotFound))
}

func TestRegistry_ResolveBareModelName(t *testing.T) {
	r := provider.NewRegistry()
	r.Register("groq", &fakeProvider{name: "groq"})

	_, _, err := r.Resolve("llama3-8b-8192")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeProviderInvalidModelRef))
}

func TestRegistry_SetDefaultRequiresRegisteredProvider(t *testing.T) {
	r := provider.NewRegistry()

	err := r.SetDefault("groq/llama3-8b-8192")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeProviderNotFound))

	r.Register("groq", &fakeProvider{name: "groq"})
	require.NoError(t, r.SetDefault("groq/llama3-8b-8192"))
	assert.Equal(t, "groq/llama3-8b-8192", r.DefaultRef())
}

func TestRegistry_SetDefaultRejectsBareRef(t *testing.T) {
	r := provider.NewRegistry()
	r.Register("groq", &fakeProvider{name: "groq"})

	err := r.SetDefault("groq")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeProviderInvalidModelRef))
}

func TestRegistry_CloseClosesAllProviders(t *testing.T) {
	r := provider.NewRegistry()
	a := &fakeProvider{name: "groq"}
	b := &fakeProvider{name: "openai"}
	r.Register("groq", a)
	r.Register("openai", b)

	require.NoError(t, r.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestRegistry_Names(t *testing.T) {
	r := provider.NewRegistry()
	r.Register("groq", &fakeProvider{name: "groq"})
	r.Register("anthropic", &fakeProvider{name: "anthropic"})

	assert.ElementsMatch(t, []string{"groq", "anthropic"}, r.Names())
}
