// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package secrets

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

const keyringScheme = "keyring://"

// IsKeyringURI reports whether value uses the keyring:// URI scheme.
func IsKeyringURI(value string) bool {
	return strings.HasPrefix(value, keyringScheme)
}

// ParseKeyringURI extracts service and key from a keyring://service/key URI.
func ParseKeyringURI(uri string) (service, key string, err error) {
	path, ok := strings.CutPrefix(uri, keyringScheme)
	if !ok {
		return "", "", apperr.Errorf(apperr.CodeSecretInvalidInput, "not a keyring URI: %q", uri)
	}

	service, key, found := strings.Cut(path, "/")
	if !found || service == "" || key == "" {
		return "", "", apperr.Errorf(apperr.CodeSecretInvalidInput,
			"invalid keyring URI %q: expected keyring://service/key", uri)
	}

	return service, key, nil
}

// ResolveKeyringURI resolves a single keyring:// URI to its secret value.
// Non-URI values pass through unchanged.
func ResolveKeyringURI(store Store, value string) (string, error) {
	if !IsKeyringURI(value) {
		return value, nil
	}

	service, key, err := ParseKeyringURI(value)
	if err != nil {
		return "", err
	}

	secret, err := store.Retrieve(service, key)
	if err != nil {
		return "", apperr.Wrapf(err, apperr.CodeSecretResolveFailure, "resolving keyring URI %q", value)
	}

	return secret, nil
}

// ResolveProviderSecrets replaces keyring:// references in provider API keys
// with the stored secret. API keys are the only secret material in the
// configuration, so only providers.<name>.api_key entries are touched.
// Resolution failures are logged and the reference kept, so the error
// surfaces where the key is used.
func ResolveProviderSecrets(v *viper.Viper, store Store) {
	for name := range v.GetStringMap("providers") {
		cfgKey := "providers." + name + ".api_key"
		ref := v.GetString(cfgKey)
		if !IsKeyringURI(ref) {
			continue
		}

		resolved, err := ResolveKeyringURI(store, ref)
		if err != nil {
			slog.Warn("keeping unresolved keyring reference",
				"provider", name,
				"error", err,
			)
			continue
		}

		v.Set(cfgKey, resolved)
	}
}
