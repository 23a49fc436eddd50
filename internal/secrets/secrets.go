// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

// Package secrets stores provider API keys outside the config file and
// resolves keyring:// references found in loaded configuration.
package secrets

// DefaultService is the keyring service name used for API keys.
const DefaultService = "schemer"

// Store provides secure secret storage operations.
type Store interface {
	// Store saves a secret value under the given service and key.
	Store(service, key, value string) error

	// Retrieve fetches the secret value for the given service and key.
	// A missing key yields an error carrying CodeSecretNotFound.
	Retrieve(service, key string) (string, error)

	// Delete removes the secret for the given service and key.
	// A missing key yields an error carrying CodeSecretNotFound.
	Delete(service, key string) error

	// List returns all key names stored under the given service.
	List(service string) ([]string, error)
}
