// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

//go:embed schemer.yaml.default
var DefaultConfigYAML []byte

// DefaultConfigPath returns the per-user config file location,
// <user-config-dir>/schemer/schemer.yaml (~/.config/schemer/schemer.yaml on
// Linux, honoring XDG_CONFIG_HOME).
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", apperr.Errorf(apperr.CodeConfigLoadReadFailure, "resolving user config directory: %w", err)
	}
	return filepath.Join(base, "schemer", "schemer.yaml"), nil
}

// BootstrapConfig writes the commented default config to the default path on
// first run. Returns the path written, or empty string when the file already
// exists or writing fails; bootstrap failure is never fatal, defaults and env
// vars still apply.
func BootstrapConfig() string {
	cfgPath, err := DefaultConfigPath()
	if err != nil {
		slog.Debug("skipping config bootstrap", "error", err)
		return ""
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		slog.Debug("skipping config bootstrap", "path", cfgPath, "error", err)
		return ""
	}

	// O_EXCL leaves an existing config untouched.
	f, err := os.OpenFile(cfgPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if !errors.Is(err, fs.ErrExist) {
			slog.Debug("skipping config bootstrap", "path", cfgPath, "error", err)
		}
		return ""
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(DefaultConfigYAML); err != nil {
		slog.Debug("writing default config failed", "path", cfgPath, "error", err)
		return ""
	}

	slog.Info("created default config", "path", cfgPath)
	return cfgPath
}
