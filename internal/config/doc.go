// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for vibecoder.
//
// Configuration is TOML with sensible defaults, a .env file for values
// shared with the web client's tooling, and environment variable overrides.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Where the API lives and who the client acts as
//   - ProxyConfig: Development proxy listener and CORS settings
//   - UIConfig: Theme and rendering preferences
//   - WorkspaceConfig: On-disk mirror of the editor buffer
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (VIBECODER_*, and the VITE_* names)
//   - .env in the working directory (never overrides the real environment)
//   - ~/.vibecoder/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(cfg.APIBaseURL()).WithTimeout(cfg.Timeout())
package config
