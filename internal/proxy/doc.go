// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package proxy implements the development proxy started by `vibecoder proxy`.
//
// Requests under the configured prefix (default "/api") are forwarded to the
// backend with the prefix stripped and the Host header rewritten to the
// backend's host, so a browser client served from the proxy origin can reach
// the API without cross-origin configuration on the backend itself.
package proxy
