// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP adapter for the Vibe Coder backend.
//
// Every backend call goes through the Gateway interface so the session and
// UI layers can be exercised against in-memory fakes. Client is the real
// implementation: JSON over HTTP, one request per call, no retries and no
// caching.
//
// # Key Types
//
//   - Gateway: The five backend operations the client needs
//   - Client: net/http implementation of Gateway
//   - APIError: Non-2xx response with the backend's detail message
//
// # Usage
//
//	client := api.NewClient("http://localhost:8000").WithTimeout(0)
//	projects, err := client.ListProjects(ctx)
//	if errors.Is(err, api.ErrNotFound) {
//	    // ...
//	}
//
// # Chat Response Contract
//
// POST /chat/ is expected to answer with a JSON array of the messages the
// exchange produced. A single JSON object is accepted as well and treated
// as a one-element array, which is what older backends return.
package api
