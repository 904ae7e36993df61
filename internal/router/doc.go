// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps navigation paths to screens.
//
// Two routes exist:
//
//	/                    project list and creation form
//	/project/:projectId  chat and editor for one project
//
// Paths are the same ones the web client used, so links and command-line
// arguments can be shared between them.
//
//	r, err := router.Parse("/project/3")
//	// r.Kind == router.KindProject, r.ProjectID == 3
package router
