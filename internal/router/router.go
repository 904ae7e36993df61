// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Route errors.
var (
	// ErrUnknownRoute indicates a path that names no screen.
	ErrUnknownRoute = errors.New("unknown route")

	// ErrInvalidProjectID indicates a project path whose ID is not a positive integer.
	ErrInvalidProjectID = errors.New("invalid project ID")
)

// Kind identifies a screen.
type Kind int

const (
	KindProjects Kind = iota
	KindProject
)

// String returns the route pattern for the kind.
func (k Kind) String() string {
	switch k {
	case KindProjects:
		return "/"
	case KindProject:
		return "/project/:projectId"
	default:
		return "unknown"
	}
}

// Route is a parsed navigation target.
type Route struct {
	Kind      Kind
	ProjectID int64
}

// Home is the project list route.
var Home = Route{Kind: KindProjects}

// Project returns the route for a project's screen.
func Project(id int64) Route {
	return Route{Kind: KindProject, ProjectID: id}
}

// Path renders the route back to its URL path.
func (r Route) Path() string {
	if r.Kind == KindProject {
		return "/project/" + strconv.FormatInt(r.ProjectID, 10)
	}
	return "/"
}

// String implements fmt.Stringer.
func (r Route) String() string {
	return r.Path()
}

// Parse resolves a path, or a full URL, to a route. Trailing slashes,
// query strings and fragments are ignored. A bare number is accepted as a
// project ID for command-line convenience.
func Parse(raw string) (Route, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Home, nil
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return projectRoute(id, raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, raw)
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return Home, nil
	}

	parts := strings.Split(path, "/")
	if len(parts) == 2 && parts[0] == "project" {
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Route{}, fmt.Errorf("%w: %q", ErrInvalidProjectID, parts[1])
		}
		return projectRoute(id, parts[1])
	}
	return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, raw)
}

func projectRoute(id int64, raw string) (Route, error) {
	if id <= 0 {
		return Route{}, fmt.Errorf("%w: %q", ErrInvalidProjectID, raw)
	}
	return Project(id), nil
}
