// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"strings"
	"time"
)

// DefaultLanguage is preselected in the project creation form.
const DefaultLanguage = "python"

// Languages is the catalogue offered when creating a project.
var Languages = []string{"python", "javascript", "typescript", "java", "csharp", "go"}

// ErrInvalidProject is returned when a project name or language is blank.
var ErrInvalidProject = errors.New("project name and language are required")

// Project is a named coding workspace on the backend.
type Project struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"project_name"`
	Language  string    `json:"programming_language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectCreate is the payload of POST /projects/.
type ProjectCreate struct {
	Name     string `json:"project_name"`
	Language string `json:"programming_language"`
}

// NewProjectCreate trims the inputs and validates them.
func NewProjectCreate(name, language string) (ProjectCreate, error) {
	pc := ProjectCreate{
		Name:     strings.TrimSpace(name),
		Language: strings.TrimSpace(language),
	}
	if err := pc.Validate(); err != nil {
		return ProjectCreate{}, err
	}
	return pc, nil
}

// Validate checks that both fields are non-blank.
func (p ProjectCreate) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Language) == "" {
		return ErrInvalidProject
	}
	return nil
}

// NextLanguage returns the catalogue entry after current, wrapping around.
// Unknown values restart at the first entry.
func NextLanguage(current string, step int) string {
	idx := -1
	for i, l := range Languages {
		if l == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Languages[0]
	}
	n := len(Languages)
	return Languages[((idx+step)%n+n)%n]
}
