// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Route
		wantErr error
	}{
		{"", Home, nil},
		{"/", Home, nil},
		{"/project/3", Project(3), nil},
		{"/project/3/", Project(3), nil},
		{"project/12?tab=chat", Project(12), nil},
		{"http://localhost:5173/project/7", Project(7), nil},
		{"42", Project(42), nil},
		{"/project/abc", Route{}, ErrInvalidProjectID},
		{"/project/0", Route{}, ErrInvalidProjectID},
		{"-1", Route{}, ErrInvalidProjectID},
		{"/settings", Route{}, ErrUnknownRoute},
		{"/project/1/extra", Route{}, ErrUnknownRoute},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Parse(%q) err = %v, want %v", tc.in, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRoute_PathRoundTrip(t *testing.T) {
	for _, r := range []Route{Home, Project(1), Project(9001)} {
		back, err := Parse(r.Path())
		if err != nil {
			t.Fatalf("Parse(%q): %v", r.Path(), err)
		}
		if back != r {
			t.Errorf("round trip %+v -> %q -> %+v", r, r.Path(), back)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindProject.String() != "/project/:projectId" {
		t.Errorf("KindProject.String() = %q", KindProject.String())
	}
}
