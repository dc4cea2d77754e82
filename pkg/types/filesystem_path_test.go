// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{"absolute path", FilesystemPath("/work/project"), false},
		{"relative path", FilesystemPath("out/modules.txt"), false},
		{"dot path", FilesystemPath("."), false},
		{"empty is invalid", FilesystemPath(""), true},
		{"whitespace only is invalid", FilesystemPath("   "), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("FilesystemPath(%q).Validate() returned unexpected error: %v", tt.path, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
			}
			var fpErr *InvalidFilesystemPathError
			if !errors.As(err, &fpErr) {
				t.Errorf("error should be *InvalidFilesystemPathError, got: %T", err)
			}
		})
	}
}

func TestFilesystemPath_JoinAndDir(t *testing.T) {
	t.Parallel()

	root := FilesystemPath("project")
	got := root.Join("merged_modules", "pom.xml")
	want := FilesystemPath(filepath.Join("project", "merged_modules", "pom.xml"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
	if got.Dir() != FilesystemPath(filepath.Join("project", "merged_modules")) {
		t.Errorf("Dir() = %q", got.Dir())
	}
}
