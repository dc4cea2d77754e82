// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestModeByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Mode
		dirs []string
	}{
		{"sources", ModeSources, []string{"src"}},
		{"target", ModeTarget, []string{filepath.Join("target", "classes"), filepath.Join("target", "test-classes")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ModeByName(tt.name)
			if err != nil {
				t.Fatalf("ModeByName(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ModeByName(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
			dirs := got.Directories()
			if len(dirs) != len(tt.dirs) {
				t.Fatalf("Directories() = %v, want %v", dirs, tt.dirs)
			}
			for i := range dirs {
				if dirs[i] != tt.dirs[i] {
					t.Errorf("Directories()[%d] = %q, want %q", i, dirs[i], tt.dirs[i])
				}
			}
		})
	}
}

func TestModeByNameUnknown(t *testing.T) {
	t.Parallel()

	_, err := ModeByName("classes")
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	var modeErr *UnknownModeError
	if !errors.As(err, &modeErr) {
		t.Fatalf("expected *UnknownModeError, got %T", err)
	}
	if len(modeErr.Supported) != 2 {
		t.Errorf("Supported = %v, want both modes", modeErr.Supported)
	}
	want := `unknown merge mode "classes": supported modes are sources, target`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestModeDirectoriesAreCopies(t *testing.T) {
	t.Parallel()

	dirs := ModeSources.Directories()
	dirs[0] = "changed"
	if ModeSources.Directories()[0] != "src" {
		t.Error("Directories() exposed internal state")
	}
}

func TestModeIsValid(t *testing.T) {
	t.Parallel()

	if Mode(0).IsValid() {
		t.Error("zero Mode must not be valid")
	}
	if !ModeTarget.IsValid() {
		t.Error("ModeTarget must be valid")
	}
}
