// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvnmerge/mvnmerge/pkg/pom"
)

var (
	// ErrVersionConflict is the sentinel error wrapped by VersionConflictError.
	ErrVersionConflict = errors.New("dependencies have different versions")
	// ErrMissingDirectories is the sentinel error wrapped by MissingDirectoriesError.
	ErrMissingDirectories = errors.New("no directories to merge")
	// ErrDestinationExists is returned when the merged module directory is already present.
	ErrDestinationExists = errors.New("merged module directory already exists")
)

type (
	// VersionConflictError reports one dependency key declared with more than
	// one version across the merged modules. A missing version counts as a
	// version of its own.
	VersionConflictError struct {
		Key     pom.Key
		Entries []pom.Dependency
	}

	// MissingDirectoriesError reports a module holding none of the
	// directories its merge mode needs.
	MissingDirectoriesError struct {
		Module      string
		Mode        Mode
		Directories []string
	}
)

// Error implements the error interface.
func (e *VersionConflictError) Error() string {
	entries := make([]string, 0, len(e.Entries))
	for _, d := range e.Entries {
		entries = append(entries, d.String())
	}
	return fmt.Sprintf("dependencies have different versions: %s: [%s]", e.Key, strings.Join(entries, ", "))
}

// Unwrap returns ErrVersionConflict for errors.Is() compatibility.
func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// Error implements the error interface.
func (e *MissingDirectoriesError) Error() string {
	return fmt.Sprintf("no directories found from set [%s] to merge in `%s` module",
		strings.Join(e.Directories, ", "), e.Module)
}

// Unwrap returns ErrMissingDirectories for errors.Is() compatibility.
func (e *MissingDirectoriesError) Unwrap() error { return ErrMissingDirectories }
