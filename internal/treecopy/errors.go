// SPDX-License-Identifier: MPL-2.0

package treecopy

import (
	"errors"
	"fmt"
)

// ErrContentConflict is the sentinel error wrapped by ContentConflictError.
var ErrContentConflict = errors.New("files content conflict")

// ContentConflictError reports two files mapped onto the same destination
// path with different content.
type ContentConflictError struct {
	// Source is the file being copied.
	Source string
	// Existing is the file already occupying Destination: the source it was
	// copied from during this merge, or Destination itself if it pre-existed.
	Existing string
	// Destination is the contested path.
	Destination string
	// SourceDigest and ExistingDigest are highwayhash-64 content fingerprints.
	SourceDigest   string
	ExistingDigest string
}

// Error implements the error interface.
func (e *ContentConflictError) Error() string {
	return fmt.Sprintf("unable to copy file: there is a conflict between `%s` (%s) and `%s` (%s)",
		e.Source, e.SourceDigest, e.Existing, e.ExistingDigest)
}

// Unwrap returns ErrContentConflict for errors.Is() compatibility.
func (e *ContentConflictError) Unwrap() error { return ErrContentConflict }
