// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrMissingField is the sentinel error wrapped by MissingFieldError.
var ErrMissingField = errors.New("missing required field")

type (
	// Key is the identity of a dependency: two dependencies with the same
	// group and artifact are the same dependency regardless of version or scope.
	Key struct {
		GroupID    string
		ArtifactID string
	}

	// Dependency is a direct dependency declared in a descriptor.
	Dependency struct {
		GroupID    string `yaml:"group_id"`
		ArtifactID string `yaml:"artifact_id"`
		// Version is empty when the descriptor declares no version.
		Version string `yaml:"version,omitempty"`
		Scope   Scope  `yaml:"scope"`
	}

	// Parent identifies the descriptor a module inherits from.
	Parent struct {
		GroupID    string
		ArtifactID string
		Version    string
	}

	// MissingFieldError is returned when a mandatory element is absent or empty.
	MissingFieldError struct {
		// Element is the element that lacks the field, e.g. "dependency" or "parent".
		Element string
		Field   string
	}
)

// String renders the key as "group:artifact".
func (k Key) String() string {
	return k.GroupID + ":" + k.ArtifactID
}

// Compare orders keys by group, then artifact.
func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.GroupID, other.GroupID); c != 0 {
		return c
	}
	return cmp.Compare(k.ArtifactID, other.ArtifactID)
}

// Key returns the identity of the dependency.
func (d Dependency) Key() Key {
	return Key{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// HasVersion reports whether the dependency declares a version.
func (d Dependency) HasVersion() bool {
	return d.Version != ""
}

// Validate checks that group and artifact are present.
func (d Dependency) Validate() error {
	if strings.TrimSpace(d.GroupID) == "" {
		return &MissingFieldError{Element: "dependency", Field: "groupId"}
	}
	if strings.TrimSpace(d.ArtifactID) == "" {
		return &MissingFieldError{Element: "dependency", Field: "artifactId"}
	}
	return nil
}

// String renders the dependency in Maven coordinate form.
func (d Dependency) String() string {
	var b strings.Builder
	b.WriteString(d.Key().String())
	b.WriteString(":")
	if d.HasVersion() {
		b.WriteString(d.Version)
	} else {
		b.WriteString("<no version>")
	}
	b.WriteString(" (")
	b.WriteString(d.Scope.String())
	b.WriteString(")")
	return b.String()
}

// SortDependencies orders dependencies by key, then version.
func SortDependencies(deps []Dependency) {
	slices.SortFunc(deps, func(a, b Dependency) int {
		if c := a.Key().Compare(b.Key()); c != 0 {
			return c
		}
		return cmp.Compare(a.Version, b.Version)
	})
}

// Validate checks that all three coordinates are present.
func (p Parent) Validate() error {
	switch {
	case strings.TrimSpace(p.GroupID) == "":
		return &MissingFieldError{Element: "parent", Field: "groupId"}
	case strings.TrimSpace(p.ArtifactID) == "":
		return &MissingFieldError{Element: "parent", Field: "artifactId"}
	case strings.TrimSpace(p.Version) == "":
		return &MissingFieldError{Element: "parent", Field: "version"}
	}
	return nil
}

// String renders the parent in Maven coordinate form.
func (p Parent) String() string {
	return fmt.Sprintf("%s:%s:%s", p.GroupID, p.ArtifactID, p.Version)
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is missing required <%s>", e.Element, e.Field)
}

// Unwrap returns ErrMissingField for errors.Is() compatibility.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }
