// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Merge modes.
const (
	// ModeSources merges module source trees.
	ModeSources Mode = iota + 1
	// ModeTarget merges compiled classes and test classes.
	ModeTarget
)

// ErrUnknownMode is the sentinel error wrapped by UnknownModeError.
var ErrUnknownMode = errors.New("unknown merge mode")

var modes = map[Mode]modeSpec{
	ModeSources: {name: "sources", directories: []string{"src"}},
	ModeTarget:  {name: "target", directories: []string{filepath.Join("target", "classes"), filepath.Join("target", "test-classes")}},
}

type (
	// Mode selects which module subdirectories take part in a merge.
	Mode int

	modeSpec struct {
		name        string
		directories []string
	}

	// UnknownModeError is returned when a mode name matches no Mode.
	UnknownModeError struct {
		Name      string
		Supported []string
	}
)

// Modes returns every merge mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeSources, ModeTarget}
}

// ModeNames returns the names of every merge mode.
func ModeNames() []string {
	all := Modes()
	names := make([]string, 0, len(all))
	for _, m := range all {
		names = append(names, m.String())
	}
	return names
}

// ModeByName looks a mode up by its name.
func ModeByName(name string) (Mode, error) {
	for _, m := range Modes() {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, &UnknownModeError{Name: name, Supported: ModeNames()}
}

// String returns the mode name, or "" for an invalid Mode.
func (m Mode) String() string {
	return modes[m].name
}

// Directories returns the module-relative directories the mode merges.
func (m Mode) Directories() []string {
	return slices.Clone(modes[m].directories)
}

// IsValid reports whether m is a declared mode.
func (m Mode) IsValid() bool {
	_, ok := modes[m]
	return ok
}

// Error implements the error interface.
func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown merge mode %q: supported modes are %s", e.Name, strings.Join(e.Supported, ", "))
}

// Unwrap returns ErrUnknownMode for errors.Is() compatibility.
func (e *UnknownModeError) Unwrap() error { return ErrUnknownMode }
