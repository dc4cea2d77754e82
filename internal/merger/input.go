// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/mvnmerge/mvnmerge/pkg/types"
)

// Argument names, in the order ParseInput expects them.
const (
	ArgModulesList       = "modulesList"
	ArgPathToProjectRoot = "pathToProjectRoot"
	ArgPathToOutputFile  = "pathToOutputFile"
	ArgMergeMode         = "mergeMode"
)

// ModuleSeparator separates module names in the modules list argument.
const ModuleSeparator = ","

// ErrInvalidInput is the sentinel error wrapped by InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

type (
	// Input holds the validated arguments of one merge invocation.
	Input struct {
		// Modules are the requested module names, deduplicated and sorted.
		Modules []string
		// ProjectRoot is the directory containing the root descriptor.
		ProjectRoot types.FilesystemPath
		// OutputFile receives the module list to run after merging.
		OutputFile types.FilesystemPath
		// Mode selects the merged subdirectories.
		Mode Mode
	}

	// InvalidInputError reports a rejected invocation argument.
	InvalidInputError struct {
		Argument string
		Reason   string
		Err      error
	}
)

// ArgumentNames returns the expected positional argument names.
func ArgumentNames() []string {
	return []string{ArgModulesList, ArgPathToProjectRoot, ArgPathToOutputFile, ArgMergeMode}
}

// ParseInput validates the four positional arguments:
// modules list, project root, output file and merge mode.
// Nothing on disk is modified.
func ParseInput(args ...string) (Input, error) {
	if len(args) != 4 {
		return Input{}, &InvalidInputError{
			Reason: fmt.Sprintf("expected exactly four arguments (%s), got %d", strings.Join(ArgumentNames(), ", "), len(args)),
		}
	}

	modules, err := parseModules(args[0])
	if err != nil {
		return Input{}, err
	}
	root, err := parseProjectRoot(args[1])
	if err != nil {
		return Input{}, err
	}
	output := types.FilesystemPath(args[2])
	if output == "" {
		return Input{}, &InvalidInputError{Argument: ArgPathToOutputFile, Reason: "can't be empty"}
	}
	if args[3] == "" {
		return Input{}, &InvalidInputError{Argument: ArgMergeMode, Reason: "can't be empty"}
	}
	mode, err := ModeByName(args[3])
	if err != nil {
		return Input{}, &InvalidInputError{Argument: ArgMergeMode, Reason: "unsupported value", Err: err}
	}

	return Input{
		Modules:     modules,
		ProjectRoot: root,
		OutputFile:  output,
		Mode:        mode,
	}, nil
}

// Validate checks an Input built without ParseInput.
func (in Input) Validate() error {
	if len(in.Modules) == 0 {
		return &InvalidInputError{Argument: ArgModulesList, Reason: "can't be empty"}
	}
	if err := in.ProjectRoot.Validate(); err != nil {
		return &InvalidInputError{Argument: ArgPathToProjectRoot, Reason: "invalid path", Err: err}
	}
	if err := in.OutputFile.Validate(); err != nil {
		return &InvalidInputError{Argument: ArgPathToOutputFile, Reason: "invalid path", Err: err}
	}
	if !in.Mode.IsValid() {
		return &InvalidInputError{Argument: ArgMergeMode, Reason: "unsupported value", Err: &UnknownModeError{Name: in.Mode.String(), Supported: ModeNames()}}
	}
	return nil
}

func parseModules(list string) ([]string, error) {
	if list == "" {
		return nil, &InvalidInputError{Argument: ArgModulesList, Reason: "can't be empty"}
	}
	var modules []string
	for _, name := range strings.Split(list, ModuleSeparator) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &InvalidInputError{Argument: ArgModulesList, Reason: fmt.Sprintf("contains an empty module name: %q", list)}
		}
		modules = append(modules, name)
	}
	slices.Sort(modules)
	return slices.Compact(modules), nil
}

func parseProjectRoot(root string) (types.FilesystemPath, error) {
	if root == "" {
		return "", &InvalidInputError{Argument: ArgPathToProjectRoot, Reason: "can't be empty"}
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", &InvalidInputError{Argument: ArgPathToProjectRoot, Reason: "directory doesn't exist", Err: err}
	}
	if !info.IsDir() {
		return "", &InvalidInputError{Argument: ArgPathToProjectRoot, Reason: "is not a directory"}
	}
	return types.FilesystemPath(root), nil
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	msg := e.Reason
	if e.Argument != "" {
		msg = e.Argument + " " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "invalid input: " + msg
}

// Unwrap returns the underlying cause together with ErrInvalidInput.
func (e *InvalidInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}
