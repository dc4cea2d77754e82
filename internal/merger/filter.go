// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/exp/slices"
)

// AllureMarkerFile is the marker used by AllureFilter.
var AllureMarkerFile = filepath.Join("src", "test", "resources", "allure.properties")

type (
	// Filter decides whether a module may take part in a merge.
	// modulePath is relative to the root of fsys.
	Filter interface {
		Matches(fsys billy.Filesystem, modulePath string) bool
	}

	// FilterFunc adapts a function to Filter.
	FilterFunc func(fsys billy.Filesystem, modulePath string) bool

	// ExistingFileFilter matches modules that contain a regular file at a
	// module-relative path.
	ExistingFileFilter struct {
		RelativePath string
	}

	// Partition splits modules into those that will be merged and those that
	// will run on their own.
	Partition struct {
		Mergeable    []string
		NonMergeable []string
	}
)

// Matches calls f.
func (f FilterFunc) Matches(fsys billy.Filesystem, modulePath string) bool {
	return f(fsys, modulePath)
}

// NewExistingFileFilter creates a filter for the given module-relative file.
func NewExistingFileFilter(relativePath string) *ExistingFileFilter {
	return &ExistingFileFilter{RelativePath: relativePath}
}

// AllureFilter matches modules configured for Allure reporting.
func AllureFilter() *ExistingFileFilter {
	return NewExistingFileFilter(AllureMarkerFile)
}

// Matches reports whether the marker file exists and is not a directory.
func (f *ExistingFileFilter) Matches(fsys billy.Filesystem, modulePath string) bool {
	info, err := fsys.Stat(filepath.Join(modulePath, f.RelativePath))
	return err == nil && !info.IsDir()
}

// PartitionModules applies every filter to every module. A module is
// mergeable only if all filters match; with no filters every module is.
// Both result sets are sorted.
func PartitionModules(fsys billy.Filesystem, modules []string, filters ...Filter) Partition {
	var p Partition
	for _, module := range modules {
		if matchesAll(fsys, module, filters) {
			p.Mergeable = append(p.Mergeable, module)
		} else {
			p.NonMergeable = append(p.NonMergeable, module)
		}
	}
	slices.Sort(p.Mergeable)
	slices.Sort(p.NonMergeable)
	return p
}

func matchesAll(fsys billy.Filesystem, module string, filters []Filter) bool {
	for _, f := range filters {
		if !f.Matches(fsys, module) {
			return false
		}
	}
	return true
}
