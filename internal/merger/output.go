// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// ModuleListWriter persists the list of modules to run after a merge.
type ModuleListWriter struct {
	fs        afs.Service
	separator string
}

// NewModuleListWriter creates a writer joining module names with separator.
// An empty separator falls back to ModuleSeparator.
func NewModuleListWriter(fs afs.Service, separator string) *ModuleListWriter {
	if separator == "" {
		separator = ModuleSeparator
	}
	return &ModuleListWriter{fs: fs, separator: separator}
}

// Write stores modules as one delimited line at location, replacing any
// previous content. Missing parent directories are created. It returns the
// written line.
func (w *ModuleListWriter) Write(ctx context.Context, location string, modules []string) (string, error) {
	line := strings.Join(modules, w.separator)
	url, err := localURL(location)
	if err != nil {
		return "", err
	}
	if err := w.fs.Upload(ctx, url, file.DefaultFileOsMode, strings.NewReader(line)); err != nil {
		return "", fmt.Errorf("can't write modules list to file %s: %w", location, err)
	}
	return line, nil
}

// localURL turns a relative local path into an absolute one; afs resolves
// URLs without a scheme against the file storage.
func localURL(location string) (string, error) {
	if strings.Contains(location, "://") || filepath.IsAbs(location) {
		return location, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", location, err)
	}
	return abs, nil
}
