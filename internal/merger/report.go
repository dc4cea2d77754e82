// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"

	"github.com/mvnmerge/mvnmerge/internal/treecopy"
	"github.com/mvnmerge/mvnmerge/pkg/pom"
)

// Report summarizes one merge run.
type Report struct {
	Mode          string           `yaml:"mode"`
	MergedModule  string           `yaml:"merged_module,omitempty"`
	Merged        []string         `yaml:"merged"`
	NotMerged     []string         `yaml:"not_merged"`
	Output        []string         `yaml:"output"`
	Files         treecopy.Stats   `yaml:"files"`
	Dependencies  []pom.Dependency `yaml:"dependencies"`
	SkippedReason string           `yaml:"skipped_reason,omitempty"`
}

// NewReport builds the report of a merge result.
func NewReport(mode Mode, res *Result) *Report {
	r := &Report{
		Mode:          mode.String(),
		Merged:        res.Partition.Mergeable,
		NotMerged:     res.Partition.NonMergeable,
		Output:        res.Modules,
		Files:         res.Files,
		Dependencies:  res.Dependencies,
		SkippedReason: res.SkippedReason,
	}
	if res.Merged {
		r.MergedModule = res.MergedModule
	}
	return r
}

// Marshal encodes the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode merge report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode merge report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReport stores the YAML report at any afs URL.
func WriteReport(ctx context.Context, fs afs.Service, location string, r *Report) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	url, err := localURL(location)
	if err != nil {
		return err
	}
	if err := fs.Upload(ctx, url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write merge report %s: %w", location, err)
	}
	return nil
}
