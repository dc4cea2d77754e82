// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/viant/afs"

	"github.com/mvnmerge/mvnmerge/pkg/pom"
)

//go:embed template/merged_modules_template_pom.xml
var defaultTemplate []byte

// DefaultTemplate returns a copy of the built-in merged module descriptor template.
func DefaultTemplate() []byte {
	return bytes.Clone(defaultTemplate)
}

// LoadTemplate downloads a descriptor template from any afs URL
// (local path, file://, mem://, ...). An empty URL yields DefaultTemplate.
// The template is parsed once to reject unusable files early.
func LoadTemplate(ctx context.Context, fs afs.Service, url string) ([]byte, error) {
	if url == "" {
		return DefaultTemplate(), nil
	}
	location, err := localURL(url)
	if err != nil {
		return nil, err
	}
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to download template %s: %w", url, err)
	}
	if _, err := pom.Parse(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", url, err)
	}
	return data, nil
}
