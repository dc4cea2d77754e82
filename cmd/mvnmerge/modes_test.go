// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"github.com/mvnmerge/mvnmerge/internal/merger"
)

func TestModesCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.execute("modes"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	out := h.stdout.String()
	for _, mode := range merger.Modes() {
		if !strings.Contains(out, mode.String()) {
			t.Errorf("modes output missing %q:\n%s", mode, out)
		}
		for _, dir := range mode.Directories() {
			if !strings.Contains(out, dir) {
				t.Errorf("modes output missing directory %q:\n%s", dir, out)
			}
		}
	}
}

func TestModesCommand_RejectsArgs(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.execute("modes", "sources"); err == nil {
		t.Fatal("expected error for unexpected argument")
	}
}
