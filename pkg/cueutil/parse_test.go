// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	name?:   string & !=""
	enabled?: bool
	items?:  [...string]
}
`

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	values, err := DecodeMap(testSchema, []byte(`name: "x"
items: ["a", "b"]`), "#Config", WithFilename("test.cue"))
	if err != nil {
		t.Fatalf("DecodeMap() error = %v", err)
	}
	if values["name"] != "x" {
		t.Errorf("name = %v, want x", values["name"])
	}
	items, ok := values["items"].([]any)
	if !ok || len(items) != 2 {
		t.Errorf("items = %#v, want two entries", values["items"])
	}
	if _, ok := values["enabled"]; ok {
		t.Error("optional fields must not be materialized")
	}
}

func TestDecodeMapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		opts     []Option
		contains string
	}{
		{"syntax error", `name: `, nil, "test.cue"},
		{"type mismatch", `enabled: "yes"`, nil, "enabled"},
		{"unknown field", `other: 1`, nil, "other"},
		{"empty string", `name: ""`, nil, "name"},
		{"too large", `name: "abcdef"`, []Option{WithMaxFileSize(4)}, "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithFilename("test.cue")}, tt.opts...)
			_, err := DecodeMap(testSchema, []byte(tt.data), "#Config", opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err, tt.contains)
			}
		})
	}
}

func TestDecodeMapUnknownDefinition(t *testing.T) {
	t.Parallel()

	_, err := DecodeMap(testSchema, []byte(`name: "x"`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("expected missing definition error, got %v", err)
	}
}
