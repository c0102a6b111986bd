package openapi

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeDoc(t, `
openapi: 3.0.3
info: {title: Notes, version: "1"}
paths: {}
components:
  schemas:
    Note:
      type: object
      properties:
        text: {type: string}
`)
	doc, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Components.Schemas["Note"] == nil {
		t.Error("Note schema not loaded")
	}
	if err := Validate(context.Background(), path); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		noSch bool
	}{
		{"no schemas", "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n", true},
		{"missing info", "openapi: 3.0.3\npaths: {}\ncomponents:\n  schemas:\n    A: {type: string}\n", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Validate(context.Background(), writeDoc(t, test.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNoSchemas); got != test.noSch {
				t.Errorf("errors.Is(ErrNoSchemas) = %v for %v", got, err)
			}
		})
	}

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
