package generator

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/output"
)

const peopleSchema = "golang/testdata/people.yml"

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingGenerator struct {
	targets []string
	mod     ir.Module
}

func (g *recordingGenerator) GetType() string { return "record" }

func (g *recordingGenerator) Generate(ctx context.Context, target config.Target, mod ir.Module, out output.Sink) error {
	g.targets = append(g.targets, target.Name)
	g.mod = mod
	return out.WriteFile(ctx, "out.txt", []byte(target.PackageName))
}

func TestRegistryTypes(t *testing.T) {
	types := NewService().GetRegistry().GetAvailableTypes()
	if diff := cmp.Diff([]string{"go", "ir-json", "python"}, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateFallback(t *testing.T) {
	outDir := t.TempDir()
	err := NewService(WithLogger(quiet)).Generate(context.Background(), GenerateOptions{
		Fallback: FallbackOptions{Schema: peopleSchema, OutDir: outDir, PackageName: "people"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"types.go", "loaders.go", "document.go", "vocab.go", "README.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	service := NewService(WithLogger(nil), WithRegistry(nil))
	if service.GetRegistry() == nil {
		t.Fatal("registry replaced by nil")
	}
	err := service.Generate(context.Background(), GenerateOptions{
		Fallback: FallbackOptions{Schema: peopleSchema, OutDir: t.TempDir(), PackageName: "people", Type: "ir-json"},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestGenerateRequiresSchemaOrConfig(t *testing.T) {
	err := NewService(WithLogger(quiet)).Generate(context.Background(), GenerateOptions{
		Fallback: FallbackOptions{OutDir: t.TempDir()},
	})
	if err == nil {
		t.Error("expected error without schema or config")
	}
}

func TestGenerateFromConfigTargets(t *testing.T) {
	gen := &recordingGenerator{}
	registry := NewRegistry()
	registry.Register(gen)
	service := NewService(WithRegistry(registry), WithLogger(quiet))

	dirA, dirB := t.TempDir(), t.TempDir()
	cfg := &config.Config{
		Schema: peopleSchema,
		Targets: []config.Target{
			{Type: "record", Name: "a", OutDir: dirA, PackageName: "pa",
				PreCommand:  []string{"sh", "-c", "echo pre > pre.txt"},
				PostCommand: []string{"sh", "-c", "cat out.txt > post.txt"}},
			{Type: "record", Name: "b", OutDir: dirB, PackageName: "pb"},
		},
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatal(err)
	}

	if err := service.GenerateFromConfig(context.Background(), cfg, "a"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, gen.targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	if gen.mod.FindClass("Person") == nil {
		t.Error("generator did not receive the compiled module")
	}
	if data, err := os.ReadFile(filepath.Join(dirA, "pre.txt")); err != nil || strings.TrimSpace(string(data)) != "pre" {
		t.Errorf("pre-command did not run in the output directory: %q, %v", data, err)
	}
	if data, err := os.ReadFile(filepath.Join(dirA, "post.txt")); err != nil || string(data) != "pa" {
		t.Errorf("post-command did not run after generation: %q, %v", data, err)
	}

	if err := service.GenerateFromConfig(context.Background(), cfg, "missing"); err == nil {
		t.Error("expected error for an unknown target name")
	}

	cfg.Targets[1].Type = "cobol"
	err := service.GenerateFromConfig(context.Background(), cfg, "b")
	if err == nil || !strings.Contains(err.Error(), "unsupported target type: cobol") {
		t.Errorf("expected unsupported type error, got %v", err)
	}
}

func TestGenerateCommandFailure(t *testing.T) {
	service := NewService(WithLogger(quiet))
	cfg := &config.Config{
		Schema: peopleSchema,
		Targets: []config.Target{{
			Type: "go", Name: "x", OutDir: t.TempDir(), PackageName: "x",
			PreCommand: []string{"false"},
		}},
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatal(err)
	}
	err := service.GenerateFromConfig(context.Background(), cfg, "")
	if err == nil || !strings.Contains(err.Error(), "pre-command (false) failed") {
		t.Errorf("expected pre-command failure, got %v", err)
	}
}

func TestLoadSchemaOpenAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yml")
	doc := `
openapi: 3.0.3
info: {title: Notes, version: "1"}
paths: {}
components:
  schemas:
    Note:
      type: object
      required: [text]
      properties:
        text: {type: string}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadSchema(context.Background(), path, config.FormatOpenAPI, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 1 || !strings.HasSuffix(defs[0].Name, "api.yml#Note") || !defs[0].DocumentRoot {
		t.Errorf("defs = %+v", defs)
	}

	if err := ValidateSchema(path, config.FormatOpenAPI); err != nil {
		t.Errorf("ValidateSchema() error = %v", err)
	}
}

func TestValidateSchemaReportsUndefinedTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	body := `
- name: https://example.org/s#A
  type: record
  documentRoot: true
  fields:
    - name: https://example.org/s#A/b
      type: https://example.org/s#Missing
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	err := ValidateSchema(path, "")
	if err == nil || !strings.Contains(err.Error(), "Missing") {
		t.Errorf("expected undefined type error, got %v", err)
	}
	if _, err := LoadSchema(context.Background(), path, "xml", quiet); err == nil {
		t.Error("expected error for an unknown format")
	}
}
