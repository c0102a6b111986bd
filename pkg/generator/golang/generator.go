package golang

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/tools/imports"

	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/output"
)

//go:embed templates/*
var templatesFS embed.FS

// files maps each template to the file it renders
var files = []struct {
	template string
	name     string
}{
	{"vocab.go.gotmpl", "vocab.go"},
	{"loaders.go.gotmpl", "loaders.go"},
	{"types.go.gotmpl", "types.go"},
	{"document.go.gotmpl", "document.go"},
	{"README.md.gotmpl", "README.md"},
}

// GoGenerator implements the Generator interface for Go
type GoGenerator struct{}

// NewGoGenerator creates a new Go generator
func NewGoGenerator() *GoGenerator {
	return &GoGenerator{}
}

// GetType returns the generator type identifier
func (g *GoGenerator) GetType() string {
	return "go"
}

// Generate renders mod as a Go package
func (g *GoGenerator) Generate(ctx context.Context, target config.Target, mod ir.Module, out output.Sink) error {
	data, err := buildFileData(target, mod)
	if err != nil {
		return err
	}

	funcMap := template.FuncMap{
		"formatGoComment": formatGoComment,
		"runtimeImport":   runtimeImport,
	}
	// Merge sprig functions
	for k, v := range sprig.TxtFuncMap() {
		funcMap[k] = v
	}

	for _, f := range files {
		if target.ShouldExcludeFile(f.name) {
			continue
		}
		content, err := renderFile(f.template, f.name, funcMap, data)
		if err != nil {
			return err
		}
		if err := out.WriteFile(ctx, f.name, content); err != nil {
			return err
		}
	}
	return nil
}

// renderFile executes a template; Go sources are formatted and their
// imports pruned
func renderFile(templateName, fileName string, funcMap template.FuncMap, data any) ([]byte, error) {
	content, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", fileName, err)
	}
	if !strings.HasSuffix(fileName, ".go") {
		return buf.Bytes(), nil
	}

	src, err := imports.Process(fileName, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("generated %s does not parse: %w\n%s", fileName, err, buf.String())
	}
	return src, nil
}

// runtimeImport renders the import spec of the runtime library, naming it
// salad whatever its path
func runtimeImport(importPath string) string {
	if path.Base(importPath) == "salad" {
		return strconv.Quote(importPath)
	}
	return "salad " + strconv.Quote(importPath)
}
