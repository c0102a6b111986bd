// Package python renders a compiled module as a single Python module in the
// layout of schema-salad's own Python code generator. The loaders and the
// Savable base are imported from a runtime module rather than embedded.
package python

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/output"
)

//go:embed templates/*
var templatesFS embed.FS

// PythonGenerator implements the Generator interface for Python
type PythonGenerator struct{}

// NewPythonGenerator creates a new Python generator
func NewPythonGenerator() *PythonGenerator {
	return &PythonGenerator{}
}

// GetType returns the generator type identifier
func (g *PythonGenerator) GetType() string {
	return "python"
}

// Generate writes mod as <package>.py
func (g *PythonGenerator) Generate(ctx context.Context, target config.Target, mod ir.Module, out output.Sink) error {
	name := moduleName(target.PackageName) + ".py"
	if target.ShouldExcludeFile(name) {
		return nil
	}
	view, err := buildModuleView(target, mod)
	if err != nil {
		return err
	}

	funcMap := template.FuncMap{
		"pyStr": pyStr,
	}
	// Merge sprig functions
	for k, v := range sprig.TxtFuncMap() {
		funcMap[k] = v
	}

	content, err := renderFile("module.py.gotmpl", funcMap, view)
	if err != nil {
		return err
	}
	return out.WriteFile(ctx, name, content)
}

// renderFile renders a template into memory
func renderFile(templateName string, funcMap template.FuncMap, data any) ([]byte, error) {
	tmplContent, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.Bytes(), nil
}
