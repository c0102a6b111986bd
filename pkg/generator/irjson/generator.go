// Package irjson writes the compiled module as JSON so that backends living
// outside this repository can render it.
package irjson

import (
	"bytes"
	"context"

	"github.com/goccy/go-json"

	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/output"
)

// FileName is the name of the written file
const FileName = "module.json"

// Generator implements the "ir-json" target
type Generator struct{}

// NewGenerator creates the IR dump generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GetType returns the generator type identifier
func (g *Generator) GetType() string {
	return "ir-json"
}

// Generate writes mod to FileName
func (g *Generator) Generate(ctx context.Context, target config.Target, mod ir.Module, out output.Sink) error {
	if target.ShouldExcludeFile(FileName) {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(mod); err != nil {
		return err
	}
	return out.WriteFile(ctx, FileName, buf.Bytes())
}
