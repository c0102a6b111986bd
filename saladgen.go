// Package saladgen generates typed loaders for documents described by a
// schema-salad style schema.
//
// A resolved schema document (a list of enum and record declarations, or a
// mapping with a $graph list) is compiled into a language-neutral module of
// composable loaders, record parse/save steps and a vocabulary. Backends
// render that module; the "go" backend writes a package whose records load
// from YAML and save back, using the runtime library in pkg/salad.
// OpenAPI 3 documents are accepted as an alternative schema source.
//
// Quick Start:
//
//	import "github.com/blimu-dev/salad-gen"
//
//	err := saladgen.GenerateGoPackage("./schema.yml", "./internal/model", "model")
//
// For more advanced usage, see the generator package.
package saladgen

import (
	"github.com/blimu-dev/salad-gen/pkg/generator"
)

// GenerateGoPackage generates a Go package from a resolved schema document.
//
// Parameters:
//   - schema: Path to the schema document or an HTTP(S) URL
//   - outDir: Output directory of the generated package
//   - packageName: Name of the generated package
//
// Example:
//
//	err := saladgen.GenerateGoPackage("./cwl.yml", "./cwl", "cwl")
func GenerateGoPackage(schema, outDir, packageName string) error {
	return generator.GenerateGoPackage(schema, outDir, packageName)
}

// Generate generates code with full configuration options.
//
// Example:
//
//	err := saladgen.Generate(saladgen.GenerateOptions{
//		Schema:      "./openapi.yaml",
//		Format:      "openapi",
//		OutDir:      "./models",
//		PackageName: "models",
//	})
func Generate(opts GenerateOptions) error {
	return generator.GenerateCode(generator.GenerateCodeOptions{
		ConfigPath:    opts.ConfigPath,
		SingleTarget:  opts.SingleTarget,
		Schema:        opts.Schema,
		Format:        opts.Format,
		Type:          opts.Type,
		OutDir:        opts.OutDir,
		PackageName:   opts.PackageName,
		RuntimeImport: opts.RuntimeImport,
	})
}

// GenerateFromConfig generates every target of a YAML configuration file.
// Optionally, you can name a single target to generate only that one.
//
// Example:
//
//	// Generate all targets from config
//	err := saladgen.GenerateFromConfig("./saladgen.yaml")
//
//	// Generate only a specific target
//	err := saladgen.GenerateFromConfig("./saladgen.yaml", "go-model")
func GenerateFromConfig(configPath string, singleTarget ...string) error {
	return generator.GenerateFromConfig(configPath, singleTarget...)
}

// ValidateSchema checks that a schema loads and compiles without writing
// anything. format is "salad" (or empty) or "openapi".
//
// Example:
//
//	if err := saladgen.ValidateSchema("./schema.yml", ""); err != nil {
//		log.Fatalf("Invalid schema: %v", err)
//	}
func ValidateSchema(path, format string) error {
	return generator.ValidateSchema(path, format)
}

// GenerateOptions contains options for code generation
type GenerateOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleTarget generates only the named target from config (optional)
	SingleTarget string

	// Fallback options when no config file is provided
	Schema        string // Schema file or URL
	Format        string // "salad" (default) or "openapi"
	Type          string // Generator type, "go" (default), "python" or "ir-json"
	OutDir        string // Output directory
	PackageName   string // Package name of the generated code
	RuntimeImport string // Import path of the runtime library (optional)
}
