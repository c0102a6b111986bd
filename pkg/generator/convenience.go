package generator

import (
	"context"
	"path/filepath"

	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/openapi"
)

// GenerateCodeOptions contains options for the convenience GenerateCode function
type GenerateCodeOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleTarget generates only the named target from config (optional)
	SingleTarget string

	// Fallback options when no config file is provided
	Schema        string // Schema file or URL
	Format        string // "salad" (default) or "openapi"
	Type          string // Generator type, defaults to "go"
	OutDir        string // Output directory
	PackageName   string // Package name of the generated code
	RuntimeImport string // Import path of the runtime library (optional)
}

// GenerateCode is a convenience function for generating code with minimal configuration
func GenerateCode(opts GenerateCodeOptions) error {
	service := NewService()
	return service.Generate(context.Background(), GenerateOptions{
		ConfigPath:   opts.ConfigPath,
		SingleTarget: opts.SingleTarget,
		Fallback: FallbackOptions{
			Schema:        opts.Schema,
			Format:        opts.Format,
			Type:          opts.Type,
			OutDir:        opts.OutDir,
			PackageName:   opts.PackageName,
			RuntimeImport: opts.RuntimeImport,
		},
	})
}

// GenerateGoPackage generates a Go package for a resolved schema document
func GenerateGoPackage(schemaPath, outDir, packageName string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	return GenerateCode(GenerateCodeOptions{
		Schema:      schemaPath,
		Type:        "go",
		OutDir:      absOutDir,
		PackageName: packageName,
	})
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(configPath string, singleTarget ...string) error {
	service := NewService()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	onlyTarget := ""
	if len(singleTarget) > 0 {
		onlyTarget = singleTarget[0]
	}

	return service.GenerateFromConfig(context.Background(), cfg, onlyTarget)
}

// ValidateSchema checks that the schema at path loads and compiles
func ValidateSchema(path, format string) error {
	if format == config.FormatOpenAPI {
		if err := openapi.Validate(context.Background(), path); err != nil {
			return err
		}
	}
	_, err := NewService().Compile(context.Background(), &config.Config{Schema: path, Format: format})
	return err
}
