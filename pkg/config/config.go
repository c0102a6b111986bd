package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Schema formats accepted by Config.Format
const (
	FormatSalad   = "salad"
	FormatOpenAPI = "openapi"
)

// DefaultRuntimeImport is the import path of the runtime library that
// generated Go code depends on
const DefaultRuntimeImport = "github.com/blimu-dev/salad-gen/pkg/salad"

// Config represents the complete configuration for code generation
type Config struct {
	// Schema is a resolved schema document, a local path or an HTTP(S) URL
	Schema string `yaml:"schema" validate:"required"`
	// Format selects how Schema is read: "salad" (default) or "openapi"
	Format  string   `yaml:"format" validate:"omitempty,oneof=salad openapi"`
	Name    string   `yaml:"name"`
	Targets []Target `yaml:"targets" validate:"dive"`
}

// Target represents one generated output
type Target struct {
	Type        string `yaml:"type"`
	Name        string `yaml:"name"`
	OutDir      string `yaml:"outDir" validate:"required"`
	PackageName string `yaml:"packageName" validate:"required"`
	// RuntimeImport overrides the import path of the runtime library
	RuntimeImport string `yaml:"runtimeImport"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["goimports", "-w", "."]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes,
	// in the same format and directory as PreCommand.
	PostCommand []string `yaml:"postCommand"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be generated
	// Example: ["README.md", "types.go"]
	ExcludeFiles []string `yaml:"exclude"`
}

// GetPreCommand returns the pre-generation command to execute.
func (t *Target) GetPreCommand() []string {
	return t.PreCommand
}

// GetPostCommand returns the post-generation command to execute.
func (t *Target) GetPostCommand() []string {
	return t.PostCommand
}

// Runtime returns the runtime import path, falling back to the default.
func (t *Target) Runtime() string {
	if t.RuntimeImport != "" {
		return t.RuntimeImport
	}
	return DefaultRuntimeImport
}

// ShouldExcludeFile checks if a file should be skipped. relPath is relative to
// OutDir; an entry ending in a directory excludes everything below it.
func (t *Target) ShouldExcludeFile(relPath string) bool {
	if len(t.ExcludeFiles) == 0 {
		return false
	}
	if filepath.IsAbs(relPath) {
		rel, err := filepath.Rel(t.OutDir, relPath)
		if err != nil {
			return false
		}
		relPath = rel
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, pattern := range t.ExcludeFiles {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if relPath == pattern {
			return true
		}
		if pattern != "" && strings.HasPrefix(relPath, pattern+"/") {
			return true
		}
	}
	return false
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg, fills defaults and absolutises local paths.
func (cfg *Config) Normalize() error {
	if err := validate.Struct(cfg); err != nil {
		return validationError(err)
	}
	if cfg.Format == "" {
		cfg.Format = FormatSalad
	}
	for i := range cfg.Targets {
		t := &cfg.Targets[i]
		if t.Type == "" {
			t.Type = "go"
		}
		if t.Name == "" {
			t.Name = t.PackageName
		}
		if !filepath.IsAbs(t.OutDir) {
			abs, _ := filepath.Abs(t.OutDir)
			t.OutDir = abs
		}
	}
	// Do not absolutize when the schema is an HTTP(S) URL
	if u, err := url.Parse(cfg.Schema); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		// keep as-is
	} else if !filepath.IsAbs(cfg.Schema) {
		abs, _ := filepath.Abs(cfg.Schema)
		cfg.Schema = abs
	}
	return nil
}

// validationError joins every failed rule into one message, fields named by
// their YAML keys
func validationError(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		field := "config." + strings.TrimPrefix(ve.Namespace(), "Config.")
		switch ve.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s %q is not supported (one of: %s)", field, ve.Value(), ve.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", field, ve.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
