package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blimu-dev/salad-gen/pkg/codegen"
	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/generator/golang"
	"github.com/blimu-dev/salad-gen/pkg/generator/irjson"
	"github.com/blimu-dev/salad-gen/pkg/generator/python"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/openapi"
	"github.com/blimu-dev/salad-gen/pkg/output"
	"github.com/blimu-dev/salad-gen/pkg/salad"
	"github.com/blimu-dev/salad-gen/pkg/schema"
)

// Generator renders a compiled module for one target
type Generator interface {
	// Generate writes the files of target to out
	Generate(ctx context.Context, target config.Target, mod ir.Module, out output.Sink) error
	// GetType returns the type identifier for this generator (e.g., "go")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for code generation
type GenerateOptions struct {
	ConfigPath   string
	SingleTarget string
	Fallback     FallbackOptions
}

// FallbackOptions describe a single target when no config file is provided
type FallbackOptions struct {
	Schema        string
	Format        string
	Type          string
	OutDir        string
	PackageName   string
	RuntimeImport string
}

// Service loads schemas, compiles them and renders every configured target
type Service struct {
	registry *Registry
	logger   *slog.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service and the compiler. A nil
// logger keeps the default.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry replaces the default generator registry. A nil registry
// keeps the default.
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *Service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// NewService creates a new generator service with the default generators
func NewService(opts ...ServiceOption) *Service {
	registry := NewRegistry()
	registry.Register(golang.NewGoGenerator())
	registry.Register(irjson.NewGenerator())
	registry.Register(python.NewPythonGenerator())
	s := &Service{registry: registry, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate generates code based on the provided options
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		fb := opts.Fallback
		if fb.Schema == "" || fb.OutDir == "" || fb.PackageName == "" {
			return fmt.Errorf("either config path or schema, out dir and package name must be provided")
		}
		cfg = &config.Config{
			Schema: fb.Schema,
			Format: fb.Format,
			Targets: []config.Target{{
				Type:          fb.Type,
				OutDir:        fb.OutDir,
				PackageName:   fb.PackageName,
				RuntimeImport: fb.RuntimeImport,
			}},
		}
		if err := cfg.Normalize(); err != nil {
			return err
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}

	return s.GenerateFromConfig(ctx, cfg, opts.SingleTarget)
}

// Compile loads the schema of cfg and compiles it into a module
func (s *Service) Compile(ctx context.Context, cfg *config.Config) (ir.Module, error) {
	defs, err := LoadSchema(ctx, cfg.Schema, cfg.Format, s.logger)
	if err != nil {
		return ir.Module{}, err
	}
	mod, err := codegen.Compile(defs, codegen.WithLogger(s.logger))
	if err != nil {
		return ir.Module{}, fmt.Errorf("failed to compile %s: %w", cfg.Schema, err)
	}
	return mod, nil
}

// GenerateFromConfig renders every target of cfg, or only the one named
// onlyTarget when it is not empty
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyTarget string) error {
	mod, err := s.Compile(ctx, cfg)
	if err != nil {
		return err
	}
	s.logger.Info("compiled schema",
		slog.String("schema", cfg.Schema),
		slog.Int("classes", len(mod.Classes)),
		slog.Int("types", len(mod.Types)))

	matched := false
	for _, target := range cfg.Targets {
		if onlyTarget != "" && target.Name != onlyTarget {
			continue
		}
		matched = true

		generator, exists := s.registry.Get(target.Type)
		if !exists {
			return fmt.Errorf("unsupported target type: %s (available: %s)",
				target.Type, strings.Join(s.registry.GetAvailableTypes(), ", "))
		}

		// Ensure output directory exists before pre-commands
		if err := os.MkdirAll(target.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory for target %s: %w", target.Name, err)
		}

		if err := s.executeCommand(ctx, target.GetPreCommand(), target.OutDir, "pre-command"); err != nil {
			return fmt.Errorf("pre-generation commands failed for target %s: %w", target.Name, err)
		}

		if err := generator.Generate(ctx, target, mod, output.NewFilesystem(target.OutDir)); err != nil {
			return fmt.Errorf("target %s: %w", target.Name, err)
		}
		s.logger.Info("generated target", slog.String("name", target.Name), slog.String("outDir", target.OutDir))

		if err := s.executeCommand(ctx, target.GetPostCommand(), target.OutDir, "post-command"); err != nil {
			return fmt.Errorf("post-generation commands failed for target %s: %w", target.Name, err)
		}
	}
	if onlyTarget != "" && !matched {
		return fmt.Errorf("no target named %q", onlyTarget)
	}
	return nil
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(ctx context.Context, command []string, workDir, label string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	s.logger.Debug("running command", slog.String("label", label), slog.Any("command", command))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", label, strings.Join(command, " "), err)
	}
	return nil
}

// LoadSchema reads the declarations at location, a path or an HTTP(S) URL,
// in the given format
func LoadSchema(ctx context.Context, location, format string, logger *slog.Logger) ([]schema.Decl, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch format {
	case config.FormatOpenAPI:
		doc, err := openapi.Load(ctx, location)
		if err != nil {
			return nil, err
		}
		return openapi.ToDecls(doc, schemaURI(location), logger)
	case config.FormatSalad, "":
		if !isRemote(location) {
			return schema.LoadFile(location)
		}
		text, err := salad.DefaultFetcher{}.FetchText(ctx, location)
		if err != nil {
			return nil, err
		}
		defs, err := schema.Parse([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema %s: %w", location, err)
		}
		return defs, nil
	}
	return nil, fmt.Errorf("unsupported schema format %q", format)
}

func isRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func schemaURI(location string) string {
	if isRemote(location) {
		return location
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		abs = location
	}
	return salad.FileURI(abs)
}
