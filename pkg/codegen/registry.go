package codegen

import (
	"log/slog"

	"github.com/blimu-dev/salad-gen/pkg/ir"
)

// Registry is the deduplicating store of TypeDefs of one generation session.
// Names are the dedup key: two TypeDefs with the same name are the same
// definition regardless of their constructor expressions.
type Registry struct {
	order  []string
	types  map[string]ir.TypeDef
	logger *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		types:  make(map[string]ir.TypeDef),
		logger: logger,
	}
}

// Declare registers t unless a TypeDef with the same name exists, in which
// case the cached definition is returned and t is discarded.
func (r *Registry) Declare(t ir.TypeDef) ir.TypeDef {
	if existing, ok := r.types[t.Name]; ok {
		return existing
	}
	r.types[t.Name] = t
	r.order = append(r.order, t.Name)
	r.logger.Debug("registered type", slog.String("name", t.Name), slog.String("kind", string(t.Init.Kind)))
	return t
}

// Lookup retrieves a TypeDef by name
func (r *Registry) Lookup(name string) (ir.TypeDef, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Len returns the number of registered TypeDefs
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every TypeDef in insertion order
func (r *Registry) All() []ir.TypeDef {
	out := make([]ir.TypeDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.types[name])
	}
	return out
}
