// Package codegen is the type-composition and per-record generation engine.
// A Session turns resolved schema declarations into the structured fragments
// of package ir; backends render those fragments as source text.
package codegen

import (
	"fmt"
	"log/slog"

	"github.com/blimu-dev/salad-gen/pkg/ir"
)

// DefaultBase is the capability every record without parents extends
const DefaultBase = "Savable"

// SchemaError is a fatal generation-time error
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string {
	return e.Msg
}

func schemaErrorf(format string, args ...any) error {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for debug output
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session holds the mutable state of one generation run. Nothing is shared
// between sessions.
type Session struct {
	registry *Registry
	vocab    *Vocabulary
	logger   *slog.Logger

	prims   []string
	classes []ir.Class
	current *classBuilder
}

// NewSession creates a session with an empty registry and vocabulary
func NewSession(opts ...Option) *Session {
	s := &Session{
		vocab:  NewVocabulary(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry = NewRegistry(s.logger)
	return s
}

// Registry returns the session's type registry
func (s *Session) Registry() *Registry {
	return s.registry
}

// Vocabulary returns the session's vocabulary table
func (s *Session) Vocabulary() *Vocabulary {
	return s.vocab
}

// Classes returns the classes emitted so far
func (s *Session) Classes() []ir.Class {
	return s.classes
}
