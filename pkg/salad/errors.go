package salad

import (
	"fmt"
	"strings"
)

// SourceLine locates a value in its document
type SourceLine struct {
	File string
	Line int
	Col  int
}

// IsZero reports whether the location is unknown
func (s SourceLine) IsZero() bool {
	return s.Line == 0 && s.File == ""
}

func (s SourceLine) String() string {
	if s.IsZero() {
		return ""
	}
	if s.Line == 0 {
		return s.File
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// LineOf locates key within m, falling back to the mapping itself when the
// key has no recorded position.
func LineOf(m *Map, key string) SourceLine {
	if m == nil {
		return SourceLine{}
	}
	if p, ok := m.Pos(key); ok {
		return SourceLine{File: m.Filename, Line: p.Line, Col: p.Col}
	}
	return SourceLine{File: m.Filename, Line: m.Start.Line, Col: m.Start.Col}
}

// ValidationError reports why a document does not match a loader. Children
// carry the nested causes; an empty Message only groups its children.
type ValidationError struct {
	Message  string
	Source   SourceLine
	Children []error
}

// NewValidationError creates a ValidationError with nested causes
func NewValidationError(msg string, children ...error) *ValidationError {
	return &ValidationError{Message: msg, Children: children}
}

// At attaches a source location
func (e *ValidationError) At(src SourceLine) *ValidationError {
	e.Source = src
	return e
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	e.write(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

// Unwrap exposes the nested causes to errors.Is and errors.As
func (e *ValidationError) Unwrap() []error {
	return e.Children
}

func (e *ValidationError) write(b *strings.Builder, depth int) {
	if e.Message != "" {
		b.WriteString(strings.Repeat("  ", depth))
		if src := e.Source.String(); src != "" {
			b.WriteString(src)
			b.WriteString(": ")
		}
		b.WriteString(e.Message)
		b.WriteByte('\n')
		depth++
	}
	for _, child := range e.Children {
		if ve, ok := child.(*ValidationError); ok {
			ve.write(b, depth)
			continue
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(child.Error())
		b.WriteByte('\n')
	}
}

// AppendError appends err to errs unless it is nil
func AppendError(errs []error, err error) []error {
	if err == nil {
		return errs
	}
	return append(errs, err)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []any:
		return "array"
	case *Map:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
