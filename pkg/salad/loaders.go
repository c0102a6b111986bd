package salad

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Loader turns a document value into a typed value
type Loader interface {
	Load(doc any, baseURI string, opts *LoadingOptions, docRoot string) (any, error)
}

// Symbol is a loaded enum value
type Symbol string

// PrimitiveKind selects the host kind a PrimitiveLoader accepts
type PrimitiveKind string

const (
	KindString PrimitiveKind = "string"
	KindInt    PrimitiveKind = "int"
	KindFloat  PrimitiveKind = "float"
	KindBool   PrimitiveKind = "bool"
	KindNull   PrimitiveKind = "null"
)

// PrimitiveLoader accepts a single scalar kind
type PrimitiveLoader struct {
	Kind PrimitiveKind
}

// NewPrimitiveLoader creates a PrimitiveLoader
func NewPrimitiveLoader(kind PrimitiveKind) *PrimitiveLoader {
	return &PrimitiveLoader{Kind: kind}
}

func (l *PrimitiveLoader) String() string { return string(l.Kind) }

// Load implements Loader. Integers are accepted where floats are expected.
func (l *PrimitiveLoader) Load(doc any, _ string, _ *LoadingOptions, _ string) (any, error) {
	switch l.Kind {
	case KindString:
		if s, ok := doc.(string); ok {
			return s, nil
		}
	case KindInt:
		switch v := doc.(type) {
		case int:
			return v, nil
		case int64:
			if v > math.MaxInt || v < math.MinInt {
				return nil, NewValidationError(fmt.Sprintf("Integer %d is out of range", v))
			}
			return int(v), nil
		case uint64:
			if v > math.MaxInt {
				return nil, NewValidationError(fmt.Sprintf("Integer %d is out of range", v))
			}
			return int(v), nil
		}
	case KindFloat:
		switch v := doc.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case uint64:
			return float64(v), nil
		}
	case KindBool:
		if b, ok := doc.(bool); ok {
			return b, nil
		}
	case KindNull:
		if doc == nil {
			return nil, nil
		}
	}
	return nil, NewValidationError(fmt.Sprintf("Expected a %s but got %s", l.Kind, typeName(doc)))
}

// AnyLoader accepts any non-null value
type AnyLoader struct{}

// NewAnyLoader creates an AnyLoader
func NewAnyLoader() *AnyLoader { return &AnyLoader{} }

func (*AnyLoader) String() string { return "Any" }

// Load implements Loader
func (*AnyLoader) Load(doc any, _ string, _ *LoadingOptions, _ string) (any, error) {
	if doc == nil {
		return nil, NewValidationError("Expected non-null")
	}
	return doc, nil
}

// ArrayLoader loads every item of a list. Items that load to lists are
// flattened into the result.
type ArrayLoader struct {
	Items Loader
}

// NewArrayLoader creates an ArrayLoader
func NewArrayLoader(items Loader) *ArrayLoader {
	return &ArrayLoader{Items: items}
}

func (l *ArrayLoader) String() string { return "array<" + describe(l.Items) + ">" }

// Load implements Loader
func (l *ArrayLoader) Load(doc any, baseURI string, opts *LoadingOptions, _ string) (any, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("Value is a %s, but valid type for this field is an array.", typeName(doc)))
	}
	item := NewUnionLoader(l, l.Items)
	r := make([]any, 0, len(items))
	var errs []error
	for i, v := range items {
		lf, err := LoadField(v, item, baseURI, opts)
		if err != nil {
			ve := NewValidationError(fmt.Sprintf("array item %d is invalid because", i), err)
			if m, ok := v.(*Map); ok {
				ve.At(LineOf(m, ""))
			}
			errs = append(errs, ve)
			continue
		}
		if list, ok := lf.([]any); ok {
			r = append(r, list...)
		} else {
			r = append(r, lf)
		}
	}
	if len(errs) > 0 {
		return nil, NewValidationError("", errs...)
	}
	return r, nil
}

// UnionLoader tries its alternatives in order and returns the first success
type UnionLoader struct {
	Alternates []Loader
}

// NewUnionLoader creates a UnionLoader
func NewUnionLoader(alternates ...Loader) *UnionLoader {
	return &UnionLoader{Alternates: alternates}
}

func (l *UnionLoader) String() string {
	names := make([]string, 0, len(l.Alternates))
	for _, a := range l.Alternates {
		names = append(names, describe(a))
	}
	return "union<" + strings.Join(names, "|") + ">"
}

// Load implements Loader
func (l *UnionLoader) Load(doc any, baseURI string, opts *LoadingOptions, docRoot string) (any, error) {
	var errs []error
	for _, alt := range l.Alternates {
		v, err := alt.Load(doc, baseURI, opts, docRoot)
		if err == nil {
			return v, nil
		}
		errs = append(errs, NewValidationError(fmt.Sprintf("tried %s but", describe(alt)), err))
	}
	return nil, NewValidationError("", errs...)
}

// EnumLoader accepts one of a fixed set of symbols
type EnumLoader struct {
	Name    string
	Symbols []string
}

// NewEnumLoader creates an EnumLoader
func NewEnumLoader(name string, symbols ...string) *EnumLoader {
	return &EnumLoader{Name: name, Symbols: symbols}
}

func (l *EnumLoader) String() string { return l.Name }

// Load implements Loader
func (l *EnumLoader) Load(doc any, _ string, _ *LoadingOptions, _ string) (any, error) {
	s, ok := doc.(string)
	if ok {
		for _, sym := range l.Symbols {
			if sym == s {
				return Symbol(s), nil
			}
		}
	}
	quoted := make([]string, 0, len(l.Symbols))
	for _, sym := range l.Symbols {
		quoted = append(quoted, "'"+sym+"'")
	}
	return nil, NewValidationError("Expected one of (" + strings.Join(quoted, ", ") + ")")
}

// URILoader expands string values, or strings inside a list, before
// delegating to Inner.
type URILoader struct {
	Inner     Loader
	ScopedID  bool
	VocabTerm bool
	RefScope  int
}

// NewURILoader creates a URILoader
func NewURILoader(inner Loader, scopedID, vocabTerm bool, refScope int) *URILoader {
	return &URILoader{Inner: inner, ScopedID: scopedID, VocabTerm: vocabTerm, RefScope: refScope}
}

func (l *URILoader) String() string { return describe(l.Inner) }

// Load implements Loader
func (l *URILoader) Load(doc any, baseURI string, opts *LoadingOptions, _ string) (any, error) {
	switch v := doc.(type) {
	case []any:
		expanded := make([]any, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				expanded = append(expanded, item)
				continue
			}
			u, err := ExpandURL(s, baseURI, opts, l.ScopedID, l.VocabTerm, l.RefScope)
			if err != nil {
				return nil, NewValidationError(err.Error())
			}
			expanded = append(expanded, u)
		}
		doc = expanded
	case string:
		u, err := ExpandURL(v, baseURI, opts, l.ScopedID, l.VocabTerm, l.RefScope)
		if err != nil {
			return nil, NewValidationError(err.Error())
		}
		doc = u
	}
	return l.Inner.Load(doc, baseURI, opts, "")
}

// IDMapLoader rewrites a mapping keyed by identifier into a list of
// objects, keys sorted, storing each key under Subject. Scalar values are
// stored under Predicate.
type IDMapLoader struct {
	Inner     Loader
	Subject   string
	Predicate string
}

// NewIDMapLoader creates an IDMapLoader
func NewIDMapLoader(inner Loader, subject, predicate string) *IDMapLoader {
	return &IDMapLoader{Inner: inner, Subject: subject, Predicate: predicate}
}

func (l *IDMapLoader) String() string { return describe(l.Inner) }

// Load implements Loader
func (l *IDMapLoader) Load(doc any, baseURI string, opts *LoadingOptions, _ string) (any, error) {
	if m, ok := doc.(*Map); ok {
		keys := m.Keys()
		sort.Strings(keys)
		r := make([]any, 0, len(keys))
		for _, k := range keys {
			val, _ := m.Get(k)
			if vm, ok := val.(*Map); ok {
				v := vm.Copy()
				v.Set(l.Subject, k)
				r = append(r, v)
				continue
			}
			if l.Predicate == "" {
				return nil, NewValidationError("No mapPredicate").At(LineOf(m, k))
			}
			v := NewMap()
			v.Filename = m.Filename
			v.Set(l.Predicate, val)
			v.Set(l.Subject, k)
			if p, ok := m.Pos(k); ok {
				v.Start = p
			}
			r = append(r, v)
		}
		doc = r
	}
	return l.Inner.Load(doc, baseURI, opts, "")
}

var typeDSLPattern = regexp.MustCompile(`^([^[?]+)(\[\])?(\?)?$`)

// TypeDSLLoader expands compact type expressions: "T", "T[]", "T?" and
// "T[]?".
type TypeDSLLoader struct {
	Inner    Loader
	RefScope int
}

// NewTypeDSLLoader creates a TypeDSLLoader
func NewTypeDSLLoader(inner Loader, refScope int) *TypeDSLLoader {
	return &TypeDSLLoader{Inner: inner, RefScope: refScope}
}

func (l *TypeDSLLoader) String() string { return describe(l.Inner) }

func (l *TypeDSLLoader) resolve(doc, baseURI string, opts *LoadingOptions) (any, error) {
	m := typeDSLPattern.FindStringSubmatch(doc)
	if m == nil {
		return doc, nil
	}
	first, err := ExpandURL(m[1], baseURI, opts, false, true, l.RefScope)
	if err != nil {
		return nil, err
	}
	var out any = first
	if m[2] != "" {
		out = MapOf("type", "array", "items", first)
	}
	if m[3] != "" {
		out = []any{"null", out}
	}
	return out, nil
}

// Load implements Loader
func (l *TypeDSLLoader) Load(doc any, baseURI string, opts *LoadingOptions, _ string) (any, error) {
	switch v := doc.(type) {
	case []any:
		r := []any{}
		add := func(item any) {
			for _, existing := range r {
				if reflect.DeepEqual(existing, item) {
					return
				}
			}
			r = append(r, item)
		}
		for _, d := range v {
			s, ok := d.(string)
			if !ok {
				r = append(r, d)
				continue
			}
			resolved, err := l.resolve(s, baseURI, opts)
			if err != nil {
				return nil, NewValidationError(err.Error())
			}
			if list, ok := resolved.([]any); ok {
				for _, item := range list {
					add(item)
				}
			} else {
				add(resolved)
			}
		}
		doc = r
	case string:
		resolved, err := l.resolve(v, baseURI, opts)
		if err != nil {
			return nil, NewValidationError(err.Error())
		}
		doc = resolved
	}
	return l.Inner.Load(doc, baseURI, opts, "")
}

func describe(l Loader) string {
	if s, ok := l.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", l)
}
