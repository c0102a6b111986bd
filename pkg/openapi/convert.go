package openapi

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/salad-gen/pkg/schema"
	"github.com/blimu-dev/salad-gen/pkg/utils"
)

const componentsPrefix = "#/components/schemas/"

// converter turns components.schemas into schema declarations. Named object
// and enum schemas become records and enums; every other named schema is
// inlined where it is referenced.
type converter struct {
	doc    *openapi3.T
	ns     string
	logger *slog.Logger
	// hoisted holds inline enums and objects promoted to named declarations
	hoisted []schema.Decl
	seen    map[string]bool
	// inlining guards against alias cycles
	inlining map[string]bool
}

// ToDecls converts the component schemas of doc into declarations the code
// generator accepts. Names are qualified with ns, which should be the
// document's own URI. Every top-level object schema is a document root.
// Shapes without an equivalent degrade to Any with a warning.
func ToDecls(doc *openapi3.T, ns string, logger *slog.Logger) ([]schema.Decl, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if doc == nil || doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, ErrNoSchemas
	}
	c := &converter{doc: doc, ns: strings.TrimSuffix(ns, "#"), logger: logger, inlining: make(map[string]bool), seen: make(map[string]bool)}

	names := make([]string, 0, len(doc.Components.Schemas))
	for n := range doc.Components.Schemas {
		names = append(names, n)
	}
	sort.Strings(names)

	var defs []schema.Decl
	for _, n := range names {
		ref := doc.Components.Schemas[n]
		switch {
		case ref == nil || ref.Value == nil:
			c.logger.Warn("skipping unresolved schema", slog.String("name", n))
		case isEnum(ref.Value):
			defs = append(defs, c.enum(n, ref.Value))
		case isObject(ref.Value):
			rec := c.record(n, ref.Value)
			rec.DocumentRoot = true
			defs = append(defs, rec)
		default:
			c.logger.Debug("inlining schema alias", slog.String("name", n))
		}
	}
	return append(c.hoisted, defs...), nil
}

func (c *converter) iri(name string) string { return c.ns + "#" + name }

func isEnum(s *openapi3.Schema) bool { return len(s.Enum) > 0 }

// isObject reports whether s declares properties, directly or through an
// allOf member.
func isObject(s *openapi3.Schema) bool {
	if len(s.Properties) > 0 && (s.Type == nil || s.Type.Is(openapi3.TypeObject)) {
		return true
	}
	for _, m := range s.AllOf {
		if m != nil && m.Value != nil && isObject(m.Value) {
			return true
		}
	}
	return false
}

func (c *converter) enum(name string, s *openapi3.Schema) schema.Decl {
	symbols := make([]string, 0, len(s.Enum))
	for _, v := range s.Enum {
		if v == nil {
			continue
		}
		symbols = append(symbols, c.iri(name+"/"+fmt.Sprint(v)))
	}
	d := schema.Enum(c.iri(name), symbols...)
	d.Doc = s.Description
	return d
}

func (c *converter) record(name string, s *openapi3.Schema) schema.Decl {
	d := schema.Record(c.iri(name))
	d.Doc = s.Description

	props := openapi3.Schemas{}
	required := map[string]bool{}
	var order []string
	add := func(src *openapi3.Schema) {
		keys := make([]string, 0, len(src.Properties))
		for k := range src.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := props[k]; !ok {
				order = append(order, k)
			}
			props[k] = src.Properties[k]
		}
		for _, r := range src.Required {
			required[r] = true
		}
	}

	for _, member := range s.AllOf {
		if member == nil {
			continue
		}
		if ref, ok := componentName(member.Ref); ok {
			if target := c.lookup(ref); target != nil && isObject(target) {
				d.Extends = append(d.Extends, c.iri(ref))
			}
		}
		if member.Value != nil {
			c.flatten(member.Value, add)
		}
	}
	add(s)

	for _, p := range order {
		if p == "class" {
			c.logger.Warn("skipping property reserved for the record discriminator",
				slog.String("schema", name), slog.String("property", p))
			continue
		}
		ref := props[p]
		t := c.fieldType(name+utils.ToPascalCaseAdvanced(p), ref)
		nullable := ref != nil && ref.Value != nil && ref.Value.Nullable
		if !required[p] || nullable {
			t = optional(t)
		}
		f := schema.Field{Name: c.iri(name + "/" + p), Type: t}
		if ref != nil && ref.Value != nil {
			f.Doc = ref.Value.Description
		}
		d.Fields = append(d.Fields, f)
	}
	return d
}

// flatten feeds src and every allOf member below it to add.
func (c *converter) flatten(src *openapi3.Schema, add func(*openapi3.Schema)) {
	for _, member := range src.AllOf {
		if member != nil && member.Value != nil {
			c.flatten(member.Value, add)
		}
	}
	add(src)
}

func (c *converter) lookup(name string) *openapi3.Schema {
	ref, ok := c.doc.Components.Schemas[name]
	if !ok || ref == nil {
		return nil
	}
	return ref.Value
}

func componentName(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if strings.HasPrefix(ref, componentsPrefix) {
		return strings.TrimPrefix(ref, componentsPrefix), true
	}
	parts := strings.Split(ref, "/")
	name := parts[len(parts)-1]
	return name, name != ""
}

// fieldType converts a property schema. hint names hoisted inline
// enums and objects.
func (c *converter) fieldType(hint string, ref *openapi3.SchemaRef) schema.Decl {
	if ref == nil {
		return schema.Named("Any")
	}
	if name, ok := componentName(ref.Ref); ok {
		target := c.lookup(name)
		switch {
		case target == nil:
			c.logger.Warn("unresolved reference", slog.String("ref", ref.Ref))
			return schema.Named("Any")
		case isEnum(target) || isObject(target):
			return schema.Named(c.iri(name))
		case c.inlining[name]:
			c.logger.Warn("cyclic schema alias", slog.String("ref", ref.Ref))
			return schema.Named("Any")
		}
		c.inlining[name] = true
		defer delete(c.inlining, name)
		return c.inline(name, target)
	}
	if ref.Value == nil {
		return schema.Named("Any")
	}
	return c.inline(hint, ref.Value)
}

func (c *converter) inline(hint string, s *openapi3.Schema) schema.Decl {
	switch {
	case isEnum(s):
		if !c.seen[hint] {
			c.seen[hint] = true
			c.hoisted = append(c.hoisted, c.enum(hint, s))
		}
		return schema.Named(c.iri(hint))
	case len(s.OneOf) > 0 || len(s.AnyOf) > 0:
		members := s.OneOf
		if len(members) == 0 {
			members = s.AnyOf
		}
		out := make([]schema.Decl, 0, len(members))
		for i, m := range members {
			out = append(out, c.fieldType(fmt.Sprintf("%s%d", hint, i), m))
		}
		return schema.UnionOf(out...)
	case len(s.AllOf) == 1 && len(s.Properties) == 0:
		return c.fieldType(hint, s.AllOf[0])
	case isObject(s):
		if !c.seen[hint] {
			c.seen[hint] = true
			d := c.record(hint, s)
			c.hoisted = append(c.hoisted, d)
		}
		return schema.Named(c.iri(hint))
	case s.Type == nil:
		return schema.Named("Any")
	case s.Type.Is(openapi3.TypeString):
		return schema.Named("string")
	case s.Type.Is(openapi3.TypeInteger):
		return schema.Named("int")
	case s.Type.Is(openapi3.TypeNumber):
		return schema.Named("float")
	case s.Type.Is(openapi3.TypeBoolean):
		return schema.Named("boolean")
	case s.Type.Is(openapi3.TypeArray):
		return schema.ArrayOf(c.fieldType(hint+"Item", s.Items))
	case s.Type.Is(openapi3.TypeObject):
		return schema.Named("Any")
	}
	c.logger.Warn("unsupported schema shape, using Any", slog.String("name", hint))
	return schema.Named("Any")
}

// optional makes t nullable, keeping null as the first alternative.
func optional(t schema.Decl) schema.Decl {
	if t.IsOptional() {
		return t
	}
	if t.IsUnion {
		return schema.UnionOf(append([]schema.Decl{schema.Named("null")}, t.Union...)...)
	}
	return schema.UnionOf(schema.Named("null"), t)
}
