package codegen

import (
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/schema"
)

// DeclareField appends the parse and save fragments of one field to the open
// class. The discriminator field is handled by BeginClass and skipped here.
func (s *Session) DeclareField(name string, t ir.TypeDef, doc string, optional bool) error {
	return s.declareField(name, "", t, doc, optional)
}

func (s *Session) declareField(name, key string, t ir.TypeDef, doc string, optional bool) error {
	if s.current == nil {
		return schemaErrorf("field %s declared outside a class", name)
	}
	if s.current.class.Abstract {
		return nil
	}
	if key == "" {
		key = name
	}
	short := schema.ShortName(key)
	if schema.ShortName(name) == "class" {
		return nil
	}

	cur := &s.current.class
	v := schema.AvroName(name)
	for i := range cur.Fields {
		if cur.Fields[i].Var == v {
			cur.Fields[i].Doc = doc
		}
	}

	cur.Parse = append(cur.Parse, ir.ParseStep{
		Kind:     ir.ParseField,
		Key:      short,
		Var:      v,
		Loader:   t.Name,
		Optional: optional,
	})

	// the identity field and records without one resolve against the
	// serializer's base URL; every other field resolves against the id
	var baseVar string
	if idField := s.current.idField; idField != "" && name != idField {
		baseVar = schema.AvroName(idField)
	}
	step := ir.SaveStep{Kind: ir.SaveValue, Key: short, Var: v, BaseVar: baseVar}
	if t.IsURI {
		step.Kind = ir.SaveURI
		step.ScopedID = t.ScopedID
		step.RefScope = t.RefScope
	}
	cur.Save = append(cur.Save, step)
	return nil
}

// DeclareIDField declares the identity field. A missing value falls back to
// the document root, then to a blank node when optional; the resolved value
// becomes the base URI of every later field.
func (s *Session) DeclareIDField(name string, t ir.TypeDef, doc string, optional bool) error {
	if s.current == nil {
		return schemaErrorf("field %s declared outside a class", name)
	}
	if s.current.class.Abstract {
		return nil
	}
	if err := s.declareField(name, "", t, doc, true); err != nil {
		return err
	}
	s.current.class.Parse = append(s.current.class.Parse, ir.ParseStep{
		Kind:     ir.ParseIDFallback,
		Key:      schema.ShortName(name),
		Var:      schema.AvroName(name),
		Optional: optional,
	})
	return nil
}
