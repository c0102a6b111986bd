package codegen

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/schema"
)

// TypeLoader resolves a declaration into a registered TypeDef. Every record
// or enum referenced by bare name must have been resolved once before.
func (s *Session) TypeLoader(d schema.Decl) (ir.TypeDef, error) {
	switch {
	case d.IsUnion:
		names := make([]string, 0, len(d.Union))
		for _, m := range d.Union {
			t, err := s.TypeLoader(m)
			if err != nil {
				return ir.TypeDef{}, err
			}
			names = append(names, t.Name)
		}
		return s.registry.Declare(ir.TypeDef{
			Name: "union_of_" + strings.Join(names, "_or_"),
			Init: ir.LoaderExpr{Kind: ir.LoaderUnion, Members: names},
		}), nil

	case d.Type != "":
		return s.mappingLoader(d)

	case d.Ref != "":
		if t, ok := s.primitive(d.Ref); ok {
			return t, nil
		}
		name := schema.AvroName(d.Ref) + "Loader"
		if t, ok := s.registry.Lookup(name); ok {
			return t, nil
		}
		return ir.TypeDef{}, schemaErrorf("undefined type %q: %s is not registered", d.Ref, name)
	}
	return ir.TypeDef{}, schemaErrorf("unrecognized type declaration %s", d.String())
}

func (s *Session) mappingLoader(d schema.Decl) (ir.TypeDef, error) {
	switch d.Type {
	case schema.KindArray:
		if d.Items == nil {
			return ir.TypeDef{}, schemaErrorf("array declaration without items")
		}
		items, err := s.TypeLoader(*d.Items)
		if err != nil {
			return ir.TypeDef{}, err
		}
		return s.registry.Declare(ir.TypeDef{
			Name: "array_of_" + items.Name,
			Init: ir.LoaderExpr{Kind: ir.LoaderArray, Inner: items.Name},
		}), nil

	case schema.KindEnum:
		symbols := make([]string, 0, len(d.Symbols))
		for _, sym := range d.Symbols {
			s.vocab.Add(schema.ShortName(sym), sym)
			symbols = append(symbols, schema.AvroName(sym))
		}
		safe := schema.AvroName(d.Name)
		return s.registry.Declare(ir.TypeDef{
			Name: safe + "Loader",
			Init: ir.LoaderExpr{Kind: ir.LoaderEnum, Name: safe, Symbols: symbols},
		}), nil

	case schema.KindRecord:
		safe := schema.AvroName(d.Name)
		return s.registry.Declare(ir.TypeDef{
			Name: safe + "Loader",
			Init: ir.LoaderExpr{Kind: ir.LoaderRecord, Name: safe},
		}), nil
	}
	return ir.TypeDef{}, schemaErrorf("unrecognized type kind %q", d.Type)
}

// URILoader wraps inner so that string values are expanded to URIs on load
// and relativized on save.
func (s *Session) URILoader(inner ir.TypeDef, scopedID, vocabTerm bool, refScope *int) ir.TypeDef {
	name := "uri_" + inner.Name + "_" + strconv.FormatBool(scopedID) + "_" +
		strconv.FormatBool(vocabTerm) + "_" + refScopeName(refScope)
	return s.registry.Declare(ir.TypeDef{
		Name: name,
		Init: ir.LoaderExpr{
			Kind:      ir.LoaderURI,
			Inner:     inner.Name,
			ScopedID:  scopedID,
			VocabTerm: vocabTerm,
			RefScope:  refScope,
		},
		IsURI:    true,
		ScopedID: scopedID,
		RefScope: refScope,
	})
}

// IDMapLoader wraps inner so that a mapping keyed by mapSubject is expanded
// into a list of objects before loading.
func (s *Session) IDMapLoader(field string, inner ir.TypeDef, mapSubject, mapPredicate string) ir.TypeDef {
	return s.registry.Declare(ir.TypeDef{
		Name: "idmap_" + schema.AvroName(field) + "_" + inner.Name,
		Init: ir.LoaderExpr{
			Kind:         ir.LoaderIDMap,
			Inner:        inner.Name,
			MapSubject:   mapSubject,
			MapPredicate: mapPredicate,
		},
	})
}

// TypeDSLLoader wraps inner so that compact type expressions such as
// "File[]?" are expanded before loading.
func (s *Session) TypeDSLLoader(inner ir.TypeDef, refScope *int) ir.TypeDef {
	return s.registry.Declare(ir.TypeDef{
		Name: "typedsl_" + inner.Name + "_" + refScopeName(refScope),
		Init: ir.LoaderExpr{
			Kind:     ir.LoaderTypeDSL,
			Inner:    inner.Name,
			RefScope: refScope,
		},
	})
}

func refScopeName(refScope *int) string {
	if refScope == nil {
		return "none"
	}
	return strconv.Itoa(*refScope)
}
