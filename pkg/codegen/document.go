package codegen

import (
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/schema"
)

var primitives = []struct {
	names []string
	def   ir.TypeDef
}{
	{
		names: []string{"string", schema.XSDNS + "string"},
		def:   ir.TypeDef{Name: "strtype", Init: ir.LoaderExpr{Kind: ir.LoaderPrimitive, Primitive: ir.PrimString}},
	},
	{
		names: []string{"int", "long", schema.XSDNS + "int", schema.XSDNS + "long"},
		def:   ir.TypeDef{Name: "inttype", Init: ir.LoaderExpr{Kind: ir.LoaderPrimitive, Primitive: ir.PrimInt}},
	},
	{
		names: []string{"float", "double", schema.XSDNS + "float", schema.XSDNS + "double"},
		def:   ir.TypeDef{Name: "floattype", Init: ir.LoaderExpr{Kind: ir.LoaderPrimitive, Primitive: ir.PrimFloat}},
	},
	{
		names: []string{"boolean", schema.XSDNS + "boolean"},
		def:   ir.TypeDef{Name: "booltype", Init: ir.LoaderExpr{Kind: ir.LoaderPrimitive, Primitive: ir.PrimBool}},
	},
	{
		names: []string{"null", schema.SaladNS + "null"},
		def:   ir.TypeDef{Name: "nulltype", Init: ir.LoaderExpr{Kind: ir.LoaderPrimitive, Primitive: ir.PrimNull}},
	},
	{
		names: []string{"Any", "any", schema.SaladNS + "Any"},
		def:   ir.TypeDef{Name: "anytype", Init: ir.LoaderExpr{Kind: ir.LoaderAny}},
	},
}

// Prologue registers the primitive TypeDefs. It must run before any field
// is resolved; calling it twice is harmless.
func (s *Session) Prologue() {
	if len(s.prims) > 0 {
		return
	}
	for _, p := range primitives {
		t := s.registry.Declare(p.def)
		s.prims = append(s.prims, t.Name)
	}
}

func (s *Session) primitive(name string) (ir.TypeDef, bool) {
	for _, p := range primitives {
		for _, n := range p.names {
			if n == name {
				return s.registry.Declare(p.def), true
			}
		}
	}
	return ir.TypeDef{}, false
}

// Epilogue assembles the module: vocabulary tables, every registered TypeDef
// in insertion order and the root TypeDef used by the document entry points.
func (s *Session) Epilogue(root ir.TypeDef) ir.Module {
	classes := make([]ir.Class, len(s.classes))
	copy(classes, s.classes)
	return ir.Module{
		Prims:   append([]string(nil), s.prims...),
		Classes: classes,
		Vocab:   s.vocab.Entries(),
		RVocab:  s.vocab.Reverse(),
		Types:   s.registry.All(),
		Root:    root.Name,
	}
}
