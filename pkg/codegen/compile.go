package codegen

import (
	"github.com/pkg/errors"

	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/schema"
)

// Compile runs a complete session over defs and returns the module.
func Compile(defs []schema.Decl, opts ...Option) (ir.Module, error) {
	s := NewSession(opts...)
	s.Prologue()

	for _, d := range defs {
		if d.Type != schema.KindEnum && d.Type != schema.KindRecord {
			continue
		}
		if _, err := s.TypeLoader(d); err != nil {
			return ir.Module{}, errors.Wrapf(err, "declaring %s", d.Name)
		}
		s.vocab.Add(schema.ShortName(d.Name), d.Name)
	}

	var roots []schema.Decl
	for _, d := range defs {
		switch d.Type {
		case schema.KindEnum:
			for _, sym := range d.Symbols {
				s.vocab.Add(schema.ShortName(sym), sym)
			}
		case schema.KindRecord:
			if d.DocumentRoot {
				roots = append(roots, schema.Named(d.Name))
			}
			if err := s.compileRecord(d); err != nil {
				return ir.Module{}, errors.Wrapf(err, "record %s", d.Name)
			}
		}
	}
	if len(roots) == 0 {
		return ir.Module{}, schemaErrorf("schema declares no documentRoot record")
	}

	members := append(append([]schema.Decl(nil), roots...), schema.ArrayOf(schema.UnionOf(roots...)))
	root, err := s.TypeLoader(schema.UnionOf(members...))
	if err != nil {
		return ir.Module{}, errors.Wrap(err, "root type")
	}
	return s.Epilogue(root), nil
}

func (s *Session) compileRecord(d schema.Decl) error {
	var idField string
	for _, f := range d.Fields {
		if f.JSONLDPredicate != nil && f.JSONLDPredicate.IsID {
			idField = f.Name
			break
		}
	}

	rs := RecordSpec{
		Name:     d.Name,
		Parents:  d.Extends,
		Doc:      d.Doc,
		Abstract: d.Abstract,
		IDField:  idField,
	}
	for _, f := range d.Fields {
		t, err := s.TypeLoader(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s", f.Name)
		}
		key := ""
		if f.Name == idField {
			t = s.URILoader(t, true, false, nil)
		} else if jld := f.JSONLDPredicate; jld != nil {
			switch {
			case jld.TypeDSL:
				t = s.TypeDSLLoader(t, jld.RefScope)
			case jld.Type == "@id":
				t = s.URILoader(t, jld.Identity, false, jld.RefScope)
			case jld.Type == "@vocab":
				t = s.URILoader(t, false, true, jld.RefScope)
			}
			if jld.MapSubject != "" {
				t = s.IDMapLoader(f.Name, t, jld.MapSubject, jld.MapPredicate)
			}
			if jld.ID != "" && jld.ID[0] != '@' {
				key = jld.ID
			}
		}
		rs.Fields = append(rs.Fields, FieldSpec{
			Name:     f.Name,
			Key:      key,
			Type:     t,
			Doc:      f.Doc,
			Optional: f.Type.IsOptional(),
		})
	}
	s.vocab.Add(schema.ShortName(d.Name), d.Name)
	return s.EmitRecord(rs)
}
