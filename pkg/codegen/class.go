package codegen

import (
	"log/slog"

	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/schema"
)

// ClassHeader describes the record a BeginClass call opens
type ClassHeader struct {
	Name     string
	Extends  []string
	Doc      string
	Abstract bool
	// FieldNames holds the short names of every declared field, including
	// the discriminator
	FieldNames []string
	// IDField is the full name of the identity field, if any
	IDField string
}

// RecordSpec is one record to emit end to end
type RecordSpec struct {
	Name     string
	Parents  []string
	Doc      string
	Abstract bool
	Fields   []FieldSpec
	IDField  string
}

// FieldSpec is one field of a RecordSpec
type FieldSpec struct {
	Name string
	// Key overrides the document key; defaults to the short name of Name
	Key      string
	Type     ir.TypeDef
	Doc      string
	Optional bool
}

type classBuilder struct {
	class   ir.Class
	idField string
}

// BeginClass opens a record. Parents must already be registered records.
func (s *Session) BeginClass(h ClassHeader) error {
	if s.current != nil {
		return schemaErrorf("cannot begin %s: class %s is still open", h.Name, s.current.class.Name)
	}

	extends := make([]string, 0, len(h.Extends))
	for _, parent := range h.Extends {
		safe := schema.AvroName(parent)
		t, ok := s.registry.Lookup(safe + "Loader")
		if !ok || t.Init.Kind != ir.LoaderRecord {
			return schemaErrorf("%s extends %s, which is not a registered record", h.Name, parent)
		}
		extends = append(extends, safe)
	}
	if len(extends) == 0 {
		extends = append(extends, DefaultBase)
	}

	c := ir.Class{
		Name:     h.Name,
		SafeName: schema.AvroName(h.Name),
		Extends:  extends,
		Doc:      h.Doc,
		Abstract: h.Abstract,
	}
	s.current = &classBuilder{class: c, idField: h.IDField}
	s.logger.Debug("begin class", slog.String("name", c.SafeName), slog.Bool("abstract", h.Abstract))
	if h.Abstract {
		return nil
	}

	cur := &s.current.class
	for _, name := range h.FieldNames {
		if name == "class" {
			cur.HasClass = true
			continue
		}
		cur.Fields = append(cur.Fields, ir.Field{Name: name, Var: schema.AvroName(name)})
	}
	if h.IDField != "" {
		cur.IDField = schema.AvroName(h.IDField)
	}
	cur.Attrs = append([]string(nil), h.FieldNames...)
	if cur.HasClass {
		cur.Parse = append(cur.Parse, ir.ParseStep{Kind: ir.ParseClassCheck, Key: "class"})
		cur.Save = append(cur.Save, ir.SaveStep{Kind: ir.SaveClass, Key: "class"})
	}
	return nil
}

// EndClass closes the open record and appends it to the module
func (s *Session) EndClass() error {
	if s.current == nil {
		return schemaErrorf("no class is open")
	}
	c := s.current.class
	s.current = nil
	s.classes = append(s.classes, c)
	s.logger.Debug("end class", slog.String("name", c.SafeName), slog.Int("fields", len(c.Fields)))
	return nil
}

// EmitRecord emits rs: header, identity field, remaining fields in order,
// then the closing fragments.
func (s *Session) EmitRecord(rs RecordSpec) error {
	names := make([]string, 0, len(rs.Fields))
	for _, f := range rs.Fields {
		names = append(names, schema.ShortName(f.Name))
	}
	err := s.BeginClass(ClassHeader{
		Name:       rs.Name,
		Extends:    rs.Parents,
		Doc:        rs.Doc,
		Abstract:   rs.Abstract,
		FieldNames: names,
		IDField:    rs.IDField,
	})
	if err != nil {
		return err
	}

	if rs.IDField != "" {
		for _, f := range rs.Fields {
			if f.Name == rs.IDField {
				if err := s.DeclareIDField(f.Name, f.Type, f.Doc, f.Optional); err != nil {
					return err
				}
				break
			}
		}
	}
	for _, f := range rs.Fields {
		if rs.IDField != "" && f.Name == rs.IDField {
			continue
		}
		if err := s.declareField(f.Name, f.Key, f.Type, f.Doc, f.Optional); err != nil {
			return err
		}
	}
	return s.EndClass()
}
