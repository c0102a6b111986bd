// Package schema models the resolved type declarations handed to the code
// generator. Declarations arrive already specialized and with inherited fields
// flattened; this package only describes their shape and loads them from a
// YAML or JSON document.
package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known type kinds of a mapping declaration.
const (
	KindArray  = "array"
	KindEnum   = "enum"
	KindRecord = "record"
)

// Salad namespace IRIs used by the primitive and kind names.
const (
	SaladNS = "https://w3id.org/cwl/salad#"
	XSDNS   = "http://www.w3.org/2001/XMLSchema#"
)

// Decl is a single type declaration. Exactly one of three shapes is set:
// a bare type name (Ref), a union (Union, possibly empty), or a mapping
// carrying a Type token.
type Decl struct {
	// Ref is the referenced type name of a bare-name declaration.
	Ref string
	// Union holds the members of a list declaration, in order.
	Union []Decl
	// IsUnion distinguishes an empty union from other shapes.
	IsUnion bool

	// Mapping form.
	Type         string
	Name         string
	Doc          string
	Items        *Decl
	Symbols      []string
	Fields       []Field
	Extends      []string
	Abstract     bool
	DocumentRoot bool
}

// Field is one field of a record declaration.
type Field struct {
	Name            string
	Type            Decl
	Doc             string
	JSONLDPredicate *JSONLDPredicate
}

// JSONLDPredicate carries the linked-data annotations of a field that drive
// the URI, id-map and type-DSL wrappers.
type JSONLDPredicate struct {
	// IsID is set when the predicate is the bare string "@id", marking the
	// record's identity field.
	IsID bool
	// ID is the "_id" key; when it does not start with "@" it renames the
	// document key of the field.
	ID           string
	Type         string
	Identity     bool
	RefScope     *int
	TypeDSL      bool
	MapSubject   string
	MapPredicate string
}

// Named returns a bare-name declaration.
func Named(name string) Decl { return Decl{Ref: name} }

// UnionOf returns a union declaration over members.
func UnionOf(members ...Decl) Decl {
	return Decl{Union: members, IsUnion: true}
}

// ArrayOf returns an array declaration.
func ArrayOf(items Decl) Decl {
	return Decl{Type: KindArray, Items: &items}
}

// Enum returns an enum declaration.
func Enum(name string, symbols ...string) Decl {
	return Decl{Type: KindEnum, Name: name, Symbols: symbols}
}

// Record returns a record declaration.
func Record(name string, fields ...Field) Decl {
	return Decl{Type: KindRecord, Name: name, Fields: fields}
}

// IsRef reports whether d is a bare-name declaration.
func (d Decl) IsRef() bool { return !d.IsUnion && d.Type == "" && d.Ref != "" }

// IsOptional reports whether a field of this type may be absent, which is the
// case when the type is a union with a null member.
func (d Decl) IsOptional() bool {
	if !d.IsUnion {
		return false
	}
	for _, m := range d.Union {
		if m.IsRef() && IsNull(m.Ref) {
			return true
		}
	}
	return false
}

// IsNull reports whether name denotes the null type.
func IsNull(name string) bool {
	return name == "null" || name == SaladNS+"null"
}

// String renders the declaration compactly for error messages.
func (d Decl) String() string {
	switch {
	case d.IsUnion:
		parts := make([]string, 0, len(d.Union))
		for _, m := range d.Union {
			parts = append(parts, m.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case d.Type == KindArray && d.Items != nil:
		return "array<" + d.Items.String() + ">"
	case d.Type != "":
		if d.Name != "" {
			return d.Type + " " + d.Name
		}
		return d.Type
	default:
		return d.Ref
	}
}

// UnmarshalYAML decodes the three declaration shapes.
func (d *Decl) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*d = Named("null")
			return nil
		}
		*d = Decl{Ref: node.Value}
		return nil
	case yaml.SequenceNode:
		members := make([]Decl, 0, len(node.Content))
		for _, n := range node.Content {
			// Decode skips unmarshalers for null nodes, so members are
			// decoded directly
			var m Decl
			if err := m.UnmarshalYAML(n); err != nil {
				return err
			}
			members = append(members, m)
		}
		*d = UnionOf(members...)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Type         string    `yaml:"type"`
			Name         string    `yaml:"name"`
			Doc          docString `yaml:"doc"`
			Items        *Decl     `yaml:"items"`
			Symbols      []string  `yaml:"symbols"`
			Fields       []Field   `yaml:"fields"`
			Extends      oneOrMany `yaml:"extends"`
			Abstract     bool      `yaml:"abstract"`
			DocumentRoot bool      `yaml:"documentRoot"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*d = Decl{
			Type:         normalizeKind(raw.Type),
			Name:         raw.Name,
			Doc:          string(raw.Doc),
			Items:        raw.Items,
			Symbols:      raw.Symbols,
			Fields:       raw.Fields,
			Extends:      raw.Extends,
			Abstract:     raw.Abstract,
			DocumentRoot: raw.DocumentRoot,
		}
		return nil
	case yaml.AliasNode:
		return d.UnmarshalYAML(node.Alias)
	}
	return fmt.Errorf("line %d: unsupported type declaration", node.Line)
}

// UnmarshalYAML decodes a field.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name            string           `yaml:"name"`
		Type            Decl             `yaml:"type"`
		Doc             docString        `yaml:"doc"`
		JSONLDPredicate *JSONLDPredicate `yaml:"jsonldPredicate"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*f = Field{Name: raw.Name, Type: raw.Type, Doc: string(raw.Doc), JSONLDPredicate: raw.JSONLDPredicate}
	return nil
}

// UnmarshalYAML accepts both the "@id" shorthand and the mapping form.
func (p *JSONLDPredicate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = JSONLDPredicate{ID: node.Value, IsID: node.Value == "@id"}
		return nil
	}
	var raw struct {
		ID           string `yaml:"_id"`
		Type         string `yaml:"_type"`
		Identity     bool   `yaml:"identity"`
		RefScope     *int   `yaml:"refScope"`
		TypeDSL      bool   `yaml:"typeDSL"`
		MapSubject   string `yaml:"mapSubject"`
		MapPredicate string `yaml:"mapPredicate"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*p = JSONLDPredicate{
		ID:           raw.ID,
		Type:         raw.Type,
		Identity:     raw.Identity,
		RefScope:     raw.RefScope,
		TypeDSL:      raw.TypeDSL,
		MapSubject:   raw.MapSubject,
		MapPredicate: raw.MapPredicate,
	}
	return nil
}

// normalizeKind strips the salad namespace from kind tokens so that
// "https://w3id.org/cwl/salad#record" and "record" compare equal. Unknown
// tokens are kept verbatim for error reporting.
func normalizeKind(kind string) string {
	return strings.TrimPrefix(kind, SaladNS)
}

type docString string

func (s *docString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return err
		}
		*s = docString(strings.Join(lines, "\n"))
		return nil
	}
	*s = docString(node.Value)
	return nil
}

type oneOrMany []string

func (o *oneOrMany) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*o = []string{node.Value}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	*o = many
	return nil
}
