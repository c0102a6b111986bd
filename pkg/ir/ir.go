// Package ir holds the structured fragments produced by the code generation
// engine. Backends render these values as source text; nothing here is tied
// to a target language.
package ir

// LoaderKind identifies the composable loader a TypeDef constructs
type LoaderKind string

const (
	LoaderPrimitive LoaderKind = "primitive"
	LoaderAny       LoaderKind = "any"
	LoaderArray     LoaderKind = "array"
	LoaderUnion     LoaderKind = "union"
	LoaderEnum      LoaderKind = "enum"
	LoaderRecord    LoaderKind = "record"
	LoaderURI       LoaderKind = "uri"
	LoaderIDMap     LoaderKind = "idmap"
	LoaderTypeDSL   LoaderKind = "typedsl"
)

// PrimitiveKind is the host value kind accepted by a primitive loader
type PrimitiveKind string

const (
	PrimString PrimitiveKind = "string"
	PrimInt    PrimitiveKind = "int"
	PrimFloat  PrimitiveKind = "float"
	PrimBool   PrimitiveKind = "bool"
	PrimNull   PrimitiveKind = "null"
)

// LoaderExpr is the constructor expression of a TypeDef. Inner loaders are
// referenced by TypeDef name only.
type LoaderExpr struct {
	Kind      LoaderKind    `json:"kind"`
	Primitive PrimitiveKind `json:"primitive,omitempty"`
	// Inner names the wrapped loader (array items, uri, idmap, typedsl)
	Inner string `json:"inner,omitempty"`
	// Members lists union alternatives in the order they are tried
	Members []string `json:"members,omitempty"`
	// Name is the enum or record name
	Name    string   `json:"name,omitempty"`
	Symbols []string `json:"symbols,omitempty"`

	ScopedID     bool   `json:"scopedId,omitempty"`
	VocabTerm    bool   `json:"vocabTerm,omitempty"`
	RefScope     *int   `json:"refScope,omitempty"`
	MapSubject   string `json:"mapSubject,omitempty"`
	MapPredicate string `json:"mapPredicate,omitempty"`
}

// TypeDef is a named, immutable handle to a composed loader
type TypeDef struct {
	Name     string     `json:"name"`
	Init     LoaderExpr `json:"init"`
	IsURI    bool       `json:"isUri,omitempty"`
	ScopedID bool       `json:"scopedId,omitempty"`
	RefScope *int       `json:"refScope,omitempty"`
}

// VocabEntry is one row of the vocabulary table
type VocabEntry struct {
	Short string `json:"short"`
	IRI   string `json:"iri"`
}

// ParseKind identifies a parse-time step of a record
type ParseKind string

const (
	// ParseClassCheck fails the record unless the discriminator matches
	ParseClassCheck ParseKind = "classCheck"
	// ParseField loads one field and records a failure instead of returning
	ParseField ParseKind = "field"
	// ParseIDFallback fills a missing identity and rebinds the base URI
	ParseIDFallback ParseKind = "idFallback"
)

// ParseStep is one fragment of a record's parse routine, in emission order
type ParseStep struct {
	Kind ParseKind `json:"kind"`
	// Key is the document key
	Key string `json:"key,omitempty"`
	// Var is the safe name of the field value
	Var      string `json:"var,omitempty"`
	Loader   string `json:"loader,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// SaveKind identifies a serialize-time step of a record
type SaveKind string

const (
	SaveClass SaveKind = "class"
	SaveURI   SaveKind = "uri"
	SaveValue SaveKind = "value"
)

// SaveStep is one fragment of a record's serializer, in emission order
type SaveStep struct {
	Kind SaveKind `json:"kind"`
	Key  string   `json:"key,omitempty"`
	Var  string   `json:"var,omitempty"`
	// BaseVar names the field whose value is the base URL; empty means the
	// base URL argument of the serializer
	BaseVar  string `json:"baseVar,omitempty"`
	ScopedID bool   `json:"scopedId,omitempty"`
	RefScope *int   `json:"refScope,omitempty"`
}

// Field is a constructor parameter of a record
type Field struct {
	Name string `json:"name"`
	Var  string `json:"var"`
	Doc  string `json:"doc,omitempty"`
}

// Class is one record emitted end-to-end
type Class struct {
	Name string `json:"name"`
	// SafeName is the unqualified name used for identifiers
	SafeName string   `json:"safeName"`
	Extends  []string `json:"extends,omitempty"`
	Doc      string   `json:"doc,omitempty"`
	Abstract bool     `json:"abstract,omitempty"`
	// Fields excludes the discriminator field
	Fields   []Field     `json:"fields,omitempty"`
	IDField  string      `json:"idField,omitempty"`
	HasClass bool        `json:"hasClass,omitempty"`
	Parse    []ParseStep `json:"parse,omitempty"`
	Save     []SaveStep  `json:"save,omitempty"`
	// Attrs is the frozen field-name set checked for unknown keys
	Attrs []string `json:"attrs,omitempty"`
}

// Module is the complete output of one generation session
type Module struct {
	// Prims lists the primitive TypeDef names registered by the prologue
	Prims   []string     `json:"prims"`
	Classes []Class      `json:"classes"`
	Vocab   []VocabEntry `json:"vocab"`
	// RVocab is the inverse table, sorted by short name
	RVocab []VocabEntry `json:"rvocab"`
	// Types holds every registered TypeDef in insertion order
	Types []TypeDef `json:"types"`
	// Root names the TypeDef used by the document entry points
	Root string `json:"root"`
}

// FindClass looks up a class by safe name. Returns nil if not found.
func (m *Module) FindClass(safeName string) *Class {
	for i := range m.Classes {
		if m.Classes[i].SafeName == safeName {
			return &m.Classes[i]
		}
	}
	return nil
}

// Ancestors returns every transitive parent of c in breadth-first order,
// each listed once. Parents that are not classes of the module are skipped.
func (m *Module) Ancestors(c Class) []string {
	var out []string
	seen := map[string]bool{c.SafeName: true}
	queue := append([]string(nil), c.Extends...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		parent := m.FindClass(name)
		if parent == nil {
			continue
		}
		out = append(out, name)
		queue = append(queue, parent.Extends...)
	}
	return out
}
