package salad

import (
	"fmt"
	"sort"
	"strings"
)

// Savable is implemented by every generated record
type Savable interface {
	Save(top bool, baseURL string, relativeURIs bool) *Map
}

// RecordFunc parses one record type from a mapping
type RecordFunc func(doc *Map, baseURI string, opts *LoadingOptions, docRoot string) (Savable, error)

// RecordTable maps record names to their parse functions. Generated
// packages fill it from init so record loaders can reference records that
// are declared later, or reference each other.
type RecordTable map[string]RecordFunc

// RecordLoader loads a mapping through the parse function registered under
// Name at the time Load is called.
type RecordLoader struct {
	Table RecordTable
	Name  string
}

// NewRecordLoader creates a RecordLoader
func NewRecordLoader(table RecordTable, name string) *RecordLoader {
	return &RecordLoader{Table: table, Name: name}
}

func (l *RecordLoader) String() string { return l.Name }

// Load implements Loader
func (l *RecordLoader) Load(doc any, baseURI string, opts *LoadingOptions, docRoot string) (any, error) {
	m, ok := doc.(*Map)
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("Value is a %s, but valid type for this field is an object.", typeName(doc)))
	}
	fn, ok := l.Table[l.Name]
	if !ok {
		return nil, fmt.Errorf("record %s is not registered", l.Name)
	}
	v, err := fn(m, baseURI, opts, docRoot)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// LoadField loads val with l after applying $import and $include
// directives.
func LoadField(val any, l Loader, baseURI string, opts *LoadingOptions) (any, error) {
	if m, ok := val.(*Map); ok {
		if imp, ok := m.Get("$import"); ok {
			if opts.FileURI == "" {
				return nil, NewValidationError("Cannot load $import without fileuri")
			}
			u := opts.fetcher().URLJoin(opts.FileURI, StringOf(imp))
			result, err := documentLoadByURL(l, u, opts)
			if err != nil {
				return nil, err
			}
			opts.Imports = append(opts.Imports, u)
			return result, nil
		}
		if inc, ok := m.Get("$include"); ok {
			if opts.FileURI == "" {
				return nil, NewValidationError("Cannot load $include without fileuri")
			}
			u := opts.fetcher().URLJoin(opts.FileURI, StringOf(inc))
			text, err := opts.fetcher().FetchText(opts.ctx(), u)
			if err != nil {
				return nil, NewValidationError(err.Error()).At(LineOf(m, "$include"))
			}
			opts.Includes = append(opts.Includes, u)
			val = text
		}
	}
	return l.Load(val, baseURI, opts, "")
}

// LoadMapField loads doc[key]. A missing optional key yields nil without
// error; a failure is reported against the key's source position.
func LoadMapField(doc *Map, key string, l Loader, baseURI string, opts *LoadingOptions, optional bool) (any, error) {
	if optional && !doc.Has(key) {
		return nil, nil
	}
	v, _ := doc.Get(key)
	r, err := LoadField(v, l, baseURI, opts)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("the `%s` field is not valid because:", key), err).At(LineOf(doc, key))
	}
	return r, nil
}

// CheckClass fails unless the discriminator of doc equals name
func CheckClass(doc *Map, name string) error {
	v, _ := doc.Get("class")
	if s, _ := v.(string); s != name {
		return NewValidationError("Not a " + name).At(LineOf(doc, "class"))
	}
	return nil
}

// ResolveID fills a missing identity with docRoot, or with a fresh blank
// node when the identity is optional.
func ResolveID(id any, key, docRoot string, optional bool) (any, error) {
	if id != nil {
		return id, nil
	}
	if docRoot != "" {
		return docRoot, nil
	}
	if optional {
		return BlankNode(), nil
	}
	return nil, NewValidationError("Missing " + key)
}

// ExtensionFields collects the keys of doc that are not in attrs.
// Namespaced keys are kept under their expanded IRI. The scan stops at the
// first other unknown key, which is reported with the accepted names.
func ExtensionFields(doc *Map, attrs []string, opts *LoadingOptions) (*Map, []error) {
	known := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		known[a] = true
	}
	ext := NewMap()
	var errs []error
	for _, k := range doc.Keys() {
		if known[k] {
			continue
		}
		if IsNamespaced(k) {
			ex, err := ExpandURL(k, "", opts, false, false, NoRefScope)
			if err != nil {
				errs = append(errs, NewValidationError(err.Error()).At(LineOf(doc, k)))
				continue
			}
			v, _ := doc.Get(k)
			ext.Set(ex, v)
			continue
		}
		quoted := make([]string, 0, len(attrs))
		for _, a := range attrs {
			quoted = append(quoted, "`"+a+"`")
		}
		errs = append(errs, NewValidationError(fmt.Sprintf("invalid field `%s`, expected one of: %s", k, strings.Join(quoted, ", "))).At(LineOf(doc, k)))
		break
	}
	return ext, errs
}

// SaveExtensionFields writes ext into r with namespace prefixes restored
func SaveExtensionFields(r, ext *Map, opts *LoadingOptions) {
	var vocab map[string]string
	if opts != nil {
		vocab = opts.Vocab
	}
	for _, k := range ext.Keys() {
		v, _ := ext.Get(k)
		r.Set(PrefixURL(k, vocab), v)
	}
}

// SaveNamespaces writes the $namespaces block of a top-level document
func SaveNamespaces(r *Map, opts *LoadingOptions) {
	if opts == nil || len(opts.Namespaces) == 0 {
		return
	}
	keys := make([]string, 0, len(opts.Namespaces))
	for k := range opts.Namespaces {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ns := NewMap()
	for _, k := range keys {
		ns.Set(k, opts.Namespaces[k])
	}
	r.Set("$namespaces", ns)
}

// Save converts a loaded value back into the document model
func Save(val any, top bool, baseURL string, relativeURIs bool) any {
	switch v := val.(type) {
	case Savable:
		return v.Save(top, baseURL, relativeURIs)
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, Save(item, false, baseURL, relativeURIs))
		}
		return out
	case *Map:
		out := NewMap()
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			out.Set(k, Save(item, false, baseURL, relativeURIs))
		}
		return out
	case Symbol:
		return string(v)
	}
	return val
}
