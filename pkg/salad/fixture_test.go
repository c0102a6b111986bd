// Code generated by salad-gen from pkg/generator/golang/testdata/people.yml
// with package name salad_test. DO NOT EDIT.
//
// The generator tests compare this file against fresh output, so a template
// change must be mirrored here.

package salad_test

import (
	"github.com/blimu-dev/salad-gen/pkg/salad"
)

var vocab = map[string]string{
	"Color":  "https://example.org/people#Color",
	"Label":  "https://example.org/people#Label",
	"Named":  "https://example.org/people#Named",
	"Person": "https://example.org/people#Person",
	"green":  "https://example.org/people#Color/green",
	"red":    "https://example.org/people#Color/red",
}

var rvocab = map[string]string{
	"https://example.org/people#Color":       "Color",
	"https://example.org/people#Label":       "Label",
	"https://example.org/people#Named":       "Named",
	"https://example.org/people#Person":      "Person",
	"https://example.org/people#Color/green": "green",
	"https://example.org/people#Color/red":   "red",
}

var records = salad.RecordTable{}

var (
	strtype                                                                               = salad.NewPrimitiveLoader(salad.KindString)
	inttype                                                                               = salad.NewPrimitiveLoader(salad.KindInt)
	floattype                                                                             = salad.NewPrimitiveLoader(salad.KindFloat)
	booltype                                                                              = salad.NewPrimitiveLoader(salad.KindBool)
	nulltype                                                                              = salad.NewPrimitiveLoader(salad.KindNull)
	anytype                                                                               = salad.NewAnyLoader()
	ColorLoader                                                                           = salad.NewEnumLoader("Color", "red", "green")
	NamedLoader                                                                           = salad.NewRecordLoader(records, "Named")
	PersonLoader                                                                          = salad.NewRecordLoader(records, "Person")
	LabelLoader                                                                           = salad.NewRecordLoader(records, "Label")
	uri_strtype_false_true_none                                                           = salad.NewURILoader(strtype, false, true, salad.NoRefScope)
	union_of_nulltype_or_strtype                                                          = salad.NewUnionLoader(nulltype, strtype)
	uri_union_of_nulltype_or_strtype_true_false_none                                      = salad.NewURILoader(union_of_nulltype_or_strtype, true, false, salad.NoRefScope)
	union_of_nulltype_or_ColorLoader                                                      = salad.NewUnionLoader(nulltype, ColorLoader)
	uri_strtype_true_false_none                                                           = salad.NewURILoader(strtype, true, false, salad.NoRefScope)
	union_of_PersonLoader_or_LabelLoader                                                  = salad.NewUnionLoader(PersonLoader, LabelLoader)
	array_of_union_of_PersonLoader_or_LabelLoader                                         = salad.NewArrayLoader(union_of_PersonLoader_or_LabelLoader)
	union_of_PersonLoader_or_LabelLoader_or_array_of_union_of_PersonLoader_or_LabelLoader = salad.NewUnionLoader(PersonLoader, LabelLoader, array_of_union_of_PersonLoader_or_LabelLoader)
)

func init() {
	records["Person"] = PersonFromDoc
	records["Label"] = LabelFromDoc
}

// Symbols of Color
const (
	ColorRed   salad.Symbol = "red"
	ColorGreen salad.Symbol = "green"
)

// Named is implemented by every record extending it
type Named interface {
	salad.Savable
	isNamed()
}

// Person is a person.
type Person struct {
	ExtensionFields *salad.Map
	LoadingOptions  *salad.LoadingOptions

	Id any
	// Full name.
	// Not validated.
	Name     string
	Age      int
	Email    *string
	Favorite *salad.Symbol
}

// PersonClass is the discriminator of Person
const PersonClass = "Person"

// Class returns the discriminator of Person
func (*Person) Class() string { return PersonClass }

func (*Person) isNamed() {}

var personAttrs = []string{"class", "id", "name", "age", "email", "favorite"}

// PersonFromDoc parses a Person from doc
func PersonFromDoc(doc *salad.Map, baseURI string, opts *salad.LoadingOptions, docRoot string) (salad.Savable, error) {
	doc = doc.Copy()
	var errs []error
	if err := salad.CheckClass(doc, PersonClass); err != nil {
		return nil, err
	}

	id, err := salad.LoadMapField(doc, "id", uri_union_of_nulltype_or_strtype_true_false_none, baseURI, opts, true)
	errs = salad.AppendError(errs, err)
	id, err = salad.ResolveID(id, "id", docRoot, true)
	if err != nil {
		return nil, err
	}
	baseURI = salad.StringOf(id)

	name, err := salad.LoadMapField(doc, "name", strtype, baseURI, opts, false)
	errs = salad.AppendError(errs, err)

	age, err := salad.LoadMapField(doc, "age", inttype, baseURI, opts, false)
	errs = salad.AppendError(errs, err)

	email, err := salad.LoadMapField(doc, "email", union_of_nulltype_or_strtype, baseURI, opts, true)
	errs = salad.AppendError(errs, err)

	favorite, err := salad.LoadMapField(doc, "favorite", union_of_nulltype_or_ColorLoader, baseURI, opts, true)
	errs = salad.AppendError(errs, err)

	ext, extErrs := salad.ExtensionFields(doc, personAttrs, opts)
	errs = append(errs, extErrs...)
	if len(errs) > 0 {
		return nil, salad.NewValidationError("Trying 'Person'", errs...)
	}

	opts = opts.Copy()
	opts.OriginalDoc = doc
	return &Person{
		Id:              id,
		Name:            salad.As[string](name),
		Age:             salad.As[int](age),
		Email:           salad.Ptr[string](email),
		Favorite:        salad.Ptr[salad.Symbol](favorite),
		ExtensionFields: ext,
		LoadingOptions:  opts,
	}, nil
}

// Save converts p back into the document model
func (p *Person) Save(top bool, baseURL string, relativeURIs bool) *salad.Map {
	r := salad.NewMap()
	salad.SaveExtensionFields(r, p.ExtensionFields, p.LoadingOptions)
	r.Set("class", PersonClass)
	if p.Id != nil {
		if u := salad.SaveRelativeURI(p.Id, baseURL, true, salad.NoRefScope, relativeURIs); !salad.IsEmpty(u) {
			r.Set("id", u)
		}
	}
	r.Set("name", salad.Save(p.Name, false, salad.StringOf(p.Id), relativeURIs))
	r.Set("age", salad.Save(p.Age, false, salad.StringOf(p.Id), relativeURIs))
	if p.Email != nil {
		r.Set("email", salad.Save(*p.Email, false, salad.StringOf(p.Id), relativeURIs))
	}
	if p.Favorite != nil {
		r.Set("favorite", salad.Save(*p.Favorite, false, salad.StringOf(p.Id), relativeURIs))
	}
	if top {
		salad.SaveNamespaces(r, p.LoadingOptions)
	}
	return r
}

// Label is the Label record
type Label struct {
	ExtensionFields *salad.Map
	LoadingOptions  *salad.LoadingOptions

	Id   any
	Text string
}

var labelAttrs = []string{"id", "text"}

// LabelFromDoc parses a Label from doc
func LabelFromDoc(doc *salad.Map, baseURI string, opts *salad.LoadingOptions, docRoot string) (salad.Savable, error) {
	doc = doc.Copy()
	var errs []error

	id, err := salad.LoadMapField(doc, "id", uri_strtype_true_false_none, baseURI, opts, true)
	errs = salad.AppendError(errs, err)
	id, err = salad.ResolveID(id, "id", docRoot, false)
	if err != nil {
		return nil, err
	}
	baseURI = salad.StringOf(id)

	text, err := salad.LoadMapField(doc, "text", strtype, baseURI, opts, false)
	errs = salad.AppendError(errs, err)

	ext, extErrs := salad.ExtensionFields(doc, labelAttrs, opts)
	errs = append(errs, extErrs...)
	if len(errs) > 0 {
		return nil, salad.NewValidationError("Trying 'Label'", errs...)
	}

	opts = opts.Copy()
	opts.OriginalDoc = doc
	return &Label{
		Id:              id,
		Text:            salad.As[string](text),
		ExtensionFields: ext,
		LoadingOptions:  opts,
	}, nil
}

// Save converts l back into the document model
func (l *Label) Save(top bool, baseURL string, relativeURIs bool) *salad.Map {
	r := salad.NewMap()
	salad.SaveExtensionFields(r, l.ExtensionFields, l.LoadingOptions)
	if l.Id != nil {
		if u := salad.SaveRelativeURI(l.Id, baseURL, true, salad.NoRefScope, relativeURIs); !salad.IsEmpty(u) {
			r.Set("id", u)
		}
	}
	r.Set("text", salad.Save(l.Text, false, salad.StringOf(l.Id), relativeURIs))
	if top {
		salad.SaveNamespaces(r, l.LoadingOptions)
	}
	return r
}

// NewLoadingOptions returns loading options carrying the vocabulary of this
// package
func NewLoadingOptions() *salad.LoadingOptions {
	return salad.NewLoadingOptions(vocab, rvocab)
}

// LoadDocument loads an already parsed document. An empty baseURI means the
// current working directory.
func LoadDocument(doc any, baseURI string, opts *salad.LoadingOptions) (any, error) {
	if baseURI == "" {
		baseURI = salad.DefaultBaseURI()
	}
	if opts == nil {
		opts = NewLoadingOptions()
	}
	return salad.DocumentLoad(union_of_PersonLoader_or_LabelLoader_or_array_of_union_of_PersonLoader_or_LabelLoader, doc, baseURI, opts)
}

// LoadDocumentByString parses text as YAML and loads it, using uri as its
// location
func LoadDocumentByString(text, uri string, opts *salad.LoadingOptions) (any, error) {
	doc, err := salad.ParseYAML([]byte(text), uri)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = NewLoadingOptions()
		opts.FileURI = uri
	}
	if opts.Idx == nil {
		opts.Idx = make(map[string]any)
	}
	opts.Idx[uri] = doc
	return salad.DocumentLoad(union_of_PersonLoader_or_LabelLoader_or_array_of_union_of_PersonLoader_or_LabelLoader, doc, uri, opts)
}
