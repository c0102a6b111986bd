package golang

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/utils"
)

// package-level identifiers every generated package declares
var fixedIdents = []string{
	"vocab", "rvocab", "records",
	"NewLoadingOptions", "LoadDocument", "LoadDocumentByString",
	"salad",
}

// parameters and locals of the generated FromDoc functions, plus the
// predeclared identifiers their bodies use
var fromDocLocals = []string{
	"doc", "baseURI", "opts", "docRoot", "errs", "err", "ext", "extErrs",
	"nil", "true", "false", "append", "len", "string", "error", "any",
}

// namer hands out identifiers that are unique within one scope
type namer struct {
	taken map[string]bool
}

func newNamer(reserved ...string) *namer {
	n := &namer{taken: make(map[string]bool)}
	for _, r := range reserved {
		n.taken[r] = true
	}
	return n
}

func (n *namer) unique(base string) string {
	name := base
	for i := 2; n.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.taken[name] = true
	return name
}

// suffixed is like unique but appends underscores, which keeps names of
// locals that merely shadow something readable.
func (n *namer) suffixed(base string) string {
	name := base
	for n.taken[name] {
		name += "_"
	}
	n.taken[name] = true
	return name
}

type fileData struct {
	Package string
	Runtime string
	Vocab   []ir.VocabEntry
	RVocab  []ir.VocabEntry
	Loaders []loaderView
	// Records lists the concrete records registered in the record table
	Records    []recordEntry
	Enums      []enumView
	Interfaces []interfaceView
	Classes    []classView
	Root       string
}

type loaderView struct {
	Name string
	Expr string
}

type recordEntry struct {
	Key     string
	FromDoc string
}

type enumView struct {
	Name    string
	GoName  string
	Symbols []symbolView
}

type symbolView struct {
	Const string
	Value string
}

type interfaceView struct {
	GoName string
	Doc    string
	Marker string
}

type classView struct {
	Name       string
	GoName     string
	Doc        string
	Recv       string
	HasClass   bool
	ClassConst string
	AttrsVar   string
	Attrs      []string
	FromDoc    string
	Markers    []string
	Fields     []fieldView
	Parse      []parseView
	Save       []saveView
}

type fieldView struct {
	GoName string
	Local  string
	Doc    string
	// Type is the Go type of the struct field
	Type string
	// Convert wraps the loaded value on construction; empty keeps it as is
	Convert string
	// Save is "any", "value" or "ptr", selecting how the serializer reads
	// the field
	Save string
}

type parseView struct {
	Kind     ir.ParseKind
	Key      string
	Local    string
	Loader   string
	Optional bool
}

type saveView struct {
	Kind     ir.SaveKind
	Key      string
	Field    string
	Mode     string
	Base     string
	ScopedID bool
	RefScope string
}

// buildFileData lays out every identifier of the generated package. Loader
// variables keep their TypeDef names where those are valid Go identifiers.
func buildFileData(target config.Target, mod ir.Module) (*fileData, error) {
	pkg := newNamer(fixedIdents...)
	loaderNames := make(map[string]string, len(mod.Types))
	types := make(map[string]ir.TypeDef, len(mod.Types))
	for _, t := range mod.Types {
		loaderNames[t.Name] = pkg.unique(utils.GoIdent(t.Name))
		types[t.Name] = t
	}
	ref := func(name string) (string, error) {
		n, ok := loaderNames[name]
		if !ok {
			return "", fmt.Errorf("type %s is referenced but not registered", name)
		}
		return n, nil
	}

	d := &fileData{
		Package: sanitizePackageName(target.PackageName),
		Runtime: target.Runtime(),
		Vocab:   mod.Vocab,
		RVocab:  uniqueIRIs(mod.RVocab),
	}

	for _, t := range mod.Types {
		expr, err := loaderExpr(t.Init, ref)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}
		d.Loaders = append(d.Loaders, loaderView{Name: loaderNames[t.Name], Expr: expr})
	}
	root, err := ref(mod.Root)
	if err != nil {
		return nil, err
	}
	d.Root = root

	for _, t := range mod.Types {
		if t.Init.Kind != ir.LoaderEnum {
			continue
		}
		e := enumView{Name: t.Init.Name, GoName: utils.ExportName(t.Init.Name)}
		for _, sym := range t.Init.Symbols {
			e.Symbols = append(e.Symbols, symbolView{
				Const: pkg.unique(e.GoName + utils.ExportName(sym)),
				Value: sym,
			})
		}
		d.Enums = append(d.Enums, e)
	}

	typeNames := make(map[string]string, len(mod.Classes))
	for _, c := range mod.Classes {
		typeNames[c.SafeName] = pkg.unique(utils.ExportName(c.SafeName))
	}
	for _, c := range mod.Classes {
		goName := typeNames[c.SafeName]
		if c.Abstract {
			d.Interfaces = append(d.Interfaces, interfaceView{
				GoName: goName,
				Doc:    c.Doc,
				Marker: "is" + goName,
			})
			continue
		}
		cv := classView{
			Name:     c.SafeName,
			GoName:   goName,
			Doc:      c.Doc,
			Recv:     receiverName(goName),
			HasClass: c.HasClass,
			Attrs:    c.Attrs,
			FromDoc:  pkg.unique(goName + "FromDoc"),
			AttrsVar: pkg.unique(utils.LocalName(goName) + "Attrs"),
		}
		if c.HasClass {
			cv.ClassConst = pkg.unique(goName + "Class")
		}
		for _, a := range mod.Ancestors(c) {
			if parent := mod.FindClass(a); parent != nil && parent.Abstract {
				cv.Markers = append(cv.Markers, "is"+typeNames[a])
			}
		}
		d.Records = append(d.Records, recordEntry{Key: c.SafeName, FromDoc: cv.FromDoc})
		d.Classes = append(d.Classes, cv)
	}

	// locals are planned after every package identifier is known, so that a
	// local never shadows a loader the function still needs
	for i := range d.Classes {
		if err := planClass(&d.Classes[i], mod.FindClass(d.Classes[i].Name), pkg, ref, types); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func planClass(cv *classView, c *ir.Class, pkg *namer, ref func(string) (string, error), types map[string]ir.TypeDef) error {
	members := newNamer("ExtensionFields", "LoadingOptions", "Save", "Class")
	locals := newNamer(fromDocLocals...)
	for name := range pkg.taken {
		locals.taken[name] = true
	}

	loaders := make(map[string]string, len(c.Parse))
	for _, step := range c.Parse {
		if step.Kind == ir.ParseField {
			loaders[step.Var] = step.Loader
		}
	}

	byVar := make(map[string]fieldView, len(c.Fields))
	for _, f := range c.Fields {
		fv := fieldView{
			GoName: members.suffixed(utils.ExportName(f.Var)),
			Local:  locals.suffixed(utils.LocalName(f.Var)),
			Doc:    f.Doc,
			Type:   "any",
			Save:   "any",
		}
		// the identity stays dynamic: it is the base URI of later fields
		if f.Var != c.IDField {
			if typ, ptr := fieldType(types[loaders[f.Var]], types); typ != "" {
				if ptr {
					fv.Type, fv.Convert, fv.Save = "*"+typ, "salad.Ptr["+typ+"]", "ptr"
				} else {
					fv.Type, fv.Convert, fv.Save = typ, "salad.As["+typ+"]", "value"
				}
			}
		}
		byVar[f.Var] = fv
		cv.Fields = append(cv.Fields, fv)
	}

	for _, step := range c.Parse {
		pv := parseView{Kind: step.Kind, Key: step.Key, Optional: step.Optional}
		if step.Var != "" {
			pv.Local = byVar[step.Var].Local
		}
		if step.Loader != "" {
			l, err := ref(step.Loader)
			if err != nil {
				return fmt.Errorf("class %s: %w", c.SafeName, err)
			}
			pv.Loader = l
		}
		cv.Parse = append(cv.Parse, pv)
	}

	for _, step := range c.Save {
		sv := saveView{Kind: step.Kind, Key: step.Key, ScopedID: step.ScopedID, Base: "baseURL"}
		if step.Var != "" {
			sv.Field = cv.Recv + "." + byVar[step.Var].GoName
			sv.Mode = byVar[step.Var].Save
		}
		if step.BaseVar != "" {
			sv.Base = "salad.StringOf(" + cv.Recv + "." + byVar[step.BaseVar].GoName + ")"
		}
		sv.RefScope = refScope(step.RefScope)
		cv.Save = append(cv.Save, sv)
	}
	return nil
}

var goPrimitives = map[ir.PrimitiveKind]string{
	ir.PrimString: "string",
	ir.PrimInt:    "int",
	ir.PrimFloat:  "float64",
	ir.PrimBool:   "bool",
}

// valueType returns the Go type of the values t loads, or "" when only any
// holds them
func valueType(t ir.TypeDef) string {
	switch t.Init.Kind {
	case ir.LoaderPrimitive:
		return goPrimitives[t.Init.Primitive]
	case ir.LoaderEnum:
		return "salad.Symbol"
	}
	return ""
}

// fieldType returns the Go type of a field loaded by t. A union of null and
// one concrete type is held through a pointer.
func fieldType(t ir.TypeDef, types map[string]ir.TypeDef) (typ string, ptr bool) {
	if typ := valueType(t); typ != "" {
		return typ, false
	}
	if t.Init.Kind != ir.LoaderUnion || len(t.Init.Members) != 2 {
		return "", false
	}
	a, b := types[t.Init.Members[0]], types[t.Init.Members[1]]
	if isNullType(b) {
		a, b = b, a
	}
	if !isNullType(a) {
		return "", false
	}
	if typ := valueType(b); typ != "" {
		return typ, true
	}
	return "", false
}

func isNullType(t ir.TypeDef) bool {
	return t.Init.Kind == ir.LoaderPrimitive && t.Init.Primitive == ir.PrimNull
}

// uniqueIRIs keeps one entry per IRI, the last one, at the position of its
// first occurrence
func uniqueIRIs(entries []ir.VocabEntry) []ir.VocabEntry {
	pos := make(map[string]int, len(entries))
	var out []ir.VocabEntry
	for _, e := range entries {
		if i, ok := pos[e.IRI]; ok {
			out[i] = e
			continue
		}
		pos[e.IRI] = len(out)
		out = append(out, e)
	}
	return out
}

var primitiveKinds = map[ir.PrimitiveKind]string{
	ir.PrimString: "salad.KindString",
	ir.PrimInt:    "salad.KindInt",
	ir.PrimFloat:  "salad.KindFloat",
	ir.PrimBool:   "salad.KindBool",
	ir.PrimNull:   "salad.KindNull",
}

// loaderExpr renders the constructor call of a loader variable
func loaderExpr(e ir.LoaderExpr, ref func(string) (string, error)) (string, error) {
	switch e.Kind {
	case ir.LoaderPrimitive:
		kind, ok := primitiveKinds[e.Primitive]
		if !ok {
			return "", fmt.Errorf("unknown primitive %q", e.Primitive)
		}
		return "salad.NewPrimitiveLoader(" + kind + ")", nil
	case ir.LoaderAny:
		return "salad.NewAnyLoader()", nil
	case ir.LoaderEnum:
		args := []string{strconv.Quote(e.Name)}
		for _, s := range e.Symbols {
			args = append(args, strconv.Quote(s))
		}
		return "salad.NewEnumLoader(" + strings.Join(args, ", ") + ")", nil
	case ir.LoaderRecord:
		return "salad.NewRecordLoader(records, " + strconv.Quote(e.Name) + ")", nil
	case ir.LoaderUnion:
		members := make([]string, 0, len(e.Members))
		for _, m := range e.Members {
			n, err := ref(m)
			if err != nil {
				return "", err
			}
			members = append(members, n)
		}
		return "salad.NewUnionLoader(" + strings.Join(members, ", ") + ")", nil
	}

	inner, err := ref(e.Inner)
	if err != nil {
		return "", err
	}
	switch e.Kind {
	case ir.LoaderArray:
		return "salad.NewArrayLoader(" + inner + ")", nil
	case ir.LoaderURI:
		return fmt.Sprintf("salad.NewURILoader(%s, %t, %t, %s)", inner, e.ScopedID, e.VocabTerm, refScope(e.RefScope)), nil
	case ir.LoaderIDMap:
		return fmt.Sprintf("salad.NewIDMapLoader(%s, %q, %q)", inner, e.MapSubject, e.MapPredicate), nil
	case ir.LoaderTypeDSL:
		return fmt.Sprintf("salad.NewTypeDSLLoader(%s, %s)", inner, refScope(e.RefScope)), nil
	}
	return "", fmt.Errorf("unknown loader kind %q", e.Kind)
}

// refScope renders a ref scope argument; nil is salad.NoRefScope, so an
// explicit 0 keeps its meaning
func refScope(p *int) string {
	if p == nil {
		return "salad.NoRefScope"
	}
	return strconv.Itoa(*p)
}

// receiverName picks a one-letter receiver that cannot clash with the
// locals of Save
func receiverName(goName string) string {
	r := strings.ToLower(goName[:1])
	if r == "r" || r == "u" || r == "_" {
		return "rec"
	}
	return r
}

// formatGoComment formats a string as a proper Go comment, handling multiline descriptions
func formatGoComment(s string) string {
	if s == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSpace(s), "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			result = append(result, "//")
		} else {
			result = append(result, "// "+line)
		}
	}
	return strings.Join(result, "\n")
}

// sanitizePackageName ensures the package name is valid for Go
func sanitizePackageName(name string) string {
	// Extract the last part of the package name if it looks like a module path
	parts := strings.Split(name, "/")
	if len(parts) > 0 {
		name = parts[len(parts)-1]
	}

	name = strings.ToLower(utils.RemoveAccents(name))
	name = regexp.MustCompile(`[^a-z0-9_]`).ReplaceAllString(name, "")

	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}
	if name == "" {
		name = "schema"
	}
	return name
}
