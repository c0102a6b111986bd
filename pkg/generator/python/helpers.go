package python

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/blimu-dev/salad-gen/pkg/codegen"
	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/utils"
)

// DefaultRuntime is the module the generated code imports its loaders and
// the Savable base from
const DefaultRuntime = "schema_salad.python_codegen_support"

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// pyIdent turns a name into a valid Python identifier; keywords get a
// trailing underscore
func pyIdent(s string) string {
	s = nonIdent.ReplaceAllString(utils.RemoveAccents(s), "_")
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if keywords[s] {
		s += "_"
	}
	return s
}

// pyStr renders a double-quoted Python string literal
func pyStr(s string) string {
	return strconv.Quote(s)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func pyRefScope(p *int) string {
	if p == nil {
		return "None"
	}
	return strconv.Itoa(*p)
}

// moduleName is the file stem of the generated module
func moduleName(packageName string) string {
	name := utils.ToSnakeCaseAdvanced(path.Base(packageName))
	if name == "" {
		return "schema"
	}
	return pyIdent(name)
}

type moduleView struct {
	Runtime string
	Classes []classView
	Vocab   []ir.VocabEntry
	RVocab  []ir.VocabEntry
	Loaders []loaderView
	Root    string
}

type loaderView struct {
	Name string
	Expr string
}

type classView struct {
	Name     string
	Bases    string
	Doc      string
	Abstract bool
	HasClass bool
	Params   []string
	Attrs    string
	// Invalid is the message literal of the unknown field error
	Invalid string
	Parse   []parseView
	Save    []saveView
}

type parseView struct {
	Kind     ir.ParseKind
	Key      string
	Var      string
	Loader   string
	Optional bool
}

type saveView struct {
	Kind     ir.SaveKind
	Key      string
	Var      string
	Base     string
	ScopedID string
	RefScope string
}

// buildModuleView lays out the generated module: classes first so that
// record loaders can name them, then the vocabulary, the loaders and the
// document entry points
func buildModuleView(target config.Target, mod ir.Module) (*moduleView, error) {
	runtime := target.RuntimeImport
	if runtime == "" {
		runtime = DefaultRuntime
	}
	v := &moduleView{Runtime: runtime, Vocab: mod.Vocab, RVocab: mod.RVocab}

	names := make(map[string]string, len(mod.Types))
	for _, t := range mod.Types {
		names[t.Name] = pyIdent(t.Name)
	}
	ref := func(name string) (string, error) {
		n, ok := names[name]
		if !ok {
			return "", fmt.Errorf("type %s is referenced but not registered", name)
		}
		return n, nil
	}
	for _, t := range mod.Types {
		expr, err := loaderExpr(t.Init, ref)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}
		v.Loaders = append(v.Loaders, loaderView{Name: names[t.Name], Expr: expr})
	}
	root, err := ref(mod.Root)
	if err != nil {
		return nil, err
	}
	v.Root = root

	for _, c := range mod.Classes {
		cv, err := buildClass(c, ref)
		if err != nil {
			return nil, err
		}
		v.Classes = append(v.Classes, cv)
	}
	return v, nil
}

func buildClass(c ir.Class, ref func(string) (string, error)) (classView, error) {
	bases := make([]string, 0, len(c.Extends))
	for _, e := range c.Extends {
		if e == codegen.DefaultBase {
			bases = append(bases, e)
			continue
		}
		bases = append(bases, pyIdent(e))
	}
	cv := classView{
		Name:     pyIdent(c.SafeName),
		Bases:    strings.Join(bases, ", "),
		Doc:      formatDocstring(c.Doc),
		Abstract: c.Abstract,
		HasClass: c.HasClass,
	}
	if c.Abstract {
		return cv, nil
	}

	for _, f := range c.Fields {
		cv.Params = append(cv.Params, pyIdent(f.Var))
	}
	attrs := make([]string, 0, len(c.Attrs))
	quoted := make([]string, 0, len(c.Attrs))
	for _, a := range c.Attrs {
		attrs = append(attrs, pyStr(a))
		quoted = append(quoted, "`"+a+"`")
	}
	cv.Attrs = strings.Join(attrs, ", ")
	cv.Invalid = pyStr("invalid field `%s`, expected one of: " + strings.ReplaceAll(strings.Join(quoted, ", "), "%", "%%"))

	for _, step := range c.Parse {
		pv := parseView{Kind: step.Kind, Key: step.Key, Var: pyIdent(step.Var), Optional: step.Optional}
		if step.Loader != "" {
			l, err := ref(step.Loader)
			if err != nil {
				return classView{}, fmt.Errorf("class %s: %w", c.SafeName, err)
			}
			pv.Loader = l
		}
		cv.Parse = append(cv.Parse, pv)
	}
	for _, step := range c.Save {
		sv := saveView{
			Kind:     step.Kind,
			Key:      step.Key,
			Var:      pyIdent(step.Var),
			Base:     "base_url",
			ScopedID: pyBool(step.ScopedID),
			RefScope: pyRefScope(step.RefScope),
		}
		if step.BaseVar != "" {
			sv.Base = "self." + pyIdent(step.BaseVar)
		}
		cv.Save = append(cv.Save, sv)
	}
	return cv, nil
}

var primitiveTypes = map[ir.PrimitiveKind]string{
	ir.PrimString: "(str, text_type)",
	ir.PrimInt:    "int",
	ir.PrimFloat:  "float",
	ir.PrimBool:   "bool",
	ir.PrimNull:   "type(None)",
}

// loaderExpr renders the constructor call of a loader variable
func loaderExpr(e ir.LoaderExpr, ref func(string) (string, error)) (string, error) {
	inner := func() (string, error) { return ref(e.Inner) }
	switch e.Kind {
	case ir.LoaderPrimitive:
		t, ok := primitiveTypes[e.Primitive]
		if !ok {
			return "", fmt.Errorf("unknown primitive %q", e.Primitive)
		}
		return "_PrimitiveLoader(" + t + ")", nil
	case ir.LoaderAny:
		return "_AnyLoader()", nil
	case ir.LoaderEnum:
		syms := make([]string, 0, len(e.Symbols))
		for _, s := range e.Symbols {
			syms = append(syms, pyStr(s))
		}
		return "_EnumLoader((" + strings.Join(syms, ", ") + ",))", nil
	case ir.LoaderRecord:
		return "_RecordLoader(" + pyIdent(e.Name) + ")", nil
	case ir.LoaderUnion:
		members := make([]string, 0, len(e.Members))
		for _, m := range e.Members {
			n, err := ref(m)
			if err != nil {
				return "", err
			}
			members = append(members, n)
		}
		return "_UnionLoader((" + strings.Join(members, ", ") + ",))", nil
	}

	in, err := inner()
	if err != nil {
		return "", err
	}
	switch e.Kind {
	case ir.LoaderArray:
		return "_ArrayLoader(" + in + ")", nil
	case ir.LoaderURI:
		return fmt.Sprintf("_URILoader(%s, %s, %s, %s)", in, pyBool(e.ScopedID), pyBool(e.VocabTerm), pyRefScope(e.RefScope)), nil
	case ir.LoaderIDMap:
		pred := "None"
		if e.MapPredicate != "" {
			pred = pyStr(e.MapPredicate)
		}
		return fmt.Sprintf("_IdMapLoader(%s, %s, %s)", in, pyStr(e.MapSubject), pred), nil
	case ir.LoaderTypeDSL:
		return fmt.Sprintf("_TypeDSLLoader(%s, %s)", in, pyRefScope(e.RefScope)), nil
	}
	return "", fmt.Errorf("unknown loader kind %q", e.Kind)
}

// formatDocstring indents s for a class docstring and keeps it from closing
// the literal early
func formatDocstring(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, `"""`, `\"\"\"`)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line = strings.TrimRight(line, " \t"); line != "" {
			line = "    " + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
