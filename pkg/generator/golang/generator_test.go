package golang

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/go/packages"

	"github.com/blimu-dev/salad-gen/pkg/codegen"
	"github.com/blimu-dev/salad-gen/pkg/config"
	"github.com/blimu-dev/salad-gen/pkg/ir"
	"github.com/blimu-dev/salad-gen/pkg/output"
	"github.com/blimu-dev/salad-gen/pkg/schema"
)

func compilePeople(t *testing.T) ir.Module {
	t.Helper()
	defs, err := schema.LoadFile("testdata/people.yml")
	if err != nil {
		t.Fatal(err)
	}
	mod, err := codegen.Compile(defs)
	if err != nil {
		t.Fatal(err)
	}
	return mod
}

func generate(t *testing.T, target config.Target, mod ir.Module) *output.Memory {
	t.Helper()
	out := output.NewMemory()
	if err := NewGoGenerator().Generate(context.Background(), target, mod, out); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return out
}

func assertContains(t *testing.T, file string, content []byte, patterns ...string) {
	t.Helper()
	for _, p := range patterns {
		if !regexp.MustCompile(p).Match(content) {
			t.Errorf("%s does not match %q:\n%s", file, p, content)
		}
	}
}

func TestGenerateWritesParsablePackage(t *testing.T) {
	out := generate(t, config.Target{PackageName: "github.com/acme/people"}, compilePeople(t))

	expected := []string{"README.md", "document.go", "loaders.go", "types.go", "vocab.go"}
	if diff := cmp.Diff(expected, out.Names()); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	fset := token.NewFileSet()
	for _, name := range out.Names() {
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, out.Get(name), parser.ParseComments)
		if err != nil {
			t.Fatalf("%s does not parse: %v", name, err)
		}
		if f.Name.Name != "people" {
			t.Errorf("%s: package %s", name, f.Name.Name)
		}
	}
}

// declTokens scans every top-level declaration of src except imports.
// Comments and the spelling of semicolons are dropped, so only layout-free
// differences are reported.
func declTokens(t *testing.T, name string, src []byte) []string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, name, src, parser.SkipObjectResolution)
	if err != nil {
		t.Fatalf("%s does not parse: %v", name, err)
	}
	file := fset.File(f.Pos())

	var toks []string
	for _, decl := range f.Decls {
		if g, ok := decl.(*ast.GenDecl); ok && g.Tok == token.IMPORT {
			continue
		}
		body := src[file.Offset(decl.Pos()):file.Offset(decl.End())]
		var s scanner.Scanner
		s.Init(token.NewFileSet().AddFile(name, -1, len(body)), body, nil, 0)
		for {
			_, tok, lit := s.Scan()
			if tok == token.EOF {
				break
			}
			if tok == token.SEMICOLON {
				lit = ""
			}
			toks = append(toks, tok.String()+" "+lit)
		}
	}
	return toks
}

// The runtime tests run against a checked-in rendering of people.yml; it
// must stay identical to what the generator emits.
func TestGenerateMatchesRuntimeFixture(t *testing.T) {
	out := generate(t, config.Target{PackageName: "salad_test"}, compilePeople(t))
	var got []string
	for _, name := range []string{"vocab.go", "loaders.go", "types.go", "document.go"} {
		got = append(got, declTokens(t, name, out.Get(name))...)
	}

	fixture, err := os.ReadFile("../../salad/fixture_test.go")
	if err != nil {
		t.Fatal(err)
	}
	want := declTokens(t, "fixture_test.go", fixture)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generated package differs from pkg/salad/fixture_test.go (-fixture +generated):\n%s", diff)
	}
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func TestGeneratedPackageTypeChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the runtime package through the go command")
	}
	out := generate(t, config.Target{PackageName: "people"}, compilePeople(t))

	fset := token.NewFileSet()
	var files []*ast.File
	for _, name := range out.Names() {
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, out.Get(name), 0)
		if err != nil {
			t.Fatalf("%s does not parse: %v", name, err)
		}
		files = append(files, f)
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName | packages.NeedTypes}, config.DefaultRuntimeImport)
	if err != nil {
		t.Fatal(err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatal("runtime package does not load")
	}
	conf := types.Config{Importer: importerFunc(func(path string) (*types.Package, error) {
		for _, p := range pkgs {
			if p.PkgPath == path {
				return p.Types, nil
			}
		}
		return nil, fmt.Errorf("unexpected import %s", path)
	})}
	if _, err := conf.Check("example.com/people", fset, files, nil); err != nil {
		t.Fatalf("generated package does not type-check: %v", err)
	}
}

func TestGenerateLoaders(t *testing.T) {
	out := generate(t, config.Target{PackageName: "people"}, compilePeople(t))
	loaders := out.Get("loaders.go")

	assertContains(t, "loaders.go", loaders,
		`"github.com/blimu-dev/salad-gen/pkg/salad"`,
		`var records = salad.RecordTable\{\}`,
		`strtype\s+= salad.NewPrimitiveLoader\(salad.KindString\)`,
		`anytype\s+= salad.NewAnyLoader\(\)`,
		`ColorLoader\s+= salad.NewEnumLoader\("Color", "red", "green"\)`,
		`PersonLoader\s+= salad.NewRecordLoader\(records, "Person"\)`,
		`uri_union_of_nulltype_or_strtype_true_false_none\s+= salad.NewURILoader\(union_of_nulltype_or_strtype, true, false, salad.NoRefScope\)`,
		`records\["Person"\] = PersonFromDoc`,
		`records\["Label"\] = LabelFromDoc`,
	)
	if strings.Contains(string(loaders), `records["Named"]`) {
		t.Error("abstract record registered in the record table")
	}

	assertContains(t, "vocab.go", out.Get("vocab.go"),
		`"red":\s+"https://example.org/people#Color/red",`,
		`"https://example.org/people#Person":\s+"Person",`,
	)
	assertContains(t, "document.go", out.Get("document.go"),
		`return salad.NewLoadingOptions\(vocab, rvocab\)`,
		`if opts == nil \{\n\t\topts = NewLoadingOptions\(\)\n\t\topts.FileURI = uri\n\t\}`,
		`opts.Idx\[uri\] = doc`,
		`salad.DocumentLoad\(union_of_PersonLoader_or_LabelLoader_or_array_of_union_of_PersonLoader_or_LabelLoader, doc, uri, opts\)`,
	)
}

func TestGenerateRecords(t *testing.T) {
	out := generate(t, config.Target{PackageName: "people"}, compilePeople(t))
	types := out.Get("types.go")

	assertContains(t, "types.go", types,
		`ColorRed\s+salad.Symbol = "red"`,
		`type Named interface \{\n\tsalad.Savable\n\tisNamed\(\)\n\}`,
		`// Person is a person.\ntype Person struct \{`,
		`// Full name.\n\t// Not validated.\n\tName\s+string`,
		`\tId\s+any\n`,
		`\tAge\s+int\n`,
		`\tEmail\s+\*string\n`,
		`\tFavorite\s+\*salad.Symbol\n`,
		`Name:\s+salad.As\[string\]\(name\),`,
		`Email:\s+salad.Ptr\[string\]\(email\),`,
		`Favorite:\s+salad.Ptr\[salad.Symbol\]\(favorite\),`,
		`Id:\s+id,`,
		`if p.Email != nil \{\n\t\tr.Set\("email", salad.Save\(\*p.Email, false, salad.StringOf\(p.Id\), relativeURIs\)\)`,
		`func \(\*Person\) isNamed\(\) \{\}`,
		`const PersonClass = "Person"`,
		`func \(\*Person\) Class\(\) string \{ return PersonClass \}`,
		`var personAttrs = \[\]string\{"class", "id", "name", "age", "email", "favorite"\}`,
		`func PersonFromDoc\(doc \*salad.Map, baseURI string, opts \*salad.LoadingOptions, docRoot string\) \(salad.Savable, error\) \{`,
		`if err := salad.CheckClass\(doc, PersonClass\); err != nil \{`,
		`id, err := salad.LoadMapField\(doc, "id", uri_union_of_nulltype_or_strtype_true_false_none, baseURI, opts, true\)`,
		`id, err = salad.ResolveID\(id, "id", docRoot, true\)`,
		`baseURI = salad.StringOf\(id\)`,
		`favorite, err := salad.LoadMapField\(doc, "favorite", union_of_nulltype_or_ColorLoader, baseURI, opts, true\)`,
		`return nil, salad.NewValidationError\("Trying 'Person'", errs...\)`,
		`func \(p \*Person\) Save\(top bool, baseURL string, relativeURIs bool\) \*salad.Map \{`,
		`r.Set\("class", PersonClass\)`,
		`if u := salad.SaveRelativeURI\(p.Id, baseURL, true, salad.NoRefScope, relativeURIs\); !salad.IsEmpty\(u\) \{`,
		`r.Set\("name", salad.Save\(p.Name, false, salad.StringOf\(p.Id\), relativeURIs\)\)`,
		`id, err = salad.ResolveID\(id, "id", docRoot, false\)`,
		`func \(l \*Label\) Save\(`,
	)
	if regexp.MustCompile(`func \(\*Label\) Class\(\)`).Match(types) {
		t.Error("Label has no discriminator but got a Class method")
	}
	if strings.Contains(string(types), "NamedFromDoc") {
		t.Error("abstract record got a parse function")
	}
}

func TestGenerateRuntimeImportAlias(t *testing.T) {
	target := config.Target{PackageName: "people", RuntimeImport: "example.com/rt"}
	out := generate(t, target, compilePeople(t))
	assertContains(t, "loaders.go", out.Get("loaders.go"), `salad "example.com/rt"`)
}

func TestGenerateHonorsExclude(t *testing.T) {
	target := config.Target{OutDir: "/out", PackageName: "people", ExcludeFiles: []string{"README.md", "vocab.go"}}
	out := generate(t, target, compilePeople(t))
	if diff := cmp.Diff([]string{"document.go", "loaders.go", "types.go"}, out.Names()); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAvoidsIdentifierClashes(t *testing.T) {
	const ns = "https://example.org/clash#"
	rec := schema.Record(ns+"Clash",
		schema.Field{Name: ns + "Clash/err", Type: schema.Named("string")},
		schema.Field{Name: ns + "Clash/save", Type: schema.Named("string")},
		schema.Field{Name: ns + "Clash/strtype", Type: schema.Named("string")},
		schema.Field{Name: ns + "Clash/nil", Type: schema.Named("int")},
	)
	rec.DocumentRoot = true
	mod, err := codegen.Compile([]schema.Decl{rec})
	if err != nil {
		t.Fatal(err)
	}

	out := generate(t, config.Target{PackageName: "clash"}, mod)
	assertContains(t, "types.go", out.Get("types.go"),
		`err_, err := salad.LoadMapField\(doc, "err", strtype, baseURI, opts, false\)`,
		`strtype_, err := salad.LoadMapField\(doc, "strtype", strtype,`,
		`nil_, err := salad.LoadMapField\(doc, "nil", inttype,`,
		`Save_:\s+salad.As\[string\]\(save\),`,
		`Nil\s+int\n`,
		`func \(c \*Clash\) Save\(`,
	)
}
