package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleSchema = `
$base: "https://example.org/schema#"
$graph:
  - name: https://example.org/schema#Color
    type: enum
    symbols:
      - https://example.org/schema#Color/red
      - https://example.org/schema#Color/green
  - name: https://example.org/schema#Shape
    type: record
    abstract: true
    doc: A shape.
  - name: https://example.org/schema#Circle
    type: record
    extends: https://example.org/schema#Shape
    documentRoot: true
    doc:
      - A circle.
      - With a radius.
    fields:
      - name: https://example.org/schema#Circle/id
        type: [null, string]
        jsonldPredicate: "@id"
      - name: https://example.org/schema#Circle/radius
        type: double
      - name: https://example.org/schema#Circle/tags
        type:
          - "null"
          - type: array
            items: string
        jsonldPredicate:
          mapSubject: name
          refScope: 1
`

func TestParse(t *testing.T) {
	defs, err := Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("Parse() returned %d definitions, expected 3", len(defs))
	}

	color := defs[0]
	if color.Type != KindEnum || len(color.Symbols) != 2 {
		t.Errorf("enum decoded as %+v", color)
	}

	shape := defs[1]
	if !shape.Abstract || shape.Doc != "A shape." {
		t.Errorf("abstract record decoded as %+v", shape)
	}

	circle := defs[2]
	if diff := cmp.Diff([]string{"https://example.org/schema#Shape"}, circle.Extends); diff != "" {
		t.Errorf("extends mismatch (-want +got):\n%s", diff)
	}
	if !circle.DocumentRoot {
		t.Error("expected documentRoot")
	}
	if circle.Doc != "A circle.\nWith a radius." {
		t.Errorf("doc = %q", circle.Doc)
	}
	if len(circle.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(circle.Fields))
	}

	id := circle.Fields[0]
	if id.JSONLDPredicate == nil || !id.JSONLDPredicate.IsID {
		t.Errorf("id field predicate = %+v", id.JSONLDPredicate)
	}
	if !id.Type.IsOptional() {
		t.Error("id field should be optional")
	}

	radius := circle.Fields[1]
	if !radius.Type.IsRef() || radius.Type.Ref != "double" || radius.Type.IsOptional() {
		t.Errorf("radius type = %+v", radius.Type)
	}

	tags := circle.Fields[2]
	if !tags.Type.IsUnion || len(tags.Type.Union) != 2 {
		t.Fatalf("tags type = %+v", tags.Type)
	}
	if arr := tags.Type.Union[1]; arr.Type != KindArray || arr.Items == nil || arr.Items.Ref != "string" {
		t.Errorf("tags array member = %+v", arr)
	}
	p := tags.JSONLDPredicate
	if p == nil || p.MapSubject != "name" || p.RefScope == nil || *p.RefScope != 1 {
		t.Errorf("tags predicate = %+v", p)
	}
}

func TestParseNullUnionMembers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare null", "[{name: R, type: record, fields: [{name: f, type: [null, string]}]}]"},
		{"tilde", "[{name: R, type: record, fields: [{name: f, type: [~, string]}]}]"},
		{"quoted", `[{name: R, type: record, fields: [{name: f, type: ["null", string]}]}]`},
		{"json", `[{"name": "R", "type": "record", "fields": [{"name": "f", "type": [null, "string"]}]}]`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defs, err := Parse([]byte(test.input))
			if err != nil {
				t.Fatal(err)
			}
			typ := defs[0].Fields[0].Type
			expected := UnionOf(Named("null"), Named("string"))
			if diff := cmp.Diff(expected, typ); diff != "" {
				t.Errorf("type mismatch (-want +got):\n%s", diff)
			}
			if !typ.IsOptional() {
				t.Error("expected optional")
			}
		})
	}
}

func TestParseRejectsScalarDocument(t *testing.T) {
	if _, err := Parse([]byte(`"just a string"`)); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Parse([]byte(`{a: 1}`)); err == nil {
		t.Fatal("expected error for mapping without $graph")
	}
}

func TestParseNormalizesKind(t *testing.T) {
	defs, err := Parse([]byte(`[{name: X, type: "https://w3id.org/cwl/salad#record"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if defs[0].Type != KindRecord {
		t.Errorf("Type = %q, expected record", defs[0].Type)
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://w3id.org/cwl/salad#Any", "Any"},
		{"https://w3id.org/cwl/cwl#Workflow/inputs", "inputs"},
		{"https://example.org/path/thing", "thing"},
		{"plain", "plain"},
	}

	for _, test := range tests {
		result := ShortName(test.input)
		if result != test.expected {
			t.Errorf("ShortName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestAvroName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://w3id.org/cwl/cwl#Workflow", "Workflow"},
		{"https://w3id.org/cwl/cwl#Workflow/inputs", "inputs"},
		{"https://w3id.org/cwl/cwl", "https://w3id.org/cwl/cwl"},
		{"Workflow", "Workflow"},
	}

	for _, test := range tests {
		result := AvroName(test.input)
		if result != test.expected {
			t.Errorf("AvroName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestIsOptional(t *testing.T) {
	tests := []struct {
		name     string
		decl     Decl
		expected bool
	}{
		{"bare", Named("string"), false},
		{"null union", UnionOf(Named("null"), Named("string")), true},
		{"iri null union", UnionOf(Named(SaladNS+"null"), Named("string")), true},
		{"union without null", UnionOf(Named("int"), Named("string")), false},
		{"array", ArrayOf(Named("null")), false},
	}

	for _, test := range tests {
		if got := test.decl.IsOptional(); got != test.expected {
			t.Errorf("%s: IsOptional() = %v, expected %v", test.name, got, test.expected)
		}
	}
}
