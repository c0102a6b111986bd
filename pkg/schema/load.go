package schema

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a resolved schema document from disk.
func LoadFile(path string) ([]Decl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes a resolved schema document. The document is either a list of
// definitions or a mapping with a "$graph" list; YAML and JSON are both
// accepted.
func Parse(data []byte) ([]Decl, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("empty schema document")
	}
	n := root.Content[0]
	if n.Kind == yaml.MappingNode {
		graph := mappingValue(n, "$graph")
		if graph == nil {
			return nil, errors.New("schema document has no $graph")
		}
		n = graph
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of definitions", n.Line)
	}
	defs := make([]Decl, 0, len(n.Content))
	for _, item := range n.Content {
		var d Decl
		if err := item.Decode(&d); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// ShortName returns the last path segment of an identifier's fragment, or
// of its path when there is no fragment.
func ShortName(id string) string {
	u, err := url.Parse(id)
	if err != nil {
		return id
	}
	if u.Fragment != "" {
		parts := strings.Split(u.Fragment, "/")
		return parts[len(parts)-1]
	}
	if u.Opaque != "" {
		return path.Base(u.Opaque)
	}
	parts := strings.Split(u.Path, "/")
	return parts[len(parts)-1]
}

// AvroName returns the unqualified name of an identifier: the part of the
// fragment after its last slash, or the identifier itself when it has no
// fragment.
func AvroName(id string) string {
	i := strings.IndexByte(id, '#')
	if i < 0 || i == len(id)-1 {
		return id
	}
	frg := id[i+1:]
	if j := strings.LastIndexByte(frg, '/'); j >= 0 {
		return frg[j+1:]
	}
	return frg
}
