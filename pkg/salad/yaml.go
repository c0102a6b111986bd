package salad

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML or JSON document into the document model,
// recording key positions and tagging every mapping with uri.
func ParseYAML(data []byte, uri string) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	return fromNode(root.Content[0], uri)
}

func fromNode(n *yaml.Node, uri string) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := NewMap()
		m.Filename = uri
		m.Start = Pos{Line: n.Line, Col: n.Column}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind == yaml.AliasNode {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%s:%d:%d: mapping keys must be scalars", uri, k.Line, k.Column)
			}
			if k.Tag == "!!merge" {
				if err := mergeInto(m, v, uri); err != nil {
					return nil, err
				}
				continue
			}
			val, err := fromNode(v, uri)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, val)
			m.SetPos(k.Value, Pos{Line: k.Line, Col: k.Column})
		}
		return m, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := fromNode(item, uri)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil

	case yaml.AliasNode:
		return fromNode(n.Alias, uri)

	case yaml.ScalarNode:
		// timestamps stay strings
		if n.Tag == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s:%d:%d: %w", uri, n.Line, n.Column, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%s:%d:%d: unsupported YAML node", uri, n.Line, n.Column)
}

func mergeInto(m *Map, n *yaml.Node, uri string) error {
	src, err := fromNode(n, uri)
	if err != nil {
		return err
	}
	var sources []*Map
	switch v := src.(type) {
	case *Map:
		sources = append(sources, v)
	case []any:
		for _, item := range v {
			if sm, ok := item.(*Map); ok {
				sources = append(sources, sm)
			}
		}
	}
	for _, sm := range sources {
		for _, k := range sm.Keys() {
			if m.Has(k) {
				continue
			}
			v, _ := sm.Get(k)
			m.Set(k, v)
			if p, ok := sm.Pos(k); ok {
				m.SetPos(k, p)
			}
		}
	}
	return nil
}
