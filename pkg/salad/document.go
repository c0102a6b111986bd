package salad

import (
	"fmt"
	"strings"
)

// DocumentLoad loads a document value with the root loader. A string is
// fetched as a URI; a mapping may carry $base, $namespaces and $graph.
// Every loaded document is cached in opts.Idx under its base URI.
func DocumentLoad(l Loader, doc any, baseURI string, opts *LoadingOptions) (any, error) {
	switch v := doc.(type) {
	case string:
		return documentLoadByURL(l, opts.fetcher().URLJoin(baseURI, v), opts)

	case *Map:
		docURI := baseURI
		if b, ok := v.Get("$base"); ok {
			if s, ok := b.(string); ok {
				baseURI = s
			}
		}
		if ns, ok := v.Get("$namespaces"); ok {
			opts = opts.WithNamespaces(stringMap(ns))
		} else {
			opts = opts.derive()
		}

		v = v.Copy()
		v.Delete("$namespaces")
		v.Delete("$schemas")
		v.Delete("$base")

		var (
			result any
			err    error
		)
		if graph, ok := v.Get("$graph"); ok {
			result, err = l.Load(graph, baseURI, opts, "")
		} else {
			result, err = l.Load(v, baseURI, opts, baseURI)
		}
		if err != nil {
			return nil, err
		}
		opts.Idx[baseURI] = result
		if docURI != baseURI {
			opts.Idx[docURI] = result
		}
		return result, nil

	case []any:
		result, err := l.Load(v, baseURI, opts, "")
		if err != nil {
			return nil, err
		}
		opts.Idx[baseURI] = result
		return result, nil
	}
	return nil, NewValidationError(fmt.Sprintf("Expected URI string, mapping or sequence, got %s", typeName(doc)))
}

func documentLoadByURL(l Loader, uri string, opts *LoadingOptions) (any, error) {
	if v, ok := opts.Idx[uri]; ok {
		return v, nil
	}
	docURL, _, _ := strings.Cut(uri, "#")
	text, err := opts.fetcher().FetchText(opts.ctx(), docURL)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	doc, err := ParseYAML([]byte(text), docURL)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	child := opts.derive()
	child.FileURI = docURL
	result, err := DocumentLoad(l, doc, docURL, child)
	if err != nil {
		return nil, err
	}
	if v, ok := child.Idx[uri]; ok {
		return v, nil
	}
	return result, nil
}

func stringMap(v any) map[string]string {
	out := make(map[string]string)
	m, ok := v.(*Map)
	if !ok {
		return out
	}
	for _, k := range m.Keys() {
		val, _ := m.Get(k)
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}
