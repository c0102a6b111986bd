package salad

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// splitURL mirrors the generic URI split: scheme, authority, path, query and
// fragment, without rejecting references that net/url refuses to parse.
type splitURL struct {
	Scheme, Netloc, Path, Query, Fragment string
}

func split(raw string) splitURL {
	var s splitURL
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		s.Fragment = raw[i+1:]
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, ':'); i > 0 && isScheme(raw[:i]) {
		s.Scheme = strings.ToLower(raw[:i])
		raw = raw[i+1:]
	}
	if strings.HasPrefix(raw, "//") {
		raw = raw[2:]
		end := strings.IndexAny(raw, "/?")
		if end < 0 {
			end = len(raw)
		}
		s.Netloc = raw[:end]
		raw = raw[end:]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		s.Query = raw[i+1:]
		raw = raw[:i]
	}
	s.Path = raw
	return s
}

func isScheme(s string) bool {
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

func (s splitURL) String() string {
	out := s.Path
	if s.Netloc != "" || (s.Scheme == "file" || s.Scheme == "http" || s.Scheme == "https") && !strings.HasPrefix(out, "//") {
		if out != "" && out[0] != '/' {
			out = "/" + out
		}
		out = "//" + s.Netloc + out
	}
	if s.Scheme != "" {
		out = s.Scheme + ":" + out
	}
	if s.Query != "" {
		out += "?" + s.Query
	}
	if s.Fragment != "" {
		out += "#" + s.Fragment
	}
	return out
}

// URLJoin resolves ref against base. References that cannot be parsed are
// returned unchanged.
func URLJoin(base, ref string) string {
	if base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// NoRefScope marks a URI field without a ref scope. A ref scope of 0 is a
// real scope: the reference is appended to the whole base fragment.
const NoRefScope = -1

// ExpandURL resolves a reference found in a document against baseURI.
// Prefixes known to the vocabulary are expanded first. A scoped id is
// appended to the fragment of the base; a ref scope first drops that many
// trailing fragment segments. With vocabTerm set, short vocabulary terms
// are kept and expanded IRIs are mapped back to their terms.
func ExpandURL(ref, baseURI string, opts *LoadingOptions, scopedID, vocabTerm bool, refScope int) (string, error) {
	if ref == "@id" || ref == "@type" {
		return ref, nil
	}
	if vocabTerm {
		if _, ok := opts.Vocab[ref]; ok {
			return ref, nil
		}
	}
	if len(opts.Vocab) > 0 {
		if i := strings.IndexByte(ref, ':'); i >= 0 {
			if iri, ok := opts.Vocab[ref[:i]]; ok {
				ref = iri + ref[i+1:]
			}
		}
	}

	sp := split(ref)
	switch {
	case sp.Scheme == "http" || sp.Scheme == "https" || sp.Scheme == "file",
		strings.HasPrefix(ref, "$(") || strings.HasPrefix(ref, "${"):
	case scopedID && sp.Fragment == "":
		base := split(baseURI)
		frg := sp.Path
		if base.Fragment != "" {
			frg = base.Fragment + "/" + sp.Path
		}
		if base.Path == "" {
			base.Path = "/"
		}
		base.Fragment = frg
		ref = base.String()
	case refScope >= 0 && sp.Fragment == "":
		base := split(baseURI)
		parts := strings.Split(base.Fragment, "/")
		for n := refScope; n > 0 && len(parts) > 0; n-- {
			parts = parts[:len(parts)-1]
		}
		base.Fragment = strings.Join(append(parts, ref), "/")
		ref = base.String()
	default:
		ref = opts.fetcher().URLJoin(baseURI, ref)
	}

	if vocabTerm {
		if split(ref).Scheme == "" {
			return "", fmt.Errorf("term %q not in vocabulary", ref)
		}
		if term, ok := opts.RVocab[ref]; ok {
			return term, nil
		}
	}
	return ref, nil
}

// SaveRelativeURI is the inverse of ExpandURL: it rewrites uri relative to
// baseURL when both share a scheme and authority. Lists are handled item by
// item; other values are saved normally.
func SaveRelativeURI(uri any, baseURL string, scopedID bool, refScope int, relativeURIs bool) any {
	if !relativeURIs {
		return uri
	}
	if s, ok := uri.(string); ok && s == baseURL {
		return s
	}
	switch v := uri.(type) {
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, SaveRelativeURI(item, baseURL, scopedID, refScope, relativeURIs))
		}
		return out
	case string:
		u := split(v)
		b := split(baseURL)
		if u.Scheme != b.Scheme || u.Netloc != b.Netloc {
			return v
		}
		if u.Path != b.Path {
			p, err := filepath.Rel(path.Dir(b.Path), u.Path)
			if err != nil {
				return v
			}
			p = filepath.ToSlash(p)
			if u.Fragment != "" {
				p += "#" + u.Fragment
			}
			return p
		}
		baseFrag := b.Fragment + "/"
		if refScope > 0 {
			parts := strings.Split(baseFrag, "/")
			for i := 0; i < refScope && len(parts) > 0; i++ {
				parts = parts[:len(parts)-1]
			}
			baseFrag = strings.Join(parts, "/")
		}
		if strings.HasPrefix(u.Fragment, baseFrag) {
			return u.Fragment[len(baseFrag):]
		}
		return u.Fragment
	}
	return Save(uri, false, baseURL, relativeURIs)
}

// PrefixURL abbreviates uri with the longest matching namespace prefix
func PrefixURL(uri string, namespaces map[string]string) string {
	prefixes := make([]string, 0, len(namespaces))
	for k := range namespaces {
		prefixes = append(prefixes, k)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		a, b := namespaces[prefixes[i]], namespaces[prefixes[j]]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return prefixes[i] < prefixes[j]
	})
	for _, k := range prefixes {
		if v := namespaces[k]; v != "" && strings.HasPrefix(uri, v) {
			return k + ":" + uri[len(v):]
		}
	}
	return uri
}

// FileURI converts a local path to a file URI
func FileURI(p string) string {
	if strings.HasPrefix(p, "file://") {
		return p
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}

// DefaultBaseURI is the file URI of the working directory, with a trailing
// slash so relative references resolve inside it.
func DefaultBaseURI() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "/"
	}
	return FileURI(wd) + "/"
}

// BlankNode returns a fresh blank-node identifier
func BlankNode() string {
	return "_:" + uuid.NewString()
}

// IsNamespaced reports whether a document key carries a namespace prefix
func IsNamespaced(key string) bool {
	return strings.Contains(key, ":")
}

// IsEmpty reports whether a saved value should be omitted
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case *Map:
		return t.Len() == 0
	}
	return false
}

// StringOf returns v when it is a string and "" otherwise
func StringOf(v any) string {
	s, _ := v.(string)
	return s
}

// As returns v as a T, or the zero T when v holds something else
func As[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Ptr returns a pointer to v as a T, or nil when v is not a T. Optional
// fields of a concrete type are held this way.
func Ptr[T any](v any) *T {
	if t, ok := v.(T); ok {
		return &t
	}
	return nil
}
