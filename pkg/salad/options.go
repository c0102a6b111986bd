package salad

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Fetcher retrieves referenced documents
type Fetcher interface {
	FetchText(ctx context.Context, uri string) (string, error)
	URLJoin(base, ref string) string
}

// DefaultFetcher reads file URIs from disk and http(s) URIs over the network
type DefaultFetcher struct {
	Client *http.Client
}

// FetchText implements Fetcher
func (f DefaultFetcher) FetchText(ctx context.Context, uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI %q: %w", uri, err)
	}
	switch u.Scheme {
	case "file", "":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", uri, err)
		}
		return string(data), nil
	case "http", "https":
		client := f.Client
		if client == nil {
			client = &http.Client{Timeout: 30 * time.Second}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("error fetching %s: %w", uri, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("error fetching %s: %s", uri, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("error fetching %s: %w", uri, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported scheme in URI %q", uri)
}

// URLJoin implements Fetcher
func (DefaultFetcher) URLJoin(base, ref string) string {
	return URLJoin(base, ref)
}

// LoadingOptions is the context threaded through every loader call
type LoadingOptions struct {
	Vocab      map[string]string
	RVocab     map[string]string
	Namespaces map[string]string
	// Idx caches loaded documents by URI
	Idx     map[string]any
	FileURI string
	// OriginalDoc is the mapping a record was parsed from
	OriginalDoc any
	Fetcher     Fetcher
	Imports     []string
	Includes    []string
	Context     context.Context
}

// NewLoadingOptions creates options over the given vocabulary tables
func NewLoadingOptions(vocab, rvocab map[string]string) *LoadingOptions {
	return &LoadingOptions{
		Vocab:   copyStrings(vocab),
		RVocab:  copyStrings(rvocab),
		Idx:     make(map[string]any),
		Fetcher: DefaultFetcher{},
		Context: context.Background(),
	}
}

// Copy returns options whose maps are copies of o's, so a record holding
// the copy is unaffected by later loads.
func (o *LoadingOptions) Copy() *LoadingOptions {
	if o == nil {
		return NewLoadingOptions(nil, nil)
	}
	c := o.derive()
	c.Idx = make(map[string]any, len(o.Idx))
	for k, v := range o.Idx {
		c.Idx[k] = v
	}
	return c
}

// derive copies everything except the document index, which stays shared
// with o so documents loaded through the result are visible to o.
func (o *LoadingOptions) derive() *LoadingOptions {
	if o == nil {
		return NewLoadingOptions(nil, nil)
	}
	c := *o
	c.Vocab = copyStrings(o.Vocab)
	c.RVocab = copyStrings(o.RVocab)
	if o.Namespaces != nil {
		c.Namespaces = copyStrings(o.Namespaces)
	}
	if c.Idx == nil {
		c.Idx = make(map[string]any)
	}
	c.Imports = append([]string(nil), o.Imports...)
	c.Includes = append([]string(nil), o.Includes...)
	return &c
}

// WithNamespaces returns derived options whose vocabulary also maps every
// namespace prefix to its IRI.
func (o *LoadingOptions) WithNamespaces(ns map[string]string) *LoadingOptions {
	c := o.derive()
	c.Namespaces = copyStrings(ns)
	for k, v := range ns {
		c.Vocab[k] = v
		c.RVocab[v] = k
	}
	return c
}

func (o *LoadingOptions) fetcher() Fetcher {
	if o.Fetcher == nil {
		return DefaultFetcher{}
	}
	return o.Fetcher
}

func (o *LoadingOptions) ctx() context.Context {
	if o.Context == nil {
		return context.Background()
	}
	return o.Context
}

func copyStrings(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
