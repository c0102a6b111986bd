package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrNoSchemas is returned for documents without components.schemas, which
// leaves nothing to compile
var ErrNoSchemas = errors.New("document has no components.schemas")

// Load reads an OpenAPI 3 document from a local path or an HTTP(S) URL.
// External references are followed so split component files load as one.
func Load(ctx context.Context, location string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx

	var doc *openapi3.T
	var err error
	if u, perr := url.Parse(location); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", location, err)
	}
	return doc, nil
}

// Validate loads the document at location and checks it is a valid OpenAPI
// document with component schemas. Examples are not validated.
func Validate(ctx context.Context, location string) error {
	doc, err := Load(ctx, location)
	if err != nil {
		return err
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("invalid OpenAPI document %s: %w", location, err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return ErrNoSchemas
	}
	return nil
}
