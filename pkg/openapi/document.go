// Package openapi serves the embedded OpenAPI description of the HTTP API.
package openapi

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var specData []byte

// Load parses and validates the embedded document
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(specData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI specification: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI specification: %w", err)
	}
	return doc, nil
}

// JSON returns the validated document stamped with version, encoded as JSON
func JSON(ctx context.Context, version string) ([]byte, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	if version != "" {
		doc.Info.Version = version
	}
	return doc.MarshalJSON()
}
