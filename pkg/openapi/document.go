package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed api.yaml
var apiDocument []byte

// Route is one documented operation.
type Route struct {
	Method      string
	Path        string
	OperationID string
}

// Load parses the embedded document, points its server at basePath and
// validates it.
func Load(ctx context.Context, basePath string) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(apiDocument)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	spec.Servers = openapi3.Servers{{URL: serverURL(basePath)}}

	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return spec, nil
}

// MarshalDocument returns the validated document as JSON.
func MarshalDocument(ctx context.Context, basePath string) ([]byte, error) {
	spec, err := Load(ctx, basePath)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}
	return data, nil
}

// Routes lists every operation in spec sorted by path then method.
func Routes(spec *openapi3.T) []Route {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	var routes []Route
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			routes = append(routes, Route{
				Method:      strings.ToUpper(method),
				Path:        path,
				OperationID: op.OperationID,
			})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	return routes
}

func serverURL(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}
