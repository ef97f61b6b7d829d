// Package openapi describes the HTTP contract of the apartment-search
// component. The OpenAPI document is embedded, loaded and validated with
// kin-openapi; the JSON Schema of submissions and events is reflected from the
// intake types with invopop/jsonschema.
package openapi
