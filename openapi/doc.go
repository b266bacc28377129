// Package openapi provides the OpenAPI 3.1 object model produced by oascapture.
//
// The types mirror the OpenAPI Specification 3.1 vocabulary (openapi, info,
// servers, paths, components, security) and marshal to both JSON and YAML.
// Paths keep the order in which they were first observed so that generated
// documents are stable across runs.
//
// Reference: https://spec.openapis.org/oas/v3.1.0.html
//
// # Schema references
//
// A Schema that describes a registered Go type carries the type in GoType
// and an empty Ref until the owning collector resolves the component name.
// GoType never appears in serialized output.
//
// # Logging
//
// The package also defines the minimal [Logger] interface used across
// oascapture, with a [NopLogger] default and a [SlogAdapter] for log/slog.
package openapi
