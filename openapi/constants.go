package openapi

// Version is the OpenAPI Specification version written to generated documents.
const Version = "3.1.0"

// Parameter locations
const (
	// ParamInPath indicates the parameter is part of the URL path
	ParamInPath = "path"
	// ParamInQuery indicates the parameter is in the query string
	ParamInQuery = "query"
	// ParamInHeader indicates the parameter is a request header
	ParamInHeader = "header"
	// ParamInCookie indicates the parameter is a cookie
	ParamInCookie = "cookie"
)

// Media types recognized when extracting examples.
const (
	MediaTypeJSON      = "application/json"
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"
	MediaTypeText      = "text/plain"
	MediaTypeBinary    = "application/octet-stream"
)

// SchemaRefPrefix is the prefix of local component schema references.
const SchemaRefPrefix = "#/components/schemas/"

// SchemaRef returns a local reference to a named component schema.
func SchemaRef(name string) string {
	return SchemaRefPrefix + name
}
