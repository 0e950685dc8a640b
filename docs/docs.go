// Package docs carries the OpenAPI description of the HTTP API. The
// document is maintained by hand and served at /docs/doc.json for the
// Swagger UI.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPI []byte
