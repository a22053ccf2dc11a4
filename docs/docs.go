// Package docs embeds the OpenAPI description served by the HTTP router.
package docs

import _ "embed"

//go:embed swagger.yml
var Swagger []byte
