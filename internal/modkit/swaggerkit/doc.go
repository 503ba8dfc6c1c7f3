package swaggerkit

import _ "embed"

// docJSON is the hand maintained OpenAPI document of /api/v1
//
//go:embed openapi.json
var docJSON []byte
