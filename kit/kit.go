// Package kit provides small transport glue shared by the ingest
// surfaces: the transport-agnostic Endpoint shape and its MCP binding.
package kit

import "context"

// Endpoint is a transport-agnostic operation: typed request in, typed
// response out. HTTP handlers and MCP tools both wrap one of these.
type Endpoint func(ctx context.Context, req any) (any, error)
