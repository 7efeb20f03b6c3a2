// Package kit provides the transport-agnostic endpoint primitives the
// service surfaces are built on: an Endpoint function type, middleware
// chaining, request-scoped context keys, and an MCP tool adapter.
package kit

import "context"

// Endpoint is a single transport-agnostic operation. Transports
// (HTTP handlers, MCP tools) decode into a typed request, call the
// endpoint, and encode the response.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(next Endpoint) Endpoint

// Chain composes middlewares so the first argument is outermost.
func Chain(mw ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}
