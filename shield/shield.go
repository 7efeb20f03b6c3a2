// Package shield provides reusable HTTP middleware for the conversion
// service: security headers, request body limits, request tracing,
// database-driven rate limiting, and HEAD method handling.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
//	r.Use(shield.MaxJSONBody(4 << 20))
//	r.Use(shield.TraceID)
//	r.Use(shield.NewRateLimiter(db, "/healthz").Middleware)
//
// Or apply the default API stack in one call:
//
//	stack, rl := shield.DefaultAPIStack(db)
//	if rl != nil {
//	    rl.StartReloader(done)
//	}
//	for _, mw := range stack {
//	    r.Use(mw)
//	}
package shield

import (
	"database/sql"
	"net/http"
)

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "shield_logger"

// DefaultAPIStack returns the standard middleware stack for the JSON API.
// Middleware is ordered: HeadToGet, SecurityHeaders, MaxJSONBody, TraceID,
// RateLimiter. The rate limiter is only included when db is non-nil; the
// returned handle is nil otherwise. Health checks (/healthz) bypass
// rate limiting.
func DefaultAPIStack(db *sql.DB) ([]func(http.Handler) http.Handler, *RateLimiter) {
	stack := []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		MaxJSONBody(4 << 20),
		TraceID,
	}
	var rl *RateLimiter
	if db != nil {
		rl = NewRateLimiter(db, "/healthz")
		stack = append(stack, rl.Middleware)
	}
	return stack, rl
}
