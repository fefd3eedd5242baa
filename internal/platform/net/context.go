// Package net holds transport neutral request context and the error wire envelope
package net

import (
	"context"
	"slices"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Principal is the authenticated caller resolved from an API key
type Principal struct {
	Subject      string
	Capabilities []string
}

// Can reports whether the principal holds the exact capability string
func (p Principal) Can(capability string) bool {
	return slices.Contains(p.Capabilities, capability)
}

type principalKey struct{}

// WithRequestID stores reqID where chi's GetReqID finds it
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithPrincipal attaches the authenticated principal
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal and whether the request was authenticated
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
