package models

import "context"

type ctxKeyClaims struct{}

// WithClaims stores the verified token claims of the caller.
func WithClaims(ctx context.Context, claims *CustomClaims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims{}, claims)
}

// ClaimsFromContext returns the caller's claims, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *CustomClaims {
	c, _ := ctx.Value(ctxKeyClaims{}).(*CustomClaims)
	return c
}
