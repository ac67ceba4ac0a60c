package backend

import "context"

type clientContextKey struct{}

// NewContext stores the browser's backend client in ctx.
func NewContext(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, c)
}

// FromContext returns the client stored in ctx, or nil.
func FromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(clientContextKey{}).(*Client)
	return c
}
