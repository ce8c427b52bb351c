// Package middleware implements the call-stack composition model
// (spec.md §4.4): a middleware is a function next → handler, both of
// signature (ctx, *httpmsg.Request, CallInfo) → (*httpmsg.Response, error),
// where CallInfo carries the method, client name, path, and resource.
package middleware

import (
	"context"

	"github.com/zoobzio/forge/httpmsg"
)

// CallInfo carries the call's identity through the chain so middlewares can
// key metrics, cache entries, and breaker state without threading extra
// parameters everywhere.
type CallInfo struct {
	Method     httpmsg.Method
	ClientName string
	Path       string // the unresolved route pattern, for low-cardinality labels
	Resource   string
}

// Handler sends a request and returns a response or error — the terminal
// shape of the chain is a Handler wrapping the transport.
type Handler func(ctx context.Context, req *httpmsg.Request, info CallInfo) (*httpmsg.Response, error)

// Middleware wraps a Handler to produce another Handler.
type Middleware func(next Handler) Handler

// Initializer is registered on the factory with Factory.AddInitializer;
// Factory.Initialize calls each one exactly once, however many times it is
// called (spec.md §4.4).
type Initializer interface {
	Initialize() error
}

// Chain is an ordered, prepend-registering list of Middleware. The factory
// holds one; each Client snapshots it at creation time (spec.md §4.4,
// §8 invariant 6).
type Chain struct {
	items []Middleware
}

// Add prepends m so it runs outermost relative to everything already in the
// chain (spec.md §4.4: "add_middleware... prepends").
func (c *Chain) Add(m Middleware) {
	c.items = append([]Middleware{m}, c.items...)
}

// Snapshot returns an independent copy of the chain's current middleware
// order, safe to store on a Client without aliasing the factory's slice.
func (c *Chain) Snapshot() *Chain {
	cp := make([]Middleware, len(c.items))
	copy(cp, c.items)
	return &Chain{items: cp}
}

// Build composes the chain around a terminal Handler (the transport call).
// Middlewares execute outer-to-inner on descent, inner-to-outer on ascent
// (spec.md §5 "Ordering").
func (c *Chain) Build(terminal Handler) Handler {
	h := terminal
	// items[0] is the most recently added middleware and must end up
	// outermost, so wrap starting from the oldest entry.
	for i := len(c.items) - 1; i >= 0; i-- {
		h = c.items[i](h)
	}
	return h
}

// Len reports how many middlewares are currently registered.
func (c *Chain) Len() int { return len(c.items) }
