package client

import (
	"sync"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
	"github.com/zoobzio/forge/registry"
)

// Client is a short-lived, per-call handle bound to one resolved service
// endpoint and a snapshot of the factory's middleware chain at the moment
// it was created (spec.md §3 "Lifecycle", §4.4).
type Client struct {
	factory    *Factory
	clientName string
	endpoint   string
	resources  map[string]registry.Routes

	chainMu sync.Mutex
	chain   *middleware.Chain

	auth    middleware.Authorization
	timeout httpmsg.Timeout
}

// AddMiddleware prepends m to this Client's own chain only — it does not
// affect the factory or any other Client (spec.md §4.4).
func (c *Client) AddMiddleware(m middleware.Middleware) {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()
	c.chain.Add(m)
}

// Resource returns a RouteProxy bound to the named resource (spec.md §9
// "re-express [dynamic attribute access] as a resource(name) operation
// returning a RouteProxy").
func (c *Client) Resource(name string) (*RouteProxy, error) {
	routes, ok := c.resources[name]
	if !ok {
		return nil, &UnregisteredResourceError{Resource: name, Client: c.clientName}
	}
	return &RouteProxy{client: c, resource: name, routes: routes}, nil
}
