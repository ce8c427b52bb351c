package client

import (
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
)

// ClientOption configures one Factory.Call invocation — the "client-level"
// rung of the auth precedence ladder (spec.md §4.3: call > client >
// factory). There is no client-level timeout: a Client always uses the
// factory's timeout unless a call overrides it.
type ClientOption func(*clientSettings)

type clientSettings struct {
	auth *middleware.Authorization
}

// WithClientAuth sets the client-level Authorization (spec.md §6
// "Client(client_name, auth?)").
func WithClientAuth(a middleware.Authorization) ClientOption {
	return func(s *clientSettings) { s.auth = &a }
}

// CallOption configures one RouteProxy verb invocation — the "call-level"
// rung, the most specific and highest-precedence of the three.
type CallOption func(*callSettings)

type callSettings struct {
	auth    *middleware.Authorization
	timeout *httpmsg.Timeout
}

// WithCallAuth sets the call-level Authorization.
func WithCallAuth(a middleware.Authorization) CallOption {
	return func(s *callSettings) { s.auth = &a }
}

// WithCallTimeout sets the call-level Timeout, overriding client and
// factory defaults.
func WithCallTimeout(t httpmsg.Timeout) CallOption {
	return func(s *callSettings) { s.timeout = &t }
}
