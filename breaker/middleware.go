package breaker

import (
	"context"
	"errors"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
)

// ExclusionPredicate reports whether an outcome (response, error) should be
// excluded from the breaker's failure count — by default, any HTTP 4xx
// (spec.md §4.6 "Failures of category client error... do not count").
type ExclusionPredicate func(resp *httpmsg.Response, err error) bool

// DefaultExclusion excludes client errors (400-499) only; transport
// failures, timeouts, and 5xx responses all count.
func DefaultExclusion(resp *httpmsg.Response, _ error) bool {
	return resp != nil && resp.IsClientError()
}

// Middleware implements the per-client circuit breaker (spec.md §4.6): on
// entry, acquire the breaker for the call's client name; short-circuit with
// OpenError while open; otherwise invoke next and report success/failure.
type Middleware struct {
	Table     Table
	Exclusion ExclusionPredicate
}

// New builds a breaker middleware over table with the default 4xx
// exclusion predicate.
func New(table Table) *Middleware {
	return &Middleware{Table: table, Exclusion: DefaultExclusion}
}

func (m *Middleware) Wrap() middleware.Middleware {
	exclude := m.Exclusion
	if exclude == nil {
		exclude = DefaultExclusion
	}
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *httpmsg.Request, info middleware.CallInfo) (*httpmsg.Response, error) {
			b := m.Table.Get(info.ClientName)
			if !b.Allow() {
				return nil, &OpenError{ClientName: info.ClientName}
			}

			resp, err := next(ctx, req, info)

			if ctx.Err() != nil {
				return resp, err // cancelled: no breaker accounting (spec.md §5)
			}

			var openErr *OpenError
			if errors.As(err, &openErr) {
				return resp, err // short-circuited downstream, not this breaker's concern
			}

			if exclude(resp, err) {
				return resp, err // excluded outcomes affect neither count (spec.md §4.6)
			}
			if err != nil || (resp != nil && !resp.IsSuccess()) {
				b.Failure()
			} else {
				b.Success()
			}
			return resp, err
		}
	}
}
