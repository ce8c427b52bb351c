// Package transport is the boundary between the call-plane and the actual
// HTTP engine. Grounded on the teacher's provider-interface idiom
// (cache.CacheProvider, telemetry.TelemetryProvider): a small interface
// naming exactly the operations the domain needs, plus one concrete
// default implementation over net/http.
package transport

import (
	"context"

	"github.com/zoobzio/forge/httpmsg"
)

// Transport sends a resolved httpmsg.Request and returns an httpmsg.Response
// or a typed transport failure (httpmsg.TransportError / httpmsg.TimeoutError).
type Transport interface {
	Do(ctx context.Context, req *httpmsg.Request, timeout httpmsg.Timeout) (*httpmsg.Response, error)
}
