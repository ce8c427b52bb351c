// Package tracing implements the distributed tracing middleware
// (spec.md §4.7 "Tracing"): one CLIENT-kind span per call, trace-context
// injection into outbound headers, and span tags for client name, path
// pattern, querystring, and (whenever a response is returned and the call
// was not cancelled) status code. Uses
// go.opentelemetry.io/otel + .../otel/trace, both direct teacher
// dependencies (wired through otelgin on the teacher's inbound side; here
// wired through our own middleware instead of a web framework adapter).
package tracing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
)

// Middleware opens a span per call against a configured tracer.
type Middleware struct {
	Tracer     trace.Tracer
	Propagator propagation.TextMapPropagator
}

// New builds a tracing middleware using the global TracerProvider under
// instrumentationName, and the global TextMapPropagator — the host
// application owns exporter wiring; this module only creates spans against
// the ambient providers (DESIGN.md).
func New(instrumentationName string) *Middleware {
	return &Middleware{
		Tracer:     otel.Tracer(instrumentationName),
		Propagator: otel.GetTextMapPropagator(),
	}
}

type headerCarrier struct{ h map[string]string }

func (c headerCarrier) Get(key string) string         { return c.h[key] }
func (c headerCarrier) Set(key, value string)         { c.h[key] = value }
func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.h))
	for k := range c.h {
		keys = append(keys, k)
	}
	return keys
}

func (m *Middleware) Wrap() middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *httpmsg.Request, info middleware.CallInfo) (*httpmsg.Response, error) {
			resolvedPath, err := req.ResolveURL()
			if err != nil {
				resolvedPath = req.Pattern
			}
			spanPath := resolvedPath
			if i := strings.IndexByte(spanPath, '?'); i >= 0 {
				spanPath = spanPath[:i]
			}
			spanName := fmt.Sprintf("%s %s", req.Method, spanPath)
			ctx, span := m.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(
				attribute.String("client_name", info.ClientName),
				attribute.String("http.path", req.Pattern),
				attribute.String("http.querystring", querystring(resolvedPath)),
			)

			if m.Propagator != nil {
				m.Propagator.Inject(ctx, headerCarrier{h: req.Header})
			}

			resp, err := next(ctx, req, info)

			if ctx.Err() != nil {
				return resp, err // cancelled: no http.status_code tag (spec.md §5)
			}
			if resp != nil {
				span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
			}
			if err != nil {
				span.RecordError(err)
			}
			return resp, err
		}
	}
}

func querystring(resolvedURL string) string {
	u, err := url.Parse(resolvedURL)
	if err != nil {
		return ""
	}
	return u.RawQuery
}
