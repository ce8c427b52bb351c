package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
	"github.com/zoobzio/forge/tracing"
)

func TestWrapRecordsSpanWithSubstitutedPath(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	mw := &tracing.Middleware{Tracer: tp.Tracer("forge/test")}

	chain := &middleware.Chain{}
	chain.Add(mw.Wrap())
	handler := chain.Build(func(_ context.Context, _ *httpmsg.Request, _ middleware.CallInfo) (*httpmsg.Response, error) {
		return httpmsg.NewResponse(204, httpmsg.Header{}, nil), nil
	})

	req := httpmsg.New(httpmsg.GET, "/users/{id}")
	req.Path["id"] = "7"
	info := middleware.CallInfo{ClientName: "users", Method: httpmsg.GET, Path: "/users/{id}"}

	resp, err := handler(context.Background(), req, info)
	require.NoError(t, err)
	require.Equal(t, 204, resp.StatusCode)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /users/7", spans[0].Name())
}
