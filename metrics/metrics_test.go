package metrics_test

import (
	"context"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/forge/breaker"
	"github.com/zoobzio/forge/cache"
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/metrics"
	"github.com/zoobzio/forge/middleware"
)

func TestRequestLatencyRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.Options{Namespace: "forge_test", Registerer: reg, Version: "test"})

	chain := &middleware.Chain{}
	chain.Add(m.Wrap())
	handler := chain.Build(func(_ context.Context, _ *httpmsg.Request, _ middleware.CallInfo) (*httpmsg.Response, error) {
		return httpmsg.NewResponse(200, httpmsg.Header{}, nil), nil
	})

	_, err := handler(context.Background(), httpmsg.New(httpmsg.GET, "/x"), middleware.CallInfo{ClientName: "c", Method: httpmsg.GET, Path: "/x"})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.True(t, hasMetric(families, "forge_test_request_latency_seconds"))
}

func TestBreakerHookUpdatesGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.Options{Namespace: "forge_test2", Registerer: reg, Version: "test"})

	hooks := breaker.NewHooks()
	hooks.Subscribe(m.BreakerHook())
	table := breaker.NewMemoryTable(breaker.Config{Threshold: 1}, hooks)
	b := table.Get("dummy")
	b.Failure()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.True(t, hasMetric(families, "forge_test2_circuit_breaker_state"))
	require.True(t, hasMetric(families, "forge_test2_circuit_breaker_error"))
}

func TestCacheRecorderImplementsInterface(t *testing.T) {
	var _ cache.Recorder = (*metrics.Metrics)(nil)
}

func hasMetric(families []*dto.MetricFamily, name string) bool {
	for _, f := range families {
		if f.GetName() == name {
			return true
		}
	}
	return false
}
