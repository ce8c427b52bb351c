package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/forge/cache"
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
)

func okResponse(body string, headers map[string]string) *httpmsg.Response {
	h := httpmsg.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return httpmsg.NewResponse(200, h, body)
}

// S2 — Vary cache (spec.md §8 scenario S2).
func TestMiddlewareVaryCache(t *testing.T) {
	calls := 0
	mw := cache.New(cache.NewMemoryStore())
	chain := &middleware.Chain{}
	chain.Add(mw.Wrap())

	terminal := func(_ context.Context, req *httpmsg.Request, _ middleware.CallInfo) (*httpmsg.Response, error) {
		calls++
		country := req.Header["X-Country-Code"]
		body := "En Francais"
		if country != "FR" {
			body = "Other"
		}
		return okResponse(body, map[string]string{
			"Cache-Control": "max-age=42, public",
			"Vary":          "X-Country-Code",
		}), nil
	}
	handler := chain.Build(terminal)
	info := middleware.CallInfo{Method: httpmsg.GET, ClientName: "dummy", Path: "/"}

	req1 := httpmsg.New(httpmsg.GET, "/")
	req1.Header["X-Country-Code"] = "FR"
	resp1, err := handler(context.Background(), req1, info)
	require.NoError(t, err)
	require.Equal(t, "En Francais", resp1.JSON)
	require.Equal(t, 1, calls)

	req2 := httpmsg.New(httpmsg.GET, "/")
	req2.Header["X-Country-Code"] = "FR"
	resp2, err := handler(context.Background(), req2, info)
	require.NoError(t, err)
	require.Equal(t, "En Francais", resp2.JSON)
	require.Equal(t, 1, calls, "second identical request must not invoke the transport")

	req3 := httpmsg.New(httpmsg.GET, "/")
	req3.Header["X-Country-Code"] = "EN"
	resp3, err := handler(context.Background(), req3, info)
	require.NoError(t, err)
	require.Equal(t, "Other", resp3.JSON)
	require.Equal(t, 2, calls, "differing Vary header must miss the cache")
}

func TestMiddlewareMaxAgeZeroNotCached(t *testing.T) {
	calls := 0
	mw := cache.New(cache.NewMemoryStore())
	chain := &middleware.Chain{}
	chain.Add(mw.Wrap())
	terminal := func(_ context.Context, _ *httpmsg.Request, _ middleware.CallInfo) (*httpmsg.Response, error) {
		calls++
		return okResponse("x", map[string]string{"Cache-Control": "max-age=0, public"}), nil
	}
	handler := chain.Build(terminal)
	info := middleware.CallInfo{Method: httpmsg.GET, ClientName: "dummy", Path: "/"}

	for i := 0; i < 2; i++ {
		_, err := handler(context.Background(), httpmsg.New(httpmsg.GET, "/"), info)
		require.NoError(t, err)
	}
	require.Equal(t, 2, calls, "max-age=0 must never be cached")
}

func TestMiddlewareBypassesNonGET(t *testing.T) {
	calls := 0
	mw := cache.New(cache.NewMemoryStore())
	chain := &middleware.Chain{}
	chain.Add(mw.Wrap())
	terminal := func(_ context.Context, _ *httpmsg.Request, _ middleware.CallInfo) (*httpmsg.Response, error) {
		calls++
		return okResponse("x", map[string]string{"Cache-Control": "max-age=42, public"}), nil
	}
	handler := chain.Build(terminal)
	info := middleware.CallInfo{Method: httpmsg.POST, ClientName: "dummy", Path: "/"}
	for i := 0; i < 2; i++ {
		_, err := handler(context.Background(), httpmsg.New(httpmsg.POST, "/"), info)
		require.NoError(t, err)
	}
	require.Equal(t, 2, calls, "POST requests bypass the cache under the default policy")
}

func TestStoreExpiry(t *testing.T) {
	s := cache.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), "k", "v", 10*time.Millisecond))
	v, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)

	time.Sleep(20 * time.Millisecond)
	_, ok, err = s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
}
