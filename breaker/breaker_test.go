package breaker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/forge/breaker"
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
)

func terminal(status int) middleware.Handler {
	return func(_ context.Context, _ *httpmsg.Request, _ middleware.CallInfo) (*httpmsg.Response, error) {
		return httpmsg.NewResponse(status, httpmsg.Header{}, nil), nil
	}
}

// S3 — Breaker opens (spec.md §8 scenario S3).
func TestBreakerOpensAndRecovers(t *testing.T) {
	table := breaker.NewMemoryTable(breaker.Config{Threshold: 2, TTL: 100 * time.Millisecond}, nil)
	mw := breaker.New(table)
	chain := &middleware.Chain{}
	chain.Add(mw.Wrap())

	dummyInfo := middleware.CallInfo{ClientName: "dummy"}
	otherInfo := middleware.CallInfo{ClientName: "other"}

	fail := chain.Build(terminal(500))
	ok := chain.Build(terminal(200))

	_, err := fail(context.Background(), httpmsg.New(httpmsg.GET, "/"), dummyInfo)
	require.NoError(t, err)
	_, err = fail(context.Background(), httpmsg.New(httpmsg.GET, "/"), dummyInfo)
	require.NoError(t, err)

	_, err = fail(context.Background(), httpmsg.New(httpmsg.GET, "/"), dummyInfo)
	var openErr *breaker.OpenError
	require.ErrorAs(t, err, &openErr)

	_, err = ok(context.Background(), httpmsg.New(httpmsg.GET, "/"), otherInfo)
	require.NoError(t, err, "other clients are unaffected")

	time.Sleep(110 * time.Millisecond)

	resp, err := ok(context.Background(), httpmsg.New(httpmsg.GET, "/"), dummyInfo)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	resp, err = ok(context.Background(), httpmsg.New(httpmsg.GET, "/"), dummyInfo)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

// S4 — 4xx excluded (spec.md §8 scenario S4).
func TestBreakerExcludesClientErrors(t *testing.T) {
	table := breaker.NewMemoryTable(breaker.Config{Threshold: 2, TTL: time.Second}, nil)
	mw := breaker.New(table)
	chain := &middleware.Chain{}
	chain.Add(mw.Wrap())
	info := middleware.CallInfo{ClientName: "dummy"}

	fail := chain.Build(terminal(422))
	ok := chain.Build(terminal(200))

	for i := 0; i < 2; i++ {
		_, err := fail(context.Background(), httpmsg.New(httpmsg.GET, "/"), info)
		require.NoError(t, err)
	}

	resp, err := ok(context.Background(), httpmsg.New(httpmsg.GET, "/"), info)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

type fakeBackend struct{ snaps map[string]breaker.Snapshot }

func (f *fakeBackend) Load(name string) (breaker.Snapshot, bool, error) {
	s, ok := f.snaps[name]
	return s, ok, nil
}

func (f *fakeBackend) Save(name string, s breaker.Snapshot) error {
	f.snaps[name] = s
	return nil
}

func TestBackendHydratesAndMirrorsState(t *testing.T) {
	backend := &fakeBackend{snaps: map[string]breaker.Snapshot{}}
	table := breaker.NewMemoryTableWithBackend(breaker.Config{Threshold: 1, TTL: time.Second}, nil, backend)
	b := table.Get("dummy")
	b.Failure()
	require.Equal(t, breaker.Open, backend.snaps["dummy"].State)

	// A second table sharing the same backend (simulating a second process)
	// picks up the already-open state for a breaker it has never seen.
	table2 := breaker.NewMemoryTableWithBackend(breaker.Config{Threshold: 1, TTL: time.Second}, nil, backend)
	require.Equal(t, breaker.Open, table2.Get("dummy").State())
}

func TestHooksFanOut(t *testing.T) {
	var events []breaker.Event
	hooks := breaker.NewHooks()
	hooks.Subscribe(func(e breaker.Event) { events = append(events, e) })
	table := breaker.NewMemoryTable(breaker.Config{Threshold: 1, TTL: time.Second}, hooks)
	mw := breaker.New(table)
	chain := &middleware.Chain{}
	chain.Add(mw.Wrap())
	info := middleware.CallInfo{ClientName: "dummy"}
	fail := chain.Build(terminal(500))

	_, _ = fail(context.Background(), httpmsg.New(httpmsg.GET, "/"), info)

	require.NotEmpty(t, events)
	require.Equal(t, breaker.Failed, events[0].Type)
	require.Equal(t, breaker.StateChanged, events[1].Type)
	require.Equal(t, breaker.Open, events[1].NewState)
}
