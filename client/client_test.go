package client_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/forge/client"
	"github.com/zoobzio/forge/discovery"
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
	"github.com/zoobzio/forge/registry"
)

func typeOf(v any) reflect.Type { return reflect.TypeOf(v) }

type fakeTransport struct {
	do func(ctx context.Context, req *httpmsg.Request, timeout httpmsg.Timeout) (*httpmsg.Response, error)
}

func (f *fakeTransport) Do(ctx context.Context, req *httpmsg.Request, timeout httpmsg.Timeout) (*httpmsg.Response, error) {
	return f.do(ctx, req, timeout)
}

type UserReq struct {
	Username string `forge:"path,alias=username"`
}

type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

func setupUserClient(t *testing.T, tr *fakeTransport) *client.Client {
	t.Helper()
	sd := discovery.NewStatic(map[string]string{"user/v1": "https://u.v1"})
	reg := registry.New()
	err := reg.Register("api_user", "users", "user", "/users/{username}",
		map[httpmsg.Method]registry.Contract{
			httpmsg.GET: {RequestType: typeOf(UserReq{}), ResponseType: typeOf(User{})},
		},
		registry.RegisterOptions{Version: "v1"},
	)
	require.NoError(t, err)

	f := client.NewFactory(sd, client.WithTransport(tr), client.WithRegistry(reg))
	c, err := f.Call(context.Background(), "api_user")
	require.NoError(t, err)
	return c
}

// S1 — Happy GET (spec.md §8 scenario S1).
func TestHappyGet(t *testing.T) {
	var captured *httpmsg.Request
	tr := &fakeTransport{do: func(_ context.Context, req *httpmsg.Request, _ httpmsg.Timeout) (*httpmsg.Response, error) {
		captured = req
		return httpmsg.NewResponse(200, httpmsg.Header{}, map[string]any{
			"email": "a@x", "firstname": "A", "lastname": "L",
		}), nil
	}}
	c := setupUserClient(t, tr)
	rp, err := c.Resource("users")
	require.NoError(t, err)

	box := client.Get[UserReq, User](context.Background(), rp, UserReq{Username: "alice"})
	require.True(t, box.IsOk())
	require.Equal(t, "a@x", box.Unwrap().Email)

	resolved, err := captured.ResolveURL()
	require.NoError(t, err)
	require.Equal(t, "https://u.v1/users/alice", resolved)
	require.Equal(t, httpmsg.GET, captured.Method)
	require.Equal(t, "", captured.Body)
}

// S6 — Authorization precedence (spec.md §8 scenario S6).
func TestAuthorizationPrecedence(t *testing.T) {
	var captured *httpmsg.Request
	tr := &fakeTransport{do: func(_ context.Context, req *httpmsg.Request, _ httpmsg.Timeout) (*httpmsg.Response, error) {
		captured = req
		return httpmsg.NewResponse(200, httpmsg.Header{}, nil), nil
	}}

	sd := discovery.NewStatic(map[string]string{"user/v1": "https://u.v1"})
	reg := registry.New()
	require.NoError(t, reg.Register("api_user", "users", "user", "/users/{username}",
		map[httpmsg.Method]registry.Contract{httpmsg.GET: {RequestType: typeOf(UserReq{})}},
		registry.RegisterOptions{Version: "v1"}))

	f := client.NewFactory(sd,
		client.WithTransport(tr),
		client.WithRegistry(reg),
		client.WithAuth(middleware.Authorization{Scheme: "Bearer", Token: "fa"}),
	)
	c, err := f.Call(context.Background(), "api_user", client.WithClientAuth(middleware.Authorization{Scheme: "Bearer", Token: "cl"}))
	require.NoError(t, err)
	rp, err := c.Resource("users")
	require.NoError(t, err)

	client.Get[UserReq, User](context.Background(), rp, UserReq{Username: "alice"},
		client.WithCallAuth(middleware.Authorization{Scheme: "Bearer", Token: "ca"}))

	require.Equal(t, "Bearer ca", captured.Header["Authorization"])
}
