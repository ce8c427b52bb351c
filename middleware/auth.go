package middleware

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/zoobzio/forge/httpmsg"
)

// Authorization is the resolved scheme+token pair a call carries, composed
// from factory/client/call-level settings before the chain runs (spec.md
// §4.3 step 2, §4.8 precedence: call > client > factory).
type Authorization struct {
	Scheme string
	Token  string
}

// Header renders the Authorization header value "{scheme} {token}".
func (a Authorization) Header() string {
	return fmt.Sprintf("%s %s", a.Scheme, a.Token)
}

// IsZero reports whether no authorization is set.
func (a Authorization) IsZero() bool { return a.Scheme == "" && a.Token == "" }

// BasicAuthorization precomputes the base64-encoded "user:pass" value for a
// Basic authorization header (spec.md §4.8 "BasicAuthorization helper").
func BasicAuthorization(user, pass string) Authorization {
	raw := fmt.Sprintf("%s:%s", user, pass)
	return Authorization{Scheme: "Basic", Token: base64.StdEncoding.EncodeToString([]byte(raw))}
}

// HTTPAuthorization is a middleware that sets the Authorization header to
// auth.Header(), overwriting any existing value (spec.md §4.8).
func HTTPAuthorization(auth Authorization) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *httpmsg.Request, info CallInfo) (*httpmsg.Response, error) {
			if !auth.IsZero() {
				req.Header["Authorization"] = auth.Header()
			}
			return next(ctx, req, info)
		}
	}
}
