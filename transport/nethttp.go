package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/zoobzio/forge/httpmsg"
)

// Options configures the default net/http-backed transport
// (spec.md §6 "Environment": proxies and certificate verification are
// construction-time options, not environment variables).
type Options struct {
	Proxy             func(*http.Request) (*url.URL, error)
	VerifyCertificate bool
}

// DefaultOptions returns certificate verification enabled and no proxy —
// the spec's default posture (verify_certificate defaults to true).
func DefaultOptions() Options {
	return Options{VerifyCertificate: true}
}

// NetHTTP is the default Transport, backed by net/http. Each call gets its
// own context deadline from the total budget of the resolved
// httpmsg.Timeout, covering the whole round trip. The connect budget is not
// applied: dialing is bounded only by that total deadline.
type NetHTTP struct {
	client *http.Client
}

// NewNetHTTP builds a NetHTTP transport. The returned *http.Client is
// configured once; per-call timeouts are applied via context, not by
// mutating the shared client.
func NewNetHTTP(opts Options) *NetHTTP {
	base := &http.Transport{
		Proxy: opts.Proxy,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !opts.VerifyCertificate,
		},
	}
	return &NetHTTP{client: &http.Client{Transport: base}}
}

func (t *NetHTTP) Do(ctx context.Context, req *httpmsg.Request, timeout httpmsg.Timeout) (*httpmsg.Response, error) {
	resolvedURL, err := req.ResolveURL()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout.Total)
	defer cancel()

	var body io.Reader
	if req.Body != "" {
		body = bytes.NewBufferString(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), resolvedURL, body)
	if err != nil {
		return nil, &httpmsg.TransportError{Request: req, Cause: err}
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &httpmsg.TimeoutError{Request: req, Timeout: timeout}
		}
		return nil, &httpmsg.TransportError{Request: req, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httpmsg.TransportError{Request: req, Cause: err}
	}

	header := httpmsg.Header{}
	for k, vs := range resp.Header {
		if len(vs) > 0 {
			header.Set(textproto.CanonicalMIMEHeaderKey(k), vs[0])
		}
	}

	var parsed any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			parsed = nil // non-JSON body; caller sees nil JSON
		}
	}

	return httpmsg.NewResponse(resp.StatusCode, header, parsed), nil
}

// IsTimeout reports whether err is (or wraps) an httpmsg.TimeoutError.
func IsTimeout(err error) bool {
	var te *httpmsg.TimeoutError
	return errors.As(err, &te)
}
