package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/log"
	"github.com/zoobzio/forge/middleware"
)

// Middleware implements the HTTP cache (spec.md §4.5): a Vary record keyed
// on (client, path) names which request headers discriminate variants; a
// response entry keyed on (client, path, variant-suffix) holds the
// serialized response.
type Middleware struct {
	Store    Store
	Policy   Policy
	Recorder Recorder
}

// New builds a cache middleware over store with the default GET-only
// policy and no metrics recorder.
func New(store Store) *Middleware {
	return &Middleware{Store: store, Policy: GetOnlyPolicy{}, Recorder: noopRecorder{}}
}

func (m *Middleware) recorder() Recorder {
	if m.Recorder == nil {
		return noopRecorder{}
	}
	return m.Recorder
}

func varyRecordKey(client, path string) string {
	return fmt.Sprintf("%s$%s", client, path)
}

func responseEntryKey(client, path, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("%s$%s$", client, path)
	}
	return fmt.Sprintf("%s$%s$%s", client, path, suffix)
}

// variantSuffix builds the "{h1=V1|h2=V2|...}" suffix from the Vary record's
// header list and the request's header values, in the Vary record's order
// (spec.md §4.5 "Key derivation"). Both the Vary names and the request
// header lookup are lower-cased (spec.md §9 Open Question resolution).
func variantSuffix(varyHeaders []string, req *httpmsg.Request) string {
	if len(varyHeaders) == 0 {
		return ""
	}
	lowered := map[string]string{}
	for k, v := range req.Header {
		lowered[strings.ToLower(k)] = v
	}
	parts := make([]string, len(varyHeaders))
	for i, h := range varyHeaders {
		parts[i] = h + "=" + lowered[h]
	}
	return strings.Join(parts, "|")
}

// Wrap returns a middleware.Middleware closing over m — this is what gets
// registered on a middleware.Chain.
func (m *Middleware) Wrap() middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *httpmsg.Request, info middleware.CallInfo) (*httpmsg.Response, error) {
			if !m.Policy.Handles(info) {
				resp, err := next(ctx, req, info)
				status := 0
				if resp != nil {
					status = resp.StatusCode
				}
				m.recorder().Miss(info.ClientName, UncachableRequest, string(info.Method), info.Path, status)
				return resp, err
			}

			varyKey := varyRecordKey(info.ClientName, info.Path)
			rawVary, found, err := m.Store.Get(ctx, varyKey)
			var varyHeaders []string
			if err == nil && found {
				_ = json.Unmarshal([]byte(rawVary), &varyHeaders)
			}

			if found {
				suffix := variantSuffix(varyHeaders, req)
				entryKey := responseEntryKey(info.ClientName, info.Path, suffix)
				start := time.Now()
				if rawResp, hit, err := m.Store.Get(ctx, entryKey); err == nil && hit {
					resp, err := decodeResponse(rawResp)
					if err == nil {
						log.Named("cache").Debug("hit", log.String("client", info.ClientName), log.String("path", info.Path))
						m.recorder().Hit(info.ClientName, string(info.Method), info.Path, resp.StatusCode, time.Since(start))
						return resp, nil
					}
				}
			}

			resp, err := next(ctx, req, info)
			if err != nil {
				return resp, err
			}
			if ctx.Err() != nil {
				// cancelled: do not write to cache (spec.md §5 "Cancellation")
				return resp, err
			}

			log.Named("cache").Debug("miss", log.String("client", info.ClientName), log.String("path", info.Path))
			m.writeBack(ctx, info, req, resp)
			return resp, nil
		}
	}
}

func (m *Middleware) writeBack(ctx context.Context, info middleware.CallInfo, req *httpmsg.Request, resp *httpmsg.Response) {
	ccRaw, _ := resp.Header.Get("Cache-Control")
	cd := parseCacheControl(ccRaw)
	if !cd.cacheable() {
		m.recorder().Miss(info.ClientName, UncachableResponse, string(info.Method), info.Path, resp.StatusCode)
		return
	}
	defer m.recorder().Miss(info.ClientName, Cached, string(info.Method), info.Path, resp.StatusCode)

	varyRaw, _ := resp.Header.Get("Vary")
	varyHeaders := parseVary(varyRaw)
	ttl := time.Duration(cd.maxAge) * time.Second

	varyKey := varyRecordKey(info.ClientName, info.Path)
	encodedVary, err := json.Marshal(varyHeaders)
	if err != nil {
		return
	}
	if err := m.Store.Set(ctx, varyKey, string(encodedVary), ttl); err != nil {
		return
	}

	suffix := variantSuffix(varyHeaders, req)
	entryKey := responseEntryKey(info.ClientName, info.Path, suffix)
	encodedResp, err := encodeResponse(resp)
	if err != nil {
		return
	}
	_ = m.Store.Set(ctx, entryKey, encodedResp, ttl)
}
