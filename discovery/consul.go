package discovery

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/log"
	"github.com/zoobzio/forge/schema"
	"github.com/zoobzio/forge/transport"
)

// ApiError is raised when Consul's catalog API returns a 4xx/5xx (spec.md
// §4.9, §7 "ConsulApiError").
type ApiError struct {
	Service    string
	StatusCode int
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("discovery: consul catalog API returned status %d for service %q", e.StatusCode, e.Service)
}

type catalogEntry struct {
	ServiceAddress string `json:"ServiceAddress"`
	ServicePort    int    `json:"ServicePort"`
}

// Balance picks one catalog entry out of several for one resolve call.
type Balance func(entries []catalogEntry) catalogEntry

// RoundRobin cycles deterministically through the returned instances.
func RoundRobin() Balance {
	var counter uint64
	return func(entries []catalogEntry) catalogEntry {
		i := atomic.AddUint64(&counter, 1) - 1
		return entries[i%uint64(len(entries))]
	}
}

// Random picks a uniformly random instance.
func Random() Balance {
	return func(entries []catalogEntry) catalogEntry {
		return entries[rand.Intn(len(entries))]
	}
}

// Consul resolves services via Consul's catalog HTTP API, invoked through
// the runtime's own transport.Transport — spec.md §4.9 calls this
// "self-hosted via the same client stack", so no separate Consul SDK
// dependency is introduced (DESIGN.md).
type Consul struct {
	BaseURL   string
	Token     string
	Transport transport.Transport
	Timeout   httpmsg.Timeout
	Balance   Balance
}

// NewConsul builds a Consul discoverer backed by tr, pointed at baseURL
// (e.g. "http://consul.service.internal:8500") with a bearer token.
func NewConsul(baseURL, token string, tr transport.Transport) *Consul {
	return &Consul{
		BaseURL:   baseURL,
		Token:     token,
		Transport: tr,
		Timeout:   httpmsg.DefaultTimeout,
		Balance:   RoundRobin(),
	}
}

func (c *Consul) GetEndpoint(ctx context.Context, service, version string) (string, error) {
	catalogService := service
	if version != "" {
		catalogService = service + "-" + version
	}

	req := httpmsg.New(httpmsg.GET, c.BaseURL+"/v1/catalog/service/{service}")
	req.Path["service"] = catalogService
	if c.Token != "" {
		req.Header["Authorization"] = "Bearer " + c.Token
	}

	resp, err := c.Transport.Do(ctx, req, c.Timeout)
	if err != nil {
		log.Named("discovery").Warn("resolve failed", log.String("service", service), log.Err(err))
		return "", err
	}
	if !resp.IsSuccess() {
		log.Named("discovery").Warn("resolve failed", log.String("service", service), log.Int("status", resp.StatusCode))
		return "", &ApiError{Service: service, StatusCode: resp.StatusCode}
	}

	arr, _ := resp.JSON.([]any)
	if len(arr) == 0 {
		log.Named("discovery").Warn("resolve failed", log.String("service", service), log.String("version", version))
		return "", &UnregisteredServiceError{Service: service, Version: version}
	}

	entries := make([]catalogEntry, 0, len(arr))
	for _, item := range arr {
		var entry catalogEntry
		if err := schema.DecodeInto(item, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		log.Named("discovery").Warn("resolve failed", log.String("service", service), log.String("version", version))
		return "", &UnregisteredServiceError{Service: service, Version: version}
	}

	chosen := c.Balance(entries)
	if version == "" {
		return fmt.Sprintf("http://%s:%d", chosen.ServiceAddress, chosen.ServicePort), nil
	}
	return fmt.Sprintf("http://%s:%d/%s", chosen.ServiceAddress, chosen.ServicePort, version), nil
}
