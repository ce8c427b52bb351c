package discovery

import (
	"context"
	"fmt"
)

// Router resolves services by pure string formatting against a router host
// (spec.md §4.9 "Router"): "http://router/{service}-{version}/{version}"
// when versioned, "http://router/{service}" otherwise. Format strings are
// configurable, grounded on universal/resource_uri.go's URI-formatting
// helpers.
type Router struct {
	VersionedFormat   string
	UnversionedFormat string
}

// NewRouter builds a Router discoverer with the spec's default format
// strings.
func NewRouter() *Router {
	return &Router{
		VersionedFormat:   "http://router/%s-%s/%s",
		UnversionedFormat: "http://router/%s",
	}
}

func (r *Router) GetEndpoint(_ context.Context, service, version string) (string, error) {
	if version == "" {
		return fmt.Sprintf(r.UnversionedFormat, service), nil
	}
	return fmt.Sprintf(r.VersionedFormat, service, version, version), nil
}
