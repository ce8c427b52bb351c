// Package discovery resolves a (service, version) pair to a base URL. Three
// adapters ship: Static, Router (format-based), and Consul (HTTP catalog
// lookup through the runtime's own transport).
package discovery

import (
	"context"
	"fmt"
)

// Discoverer is the service-discovery trait (spec.md §4.9).
type Discoverer interface {
	GetEndpoint(ctx context.Context, service, version string) (string, error)
}

// UnregisteredServiceError is raised when a service/version cannot be
// resolved by the discoverer in use.
type UnregisteredServiceError struct {
	Service string
	Version string
}

func (e *UnregisteredServiceError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("discovery: no endpoint registered for service %q", e.Service)
	}
	return fmt.Sprintf("discovery: no endpoint registered for service %q version %q", e.Service, e.Version)
}

func key(service, version string) string {
	if version == "" {
		return service
	}
	return service + "/" + version
}
