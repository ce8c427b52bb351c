package discovery

import (
	"context"

	"github.com/zoobzio/forge/log"
)

// Static resolves services from a fixed, pre-populated table
// (spec.md §4.9 "Static").
type Static struct {
	table map[string]string
}

// NewStatic builds a Static discoverer from a table keyed by
// "service" or "service/version".
func NewStatic(table map[string]string) *Static {
	cp := make(map[string]string, len(table))
	for k, v := range table {
		cp[k] = v
	}
	return &Static{table: cp}
}

// Register adds or overwrites one (service, version) → URL entry.
func (s *Static) Register(service, version, url string) {
	s.table[key(service, version)] = url
}

func (s *Static) GetEndpoint(_ context.Context, service, version string) (string, error) {
	if url, ok := s.table[key(service, version)]; ok {
		return url, nil
	}
	log.Named("discovery").Warn("resolve failed", log.String("service", service), log.String("version", version))
	return "", &UnregisteredServiceError{Service: service, Version: version}
}
