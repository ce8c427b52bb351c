// Package registry binds a client name to a service identity and a map of
// resource routes. Grounded on the teacher's catalog package
// (zoobzio-zbz/catalog/container.go): a name-keyed container with
// idempotent re-registration and conflict detection.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/schema"
)

// ServiceIdentity names the service a client talks to, and optionally a
// version used in URL/SD resolution.
type ServiceIdentity struct {
	Service string
	Version string // empty means unversioned
}

// Contract pairs a request schema type with an optional response schema
// type for one HTTP method. RequestUnion, when non-empty, names the
// candidate branch types of a tagged union request schema (spec.md §4.3
// tie-break rules): RequestType is nil in that case, and dict-shaped
// params are resolved to one of these branches by their discriminator
// field instead of being type-checked against a single concrete type.
type Contract struct {
	RequestType  reflect.Type
	RequestUnion []reflect.Type
	ResponseType reflect.Type // nil if the method has no typed response
}

// Routes holds the item and collection route definitions for one resource.
type Routes struct {
	Path               string
	ContractByMethod   map[httpmsg.Method]Contract
	CollectionPath      string
	CollectionContract  map[httpmsg.Method]Contract
	Parser             schema.CollectionParser
}

// HasItemRoute reports whether this resource has an item path registered.
func (r Routes) HasItemRoute() bool { return r.Path != "" }

// HasCollectionRoute reports whether this resource has a collection path
// registered.
func (r Routes) HasCollectionRoute() bool { return r.CollectionPath != "" }

type clientEntry struct {
	identity  ServiceIdentity
	resources map[string]Routes
}

// ConflictError is raised when re-registering a client with a different
// service identity than the one already on file, or a (client, resource)
// with different routes (spec.md §4.2).
type ConflictError struct {
	Client   string
	Resource string
	Existing ServiceIdentity
	New      ServiceIdentity
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("registry: conflicting registration for client %q resource %q: existing=%+v new=%+v",
		e.Client, e.Resource, e.Existing, e.New)
}

// Registry is the mapping client_name → (service, {resource → routes}).
// It is read-only after configuration (spec.md §5): all registration is
// expected to happen once, at startup, before any Factory.Call.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*clientEntry
}

// New builds an empty registry.
func New() *Registry {
	return &Registry{clients: map[string]*clientEntry{}}
}

// RegisterOptions carries the optional fields of one registration call.
type RegisterOptions struct {
	Version            string
	CollectionPath     string
	CollectionContract map[httpmsg.Method]Contract
	Parser             schema.CollectionParser
}

// Register records (or idempotently re-records) the route entry for one
// (client, resource) pair (spec.md §4.2).
func (r *Registry) Register(clientName, resource, service string, path string, contract map[httpmsg.Method]Contract, opts RegisterOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity := ServiceIdentity{Service: service, Version: opts.Version}
	entry, ok := r.clients[clientName]
	if !ok {
		entry = &clientEntry{identity: identity, resources: map[string]Routes{}}
		r.clients[clientName] = entry
	} else if entry.identity != identity {
		return &ConflictError{Client: clientName, Resource: resource, Existing: entry.identity, New: identity}
	}

	routes := Routes{
		Path:               path,
		ContractByMethod:   contract,
		CollectionPath:     opts.CollectionPath,
		CollectionContract: opts.CollectionContract,
		Parser:             opts.Parser,
	}
	if existing, ok := entry.resources[resource]; ok {
		if !routesEqual(existing, routes) {
			return &ConflictError{Client: clientName, Resource: resource, Existing: entry.identity, New: identity}
		}
		return nil // idempotent re-registration
	}
	entry.resources[resource] = routes
	return nil
}

func routesEqual(a, b Routes) bool {
	if a.Path != b.Path || a.CollectionPath != b.CollectionPath {
		return false
	}
	if len(a.ContractByMethod) != len(b.ContractByMethod) {
		return false
	}
	for m, c := range a.ContractByMethod {
		oc, ok := b.ContractByMethod[m]
		if !ok || oc.RequestType != c.RequestType || oc.ResponseType != c.ResponseType {
			return false
		}
	}
	return true
}

// UnregisteredServiceError is raised by GetService for an unknown client
// name (spec.md §7 ConfigurationError kinds).
type UnregisteredServiceError struct {
	ClientName string
}

func (e *UnregisteredServiceError) Error() string {
	return fmt.Sprintf("registry: no service registered for client %q", e.ClientName)
}

// GetService returns the service identity and resource map for a client
// name. Lookups are case-sensitive (spec.md §4.2).
func (r *Registry) GetService(clientName string) (ServiceIdentity, map[string]Routes, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.clients[clientName]
	if !ok {
		return ServiceIdentity{}, nil, &UnregisteredServiceError{ClientName: clientName}
	}
	resources := make(map[string]Routes, len(entry.resources))
	for k, v := range entry.resources {
		resources[k] = v
	}
	return entry.identity, resources, nil
}
