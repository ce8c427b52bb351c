package client

import "fmt"

// UnregisteredRouteError is raised when the resource has no item (or
// collection) path registered for the requested verb (spec.md §4.3 step 1).
type UnregisteredRouteError struct {
	Verb     string
	Resource string
	Client   string
}

func (e *UnregisteredRouteError) Error() string {
	return fmt.Sprintf("client: no route registered for %s %s on client %q", e.Verb, e.Resource, e.Client)
}

// NoContractError is raised when the route's contract map has no entry for
// the requested verb (spec.md §4.3 step 1).
type NoContractError struct {
	Verb     string
	Resource string
}

func (e *NoContractError) Error() string {
	return fmt.Sprintf("client: no contract registered for %s on resource %q", e.Verb, e.Resource)
}

// NoResponseSchemaError names the case of a contract with no response
// schema for the verb (spec.md §7 "NoResponseSchema"). The route proxy does
// not return it: a call whose contract has no ResponseType yields an Ok box
// holding the zero value of the response type.
type NoResponseSchemaError struct {
	Verb     string
	Resource string
}

func (e *NoResponseSchemaError) Error() string {
	return fmt.Sprintf("client: no response schema registered for %s on resource %q", e.Verb, e.Resource)
}

// UnregisteredResourceError is raised by Client.Resource for a resource
// name the registry never recorded for this client.
type UnregisteredResourceError struct {
	Resource string
	Client   string
}

func (e *UnregisteredResourceError) Error() string {
	return fmt.Sprintf("client: resource %q not registered for client %q", e.Resource, e.Client)
}
