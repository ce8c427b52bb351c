// Package httpmsg defines the canonical HTTP request/response value types
// that flow through a call: built by schema serialization, threaded through
// the middleware chain, and finally turned into a typed result.
package httpmsg

import (
	"fmt"
	"net/url"
	"strings"
)

// Method is one of the HTTP verbs the call-plane understands.
type Method string

const (
	HEAD    Method = "HEAD"
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	OPTIONS Method = "OPTIONS"
)

// QueryValue is a single query parameter value: either a scalar or a list of
// scalars (serialized with doseq semantics — one repeated key per element).
type QueryValue struct {
	Scalar string
	List   []string
	isList bool
}

// Scalar builds a single-valued QueryValue.
func Scalar(v string) QueryValue { return QueryValue{Scalar: v} }

// ListOf builds a multi-valued QueryValue.
func ListOf(vs ...string) QueryValue { return QueryValue{List: vs, isList: true} }

// IsList reports whether the value is a list (vs. a single scalar).
func (q QueryValue) IsList() bool { return q.isList }

// Request is the canonical pre-wire HTTP request built by schema
// serialization and consumed by the transport.
type Request struct {
	Method  Method
	Pattern string // URL pattern with {name} placeholders, e.g. "/users/{username}"
	Path    map[string]string
	Query   map[string]QueryValue
	Header  map[string]string
	Body    string
}

// New builds an empty Request for the given method and URL pattern.
func New(method Method, pattern string) *Request {
	return &Request{
		Method:  method,
		Pattern: pattern,
		Path:    map[string]string{},
		Query:   map[string]QueryValue{},
		Header:  map[string]string{},
	}
}

// MissingPathParamError is raised when the URL pattern names a placeholder
// that the request does not carry a value for.
type MissingPathParamError struct {
	Pattern string
	Param   string
}

func (e *MissingPathParamError) Error() string {
	return fmt.Sprintf("httpmsg: missing path parameter %q for pattern %q", e.Param, e.Pattern)
}

// ResolveURL substitutes every {name} placeholder in Pattern with the
// URL-encoded value of Path[name] and appends the encoded query string.
// It fails if any placeholder in the pattern has no corresponding path
// value (invariant 2 of spec.md §8).
func (r *Request) ResolveURL() (string, error) {
	resolved := r.Pattern
	for {
		start := strings.IndexByte(resolved, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(resolved[start:], '}')
		if end < 0 {
			break
		}
		end += start
		name := resolved[start+1 : end]
		value, ok := r.Path[name]
		if !ok {
			return "", &MissingPathParamError{Pattern: r.Pattern, Param: name}
		}
		resolved = resolved[:start] + url.PathEscape(value) + resolved[end+1:]
	}

	q := url.Values{}
	for k, v := range r.Query {
		if v.IsList() {
			for _, item := range v.List {
				q.Add(k, item)
			}
		} else {
			q.Add(k, v.Scalar)
		}
	}
	if encoded := q.Encode(); encoded != "" {
		if strings.Contains(resolved, "?") {
			resolved += "&" + encoded
		} else {
			resolved += "?" + encoded
		}
	}
	return resolved, nil
}
