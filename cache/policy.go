package cache

import "github.com/zoobzio/forge/middleware"

// Policy decides whether a request is handleable by the cache at all
// (spec.md §4.5 "Policy extension"). A policy returning false bypasses both
// the read and write paths; the response still flows through unchanged.
type Policy interface {
	Handles(info middleware.CallInfo) bool
}

// GetOnlyPolicy is the default policy: only GET requests are cacheable.
type GetOnlyPolicy struct{}

func (GetOnlyPolicy) Handles(info middleware.CallInfo) bool { return info.Method == "GET" }
