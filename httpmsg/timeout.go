package httpmsg

import "time"

// Timeout carries the total and connect budgets for one call. Equality is
// component-wise (spec.md §3).
type Timeout struct {
	Total   time.Duration
	Connect time.Duration
}

// DefaultTimeout is the spec-mandated default: 30s total, 15s connect.
var DefaultTimeout = Timeout{Total: 30 * time.Second, Connect: 15 * time.Second}

// NewTimeout builds a Timeout from a total-only scalar.
func NewTimeout(total time.Duration) Timeout {
	return Timeout{Total: total, Connect: DefaultTimeout.Connect}
}

// NewTimeoutPair builds a Timeout from an explicit (total, connect) pair.
func NewTimeoutPair(total, connect time.Duration) Timeout {
	return Timeout{Total: total, Connect: connect}
}

// Equal reports component-wise equality.
func (t Timeout) Equal(o Timeout) bool {
	return t.Total == o.Total && t.Connect == o.Connect
}
