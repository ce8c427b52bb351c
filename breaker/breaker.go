// Package breaker implements the per-client circuit breaker middleware
// (spec.md §4.6): a closed/open/half-open state machine, shared across
// concurrent callers via a per-client allocator ("unit of work",
// spec.md Design Notes). State-machine shape grounded on the teacher's
// small explicit-state-enum-plus-mutex idiom in rocco/session.go.
package breaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/forge/log"
)

// State is one of the three breaker states (spec.md §4.6).
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// GaugeValue maps a State to the Prometheus gauge convention spec.md §4.6
// mandates: 0=closed, 1=half-open, 2=open.
func (s State) GaugeValue() float64 {
	switch s {
	case Closed:
		return 0
	case HalfOpen:
		return 1
	case Open:
		return 2
	default:
		return -1
	}
}

// OpenError is raised when a call is short-circuited because the breaker is
// open (spec.md §7 "CircuitOpenError").
type OpenError struct {
	ClientName string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("breaker: circuit open for client %q", e.ClientName)
}

// Config tunes the state machine. Defaults match spec.md §4.6: 5 consecutive
// failures trip the breaker, a 30s TTL before probing half-open.
type Config struct {
	Threshold int
	TTL       time.Duration
}

// DefaultConfig returns the spec's defaults (threshold=5, TTL=30s).
func DefaultConfig() Config {
	return Config{Threshold: 5, TTL: 30 * time.Second}
}

// Breaker is one client's state machine. Mutations are atomic under
// concurrency via a single mutex per instance (spec.md §5 "Shared
// resources").
type Breaker struct {
	name    string
	config  Config
	hooks   *Hooks
	backend Backend

	mu              sync.Mutex
	state           State
	consecutiveFail int
	openedAt        time.Time
}

func newBreaker(name string, config Config, hooks *Hooks, backend Backend) *Breaker {
	b := &Breaker{name: name, config: config, hooks: hooks, backend: backend, state: Closed}
	if backend != nil {
		if snap, found, err := backend.Load(name); err == nil && found {
			b.state = snap.State
			b.consecutiveFail = snap.ConsecutiveFail
			b.openedAt = snap.OpenedAt
		}
	}
	return b
}

// persist mirrors the current state to the backend, if any. Must be called
// with mu held. Errors are not surfaced: the in-memory state machine
// remains authoritative for the local process even if the mirror fails.
func (b *Breaker) persist() {
	if b.backend == nil {
		return
	}
	_ = b.backend.Save(b.name, Snapshot{State: b.state, ConsecutiveFail: b.consecutiveFail, OpenedAt: b.openedAt})
}

// State returns the breaker's current state, resolving an expired Open
// window into HalfOpen as a side effect (spec.md §4.6 "after TTL,
// transition to half-open").
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() State {
	if b.state == Open && time.Since(b.openedAt) >= b.config.TTL {
		b.transition(HalfOpen)
		b.persist()
	}
	return b.state
}

// Allow reports whether a call may proceed, and is the single entry point
// the middleware uses to decide between short-circuiting and invoking next
// (spec.md §8 invariant 4: "the breaker never calls next while open").
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked() != Open
}

// Success records a successful call outcome.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutiveFail = 0
	if b.state == HalfOpen {
		b.transition(Closed)
	}
	b.persist()
}

// Failure records a counted failure outcome (spec.md §4.6: 4xx is excluded
// by the middleware before this is ever called).
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	log.Named("breaker").Debug("failed", log.String("client", b.name))
	b.hooks.emitFailed(b.name)
	switch b.state {
	case HalfOpen:
		b.transition(Open)
	case Closed:
		b.consecutiveFail++
		if b.consecutiveFail >= b.config.Threshold {
			b.transition(Open)
		}
	}
	b.persist()
}

// transition must be called with mu held.
func (b *Breaker) transition(to State) {
	if to == b.state {
		return
	}
	b.state = to
	if to == Open {
		b.openedAt = time.Now()
		b.consecutiveFail = 0
	}
	log.Named("breaker").Info("state_changed", log.String("client", b.name), log.String("state", to.String()))
	b.hooks.emitStateChanged(b.name, to)
}
