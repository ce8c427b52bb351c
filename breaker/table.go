package breaker

import "sync"

// Table is the "unit of work" allocator (spec.md Design Notes): it hands
// out one shared Breaker per client name, so concurrent callers against the
// same client always observe the same state machine (spec.md §5 "Shared
// resources", §8 invariant 4/5).
type Table interface {
	Get(clientName string) *Breaker
}

// MemoryTable is the in-process implementation: a map guarded by one
// table-wide RWMutex with double-checked locking, so only one Breaker is
// ever allocated per client name, even under concurrent first access.
type MemoryTable struct {
	config  Config
	hooks   *Hooks
	backend Backend

	mu       sync.RWMutex
	breakers map[string]*Breaker
}

// NewMemoryTable builds a Table using config for every breaker it
// allocates, reporting events to hooks.
func NewMemoryTable(config Config, hooks *Hooks) *MemoryTable {
	return NewMemoryTableWithBackend(config, hooks, nil)
}

// NewMemoryTableWithBackend is NewMemoryTable plus a Backend every
// allocated Breaker hydrates its initial state from and mirrors every
// transition to (providers/breakerredis implements Backend over Redis).
func NewMemoryTableWithBackend(config Config, hooks *Hooks, backend Backend) *MemoryTable {
	if hooks == nil {
		hooks = NewHooks()
	}
	return &MemoryTable{config: config, hooks: hooks, backend: backend, breakers: map[string]*Breaker{}}
}

func (t *MemoryTable) Get(clientName string) *Breaker {
	t.mu.RLock()
	b, ok := t.breakers[clientName]
	t.mu.RUnlock()
	if ok {
		return b
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.breakers[clientName]; ok {
		return b
	}
	b = newBreaker(clientName, t.config, t.hooks, t.backend)
	t.breakers[clientName] = b
	return b
}
