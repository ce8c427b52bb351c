package breaker

import "sync"

// EventType names the two hook events spec.md §4.6 defines.
type EventType string

const (
	StateChanged EventType = "state_changed"
	Failed       EventType = "failed"
)

// Event carries the (circuit_name, event_type, payload) triple spec.md §4.6
// describes. NewState is the payload of StateChanged; for Failed it holds
// the zero value (Closed) and carries no meaning.
type Event struct {
	CircuitName string
	Type        EventType
	NewState    State
}

// Subscriber receives every Event emitted by every breaker sharing a Hooks
// instance, in registration order.
type Subscriber func(Event)

// Hooks is a small ordered-subscriber-list fan-out, grounded in shape on
// the teacher's capitan package (TypedEvent[T] / HookType) but implemented
// locally: capitan's contract is one processor per key (last Register
// wins), which cannot deliver an event to more than one subscriber per
// event type, while breaker hooks must (a built-in Prometheus hook must
// coexist with any user-registered hook) — see DESIGN.md.
type Hooks struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewHooks builds an empty hook registry.
func NewHooks() *Hooks { return &Hooks{} }

// Subscribe registers s to receive every future event, in order.
func (h *Hooks) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, s)
}

func (h *Hooks) emitStateChanged(circuitName string, newState State) {
	h.emit(Event{CircuitName: circuitName, Type: StateChanged, NewState: newState})
}

func (h *Hooks) emitFailed(circuitName string) {
	h.emit(Event{CircuitName: circuitName, Type: Failed})
}

func (h *Hooks) emit(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subscribers {
		s(ev)
	}
}
