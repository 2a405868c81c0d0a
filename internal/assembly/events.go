package assembly

// EventType identifies a store change.
type EventType int

const (
	EventPlaced EventType = iota
	EventMoved
	EventRemoved
	EventFlipped
	EventFinConfirmed
	EventFinOffsetsChanged
	EventReconciled
	EventSelectionChanged
	EventDropChanged
	EventCleared
)

var eventNames = map[EventType]string{
	EventPlaced:            "placed",
	EventMoved:             "moved",
	EventRemoved:           "removed",
	EventFlipped:           "flipped",
	EventFinConfirmed:      "fin_confirmed",
	EventFinOffsetsChanged: "fin_offsets_changed",
	EventReconciled:        "reconciled",
	EventSelectionChanged:  "selection_changed",
	EventDropChanged:       "drop_changed",
	EventCleared:           "cleared",
}

// String returns the event name.
func (e EventType) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// Event describes one change. IDs lists the affected parts.
type Event struct {
	Type EventType
	IDs  []string
}

// EventListener is called after a command completes, outside the store lock.
type EventListener func(Event)

// On registers a listener for an event type.
func (s *Store) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// OnAny registers a listener for every event type.
func (s *Store) OnAny(listener EventListener) {
	for e := range eventNames {
		s.On(e, listener)
	}
}

func (s *Store) emit(ev Event) {
	s.lmu.RLock()
	listeners := s.listeners[ev.Type]
	s.lmu.RUnlock()

	for _, listener := range listeners {
		listener(ev)
	}
}
