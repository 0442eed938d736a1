// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/tidemark/internal/logger"
)

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed, which stops delivery to later handlers.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
// Dispatch is synchronous: handlers run on the caller's goroutine in subscription order.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
	logger.DebugTagf("event", "Event Manager: Handler subscribed to %v", eventType)
}

// HandlerCount returns the number of handlers registered for a type.
func (m *Manager) HandlerCount(eventType Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[eventType])
}

// Dispatch sends an event to all registered handlers for its type.
// It reports whether a handler consumed the event.
func (m *Manager) Dispatch(eventType Type, data interface{}) bool {
	event := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	handlers := m.handlers[eventType]
	// Copy so a handler may subscribe during dispatch without racing the slice.
	handlersCopy := make([]Handler, len(handlers))
	copy(handlersCopy, handlers)
	m.mu.RUnlock()

	if len(handlersCopy) == 0 {
		return false
	}

	logger.DebugTagf("event", "Event Manager: Dispatching %v to %d handler(s)", eventType, len(handlersCopy))

	for _, handler := range handlersCopy {
		if handler(event) {
			return true
		}
	}
	return false
}
