package websocket

import (
	"log"

	"github.com/ramonehamilton/MTG-Collection/internal/events"
)

// WebSocketObserver forwards domain events to WebSocket clients.
type WebSocketObserver struct {
	name    string
	hub     *Hub
	verbose bool
}

// NewWebSocketObserver creates a new observer that forwards events to WebSocket clients.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{
		name: "WebSocketObserver",
		hub:  hub,
	}
}

// OnEvent forwards the event to all connected WebSocket clients.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Printf("[%s] Cannot emit event %s: hub is nil", o.name, event.Type)
		return nil
	}

	o.hub.BroadcastEvent(Event{Type: event.Type, Data: event.Data})
	if o.verbose {
		log.Printf("[%s] Broadcast event to %d clients: %s", o.name, o.hub.ClientCount(), event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *WebSocketObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events; clients filter by type.
func (o *WebSocketObserver) ShouldHandle(string) bool {
	return true
}

// SetVerbose enables logging of every broadcast.
func (o *WebSocketObserver) SetVerbose(v bool) {
	o.verbose = v
}

// Ensure WebSocketObserver implements the Observer interface.
var _ events.Observer = (*WebSocketObserver)(nil)
