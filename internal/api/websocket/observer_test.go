package websocket

import (
	"context"
	"testing"

	"github.com/ramonehamilton/MTG-Collection/internal/events"
)

func TestWebSocketObserver_Basics(t *testing.T) {
	hub := NewHub()
	observer := NewWebSocketObserver(hub)

	if observer.GetName() != "WebSocketObserver" {
		t.Errorf("Expected 'WebSocketObserver', got '%s'", observer.GetName())
	}
	for _, eventType := range []string{events.TypeDeckUpdated, events.TypeBrowserState, "anything"} {
		if !observer.ShouldHandle(eventType) {
			t.Errorf("Expected observer to handle %s", eventType)
		}
	}
}

func TestWebSocketObserver_NilHub(t *testing.T) {
	observer := NewWebSocketObserver(nil)
	if err := observer.OnEvent(events.NewEvent(context.Background(), events.TypeDeckUpdated, events.DeckUpdatedEvent{})); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestWebSocketObserver_ForwardsThroughDispatcher(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server, "", nil)
	waitForClients(t, hub, 1)

	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(NewWebSocketObserver(hub))
	dispatcher.Dispatch(events.NewEvent(context.Background(), events.TypeFiltersUpdated, events.FiltersUpdatedEvent{Count: 3}))

	ev := readEvent(t, conn)
	if ev.Type != events.TypeFiltersUpdated {
		t.Fatalf("Expected %s, got %s", events.TypeFiltersUpdated, ev.Type)
	}
	data, ok := ev.Data.(map[string]interface{})
	if !ok || data["count"] != float64(3) {
		t.Errorf("Unexpected payload: %#v", ev.Data)
	}
}
