package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T, origins ...string) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(origins...)
	go hub.Run()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Failed to unmarshal event: %v", err)
	}
	return ev
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	if !hub.BroadcastEvent(Event{Type: "test:event"}) {
		t.Error("Expected broadcast to succeed on a running hub")
	}
}

func TestHub_DeliversEvents(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server, "", nil)
	waitForClients(t, hub, 1)

	hub.BroadcastEvent(Event{Type: "deck:updated", Data: map[string]string{"deckId": "d1"}})

	ev := readEvent(t, conn)
	if ev.Type != "deck:updated" {
		t.Errorf("Expected deck:updated, got %s", ev.Type)
	}
}

func TestHub_TypeFilter(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server, "?types=collection:updated", nil)
	waitForClients(t, hub, 1)

	hub.BroadcastEvent(Event{Type: "deck:updated"})
	hub.BroadcastEvent(Event{Type: "collection:updated"})

	ev := readEvent(t, conn)
	if ev.Type != "collection:updated" {
		t.Errorf("Expected only collection:updated, got %s", ev.Type)
	}
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	_, server := startHub(t, "http://localhost:*")
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	header := http.Header{"Origin": []string{"http://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Error("Expected handshake to fail for a foreign origin")
	}

	header = http.Header{"Origin": []string{"http://localhost:5173"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Expected localhost origin to connect: %v", err)
	}
	_ = conn.Close()
}

func TestHub_StopIsIdempotent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.Stop()
	hub.Stop()

	deadline := time.Now().Add(time.Second)
	for !hub.IsStopped() {
		if time.Now().After(deadline) {
			t.Fatal("Hub did not stop")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if hub.BroadcastEvent(Event{Type: "x"}) {
		t.Error("Expected broadcast to fail after stop")
	}
}

func TestHub_ServeWsAfterStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()
	for !hub.IsStopped() {
		time.Sleep(5 * time.Millisecond)
	}

	rec := httptest.NewRecorder()
	hub.ServeWs(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		origin   string
		patterns []string
		want     bool
	}{
		{"", []string{"http://localhost:*"}, true},
		{"http://anything", nil, true},
		{"http://localhost:3000", []string{"http://localhost:*"}, true},
		{"http://127.0.0.1:8080", []string{"http://localhost:*", "http://127.0.0.1:*"}, true},
		{"https://example.com", []string{"http://localhost:*"}, false},
		{"https://example.com", []string{"*"}, true},
	}
	for _, tt := range tests {
		if got := originAllowed(tt.origin, tt.patterns); got != tt.want {
			t.Errorf("originAllowed(%q, %v) = %v, want %v", tt.origin, tt.patterns, got, tt.want)
		}
	}
}
