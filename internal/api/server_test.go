package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	apiwebsocket "github.com/ramonehamilton/MTG-Collection/internal/api/websocket"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/events"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

func newTestServer(t *testing.T) (*Server, *app.Services) {
	t.Helper()
	services := app.NewTestServices(t, &app.FakeGateway{
		Cards: []models.Card{{ID: "bolt-1", Name: "Lightning Bolt", TypeLine: "Instant", Rarity: models.RarityCommon}},
	})
	return NewServer(DefaultConfig(), services), services
}

func TestNewServer(t *testing.T) {
	cfg := DefaultConfig()

	server := NewServer(cfg, nil)

	if server == nil {
		t.Fatal("NewServer returned nil")
	}

	if server.port != cfg.Port {
		t.Errorf("Expected port %d, got %d", cfg.Port, server.port)
	}

	if server.wsHub == nil {
		t.Error("Expected wsHub to be initialized")
	}
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, nil)

	if server == nil {
		t.Fatal("NewServer returned nil with nil config")
	}

	// Should use default port
	if server.port != 8080 {
		t.Errorf("Expected default port 8080, got %d", server.port)
	}

	if len(server.origins) != 2 {
		t.Errorf("Expected default origins, got %v", server.origins)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}

	if cfg.OpenBrowser {
		t.Error("Expected OpenBrowser to be false by default")
	}

	if cfg.FrontendURL != "" {
		t.Errorf("Expected empty FrontendURL, got %s", cfg.FrontendURL)
	}
}

func TestServer_Port(t *testing.T) {
	server := NewServer(&Config{Port: 9999}, nil)

	if server.Port() != 9999 {
		t.Errorf("Expected port 9999, got %d", server.Port())
	}
}

func TestServer_Shutdown_NotStarted(t *testing.T) {
	server := NewServer(nil, nil)

	// Shutdown on a server that hasn't started should not error
	if err := server.Shutdown(context.Background()); err != nil {
		t.Errorf("Expected no error on shutdown of non-started server, got %v", err)
	}
}

func TestServer_HealthCheck(t *testing.T) {
	server := NewServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
}

func TestServer_Routes(t *testing.T) {
	server, _ := newTestServer(t)

	body := strings.NewReader(`{"name":"Binder"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/collections", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/collections", nil)
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Binder") {
		t.Errorf("Expected collection list, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/system/status", nil)
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from status, got %d", w.Code)
	}
}

func TestServer_RejectsNonJSONBody(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/collections", strings.NewReader("name=Binder"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected 415, got %d", w.Code)
	}
}

func TestServer_CORSAllowsLocalhost(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/collections", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin, got %q", got)
	}
}

func TestServer_ForwardsEventsToWebSocket(t *testing.T) {
	server, services := newTestServer(t)

	go server.wsHub.Run()
	observer := server.NewWebSocketObserver()
	services.Dispatcher.Register(observer)
	t.Cleanup(func() {
		services.Dispatcher.Unregister(observer)
		server.wsHub.Stop()
	})

	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws?types=" + events.TypeCollectionUpdated
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give time for client registration
	time.Sleep(50 * time.Millisecond)

	if _, err := services.CreateCollection(context.Background(), "Trades", ""); err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message from WebSocket: %v", err)
	}

	var received apiwebsocket.Event
	if err := json.Unmarshal(message, &received); err != nil {
		t.Fatalf("Failed to unmarshal received message: %v", err)
	}
	if received.Type != events.TypeCollectionUpdated {
		t.Errorf("Expected %s, got %s", events.TypeCollectionUpdated, received.Type)
	}
	data, ok := received.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Expected Data to be a map")
	}
	if data["action"] != "created" {
		t.Errorf("Expected action created, got %v", data["action"])
	}
}
