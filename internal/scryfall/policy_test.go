package scryfall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFindNamed_FallsBackWithoutSet(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Query().Get("set") != "" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"object":"error","code":"not_found","status":404}`))
			return
		}
		w.Write([]byte(`{"id":"bolt","name":"Lightning Bolt","set":"m10"}`))
	}))
	defer server.Close()

	card, err := newTestClient(server.URL).FindNamed(context.Background(), "Lightning Bolt", "xyz")
	if err != nil {
		t.Fatalf("FindNamed() error = %v", err)
	}
	if card.ID != "bolt" {
		t.Errorf("card = %+v", card)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestFindNamed_NoFallbackWithoutSet(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FindNamed(context.Background(), "Nope", "")
	if !IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRandomBackground_RetriesUntilSuccess(t *testing.T) {
	saved := backgroundBackoff
	backgroundBackoff = []time.Duration{time.Millisecond, 5 * time.Millisecond}
	defer func() { backgroundBackoff = saved }()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		switch n {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"id":"art","name":"Forest","image_uris":{"art_crop":"https://img/forest.jpg"}}`))
		}
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).RandomBackground(context.Background(), nil)
	if err != nil {
		t.Fatalf("RandomBackground() error = %v", err)
	}
	if url != "https://img/forest.jpg" {
		t.Errorf("url = %q", url)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRandomBackground_StopsOnContext(t *testing.T) {
	saved := backgroundBackoff
	backgroundBackoff = []time.Duration{time.Millisecond}
	defer func() { backgroundBackoff = saved }()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := newTestClient(server.URL).RandomBackground(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
}
