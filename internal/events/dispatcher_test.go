package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDispatch_FiltersAndOrder(t *testing.T) {
	d := NewEventDispatcher()

	var got []string
	first := &FuncObserver{Name: "first", Fn: func(e Event) error {
		got = append(got, "first:"+e.Type)
		return errors.New("ignored")
	}}
	second := &FuncObserver{Name: "second", Types: []string{TypeDeckUpdated}, Fn: func(e Event) error {
		got = append(got, "second:"+e.Type)
		return nil
	}}
	d.Register(first)
	d.Register(second)

	d.Dispatch(NewEvent(context.Background(), TypeDeckUpdated, DeckUpdatedEvent{DeckID: "d1"}))
	d.Dispatch(NewEvent(context.Background(), TypeAuthChanged, AuthChangedEvent{}))

	want := []string{"first:deck:updated", "second:deck:updated", "first:auth:changed"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUnregister(t *testing.T) {
	d := NewEventDispatcher()
	obs := NewLoggingObserver(false)
	d.Register(obs)
	d.Register(NewLoggingObserver(true))
	d.Unregister(obs)

	if d.ObserverCount() != 1 {
		t.Errorf("ObserverCount() = %d, want 1", d.ObserverCount())
	}
}

func TestDispatchAsync(t *testing.T) {
	d := NewEventDispatcher()
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		d.Register(&FuncObserver{Name: "async", Fn: func(Event) error {
			wg.Done()
			return nil
		}})
	}

	d.DispatchAsync(NewEvent(context.Background(), TypeFiltersUpdated, FiltersUpdatedEvent{Count: 1}))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async observers were not notified")
	}
}

func TestGetData(t *testing.T) {
	e := NewEvent(nil, TypeImportCompleted, ImportCompletedEvent{Imported: 3})
	data, ok := GetData[ImportCompletedEvent](e)
	if !ok || data.Imported != 3 {
		t.Errorf("GetData() = %+v, %v", data, ok)
	}
	if _, ok := GetData[DeckUpdatedEvent](e); ok {
		t.Error("GetData() with wrong type should fail")
	}
	if e.Context == nil {
		t.Error("nil context should default to Background")
	}
}
