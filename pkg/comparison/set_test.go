package comparison

import (
	"context"
	"sync"
	"testing"

	"finverse-be/internal/entity"
	"finverse-be/pkg/events"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func ref(id string) entity.ProductRef {
	return entity.ProductRef{Id: id, Name: "Product " + id}
}

func TestStoreAdd(t *testing.T) {
	s := NewStore(4, nil)

	if !s.Add(ref("a")) {
		t.Fatal("first add should change the set")
	}
	if s.Add(ref("a")) {
		t.Error("duplicate add should be a no-op")
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}

	s.Add(ref("b"))
	s.Add(ref("c"))
	s.Add(ref("d"))
	if s.Add(ref("e")) {
		t.Error("add beyond capacity should be a no-op")
	}
	if s.Count() != 4 {
		t.Errorf("Count = %d, want 4", s.Count())
	}
}

func TestStoreDuplicateKeepsFirstEntry(t *testing.T) {
	s := NewStore(4, nil)
	s.Add(entity.ProductRef{Id: "a", Name: "Original"})
	s.Add(entity.ProductRef{Id: "a", Name: "Replacement"})

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Name != "Original" {
		t.Errorf("duplicate add replaced the stored entry: got %q", items[0].Name)
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(4, nil)
	s.Add(ref("a"))
	s.Add(ref("b"))
	s.Add(ref("c"))

	if !s.Remove("b") {
		t.Fatal("removing a present id should change the set")
	}
	if s.Remove("b") {
		t.Error("removing an absent id should be a no-op")
	}

	ids := s.Ids()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Errorf("Ids = %v, want [a c]", ids)
	}
}

func TestStoreInsertionOrderSurvivesRemoveAndAdd(t *testing.T) {
	s := NewStore(4, nil)
	s.Add(ref("a"))
	s.Add(ref("b"))
	s.Add(ref("c"))
	s.Remove("a")
	s.Add(ref("d"))

	ids := s.Ids()
	want := []string{"b", "c", "d"}
	if len(ids) != len(want) {
		t.Fatalf("Ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Ids = %v, want %v", ids, want)
		}
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(4, nil)

	if s.Clear() {
		t.Error("clearing an empty set should be a no-op")
	}

	s.Add(ref("a"))
	s.Add(ref("b"))
	if !s.Clear() {
		t.Fatal("clearing a populated set should change it")
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}
	if s.Contains("a") {
		t.Error("cleared set should not contain previous entries")
	}
}

func TestStorePublishesOnlyEffectiveMutations(t *testing.T) {
	pub := &capturePublisher{}
	s := NewStore(2, pub)

	s.Add(ref("a")) // event
	s.Add(ref("a")) // no-op
	s.Add(ref("b")) // event
	s.Add(ref("c")) // no-op, at capacity
	s.Remove("x")   // no-op
	s.Remove("a")   // event
	s.Clear()       // event
	s.Clear()       // no-op

	if got := pub.count(); got != 4 {
		t.Errorf("published %d events, want 4", got)
	}
	for _, evt := range pub.events {
		if evt.EventType() != events.TypeComparisonSetChanged {
			t.Errorf("unexpected event type %q", evt.EventType())
		}
	}
}

func TestStoreItemsReturnsCopy(t *testing.T) {
	s := NewStore(4, nil)
	s.Add(ref("a"))

	items := s.Items()
	items[0].Id = "mutated"

	if !s.Contains("a") {
		t.Error("mutating the returned slice must not affect the set")
	}
}
