package comparison

import (
	"context"
	"sync"

	"finverse-be/internal/entity"
	"finverse-be/pkg/events"
)

// DefaultMaxProducts caps the set when no explicit capacity is configured.
const DefaultMaxProducts = 4

// Store is the shared comparison set: the insertion-ordered, deduplicated,
// capacity-bounded selection both the aggregator and the context router read.
// Mutations are synchronous and immediately visible to every reader; each
// effective mutation publishes a set-changed event for subscribed surfaces.
type Store struct {
	mu        sync.RWMutex
	products  []entity.ProductRef
	max       int
	publisher events.Publisher
}

// NewStore creates an empty comparison set. The publisher may be nil when no
// surface subscribes to change events.
func NewStore(max int, publisher events.Publisher) *Store {
	if max <= 0 {
		max = DefaultMaxProducts
	}
	return &Store{
		max:       max,
		publisher: publisher,
	}
}

// Add appends a product reference. Adding a duplicate id or adding beyond
// capacity is a no-op; the returned bool reports whether the set changed.
func (s *Store) Add(ref entity.ProductRef) bool {
	s.mu.Lock()
	if len(s.products) >= s.max || s.indexOf(ref.Id) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.products = append(s.products, ref)
	count := len(s.products)
	s.mu.Unlock()

	s.notify("add", ref.Id, count)
	return true
}

// Remove drops the reference with the given id. Removing an absent id is a
// no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	count := len(s.products)
	s.mu.Unlock()

	s.notify("remove", id, count)
	return true
}

// Clear empties the set unconditionally. Clearing an empty set is a no-op.
func (s *Store) Clear() bool {
	s.mu.Lock()
	if len(s.products) == 0 {
		s.mu.Unlock()
		return false
	}
	s.products = nil
	s.mu.Unlock()

	s.notify("clear", "", 0)
	return true
}

// Contains reports whether a product id is currently selected.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Count returns the number of selected products.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Items returns the selection in insertion order. The slice is a copy; the
// stored references themselves are borrowed data and never mutated.
func (s *Store) Items() []entity.ProductRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.ProductRef, len(s.products))
	copy(out, s.products)
	return out
}

// Ids returns the selected product ids in insertion order.
func (s *Store) Ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.products))
	for i, p := range s.products {
		ids[i] = p.Id
	}
	return ids
}

// Max returns the configured capacity.
func (s *Store) Max() int {
	return s.max
}

func (s *Store) indexOf(id string) int {
	for i, p := range s.products {
		if p.Id == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(op, id string, count int) {
	if s.publisher == nil {
		return
	}
	// Best effort; a full bus never blocks a mutation.
	_ = s.publisher.Publish(context.Background(), events.New(events.TypeComparisonSetChanged, map[string]interface{}{
		"op":         op,
		"product_id": id,
		"count":      count,
	}))
}
