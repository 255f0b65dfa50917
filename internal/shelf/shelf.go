// Package shelf holds the user's product selection and keeps it
// synchronized with durable storage.
package shelf

import (
	"encoding/json"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/velvetlabs/velvet/internal/catalog"
	"github.com/velvetlabs/velvet/internal/store"
)

// SnapshotKey is the versioned storage key the shelf persists under.
const SnapshotKey = "velvet.shelf_v1"

// Shelf is the set of products the user has picked, keyed by product
// id. Membership is the sole signal for "selected". Every mutation
// writes the full value set to the store; write failures are logged
// and never surfaced, the in-memory set stays authoritative.
type Shelf struct {
	mu    sync.RWMutex
	items map[int]catalog.Product
	order []int
	store store.Storage
	log   *bolt.Logger
}

func New(s store.Storage, log *bolt.Logger) *Shelf {
	return &Shelf{
		items: make(map[int]catalog.Product),
		store: s,
		log:   log,
	}
}

// Restore loads the persisted snapshot. Call once at startup, before
// anything renders. Product ids that round-tripped through storage as
// strings are coerced back to ints.
func (s *Shelf) Restore() {
	raw, err := s.store.GetConfig(SnapshotKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read shelf snapshot")
		return
	}
	if raw == "" {
		return
	}

	var snapshot []snapshotProduct
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.log.Warn().Err(err).Msg("failed to decode shelf snapshot")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range snapshot {
		p := sp.product()
		if _, ok := s.items[p.ID]; ok {
			continue
		}
		s.items[p.ID] = p
		s.order = append(s.order, p.ID)
	}
}

// Toggle adds the product if absent, removes it if present. Returns
// true when the product is selected after the call.
func (s *Shelf) Toggle(p catalog.Product) bool {
	s.mu.Lock()
	if _, ok := s.items[p.ID]; ok {
		delete(s.items, p.ID)
		s.dropOrder(p.ID)
		s.mu.Unlock()
		s.persist()
		return false
	}
	s.items[p.ID] = p
	s.order = append(s.order, p.ID)
	s.mu.Unlock()
	s.persist()
	return true
}

// Remove deletes a product by id. Returns true if it was present.
func (s *Shelf) Remove(id int) bool {
	s.mu.Lock()
	_, ok := s.items[id]
	if ok {
		delete(s.items, id)
		s.dropOrder(id)
	}
	s.mu.Unlock()
	if ok {
		s.persist()
	}
	return ok
}

// Clear empties the shelf and persists the empty set.
func (s *Shelf) Clear() {
	s.mu.Lock()
	s.items = make(map[int]catalog.Product)
	s.order = nil
	s.mu.Unlock()
	s.persist()
}

// Has reports membership by product id.
func (s *Shelf) Has(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Values returns the selected products in insertion order.
func (s *Shelf) Values() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		values = append(values, s.items[id])
	}
	return values
}

// Len returns the number of selected products.
func (s *Shelf) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// dropOrder removes an id from the insertion order. Caller holds the lock.
func (s *Shelf) dropOrder(id int) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Shelf) persist() {
	data, err := json.Marshal(s.Values())
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode shelf snapshot")
		return
	}
	if err := s.store.SetConfig(SnapshotKey, string(data)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist shelf snapshot")
	}
}
