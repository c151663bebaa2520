// Package memory implements the wishlist store in process memory. It backs
// local development and tests; records do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

// Store holds wishlist records in a map keyed by owner key.
type Store struct {
	mu      sync.RWMutex
	records map[string][]string
}

// NewStore creates an empty in-memory wishlist store.
func NewStore() *Store {
	return &Store{records: make(map[string][]string)}
}

// Get loads the owner's wishlist. A missing record yields an empty wishlist.
func (s *Store) Get(_ context.Context, owner domain.Owner) (*domain.Wishlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.records[owner.Key()]
	if !ok {
		return domain.NewWishlist(owner), nil
	}
	return domain.NewWishlistWithItems(owner, items), nil
}

// Put overwrites the owner's record with the wishlist's full member set.
func (s *Store) Put(_ context.Context, wishlist *domain.Wishlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[wishlist.Owner.Key()] = wishlist.Items()
	return nil
}

// Delete removes the owner's record. Absent records are a no-op.
func (s *Store) Delete(_ context.Context, owner domain.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, owner.Key())
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}
