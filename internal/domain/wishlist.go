package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Wishlist is a set of product identifiers owned by exactly one Owner.
// Membership is a set: adding a present member and removing an absent member
// are both no-ops, and the empty wishlist is a valid, representable state
// distinct from "no record" only in storage, never in behavior.
type Wishlist struct {
	Owner Owner
	items map[string]struct{}
}

// NewWishlist creates an empty wishlist for the given owner.
func NewWishlist(owner Owner) *Wishlist {
	return &Wishlist{
		Owner: owner,
		items: make(map[string]struct{}),
	}
}

// NewWishlistWithItems creates a wishlist pre-populated with the given
// product ids. Duplicates collapse.
func NewWishlistWithItems(owner Owner, productIDs []string) *Wishlist {
	w := NewWishlist(owner)
	for _, id := range productIDs {
		w.items[id] = struct{}{}
	}
	return w
}

// Add inserts a product id. Returns true if the id was not already present.
func (w *Wishlist) Add(productID string) bool {
	if _, ok := w.items[productID]; ok {
		return false
	}
	w.items[productID] = struct{}{}
	return true
}

// Remove deletes a product id. Returns true if the id was present.
func (w *Wishlist) Remove(productID string) bool {
	if _, ok := w.items[productID]; !ok {
		return false
	}
	delete(w.items, productID)
	return true
}

// Contains reports membership of a product id.
func (w *Wishlist) Contains(productID string) bool {
	_, ok := w.items[productID]
	return ok
}

// Items returns the member product ids in lexicographic order. The order is
// not significant to the set; sorting keeps responses and encodings stable.
func (w *Wishlist) Items() []string {
	items := make([]string, 0, len(w.items))
	for id := range w.items {
		items = append(items, id)
	}
	sort.Strings(items)
	return items
}

// Len returns the number of members.
func (w *Wishlist) Len() int {
	return len(w.items)
}

// IsEmpty reports whether the wishlist has no members.
func (w *Wishlist) IsEmpty() bool {
	return len(w.items) == 0
}

// Merge adds every member of other into w.
func (w *Wishlist) Merge(other *Wishlist) {
	for id := range other.items {
		w.items[id] = struct{}{}
	}
}

// EncodeItems serializes a member set to its compact stored form, a JSON
// array of product ids.
func EncodeItems(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode wishlist items: %w", err)
	}
	return data, nil
}

// DecodeItems parses the stored form back into a member list. Callers at the
// storage boundary treat a decode failure as the empty set; the error is
// returned so they can log the fallback.
func DecodeItems(data []byte) ([]string, error) {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode wishlist items: %w", err)
	}
	return items, nil
}
