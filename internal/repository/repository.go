// Package repository defines the persistence contract for wishlists and is
// implemented by the redis, postgres and memory backends.
package repository

import (
	"context"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

// Store persists one wishlist record per owner. All implementations follow
// the same contract:
//
//   - Get returns an empty wishlist when no record exists for the owner;
//     absence is never an error. A record that cannot be decoded is treated
//     the same way, so reads always yield a usable set.
//   - Put overwrites the owner's record with the full member set. An empty
//     wishlist may be stored or the record removed; both are valid and
//     indistinguishable through Get.
//   - Delete removes the owner's record. Deleting an absent record is a
//     no-op.
//
// Backend failures (timeouts, connection loss) are returned as errors and
// mapped to a retryable unavailability at the service boundary.
type Store interface {
	Get(ctx context.Context, owner domain.Owner) (*domain.Wishlist, error)
	Put(ctx context.Context, wishlist *domain.Wishlist) error
	Delete(ctx context.Context, owner domain.Owner) error
}
