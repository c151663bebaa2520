// Package redis implements the wishlist store on Redis. Each owner maps to a
// single string key holding the member set as a JSON array.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

const keyPrefix = "wishlist:"

// Store persists wishlists in Redis.
type Store struct {
	client   *redis.Client
	guestTTL time.Duration
	logger   *slog.Logger
}

// NewStore creates a Redis-backed wishlist store. Guest records expire after
// guestTTL; customer records persist until deleted. A guestTTL of zero keeps
// guest records indefinitely.
func NewStore(client *redis.Client, guestTTL time.Duration, logger *slog.Logger) *Store {
	return &Store{
		client:   client,
		guestTTL: guestTTL,
		logger:   logger,
	}
}

func storageKey(owner domain.Owner) string {
	return keyPrefix + owner.Key()
}

// Get loads the owner's wishlist. A missing key yields an empty wishlist. A
// record that does not decode also yields the empty wishlist; the corrupt
// payload is logged and left in place so the next Put replaces it.
func (s *Store) Get(ctx context.Context, owner domain.Owner) (*domain.Wishlist, error) {
	data, err := s.client.Get(ctx, storageKey(owner)).Bytes()
	if err == redis.Nil {
		return domain.NewWishlist(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist for %s: %w", owner.Key(), err)
	}

	items, err := domain.DecodeItems(data)
	if err != nil {
		s.logger.WarnContext(ctx, "unreadable wishlist record, treating as empty",
			slog.String("owner_key", owner.Key()),
			slog.String("error", err.Error()),
		)
		return domain.NewWishlist(owner), nil
	}

	return domain.NewWishlistWithItems(owner, items), nil
}

// Put overwrites the owner's record with the wishlist's full member set.
func (s *Store) Put(ctx context.Context, wishlist *domain.Wishlist) error {
	data, err := domain.EncodeItems(wishlist.Items())
	if err != nil {
		return err
	}

	var ttl time.Duration
	if wishlist.Owner.Kind == domain.OwnerGuest {
		ttl = s.guestTTL
	}

	if err := s.client.Set(ctx, storageKey(wishlist.Owner), data, ttl).Err(); err != nil {
		return fmt.Errorf("put wishlist for %s: %w", wishlist.Owner.Key(), err)
	}
	return nil
}

// Delete removes the owner's record. Absent records are a no-op.
func (s *Store) Delete(ctx context.Context, owner domain.Owner) error {
	if err := s.client.Del(ctx, storageKey(owner)).Err(); err != nil {
		return fmt.Errorf("delete wishlist for %s: %w", owner.Key(), err)
	}
	return nil
}

// Ping verifies connectivity for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
