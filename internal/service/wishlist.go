// Package service implements the wishlist business logic: the command
// dispatcher, the merge flow and the concurrency discipline around the store.
package service

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/andreinadaban/wishlist-service/pkg/errors"
	"github.com/andreinadaban/wishlist-service/pkg/keymutex"

	"github.com/andreinadaban/wishlist-service/internal/catalog"
	"github.com/andreinadaban/wishlist-service/internal/domain"
	"github.com/andreinadaban/wishlist-service/internal/repository"
)

// EventPublisher publishes wishlist domain events. Publishing is best-effort:
// a failed publish is logged, never surfaced to the caller.
type EventPublisher interface {
	PublishWishlistUpdated(ctx context.Context, wishlist *domain.Wishlist) error
	PublishWishlistCleared(ctx context.Context, owner domain.Owner) error
	PublishWishlistMerged(ctx context.Context, guest domain.Owner, merged *domain.Wishlist) error
}

// NopPublisher discards all events. Used when Kafka is not configured and in
// tests.
type NopPublisher struct{}

func (NopPublisher) PublishWishlistUpdated(context.Context, *domain.Wishlist) error { return nil }
func (NopPublisher) PublishWishlistCleared(context.Context, domain.Owner) error     { return nil }
func (NopPublisher) PublishWishlistMerged(context.Context, domain.Owner, *domain.Wishlist) error {
	return nil
}

// WishlistService implements the business logic for wishlist operations.
//
// Every mutation is a read-modify-write against the store, made logically
// atomic per owner by a keyed mutex: commands for the same owner are
// serialized, commands for different owners run concurrently. The merge flow
// locks both owners in a stable order so it cannot deadlock against itself or
// against single-owner commands.
type WishlistService struct {
	store        repository.Store
	catalog      catalog.Catalog
	publisher    EventPublisher
	locks        *keymutex.KeyedMutex
	logger       *slog.Logger
	storeTimeout time.Duration
}

// NewWishlistService creates a new wishlist service. storeTimeout bounds each
// individual store call so a stalled backend turns into a retryable error
// instead of a hung request.
func NewWishlistService(store repository.Store, cat catalog.Catalog, publisher EventPublisher, logger *slog.Logger, storeTimeout time.Duration) *WishlistService {
	return &WishlistService{
		store:        store,
		catalog:      cat,
		publisher:    publisher,
		locks:        keymutex.New(),
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// Snapshot returns the owner's current wishlist. Owners with no stored record
// get an empty wishlist.
func (s *WishlistService) Snapshot(ctx context.Context, owner domain.Owner) (*domain.Wishlist, error) {
	return s.load(ctx, owner)
}

// Contains reports whether the product is in the owner's wishlist. The
// product id is not validated against the catalog: a membership probe for an
// unknown id is simply false.
func (s *WishlistService) Contains(ctx context.Context, owner domain.Owner, productID string) (bool, error) {
	if productID == "" {
		return false, apperrors.InvalidInput("product id is required")
	}

	wishlist, err := s.load(ctx, owner)
	if err != nil {
		return false, err
	}
	return wishlist.Contains(productID), nil
}

// Add inserts a product into the owner's wishlist. The product id must exist
// in the catalog. Returns the resulting wishlist and whether the set changed;
// adding a product already present is a successful no-op.
func (s *WishlistService) Add(ctx context.Context, owner domain.Owner, productID string) (*domain.Wishlist, bool, error) {
	if productID == "" {
		return nil, false, apperrors.InvalidInput("product id is required")
	}

	// Catalog validation happens outside the owner lock; it is a network
	// call and does not touch wishlist state.
	exists, err := s.catalog.Exists(ctx, productID)
	if err != nil {
		return nil, false, apperrors.DependencyUnavailable("product catalog", err)
	}
	if !exists {
		return nil, false, apperrors.InvalidProduct(productID)
	}

	s.locks.Lock(owner.Key())
	defer s.locks.Unlock(owner.Key())

	wishlist, err := s.load(ctx, owner)
	if err != nil {
		return nil, false, err
	}

	if !wishlist.Add(productID) {
		return wishlist, false, nil
	}

	if err := s.save(ctx, wishlist); err != nil {
		return nil, false, err
	}

	s.publishUpdated(ctx, wishlist)

	s.logger.InfoContext(ctx, "product added to wishlist",
		slog.String("owner_key", owner.Key()),
		slog.String("product_id", productID),
		slog.Int("item_count", wishlist.Len()),
	)

	return wishlist, true, nil
}

// Remove deletes a product from the owner's wishlist. Returns the resulting
// wishlist and whether the set changed; removing an absent product is a
// successful no-op.
func (s *WishlistService) Remove(ctx context.Context, owner domain.Owner, productID string) (*domain.Wishlist, bool, error) {
	if productID == "" {
		return nil, false, apperrors.InvalidInput("product id is required")
	}

	s.locks.Lock(owner.Key())
	defer s.locks.Unlock(owner.Key())

	wishlist, err := s.load(ctx, owner)
	if err != nil {
		return nil, false, err
	}

	if !wishlist.Remove(productID) {
		return wishlist, false, nil
	}

	if err := s.save(ctx, wishlist); err != nil {
		return nil, false, err
	}

	s.publishUpdated(ctx, wishlist)

	s.logger.InfoContext(ctx, "product removed from wishlist",
		slog.String("owner_key", owner.Key()),
		slog.String("product_id", productID),
		slog.Int("item_count", wishlist.Len()),
	)

	return wishlist, true, nil
}

// Clear removes the owner's entire wishlist. Clearing an already empty
// wishlist is a successful no-op.
func (s *WishlistService) Clear(ctx context.Context, owner domain.Owner) error {
	s.locks.Lock(owner.Key())
	defer s.locks.Unlock(owner.Key())

	if err := s.delete(ctx, owner); err != nil {
		return err
	}

	if err := s.publisher.PublishWishlistCleared(ctx, owner); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.cleared event",
			slog.String("owner_key", owner.Key()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wishlist cleared",
		slog.String("owner_key", owner.Key()),
	)

	return nil
}

// Merge folds the guest wishlist into the customer wishlist and removes the
// guest record. The customer's existing members are kept; the result is the
// set union. Merging an empty or absent guest wishlist is a successful no-op,
// so replaying a merge after a partial failure converges on the same state.
func (s *WishlistService) Merge(ctx context.Context, guest, customer domain.Owner) (*domain.Wishlist, error) {
	if guest.Kind != domain.OwnerGuest {
		return nil, apperrors.InvalidInput("merge source must be a guest owner")
	}
	if customer.Kind != domain.OwnerCustomer {
		return nil, apperrors.InvalidInput("merge target must be a customer owner")
	}

	unlock := s.locks.LockPair(guest.Key(), customer.Key())
	defer unlock()

	guestWishlist, err := s.load(ctx, guest)
	if err != nil {
		return nil, err
	}

	customerWishlist, err := s.load(ctx, customer)
	if err != nil {
		return nil, err
	}

	if !guestWishlist.IsEmpty() {
		customerWishlist.Merge(guestWishlist)
		if err := s.save(ctx, customerWishlist); err != nil {
			return nil, err
		}
	}

	// The guest record is deleted after the union is durably stored. If the
	// delete fails the merge can be replayed; the union is idempotent.
	if err := s.delete(ctx, guest); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishWishlistMerged(ctx, guest, customerWishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.merged event",
			slog.String("guest_key", guest.Key()),
			slog.String("customer_key", customer.Key()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "guest wishlist merged into customer wishlist",
		slog.String("guest_key", guest.Key()),
		slog.String("customer_key", customer.Key()),
		slog.Int("item_count", customerWishlist.Len()),
	)

	return customerWishlist, nil
}

func (s *WishlistService) publishUpdated(ctx context.Context, wishlist *domain.Wishlist) {
	if err := s.publisher.PublishWishlistUpdated(ctx, wishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("owner_key", wishlist.Owner.Key()),
			slog.String("error", err.Error()),
		)
	}
}

// load reads the owner's wishlist with a bounded store call.
func (s *WishlistService) load(ctx context.Context, owner domain.Owner) (*domain.Wishlist, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	wishlist, err := s.store.Get(ctx, owner)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return wishlist, nil
}

func (s *WishlistService) save(ctx context.Context, wishlist *domain.Wishlist) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.store.Put(ctx, wishlist); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (s *WishlistService) delete(ctx context.Context, owner domain.Owner) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, owner); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}
