package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andreinadaban/wishlist-service/internal/domain"
	pkgkafka "github.com/andreinadaban/wishlist-service/pkg/kafka"
)

// Kafka topic constants for wishlist domain events.
const (
	TopicWishlistUpdated = "ecommerce.wishlist.updated"
	TopicWishlistCleared = "ecommerce.wishlist.cleared"
	TopicWishlistMerged  = "ecommerce.wishlist.merged"
)

// Aggregate type constant.
const AggregateTypeWishlist = "wishlist"

// Source identifier for events originating from the wishlist service.
const SourceWishlistService = "wishlist-service"

// WishlistUpdatedData is the payload for a wishlist.updated event. Consumers
// use it to refresh denormalized views; the payload carries the full member
// set so no read-back is needed.
type WishlistUpdatedData struct {
	OwnerKey  string   `json:"owner_key"`
	OwnerKind string   `json:"owner_kind"`
	Items     []string `json:"items"`
	ItemCount int      `json:"item_count"`
}

// WishlistClearedData is the payload for a wishlist.cleared event.
type WishlistClearedData struct {
	OwnerKey  string `json:"owner_key"`
	OwnerKind string `json:"owner_kind"`
}

// WishlistMergedData is the payload for a wishlist.merged event.
type WishlistMergedData struct {
	GuestKey    string   `json:"guest_key"`
	CustomerKey string   `json:"customer_key"`
	Items       []string `json:"items"`
	ItemCount   int      `json:"item_count"`
}

// Producer publishes wishlist domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the wishlist service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, wishlist *domain.Wishlist) error {
	data := WishlistUpdatedData{
		OwnerKey:  wishlist.Owner.Key(),
		OwnerKind: string(wishlist.Owner.Kind),
		Items:     wishlist.Items(),
		ItemCount: wishlist.Len(),
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, wishlist.Owner.Key(), AggregateTypeWishlist, SourceWishlistService, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("owner_key", wishlist.Owner.Key()),
		slog.Int("item_count", wishlist.Len()),
	)

	return nil
}

// PublishWishlistCleared publishes a wishlist.cleared event.
func (p *Producer) PublishWishlistCleared(ctx context.Context, owner domain.Owner) error {
	data := WishlistClearedData{
		OwnerKey:  owner.Key(),
		OwnerKind: string(owner.Kind),
	}

	event, err := pkgkafka.NewEvent(TopicWishlistCleared, owner.Key(), AggregateTypeWishlist, SourceWishlistService, data)
	if err != nil {
		return fmt.Errorf("create wishlist.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistCleared, event); err != nil {
		return fmt.Errorf("publish wishlist.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.cleared event",
		slog.String("owner_key", owner.Key()),
	)

	return nil
}

// PublishWishlistMerged publishes a wishlist.merged event.
func (p *Producer) PublishWishlistMerged(ctx context.Context, guest domain.Owner, merged *domain.Wishlist) error {
	data := WishlistMergedData{
		GuestKey:    guest.Key(),
		CustomerKey: merged.Owner.Key(),
		Items:       merged.Items(),
		ItemCount:   merged.Len(),
	}

	event, err := pkgkafka.NewEvent(TopicWishlistMerged, merged.Owner.Key(), AggregateTypeWishlist, SourceWishlistService, data)
	if err != nil {
		return fmt.Errorf("create wishlist.merged event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistMerged, event); err != nil {
		return fmt.Errorf("publish wishlist.merged event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.merged event",
		slog.String("guest_key", guest.Key()),
		slog.String("customer_key", merged.Owner.Key()),
		slog.Int("item_count", merged.Len()),
	)

	return nil
}
