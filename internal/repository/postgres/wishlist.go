// Package postgres implements the wishlist store on PostgreSQL. Each owner
// maps to a single row holding the member set as a JSON array.
//
// Schema:
//
//	CREATE TABLE wishlists (
//	    owner_key  TEXT PRIMARY KEY,
//	    items      JSONB NOT NULL DEFAULT '[]',
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

// DB is the subset of pgxpool.Pool the store uses. Tests substitute a mock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store persists wishlists in PostgreSQL.
type Store struct {
	db     DB
	logger *slog.Logger
}

// NewStore creates a PostgreSQL-backed wishlist store.
func NewStore(db DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Get loads the owner's wishlist. A missing row yields an empty wishlist, as
// does a row whose payload does not decode; the corrupt payload is logged and
// left in place so the next Put replaces it.
func (s *Store) Get(ctx context.Context, owner domain.Owner) (*domain.Wishlist, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT items FROM wishlists WHERE owner_key = $1`,
		owner.Key(),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
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

// Put overwrites the owner's row with the wishlist's full member set.
func (s *Store) Put(ctx context.Context, wishlist *domain.Wishlist) error {
	data, err := domain.EncodeItems(wishlist.Items())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO wishlists (owner_key, items, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (owner_key)
		 DO UPDATE SET items = EXCLUDED.items, updated_at = now()`,
		wishlist.Owner.Key(), data,
	)
	if err != nil {
		return fmt.Errorf("put wishlist for %s: %w", wishlist.Owner.Key(), err)
	}
	return nil
}

// Delete removes the owner's row. Absent rows are a no-op.
func (s *Store) Delete(ctx context.Context, owner domain.Owner) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM wishlists WHERE owner_key = $1`,
		owner.Key(),
	)
	if err != nil {
		return fmt.Errorf("delete wishlist for %s: %w", owner.Key(), err)
	}
	return nil
}

// Ping verifies connectivity for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
