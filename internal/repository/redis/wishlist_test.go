package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

func newTestStore(t *testing.T, guestTTL time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewStore(client, guestTTL, logger), mr
}

func TestStoreGetMissingKey(t *testing.T) {
	store, _ := newTestStore(t, 0)

	w, err := store.Get(context.Background(), domain.CustomerOwner("42"))
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())
	assert.Equal(t, domain.CustomerOwner("42"), w.Owner)
}

func TestStorePutGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()
	owner := domain.CustomerOwner("42")

	err := store.Put(ctx, domain.NewWishlistWithItems(owner, []string{"p2", "p1"}))
	require.NoError(t, err)

	w, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, w.Items())
}

func TestStorePutOverwrites(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()
	owner := domain.CustomerOwner("42")

	require.NoError(t, store.Put(ctx, domain.NewWishlistWithItems(owner, []string{"p1", "p2"})))
	require.NoError(t, store.Put(ctx, domain.NewWishlistWithItems(owner, []string{"p3"})))

	w, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3"}, w.Items())
}

func TestStoreGuestTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.NewWishlistWithItems(domain.GuestOwner("g1"), []string{"p1"})))
	require.NoError(t, store.Put(ctx, domain.NewWishlistWithItems(domain.CustomerOwner("42"), []string{"p1"})))

	assert.Equal(t, time.Hour, mr.TTL("wishlist:guest:g1"))
	assert.Equal(t, time.Duration(0), mr.TTL("wishlist:customer:42"), "customer records do not expire")

	mr.FastForward(2 * time.Hour)

	w, err := store.Get(ctx, domain.GuestOwner("g1"))
	require.NoError(t, err)
	assert.True(t, w.IsEmpty(), "expired guest record reads as empty")
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()
	owner := domain.GuestOwner("g1")

	require.NoError(t, store.Put(ctx, domain.NewWishlistWithItems(owner, []string{"p1"})))
	require.NoError(t, store.Delete(ctx, owner))

	w, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())

	assert.NoError(t, store.Delete(ctx, owner), "deleting an absent record is a no-op")
}

func TestStoreCorruptRecordReadsAsEmpty(t *testing.T) {
	store, mr := newTestStore(t, 0)
	ctx := context.Background()
	owner := domain.CustomerOwner("42")

	require.NoError(t, mr.Set("wishlist:customer:42", "{not json"))

	w, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())

	// The next write replaces the corrupt payload.
	require.NoError(t, store.Put(ctx, domain.NewWishlistWithItems(owner, []string{"p1"})))
	w, err = store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, w.Items())
}

func TestStoreBackendDown(t *testing.T) {
	store, mr := newTestStore(t, 0)
	mr.Close()

	_, err := store.Get(context.Background(), domain.CustomerOwner("42"))
	assert.Error(t, err)

	err = store.Put(context.Background(), domain.NewWishlist(domain.CustomerOwner("42")))
	assert.Error(t, err)
}
