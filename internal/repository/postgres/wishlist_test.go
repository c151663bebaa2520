package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

func newTestStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewStore(mock, logger), mock
}

func TestStoreGet(t *testing.T) {
	store, mock := newTestStore(t)
	owner := domain.CustomerOwner("42")

	mock.ExpectQuery(`SELECT items FROM wishlists WHERE owner_key = \$1`).
		WithArgs("customer:42").
		WillReturnRows(pgxmock.NewRows([]string{"items"}).AddRow([]byte(`["p1","p2"]`)))

	w, err := store.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, w.Items())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetMissingRow(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT items FROM wishlists WHERE owner_key = \$1`).
		WithArgs("guest:g1").
		WillReturnError(pgx.ErrNoRows)

	w, err := store.Get(context.Background(), domain.GuestOwner("g1"))
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetCorruptRecordReadsAsEmpty(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT items FROM wishlists WHERE owner_key = \$1`).
		WithArgs("customer:42").
		WillReturnRows(pgxmock.NewRows([]string{"items"}).AddRow([]byte(`{not json`)))

	w, err := store.Get(context.Background(), domain.CustomerOwner("42"))
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetBackendError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT items FROM wishlists WHERE owner_key = \$1`).
		WithArgs("customer:42").
		WillReturnError(errors.New("connection refused"))

	_, err := store.Get(context.Background(), domain.CustomerOwner("42"))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePut(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(`INSERT INTO wishlists`).
		WithArgs("customer:42", []byte(`["p1","p2"]`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Put(context.Background(), domain.NewWishlistWithItems(domain.CustomerOwner("42"), []string{"p2", "p1"}))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePutEmptySet(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(`INSERT INTO wishlists`).
		WithArgs("guest:g1", []byte(`[]`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Put(context.Background(), domain.NewWishlist(domain.GuestOwner("g1")))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreDelete(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(`DELETE FROM wishlists WHERE owner_key = \$1`).
		WithArgs("guest:g1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := store.Delete(context.Background(), domain.GuestOwner("g1"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreDeleteAbsentRow(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(`DELETE FROM wishlists WHERE owner_key = \$1`).
		WithArgs("guest:g1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.Delete(context.Background(), domain.GuestOwner("g1"))
	assert.NoError(t, err, "deleting an absent record is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}
