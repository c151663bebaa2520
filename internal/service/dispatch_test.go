package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/andreinadaban/wishlist-service/pkg/errors"

	"github.com/andreinadaban/wishlist-service/internal/domain"
	"github.com/andreinadaban/wishlist-service/internal/repository/memory"
)

func TestDispatchAdd(t *testing.T) {
	svc := newTestService(memory.NewStore(), defaultCatalog(), nil)
	owner := domain.CustomerOwner("42")

	result, err := svc.Dispatch(context.Background(), owner, Command{Do: CommandAdd, ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, CommandAdd, result.Do)
	assert.True(t, result.Changed)
	assert.Equal(t, []string{"p1"}, result.Items)
	assert.Equal(t, 1, result.Count)
	assert.Nil(t, result.InWishlist)

	result, err = svc.Dispatch(context.Background(), owner, Command{Do: CommandAdd, ProductID: "p1"})
	require.NoError(t, err)
	assert.False(t, result.Changed, "repeated add reports an unchanged set")
}

func TestDispatchRemove(t *testing.T) {
	svc := newTestService(memory.NewStore(), defaultCatalog(), nil)
	owner := domain.CustomerOwner("42")
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, owner, Command{Do: CommandAdd, ProductID: "p1"})
	require.NoError(t, err)

	result, err := svc.Dispatch(ctx, owner, Command{Do: CommandRemove, ProductID: "p1"})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, []string{}, result.Items)
	assert.Equal(t, 0, result.Count)
}

func TestDispatchClear(t *testing.T) {
	svc := newTestService(memory.NewStore(), defaultCatalog(), nil)
	owner := domain.GuestOwner("g1")
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, owner, Command{Do: CommandAdd, ProductID: "p1"})
	require.NoError(t, err)

	result, err := svc.Dispatch(ctx, owner, Command{Do: CommandClear})
	require.NoError(t, err)
	assert.Equal(t, []string{}, result.Items)
	assert.Equal(t, 0, result.Count)
}

func TestDispatchCheck(t *testing.T) {
	svc := newTestService(memory.NewStore(), defaultCatalog(), nil)
	owner := domain.CustomerOwner("42")
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, owner, Command{Do: CommandAdd, ProductID: "p1"})
	require.NoError(t, err)

	result, err := svc.Dispatch(ctx, owner, Command{Do: CommandCheck, ProductID: "p1"})
	require.NoError(t, err)
	require.NotNil(t, result.InWishlist)
	assert.True(t, *result.InWishlist)

	result, err = svc.Dispatch(ctx, owner, Command{Do: CommandCheck, ProductID: "p2"})
	require.NoError(t, err)
	require.NotNil(t, result.InWishlist)
	assert.False(t, *result.InWishlist)

	_, err = svc.Dispatch(ctx, owner, Command{Do: CommandCheck})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "check requires a product id")
}

func TestDispatchSnapshot(t *testing.T) {
	svc := newTestService(memory.NewStore(), defaultCatalog(), nil)
	owner := domain.CustomerOwner("42")
	ctx := context.Background()

	result, err := svc.Dispatch(ctx, owner, Command{Do: CommandSnapshot})
	require.NoError(t, err)
	assert.Equal(t, []string{}, result.Items)

	_, err = svc.Dispatch(ctx, owner, Command{Do: CommandAdd, ProductID: "p2"})
	require.NoError(t, err)

	result, err = svc.Dispatch(ctx, owner, Command{Do: CommandSnapshot})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, result.Items)
}

func TestDispatchUnknownCommand(t *testing.T) {
	svc := newTestService(memory.NewStore(), defaultCatalog(), nil)

	_, err := svc.Dispatch(context.Background(), domain.CustomerOwner("42"), Command{Do: "explode"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
