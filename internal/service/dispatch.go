package service

import (
	"context"
	"fmt"

	apperrors "github.com/andreinadaban/wishlist-service/pkg/errors"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

// Command names accepted by the multiplexed command endpoint. The set is
// closed; anything else is rejected before touching state.
const (
	CommandAdd      = "add"
	CommandRemove   = "remove"
	CommandClear    = "clear"
	CommandCheck    = "check"
	CommandSnapshot = "snapshot"
)

// Command is a single wishlist command. ProductID is required for add, remove
// and check, and ignored by clear and snapshot.
type Command struct {
	Do        string `json:"do" validate:"required,oneof=add remove clear check snapshot"`
	ProductID string `json:"product_id" validate:"omitempty,max=128"`
}

// Result is the outcome of a dispatched command. Items and Count always
// reflect the wishlist state after the command.
type Result struct {
	Do         string   `json:"do"`
	ProductID  string   `json:"product_id,omitempty"`
	Changed    bool     `json:"changed"`
	InWishlist *bool    `json:"in_wishlist,omitempty"`
	Items      []string `json:"items"`
	Count      int      `json:"count"`
}

func newResult(cmd Command, wishlist *domain.Wishlist, changed bool) *Result {
	return &Result{
		Do:        cmd.Do,
		ProductID: cmd.ProductID,
		Changed:   changed,
		Items:     wishlist.Items(),
		Count:     wishlist.Len(),
	}
}

// Dispatch routes a command to the matching operation for the given owner.
// All commands are idempotent: repeating one yields the same state and a
// successful result.
func (s *WishlistService) Dispatch(ctx context.Context, owner domain.Owner, cmd Command) (*Result, error) {
	switch cmd.Do {
	case CommandAdd:
		wishlist, changed, err := s.Add(ctx, owner, cmd.ProductID)
		if err != nil {
			return nil, err
		}
		return newResult(cmd, wishlist, changed), nil

	case CommandRemove:
		wishlist, changed, err := s.Remove(ctx, owner, cmd.ProductID)
		if err != nil {
			return nil, err
		}
		return newResult(cmd, wishlist, changed), nil

	case CommandClear:
		if err := s.Clear(ctx, owner); err != nil {
			return nil, err
		}
		return newResult(cmd, domain.NewWishlist(owner), true), nil

	case CommandCheck:
		if cmd.ProductID == "" {
			return nil, apperrors.InvalidInput("product id is required")
		}
		wishlist, err := s.Snapshot(ctx, owner)
		if err != nil {
			return nil, err
		}
		in := wishlist.Contains(cmd.ProductID)
		result := newResult(cmd, wishlist, false)
		result.InWishlist = &in
		return result, nil

	case CommandSnapshot:
		wishlist, err := s.Snapshot(ctx, owner)
		if err != nil {
			return nil, err
		}
		return newResult(cmd, wishlist, false), nil

	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown command %q", cmd.Do))
	}
}
