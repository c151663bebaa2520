package domain

import (
	"fmt"
	"strings"
)

// OwnerKind distinguishes the two owner variants. A wishlist always belongs
// to exactly one owner; resolution is deterministic for a given request.
type OwnerKind string

const (
	// OwnerCustomer is derived from a durable account identifier and is
	// stable across devices and sessions.
	OwnerCustomer OwnerKind = "customer"

	// OwnerGuest is derived from a client-side token minted on first
	// interaction and is stable only for that browser until merged or
	// expired.
	OwnerGuest OwnerKind = "guest"
)

// Owner identifies who a wishlist belongs to.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// CustomerOwner returns the authenticated owner variant for an account id.
func CustomerOwner(accountID string) Owner {
	return Owner{Kind: OwnerCustomer, ID: accountID}
}

// GuestOwner returns the anonymous owner variant for a client token.
func GuestOwner(token string) Owner {
	return Owner{Kind: OwnerGuest, ID: token}
}

// Key returns the stable storage key for the owner, e.g. "customer:42" or
// "guest:1f0c…". Keys of distinct owners never collide because the kind is
// part of the key and ids cannot contain the separator position ambiguity
// (the kind never contains a colon).
func (o Owner) Key() string {
	return string(o.Kind) + ":" + o.ID
}

// IsZero reports whether the owner is the zero value (no kind, no id).
func (o Owner) IsZero() bool {
	return o.Kind == "" && o.ID == ""
}

// ParseOwnerKey parses a storage key of the form "<kind>:<id>" back into an
// Owner. Used by admin callers that address wishlists by key.
func ParseOwnerKey(key string) (Owner, error) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return Owner{}, fmt.Errorf("malformed owner key %q", key)
	}

	switch OwnerKind(kind) {
	case OwnerCustomer, OwnerGuest:
		return Owner{Kind: OwnerKind(kind), ID: id}, nil
	default:
		return Owner{}, fmt.Errorf("unknown owner kind %q", kind)
	}
}
