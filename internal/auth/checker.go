package auth

import (
	"context"
	"fmt"

	"promobot/internal/database"
)

// Checker is the single authorization predicate consulted by every mutating
// operation invoked by a human actor. Owners come from static configuration;
// admins are the persisted set managed by the owners.
type Checker struct {
	ownerIDs map[int64]struct{}
	admins   database.AdminRepository
}

// NewChecker creates a Checker. It requires at least one owner id and a
// non-nil admin repository.
func NewChecker(ownerIDs []int64, admins database.AdminRepository) (*Checker, error) {
	if len(ownerIDs) == 0 {
		return nil, fmt.Errorf("at least one owner ID is required")
	}
	if admins == nil {
		return nil, fmt.Errorf("admin repository cannot be nil")
	}

	owners := make(map[int64]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}
	return &Checker{ownerIDs: owners, admins: admins}, nil
}

// IsOwner reports whether the user is a configured owner. Owners are not
// stored in the admin set but satisfy every authorization check.
func (c *Checker) IsOwner(userID int64) bool {
	_, ok := c.ownerIDs[userID]
	return ok
}

// IsAdmin reports whether the user is in the persisted admin set.
func (c *Checker) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return c.admins.IsAdmin(ctx, userID)
}

// IsAuthorized reports whether the user may invoke mutating operations:
// owner or admin.
func (c *Checker) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	if c.IsOwner(userID) {
		return true, nil
	}
	return c.admins.IsAdmin(ctx, userID)
}
