package users

import (
	"context"
)

// Repository stores users keyed by validated email. Implementations must
// serialize writes per key: of two concurrent Create calls for the same
// email exactly one succeeds, and a Get never observes a partially updated
// record.
type Repository interface {
	// Get returns the user for email or common.ErrNotFound.
	Get(ctx context.Context, email string) (*User, error)

	// Create inserts a new user. If the email is already registered it
	// returns common.ErrAlreadyExists and leaves the store unchanged.
	Create(ctx context.Context, user *User) error

	// Update replaces the record for user.Email atomically. It returns
	// common.ErrNotFound if the user does not exist.
	Update(ctx context.Context, user *User) error
}
