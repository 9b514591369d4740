package user

import (
	"context"
	"fmt"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	// MissingIDs returns the ids with no matching user, in input order.
	MissingIDs(ctx context.Context, ids []uint64) ([]uint64, error)
}

// CheckExist fails with ErrNotFound naming every id that has no user.
func CheckExist(ctx context.Context, repo Repository, ids ...uint64) error {
	missing, err := repo.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrNotFound, missing)
	}
	return nil
}
