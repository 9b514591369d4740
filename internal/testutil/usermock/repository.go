package usermock

import (
	"context"

	domain "mifi-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// A nil MissingIDsFn reports every id as present.
type Repo struct {
	CreateFn     func(ctx context.Context, u *domain.User) error
	GetByIDFn    func(ctx context.Context, id uint64) (*domain.User, error)
	MissingIDsFn func(ctx context.Context, ids []uint64) ([]uint64, error)
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) MissingIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	if m.MissingIDsFn != nil {
		return m.MissingIDsFn(ctx, ids)
	}
	return nil, nil
}
