package collateralmock

import (
	"context"

	domain "mifi-backend/internal/domain/collateral"
	"mifi-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, c *domain.Collateral) error
	SaveFn             func(ctx context.Context, c *domain.Collateral) error
	GetFn              func(ctx context.Context, collateralID string) (*domain.Collateral, error)
	ListFn             func(ctx context.Context, f domain.Filter) ([]domain.Collateral, error)
	ListByLoanFn       func(ctx context.Context, ref loan.Ref) ([]domain.Collateral, error)
	AttachUnassignedFn func(ctx context.Context, collateralIDs []string, acct loan.Account) (int64, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Collateral) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Collateral) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, collateralID string) (*domain.Collateral, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, collateralID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Collateral, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListByLoan(ctx context.Context, ref loan.Ref) ([]domain.Collateral, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, ref)
	}
	return nil, nil
}

func (m *Repo) AttachUnassigned(ctx context.Context, collateralIDs []string, acct loan.Account) (int64, error) {
	if m.AttachUnassignedFn != nil {
		return m.AttachUnassignedFn(ctx, collateralIDs, acct)
	}
	return 0, nil
}
