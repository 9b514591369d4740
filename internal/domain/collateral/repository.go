package collateral

import (
	"context"

	"mifi-backend/internal/domain/loan"
)

type Repository interface {
	Create(ctx context.Context, c *Collateral) error
	Save(ctx context.Context, c *Collateral) error
	Get(ctx context.Context, collateralID string) (*Collateral, error)
	List(ctx context.Context, f Filter) ([]Collateral, error)
	ListByLoan(ctx context.Context, ref loan.Ref) ([]Collateral, error)

	// AttachUnassigned links the listed collaterals to acct, skipping the ones
	// already attached, and moves each file key under the loan's path.
	// Returns the number of rows linked.
	AttachUnassigned(ctx context.Context, collateralIDs []string, acct loan.Account) (int64, error)
}
