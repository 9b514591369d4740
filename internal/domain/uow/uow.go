package uow

import (
	"context"

	"mifi-backend/internal/domain/collateral"
	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/membership"
	"mifi-backend/internal/domain/payment"
	"mifi-backend/internal/domain/user"
)

// Repos are bound to the same transaction.
type Repos struct {
	Loans       loan.Repository
	Members     membership.Repository
	Payments    payment.Repository
	Collaterals collateral.Repository
	Users       user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; loan.ErrNotFound when missing
	WithinLoanTx(ctx context.Context, kind loan.Kind, loanID string, fn func(r Repos, acct loan.Account) error) error
}
