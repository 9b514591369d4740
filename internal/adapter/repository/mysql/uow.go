package mysql

import (
	"context"
	"errors"
	"fmt"

	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db outside of any transaction.
func NewRepos(db *gorm.DB) uow.Repos { return reposFor(db) }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:       &LoanRepository{db: tx},
		Members:     &MembershipRepository{db: tx},
		Payments:    &PaymentRepository{db: tx},
		Collaterals: &CollateralRepository{db: tx},
		Users:       &UserRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, kind loan.Kind, loanID string, fn func(r uow.Repos, acct loan.Account) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front so balance checks see the committed value
		acct, err := lockAccount(ctx, r.Loans, kind, loanID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s loan %s", loan.ErrNotFound, kind, loanID)
		}
		if err != nil {
			return err
		}
		return fn(r, acct)
	})
}

func lockAccount(ctx context.Context, loans loan.Repository, kind loan.Kind, loanID string) (loan.Account, error) {
	switch kind {
	case loan.KindIndividual:
		return loans.GetIndividualForUpdate(ctx, loanID)
	case loan.KindGroup:
		return loans.GetGroupForUpdate(ctx, loanID)
	}
	return nil, loan.ErrInvalidKind
}
