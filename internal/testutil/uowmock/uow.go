package uowmock

import (
	"context"
	"errors"
	"fmt"

	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, kind loan.Kind, loanID string, fn func(r uow.Repos, acct loan.Account) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinLoanTx(fn func(context.Context, loan.Kind, string, func(uow.Repos, loan.Account) error) error) *UoW {
	m.WithinLoanTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Inline runs every transaction body directly against r. WithinLoanTx locks
// through r.Loans the same way the gorm implementation does.
func Inline(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinLoanTxFn: func(ctx context.Context, kind loan.Kind, loanID string, fn func(uow.Repos, loan.Account) error) error {
			var (
				acct loan.Account
				err  error
			)
			switch kind {
			case loan.KindIndividual:
				var l *loan.IndividualLoan
				l, err = r.Loans.GetIndividualForUpdate(ctx, loanID)
				acct = l
			case loan.KindGroup:
				var g *loan.GroupLoan
				g, err = r.Loans.GetGroupForUpdate(ctx, loanID)
				acct = g
			default:
				return loan.ErrInvalidKind
			}
			if err != nil {
				return fmt.Errorf("%w: %s", loan.ErrNotFound, loanID)
			}
			return fn(r, acct)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinLoanTx(ctx context.Context, kind loan.Kind, loanID string, fn func(r uow.Repos, acct loan.Account) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, kind, loanID, fn)
	}
	return errUnimplemented
}
