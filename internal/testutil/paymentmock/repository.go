package paymentmock

import (
	"context"

	domain "mifi-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateIndividualFn func(ctx context.Context, p *domain.IndividualLoanPayment) error
	CreateGroupFn      func(ctx context.Context, p *domain.GroupLoanPayment) error
	ListIndividualFn   func(ctx context.Context, f domain.ListFilter) ([]domain.IndividualLoanPayment, error)
	ListGroupFn        func(ctx context.Context, f domain.ListFilter) ([]domain.GroupLoanPayment, error)
}

func (m *Repo) CreateIndividual(ctx context.Context, p *domain.IndividualLoanPayment) error {
	if m.CreateIndividualFn != nil {
		return m.CreateIndividualFn(ctx, p)
	}
	return nil
}

func (m *Repo) CreateGroup(ctx context.Context, p *domain.GroupLoanPayment) error {
	if m.CreateGroupFn != nil {
		return m.CreateGroupFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListIndividual(ctx context.Context, f domain.ListFilter) ([]domain.IndividualLoanPayment, error) {
	if m.ListIndividualFn != nil {
		return m.ListIndividualFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListGroup(ctx context.Context, f domain.ListFilter) ([]domain.GroupLoanPayment, error) {
	if m.ListGroupFn != nil {
		return m.ListGroupFn(ctx, f)
	}
	return nil, nil
}
