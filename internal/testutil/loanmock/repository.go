package loanmock

import (
	"context"
	"time"

	domain "mifi-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Nil write funcs succeed; nil lookups return context.Canceled.
type Repo struct {
	CreateIndividualFn       func(ctx context.Context, l *domain.IndividualLoan) error
	CreateGroupFn            func(ctx context.Context, g *domain.GroupLoan) error
	SaveIndividualFn         func(ctx context.Context, l *domain.IndividualLoan) error
	SaveGroupFn              func(ctx context.Context, g *domain.GroupLoan) error
	GetIndividualFn          func(ctx context.Context, loanID string) (*domain.IndividualLoan, error)
	GetGroupFn               func(ctx context.Context, loanID string) (*domain.GroupLoan, error)
	GetGroupByIDFn           func(ctx context.Context, id uint64) (*domain.GroupLoan, error)
	GetIndividualForUpdateFn func(ctx context.Context, loanID string) (*domain.IndividualLoan, error)
	GetGroupForUpdateFn      func(ctx context.Context, loanID string) (*domain.GroupLoan, error)
	ListIndividualFn         func(ctx context.Context, f domain.ListFilter) ([]domain.IndividualLoan, error)
	ListGroupFn              func(ctx context.Context, f domain.ListFilter) ([]domain.GroupLoan, error)
	MarkOverdueFn            func(ctx context.Context, kind domain.Kind, asOf time.Time) (int64, error)
}

func (m *Repo) CreateIndividual(ctx context.Context, l *domain.IndividualLoan) error {
	if m.CreateIndividualFn != nil {
		return m.CreateIndividualFn(ctx, l)
	}
	return nil
}

func (m *Repo) CreateGroup(ctx context.Context, g *domain.GroupLoan) error {
	if m.CreateGroupFn != nil {
		return m.CreateGroupFn(ctx, g)
	}
	return nil
}

func (m *Repo) SaveIndividual(ctx context.Context, l *domain.IndividualLoan) error {
	if m.SaveIndividualFn != nil {
		return m.SaveIndividualFn(ctx, l)
	}
	return nil
}

func (m *Repo) SaveGroup(ctx context.Context, g *domain.GroupLoan) error {
	if m.SaveGroupFn != nil {
		return m.SaveGroupFn(ctx, g)
	}
	return nil
}

func (m *Repo) GetIndividual(ctx context.Context, loanID string) (*domain.IndividualLoan, error) {
	if m.GetIndividualFn != nil {
		return m.GetIndividualFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetGroup(ctx context.Context, loanID string) (*domain.GroupLoan, error) {
	if m.GetGroupFn != nil {
		return m.GetGroupFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetGroupByID(ctx context.Context, id uint64) (*domain.GroupLoan, error) {
	if m.GetGroupByIDFn != nil {
		return m.GetGroupByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetIndividualForUpdate(ctx context.Context, loanID string) (*domain.IndividualLoan, error) {
	if m.GetIndividualForUpdateFn != nil {
		return m.GetIndividualForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetGroupForUpdate(ctx context.Context, loanID string) (*domain.GroupLoan, error) {
	if m.GetGroupForUpdateFn != nil {
		return m.GetGroupForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListIndividual(ctx context.Context, f domain.ListFilter) ([]domain.IndividualLoan, error) {
	if m.ListIndividualFn != nil {
		return m.ListIndividualFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListGroup(ctx context.Context, f domain.ListFilter) ([]domain.GroupLoan, error) {
	if m.ListGroupFn != nil {
		return m.ListGroupFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) MarkOverdue(ctx context.Context, kind domain.Kind, asOf time.Time) (int64, error) {
	if m.MarkOverdueFn != nil {
		return m.MarkOverdueFn(ctx, kind, asOf)
	}
	return 0, nil
}
