package membershipmock

import (
	"context"

	"mifi-backend/internal/domain/loan"
	domain "mifi-backend/internal/domain/membership"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateBatchFn       func(ctx context.Context, rows []domain.GroupMemberStatus) error
	DeleteByGroupLoanFn func(ctx context.Context, groupLoanID uint64) (int64, error)
	GetFn               func(ctx context.Context, id uint64) (*domain.GroupMemberStatus, error)
	GetForUpdateFn      func(ctx context.Context, id uint64) (*domain.GroupMemberStatus, error)
	FindFn              func(ctx context.Context, groupLoanID, memberID uint64) (*domain.GroupMemberStatus, error)
	ListFn              func(ctx context.Context, f domain.Filter) ([]domain.GroupMemberStatus, error)
	SaveFn              func(ctx context.Context, s *domain.GroupMemberStatus) error
	SetLetterFn         func(ctx context.Context, groupLoanID uint64, letter loan.FrequencyLetter) (int64, error)
}

func (m *Repo) CreateBatch(ctx context.Context, rows []domain.GroupMemberStatus) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, rows)
	}
	return nil
}

func (m *Repo) DeleteByGroupLoan(ctx context.Context, groupLoanID uint64) (int64, error) {
	if m.DeleteByGroupLoanFn != nil {
		return m.DeleteByGroupLoanFn(ctx, groupLoanID)
	}
	return 0, nil
}

func (m *Repo) Get(ctx context.Context, id uint64) (*domain.GroupMemberStatus, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetForUpdate(ctx context.Context, id uint64) (*domain.GroupMemberStatus, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Find(ctx context.Context, groupLoanID, memberID uint64) (*domain.GroupMemberStatus, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, groupLoanID, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.GroupMemberStatus, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, s *domain.GroupMemberStatus) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Repo) SetLetter(ctx context.Context, groupLoanID uint64, letter loan.FrequencyLetter) (int64, error) {
	if m.SetLetterFn != nil {
		return m.SetLetterFn(ctx, groupLoanID, letter)
	}
	return 0, nil
}
