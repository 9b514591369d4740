package reportmock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mifi-backend/internal/domain/loan"
	domain "mifi-backend/internal/domain/report"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	SumPaymentsFn    func(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error)
	SumPrincipalFn   func(ctx context.Context, kind loan.Kind) (decimal.Decimal, error)
	CountByStatusFn  func(ctx context.Context, kind loan.Kind) ([]domain.StatusCount, error)
	CreateSnapshotFn func(ctx context.Context, s *domain.Snapshot) error
	GetSnapshotFn    func(ctx context.Context, snapshotID string) (*domain.Snapshot, error)
	ListSnapshotsFn  func(ctx context.Context, name domain.Name, limit, offset int) ([]domain.Snapshot, error)
}

func (m *Repo) SumPayments(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error) {
	if m.SumPaymentsFn != nil {
		return m.SumPaymentsFn(ctx, start, end)
	}
	return decimal.Zero, 0, nil
}

func (m *Repo) SumPrincipal(ctx context.Context, kind loan.Kind) (decimal.Decimal, error) {
	if m.SumPrincipalFn != nil {
		return m.SumPrincipalFn(ctx, kind)
	}
	return decimal.Zero, nil
}

func (m *Repo) CountByStatus(ctx context.Context, kind loan.Kind) ([]domain.StatusCount, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, kind)
	}
	return nil, nil
}

func (m *Repo) CreateSnapshot(ctx context.Context, s *domain.Snapshot) error {
	if m.CreateSnapshotFn != nil {
		return m.CreateSnapshotFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetSnapshot(ctx context.Context, snapshotID string) (*domain.Snapshot, error) {
	if m.GetSnapshotFn != nil {
		return m.GetSnapshotFn(ctx, snapshotID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListSnapshots(ctx context.Context, name domain.Name, limit, offset int) ([]domain.Snapshot, error) {
	if m.ListSnapshotsFn != nil {
		return m.ListSnapshotsFn(ctx, name, limit, offset)
	}
	return nil, nil
}
