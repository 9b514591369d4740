package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mifi-backend/internal/domain/loan"
)

// Repository runs read-only aggregates over the ledger tables and stores
// generated snapshots.
type Repository interface {
	// SumPayments totals payments of both variants dated within [start, end].
	SumPayments(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error)
	SumPrincipal(ctx context.Context, kind loan.Kind) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, kind loan.Kind) ([]StatusCount, error)

	CreateSnapshot(ctx context.Context, s *Snapshot) error
	GetSnapshot(ctx context.Context, snapshotID string) (*Snapshot, error)
	ListSnapshots(ctx context.Context, name Name, limit, offset int) ([]Snapshot, error)
}
