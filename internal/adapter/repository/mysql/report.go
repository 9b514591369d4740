package mysql

import (
	"context"
	"time"

	loanDomain "mifi-backend/internal/domain/loan"
	paymentDomain "mifi-backend/internal/domain/payment"
	reportDomain "mifi-backend/internal/domain/report"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) *ReportRepository { return &ReportRepository{db: db} }

type sumRow struct {
	Total decimal.Decimal
	N     int64
}

// SumPayments covers whole calendar days: start 00:00 up to the day after end.
func (r *ReportRepository) SumPayments(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error) {
	until := end.AddDate(0, 0, 1)
	total, count := decimal.Zero, int64(0)
	for _, model := range []any{&paymentDomain.IndividualLoanPayment{}, &paymentDomain.GroupLoanPayment{}} {
		var row sumRow
		err := r.db.WithContext(ctx).Model(model).
			Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS n").
			Where("payment_date >= ? AND payment_date < ?", start, until).
			Scan(&row).Error
		if err != nil {
			return decimal.Zero, 0, err
		}
		total = total.Add(row.Total)
		count += row.N
	}
	return total, count, nil
}

func (r *ReportRepository) SumPrincipal(ctx context.Context, kind loanDomain.Kind) (decimal.Decimal, error) {
	model, err := loanModel(kind)
	if err != nil {
		return decimal.Zero, err
	}
	var row sumRow
	err = r.db.WithContext(ctx).Model(model).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS n").
		Scan(&row).Error
	return row.Total, err
}

func (r *ReportRepository) CountByStatus(ctx context.Context, kind loanDomain.Kind) ([]reportDomain.StatusCount, error) {
	model, err := loanModel(kind)
	if err != nil {
		return nil, err
	}
	var out []reportDomain.StatusCount
	err = r.db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&out).Error
	return out, err
}

func (r *ReportRepository) CreateSnapshot(ctx context.Context, s *reportDomain.Snapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ReportRepository) GetSnapshot(ctx context.Context, snapshotID string) (*reportDomain.Snapshot, error) {
	var out reportDomain.Snapshot
	if err := r.db.WithContext(ctx).Where("snapshot_id = ?", snapshotID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReportRepository) ListSnapshots(ctx context.Context, name reportDomain.Name, limit, offset int) ([]reportDomain.Snapshot, error) {
	q := r.db.WithContext(ctx).Model(&reportDomain.Snapshot{})
	if name != "" {
		q = q.Where("name = ?", name)
	}
	var out []reportDomain.Snapshot
	return out, paginate(q.Order("generated_at DESC, id DESC"), limit, offset).Find(&out).Error
}

func loanModel(kind loanDomain.Kind) (any, error) {
	switch kind {
	case loanDomain.KindIndividual:
		return &loanDomain.IndividualLoan{}, nil
	case loanDomain.KindGroup:
		return &loanDomain.GroupLoan{}, nil
	}
	return nil, loanDomain.ErrInvalidKind
}
