package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mifi-backend/internal/domain/loan"
	domain "mifi-backend/internal/domain/report"
	"mifi-backend/internal/domain/user"
	"mifi-backend/internal/infrastructure/logging"
	"mifi-backend/internal/testutil/reportmock"
	"mifi-backend/pkg/civil"
)

func ledgerRepo() *reportmock.Repo {
	return &reportmock.Repo{
		SumPaymentsFn: func(context.Context, time.Time, time.Time) (decimal.Decimal, int64, error) {
			return decimal.RequireFromString("450.5"), 3, nil
		},
		SumPrincipalFn: func(_ context.Context, kind loan.Kind) (decimal.Decimal, error) {
			if kind == loan.KindIndividual {
				return decimal.RequireFromString("1000.00"), nil
			}
			return decimal.RequireFromString("2500.00"), nil
		},
		CountByStatusFn: func(_ context.Context, kind loan.Kind) ([]domain.StatusCount, error) {
			if kind == loan.KindIndividual {
				return []domain.StatusCount{{Status: "active", Count: 4}, {Status: "overdue", Count: 1}, {Status: "paid", Count: 2}}, nil
			}
			return []domain.StatusCount{{Status: "active", Count: 2}, {Status: "completed", Count: 3}}, nil
		},
	}
}

func TestPaymentsCollected(t *testing.T) {
	var gotStart, gotEnd time.Time
	repo := ledgerRepo()
	inner := repo.SumPaymentsFn
	repo.SumPaymentsFn = func(ctx context.Context, s, e time.Time) (decimal.Decimal, int64, error) {
		gotStart, gotEnd = s, e
		return inner(ctx, s, e)
	}
	uc := NewUsecase(repo, logging.Discard())

	r, err := uc.PaymentsCollected(context.Background(),
		time.Date(2024, time.January, 1, 15, 0, 0, 0, time.UTC), civil.Date(2024, time.January, 31))
	require.NoError(t, err)
	assert.Equal(t, civil.Date(2024, time.January, 1), gotStart)
	assert.Equal(t, civil.Date(2024, time.January, 31), gotEnd)
	assert.Equal(t, "450.50", r.TotalPayments.StringFixed(2))
	assert.Equal(t, int64(3), r.PaymentCount)

	_, err = uc.PaymentsCollected(context.Background(), civil.Date(2024, time.February, 1), civil.Date(2024, time.January, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestCounts(t *testing.T) {
	uc := NewUsecase(ledgerRepo(), logging.Discard())

	groups, err := uc.ActiveGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ActiveGroups{TotalGroups: 5, ActiveGroups: 2}, *groups)

	loans, err := uc.ActiveLoans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ActiveLoans{TotalLoans: 12, ActiveLoans: 6, OverdueLoans: 1}, *loans)

	amount, err := uc.AmountLoaned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3500.00", amount.TotalAmount.StringFixed(2))
	assert.Equal(t, "1000.00", amount.IndividualLoansAmount.StringFixed(2))
	assert.Equal(t, "2500.00", amount.GroupLoansAmount.StringFixed(2))
}

func TestSummary(t *testing.T) {
	uc := NewUsecase(ledgerRepo(), logging.Discard())
	s, err := uc.Summary(context.Background(), civil.Date(2024, time.January, 1), civil.Date(2024, time.January, 31))
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.PaymentsCollected.PaymentCount)
	assert.Equal(t, int64(2), s.ActiveGroups.ActiveGroups)
	assert.Equal(t, int64(12), s.ActiveLoans.TotalLoans)
	assert.Equal(t, "3500.00", s.AmountLoaned.TotalAmount.StringFixed(2))

	repo := ledgerRepo()
	repo.SumPrincipalFn = func(context.Context, loan.Kind) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("db down")
	}
	_, err = NewUsecase(repo, logging.Discard()).Summary(context.Background(), civil.Date(2024, time.January, 1), civil.Date(2024, time.January, 31))
	assert.EqualError(t, err, "db down")
}

func TestGenerate_StoresSnapshot(t *testing.T) {
	var stored *domain.Snapshot
	repo := ledgerRepo()
	repo.CreateSnapshotFn = func(_ context.Context, s *domain.Snapshot) error {
		stored = s
		return nil
	}
	uc := NewUsecase(repo, logging.Discard())
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return at }
	actor := user.Actor{UserID: 3, Role: user.RoleManager}

	dto, err := uc.Generate(context.Background(), actor, GenerateInput{Name: domain.NameActiveLoans})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, dto.SnapshotID, 32)
	assert.Equal(t, "active_loans", dto.Name)
	assert.True(t, at.Equal(dto.GeneratedAt))
	require.NotNil(t, dto.GeneratedBy)
	assert.Equal(t, uint64(3), *dto.GeneratedBy)

	var payload domain.ActiveLoans
	require.NoError(t, json.Unmarshal(dto.Payload, &payload))
	assert.Equal(t, int64(6), payload.ActiveLoans)

	_, err = uc.Generate(context.Background(), actor, GenerateInput{Name: "weekly_digest"})
	assert.ErrorIs(t, err, domain.ErrUnknownName)
}

func TestSnapshots(t *testing.T) {
	repo := &reportmock.Repo{
		GetSnapshotFn: func(context.Context, string) (*domain.Snapshot, error) { return nil, gorm.ErrRecordNotFound },
		ListSnapshotsFn: func(_ context.Context, name domain.Name, limit, offset int) ([]domain.Snapshot, error) {
			assert.Equal(t, domain.NameSummary, name)
			assert.Equal(t, 10, limit)
			return []domain.Snapshot{{SnapshotID: "s1", Name: name, Payload: []byte(`{}`)}}, nil
		},
	}
	uc := NewUsecase(repo, logging.Discard())

	_, err := uc.GetSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := uc.ListSnapshots(context.Background(), domain.NameSummary, 10, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.JSONEq(t, `{}`, string(out[0].Payload))

	_, err = uc.ListSnapshots(context.Background(), "bogus", 10, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownName)
}
