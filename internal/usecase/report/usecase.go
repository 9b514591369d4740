package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mifi-backend/internal/domain/loan"
	domain "mifi-backend/internal/domain/report"
	"mifi-backend/internal/domain/user"
	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/id"
	"mifi-backend/pkg/money"
)

// Usecase computes read-only projections of the ledger.
type Usecase struct {
	repo domain.Repository
	log  *logrus.Logger
	now  func() time.Time
}

func NewUsecase(repo domain.Repository, log *logrus.Logger) *Usecase {
	return &Usecase{repo: repo, log: log, now: time.Now}
}

// PaymentsCollected totals payments of both loan kinds dated within
// [start, end], whole days.
func (u *Usecase) PaymentsCollected(ctx context.Context, start, end time.Time) (*domain.PaymentsCollected, error) {
	start, end = civil.Truncate(start), civil.Truncate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrInvalidRange, civil.Format(start), civil.Format(end))
	}
	total, n, err := u.repo.SumPayments(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentsCollected{
		StartDate:     start,
		EndDate:       end,
		TotalPayments: money.Round(total),
		PaymentCount:  n,
	}, nil
}

func (u *Usecase) ActiveGroups(ctx context.Context) (*domain.ActiveGroups, error) {
	counts, err := u.repo.CountByStatus(ctx, loan.KindGroup)
	if err != nil {
		return nil, err
	}
	out := &domain.ActiveGroups{}
	for _, c := range counts {
		out.TotalGroups += c.Count
		if loan.Status(c.Status) == loan.StatusActive {
			out.ActiveGroups += c.Count
		}
	}
	return out, nil
}

func (u *Usecase) AmountLoaned(ctx context.Context) (*domain.AmountLoaned, error) {
	ind, err := u.repo.SumPrincipal(ctx, loan.KindIndividual)
	if err != nil {
		return nil, err
	}
	grp, err := u.repo.SumPrincipal(ctx, loan.KindGroup)
	if err != nil {
		return nil, err
	}
	return &domain.AmountLoaned{
		TotalAmount:           money.Round(ind.Add(grp)),
		IndividualLoansAmount: money.Round(ind),
		GroupLoansAmount:      money.Round(grp),
	}, nil
}

// ActiveLoans counts loans of both kinds by status.
func (u *Usecase) ActiveLoans(ctx context.Context) (*domain.ActiveLoans, error) {
	out := &domain.ActiveLoans{}
	for _, kind := range []loan.Kind{loan.KindIndividual, loan.KindGroup} {
		counts, err := u.repo.CountByStatus(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			out.TotalLoans += c.Count
			switch loan.Status(c.Status) {
			case loan.StatusActive:
				out.ActiveLoans += c.Count
			case loan.StatusOverdue:
				out.OverdueLoans += c.Count
			}
		}
	}
	return out, nil
}

// Summary runs the four projections concurrently; the first failure cancels
// the rest.
func (u *Usecase) Summary(ctx context.Context, start, end time.Time) (*domain.Summary, error) {
	g, ctx := errgroup.WithContext(ctx)
	out := &domain.Summary{}

	g.Go(func() error {
		r, err := u.PaymentsCollected(ctx, start, end)
		if err != nil {
			return err
		}
		out.PaymentsCollected = *r
		return nil
	})
	g.Go(func() error {
		r, err := u.ActiveGroups(ctx)
		if err != nil {
			return err
		}
		out.ActiveGroups = *r
		return nil
	})
	g.Go(func() error {
		r, err := u.AmountLoaned(ctx)
		if err != nil {
			return err
		}
		out.AmountLoaned = *r
		return nil
	})
	g.Go(func() error {
		r, err := u.ActiveLoans(ctx)
		if err != nil {
			return err
		}
		out.ActiveLoans = *r
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate computes the named report and stores it as a snapshot.
func (u *Usecase) Generate(ctx context.Context, actor user.Actor, in GenerateInput) (*SnapshotDTO, error) {
	var (
		result any
		err    error
	)
	switch in.Name {
	case domain.NamePaymentsCollected:
		result, err = u.PaymentsCollected(ctx, in.StartDate, in.EndDate)
	case domain.NameActiveGroups:
		result, err = u.ActiveGroups(ctx)
	case domain.NameAmountLoaned:
		result, err = u.AmountLoaned(ctx)
	case domain.NameActiveLoans:
		result, err = u.ActiveLoans(ctx)
	case domain.NameSummary:
		result, err = u.Summary(ctx, in.StartDate, in.EndDate)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownName, in.Name)
	}
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	s := &domain.Snapshot{
		SnapshotID:  id.NewID32(),
		Name:        in.Name,
		GeneratedAt: u.now().UTC(),
		Payload:     datatypes.JSON(payload),
	}
	if actor.UserID != 0 {
		s.GeneratedByID = &actor.UserID
	}
	if err := u.repo.CreateSnapshot(ctx, s); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"snapshot_id": s.SnapshotID, "name": s.Name, "actor": actor.UserID}).Info("report generated")
	return toDTO(s), nil
}

func (u *Usecase) GetSnapshot(ctx context.Context, snapshotID string) (*SnapshotDTO, error) {
	s, err := u.repo.GetSnapshot(ctx, snapshotID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, snapshotID)
	}
	if err != nil {
		return nil, err
	}
	return toDTO(s), nil
}

func (u *Usecase) ListSnapshots(ctx context.Context, name domain.Name, limit, offset int) ([]SnapshotDTO, error) {
	if name != "" && !name.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownName, name)
	}
	rows, err := u.repo.ListSnapshots(ctx, name, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]SnapshotDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func toDTO(s *domain.Snapshot) *SnapshotDTO {
	return &SnapshotDTO{
		SnapshotID:  s.SnapshotID,
		Name:        string(s.Name),
		GeneratedAt: s.GeneratedAt,
		GeneratedBy: s.GeneratedByID,
		Payload:     json.RawMessage(s.Payload),
	}
}
