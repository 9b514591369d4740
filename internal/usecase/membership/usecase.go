package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mifi-backend/internal/domain/loan"
	domain "mifi-backend/internal/domain/membership"
	"mifi-backend/internal/domain/uow"
	"mifi-backend/internal/domain/user"
	"mifi-backend/internal/infrastructure/metrics"
)

type Usecase struct {
	repos   uow.Repos
	tx      uow.UnitOfWork
	log     *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, log *logrus.Logger, m *metrics.Metrics) *Usecase {
	return &Usecase{repos: repos, tx: tx, log: log, metrics: m, now: time.Now}
}

// List returns the status rows of one group loan. Loan officers must manage
// the group; callers below loan officer only see their own row.
func (u *Usecase) List(ctx context.Context, actor user.Actor, in ListInput) ([]StatusDTO, error) {
	g, err := u.repos.Loans.GetGroup(ctx, in.GroupLoanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, in.GroupLoanID)
		}
		return nil, err
	}
	f := domain.Filter{
		GroupLoanID:     &g.ID,
		FrequencyLetter: in.FrequencyLetter,
		IsBlocked:       in.IsBlocked,
		Limit:           in.Limit,
		Offset:          in.Offset,
	}
	switch {
	case !actor.Role.IsLoanOfficerOrHigher():
		f.MemberID = &actor.UserID
	case !g.ManagedBy(actor):
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, in.GroupLoanID)
	}
	rows, err := u.repos.Members.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]StatusDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, actor user.Actor, statusID uint64) (*StatusDTO, error) {
	s, err := u.repos.Members.Get(ctx, statusID)
	if err != nil {
		return nil, notFound(err, statusID)
	}
	if actor.Role.IsLoanOfficerOrHigher() {
		if err := checkManaged(ctx, u.repos.Loans, actor, s); err != nil {
			return nil, err
		}
	} else if s.MemberID != actor.UserID {
		return nil, fmt.Errorf("%w: %d", domain.ErrNotFound, statusID)
	}
	dto := toDTO(s)
	return &dto, nil
}

// SetBlocked is the only mutation of a status row after creation. Blocking
// stamps the actor and time; unblocking clears both.
func (u *Usecase) SetBlocked(ctx context.Context, actor user.Actor, in SetBlockedInput) (*StatusDTO, error) {
	var out *domain.GroupMemberStatus
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Members.GetForUpdate(ctx, in.StatusID)
		if err != nil {
			return notFound(err, in.StatusID)
		}
		if err := checkManaged(ctx, r.Loans, actor, s); err != nil {
			return err
		}
		s.SetBlocked(in.IsBlocked, actor.UserID, u.now())
		if err := r.Members.Save(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.IncMemberBlockChange(in.IsBlocked)
	u.log.WithFields(logrus.Fields{
		"status_id":     out.ID,
		"group_loan_id": out.GroupLoanID,
		"member":        out.MemberID,
		"blocked":       out.IsBlocked,
		"actor":         actor.UserID,
	}).Info("member block state changed")
	dto := toDTO(out)
	return &dto, nil
}

// Replace swaps the whole member set of a group loan. Block state is not
// carried over.
func (u *Usecase) Replace(ctx context.Context, actor user.Actor, in ReplaceInput) ([]StatusDTO, error) {
	ids := domain.DistinctMembers(in.MemberIDs)
	if len(ids) < domain.MinMembers {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInsufficientMembers, len(ids))
	}
	var rows []domain.GroupMemberStatus
	err := u.tx.WithinLoanTx(ctx, loan.KindGroup, in.GroupLoanID, func(r uow.Repos, acct loan.Account) error {
		if !acct.Base().ManagedBy(actor) {
			return fmt.Errorf("%w: %s", loan.ErrNotFound, in.GroupLoanID)
		}
		if err := user.CheckExist(ctx, r.Users, ids...); err != nil {
			return err
		}
		var err error
		rows, err = domain.Replace(ctx, r.Members, acct.(*loan.GroupLoan), ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"loan_id": in.GroupLoanID, "members": len(rows), "actor": actor.UserID}).Info("group members replaced")
	out := make([]StatusDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func toDTO(s *domain.GroupMemberStatus) StatusDTO {
	return StatusDTO{
		ID:              s.ID,
		MemberID:        s.MemberID,
		FrequencyLetter: string(s.FrequencyLetter),
		IsBlocked:       s.IsBlocked,
		BlockedAt:       s.BlockedAt,
		BlockedBy:       s.BlockedByID,
		UpdatedAt:       s.UpdatedAt,
	}
}

// checkManaged reports rows of groups the actor does not manage as not found.
func checkManaged(ctx context.Context, loans loan.Repository, actor user.Actor, s *domain.GroupMemberStatus) error {
	g, err := loans.GetGroupByID(ctx, s.GroupLoanID)
	if err != nil {
		return notFound(err, s.ID)
	}
	if !g.ManagedBy(actor) {
		return fmt.Errorf("%w: %d", domain.ErrNotFound, s.ID)
	}
	return nil
}

func notFound(err error, statusID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", domain.ErrNotFound, statusID)
	}
	return err
}
