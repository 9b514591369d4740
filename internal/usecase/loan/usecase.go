package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainCollateral "mifi-backend/internal/domain/collateral"
	domain "mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/membership"
	"mifi-backend/internal/domain/uow"
	"mifi-backend/internal/domain/user"
	"mifi-backend/internal/infrastructure/metrics"
	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/id"
)

// member rows fetched for a group DTO
const membersPageSize = 200

type Usecase struct {
	repos   uow.Repos
	tx      uow.UnitOfWork
	log     *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// RequirePhotoOnCreate extends the PHOTO collateral rule to creation.
	RequirePhotoOnCreate bool
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, log *logrus.Logger, m *metrics.Metrics) *Usecase {
	return &Usecase{repos: repos, tx: tx, log: log, metrics: m, now: time.Now}
}

func (u *Usecase) CreateIndividual(ctx context.Context, actor user.Actor, in CreateIndividualInput) (*IndividualLoanDTO, error) {
	l := &domain.IndividualLoan{
		Loan:        in.Terms.toLoan(domain.KindIndividual),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		RecipientID: in.RecipientID,
	}
	l.LoanID = id.NewID32()
	assignOfficer(&l.Loan, actor)
	l.ApplyDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := checkSettableStatus(l.Status); err != nil {
		return nil, err
	}

	var cols []domainCollateral.Collateral
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := user.CheckExist(ctx, r.Users, userRefs(&l.RecipientID, l.LoanOfficerID)...); err != nil {
			return err
		}
		if err := r.Loans.CreateIndividual(ctx, l); err != nil {
			return err
		}
		if len(in.CollateralIDs) > 0 {
			if err := u.attach(ctx, r, l, in.CollateralIDs); err != nil {
				return err
			}
		}
		if len(in.CollateralIDs) == 0 && !u.RequirePhotoOnCreate {
			return nil
		}
		var err error
		if cols, err = r.Collaterals.ListByLoan(ctx, l.Ref()); err != nil {
			return err
		}
		if u.RequirePhotoOnCreate {
			return domainCollateral.MissingRequired(domain.KindIndividual, cols)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.IncLoanCreated(string(domain.KindIndividual))
	u.log.WithFields(logrus.Fields{
		"loan_id":   l.LoanID,
		"loan_type": domain.KindIndividual,
		"amount":    l.Amount.String(),
		"actor":     actor.UserID,
	}).Info("loan created")
	return toIndividualDTO(l, cols), nil
}

func (u *Usecase) CreateGroup(ctx context.Context, actor user.Actor, in CreateGroupInput) (*GroupLoanDTO, error) {
	g := &domain.GroupLoan{
		Loan:            in.Terms.toLoan(domain.KindGroup),
		GroupName:       in.GroupName,
		FrequencyLetter: in.FrequencyLetter,
		TotalGroupLoan:  in.TotalGroupLoan,
		LoanGiven:       in.LoanGiven,
		DueDate:         civil.Truncate(in.DueDate),
		Transferred:     in.Transferred,
		Blocked:         in.Blocked,
		New:             true,
		MeetingTime:     in.MeetingTime,
	}
	if in.New != nil {
		g.New = *in.New
	}
	g.LoanID = id.NewID32()
	assignOfficer(&g.Loan, actor)
	g.ApplyDefaults()
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := checkSettableStatus(g.Status); err != nil {
		return nil, err
	}
	members := membership.DistinctMembers(in.MemberIDs)
	if len(members) < membership.MinMembers {
		return nil, fmt.Errorf("%w: got %d", membership.ErrInsufficientMembers, len(members))
	}

	var rows []membership.GroupMemberStatus
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := user.CheckExist(ctx, r.Users, append(members, userRefs(g.LoanOfficerID)...)...); err != nil {
			return err
		}
		if err := r.Loans.CreateGroup(ctx, g); err != nil {
			return err
		}
		var err error
		rows, err = membership.Register(ctx, r.Members, g, members)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.metrics.IncLoanCreated(string(domain.KindGroup))
	u.log.WithFields(logrus.Fields{
		"loan_id":   g.LoanID,
		"loan_type": domain.KindGroup,
		"amount":    g.Amount.String(),
		"members":   len(rows),
		"actor":     actor.UserID,
	}).Info("loan created")
	return toGroupDTO(g, rows), nil
}

func (u *Usecase) UpdateIndividual(ctx context.Context, actor user.Actor, in UpdateIndividualInput) (*IndividualLoanDTO, error) {
	var (
		out  *domain.IndividualLoan
		cols []domainCollateral.Collateral
	)
	err := u.tx.WithinLoanTx(ctx, domain.KindIndividual, in.LoanID, func(r uow.Repos, acct domain.Account) error {
		l := acct.(*domain.IndividualLoan)
		if !l.ManagedBy(actor) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, in.LoanID)
		}
		if err := in.TermsPatch.apply(&l.Loan); err != nil {
			return err
		}
		if in.FirstName != nil {
			l.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			l.LastName = *in.LastName
		}
		if err := l.Validate(); err != nil {
			return err
		}
		if err := user.CheckExist(ctx, r.Users, userRefs(l.LoanOfficerID)...); err != nil {
			return err
		}
		if len(in.CollateralIDs) > 0 {
			if err := u.attach(ctx, r, l, in.CollateralIDs); err != nil {
				return err
			}
		}
		var err error
		if cols, err = r.Collaterals.ListByLoan(ctx, l.Ref()); err != nil {
			return err
		}
		if err := domainCollateral.MissingRequired(domain.KindIndividual, cols); err != nil {
			return err
		}
		out = l
		return r.Loans.SaveIndividual(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"loan_id": out.LoanID, "status": out.Status, "actor": actor.UserID}).Info("loan updated")
	return toIndividualDTO(out, cols), nil
}

func (u *Usecase) UpdateGroup(ctx context.Context, actor user.Actor, in UpdateGroupInput) (*GroupLoanDTO, error) {
	var (
		out  *domain.GroupLoan
		rows []membership.GroupMemberStatus
	)
	err := u.tx.WithinLoanTx(ctx, domain.KindGroup, in.LoanID, func(r uow.Repos, acct domain.Account) error {
		g := acct.(*domain.GroupLoan)
		if !g.ManagedBy(actor) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, in.LoanID)
		}
		letterBefore := g.FrequencyLetter
		if err := in.TermsPatch.apply(&g.Loan); err != nil {
			return err
		}
		in.patchGroup(g)
		if err := g.Validate(); err != nil {
			return err
		}
		if err := user.CheckExist(ctx, r.Users, userRefs(g.LoanOfficerID)...); err != nil {
			return err
		}
		if err := r.Loans.SaveGroup(ctx, g); err != nil {
			return err
		}
		out = g

		members := in.MemberIDs
		if members == nil {
			// status rows carry the parent's letter; relabel them in place so
			// block state survives
			if g.FrequencyLetter != letterBefore {
				if _, err := r.Members.SetLetter(ctx, g.ID, g.FrequencyLetter); err != nil {
					return err
				}
			}
			var err error
			rows, err = r.Members.List(ctx, membership.Filter{GroupLoanID: &g.ID, Limit: membersPageSize})
			return err
		}
		members = membership.DistinctMembers(members)
		if err := user.CheckExist(ctx, r.Users, members...); err != nil {
			return err
		}
		var err error
		rows, err = membership.Replace(ctx, r.Members, g, members)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"loan_id": out.LoanID,
		"status":  out.Status,
		"members": len(rows),
		"actor":   actor.UserID,
	}).Info("loan updated")
	return toGroupDTO(out, rows), nil
}

func (in UpdateGroupInput) patchGroup(g *domain.GroupLoan) {
	if in.GroupName != nil {
		g.GroupName = *in.GroupName
	}
	if in.FrequencyLetter != nil {
		g.FrequencyLetter = *in.FrequencyLetter
	}
	if in.TotalGroupLoan != nil {
		g.TotalGroupLoan = *in.TotalGroupLoan
	}
	if in.LoanGiven != nil {
		g.LoanGiven = *in.LoanGiven
	}
	if in.DueDate != nil {
		g.DueDate = civil.Truncate(*in.DueDate)
	}
	if in.Transferred != nil {
		g.Transferred = *in.Transferred
	}
	if in.Blocked != nil {
		g.Blocked = *in.Blocked
	}
	if in.New != nil {
		g.New = *in.New
	}
	if in.MeetingTime != nil {
		g.MeetingTime = in.MeetingTime
	}
}

func (u *Usecase) GetIndividual(ctx context.Context, actor user.Actor, loanID string) (*IndividualLoanDTO, error) {
	l, err := u.visibleIndividual(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	cols, err := u.repos.Collaterals.ListByLoan(ctx, l.Ref())
	if err != nil {
		return nil, err
	}
	return toIndividualDTO(l, cols), nil
}

func (u *Usecase) GetGroup(ctx context.Context, actor user.Actor, loanID string) (*GroupLoanDTO, error) {
	g, err := u.visibleGroup(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	rows, err := u.repos.Members.List(ctx, membership.Filter{GroupLoanID: &g.ID, Limit: membersPageSize})
	if err != nil {
		return nil, err
	}
	return toGroupDTO(g, rows), nil
}

func (u *Usecase) ListIndividual(ctx context.Context, actor user.Actor, in ListInput) ([]IndividualLoanDTO, error) {
	f := domain.ListFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset}
	if !actor.Role.SeesAllLoans() {
		f.RecipientID = &actor.UserID
		if actor.Role.IsLoanOfficerOrHigher() {
			f.OfficerID = &actor.UserID
		}
	}
	loans, err := u.repos.Loans.ListIndividual(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]IndividualLoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toIndividualDTO(&loans[i], nil))
	}
	return out, nil
}

func (u *Usecase) ListGroup(ctx context.Context, actor user.Actor, in ListInput) ([]GroupLoanDTO, error) {
	f := domain.ListFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset}
	if !actor.Role.SeesAllLoans() {
		f.MemberID = &actor.UserID
		if actor.Role.IsLoanOfficerOrHigher() {
			f.OfficerID = &actor.UserID
		}
	}
	loans, err := u.repos.Loans.ListGroup(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]GroupLoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toGroupDTO(&loans[i], nil))
	}
	return out, nil
}

// Schedule returns the installment plan of a visible loan.
func (u *Usecase) Schedule(ctx context.Context, actor user.Actor, kind domain.Kind, loanID string) (*ScheduleDTO, error) {
	switch kind {
	case domain.KindIndividual:
		l, err := u.visibleIndividual(ctx, actor, loanID)
		if err != nil {
			return nil, err
		}
		return toScheduleDTO(&l.Loan), nil
	case domain.KindGroup:
		g, err := u.visibleGroup(ctx, actor, loanID)
		if err != nil {
			return nil, err
		}
		return toScheduleDTO(&g.Loan), nil
	}
	return nil, domain.ErrInvalidKind
}

// SweepOverdue moves active loans past their end date to overdue and returns
// the number of loans moved.
func (u *Usecase) SweepOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	asOf = civil.Truncate(asOf)
	var total int64
	for _, kind := range []domain.Kind{domain.KindIndividual, domain.KindGroup} {
		n, err := u.repos.Loans.MarkOverdue(ctx, kind, asOf)
		if err != nil {
			return total, fmt.Errorf("mark %s loans overdue: %w", kind, err)
		}
		if n > 0 {
			u.log.WithFields(logrus.Fields{"loan_type": kind, "count": n, "as_of": civil.Format(asOf)}).Info("loans marked overdue")
		}
		total += n
	}
	u.metrics.AddOverdueTransitions(total)
	return total, nil
}

// attach links pre-uploaded collaterals to an individual loan inside r's tx.
func (u *Usecase) attach(ctx context.Context, r uow.Repos, l *domain.IndividualLoan, collateralIDs []string) error {
	if err := domainCollateral.CheckAttachable(&l.Loan); err != nil {
		return err
	}
	n, err := r.Collaterals.AttachUnassigned(ctx, collateralIDs, l)
	if err != nil {
		return err
	}
	if skipped := int64(len(collateralIDs)) - n; skipped > 0 {
		u.log.WithFields(logrus.Fields{"loan_id": l.LoanID, "skipped": skipped}).Debug("collaterals already attached or unknown")
	}
	return nil
}

func (u *Usecase) visibleIndividual(ctx context.Context, actor user.Actor, loanID string) (*domain.IndividualLoan, error) {
	l, err := u.repos.Loans.GetIndividual(ctx, loanID)
	if err != nil {
		return nil, notFound(err, loanID)
	}
	if l.RecipientID == actor.UserID || l.ManagedBy(actor) {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, loanID)
}

func (u *Usecase) visibleGroup(ctx context.Context, actor user.Actor, loanID string) (*domain.GroupLoan, error) {
	g, err := u.repos.Loans.GetGroup(ctx, loanID)
	if err != nil {
		return nil, notFound(err, loanID)
	}
	if g.ManagedBy(actor) {
		return g, nil
	}
	if _, err := u.repos.Members.Find(ctx, g.ID, actor.UserID); err == nil {
		return g, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, loanID)
}

// assignOfficer makes a staff creator the owner of a loan created without an
// explicit loan officer.
func assignOfficer(l *domain.Loan, actor user.Actor) {
	if l.LoanOfficerID != nil || !actor.Role.IsLoanOfficerOrHigher() {
		return
	}
	officerID := actor.UserID
	l.LoanOfficerID = &officerID
}

func notFound(err error, loanID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, loanID)
	}
	return err
}

// checkSettableStatus rejects statuses a caller may not set directly.
func checkSettableStatus(s domain.Status) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
	}
	if s == domain.StatusPaid {
		return fmt.Errorf("%w: paid is reached only through a recovery payment", domain.ErrInvalidStatus)
	}
	return nil
}

func userRefs(ids ...*uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, p := range ids {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
