package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/membership"
	domain "mifi-backend/internal/domain/payment"
	"mifi-backend/internal/domain/uow"
	"mifi-backend/internal/domain/user"
	"mifi-backend/internal/infrastructure/metrics"
	"mifi-backend/pkg/id"
	"mifi-backend/pkg/money"
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

// Record applies a typed payment: the status gate of its type, the balance
// move and the resulting transition happen on the locked loan row, and the
// payment row is inserted in the same transaction.
func (u *Usecase) Record(ctx context.Context, actor user.Actor, in RecordInput) (*ReceiptDTO, error) {
	if in.Type == "" {
		in.Type = domain.TypeNormal
	}
	if !in.Type.Valid() {
		u.metrics.IncPaymentRejected(rejectReason(domain.ErrInvalidType))
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidType, in.Type)
	}
	return u.record(ctx, actor, in, true)
}

// MakePayment is the untyped path: amount and membership checks only, no
// status gate and no status transition. The payment is stored as NORMAL.
//
// Deprecated: use Record.
func (u *Usecase) MakePayment(ctx context.Context, actor user.Actor, in RecordInput) (*ReceiptDTO, error) {
	u.log.WithFields(logrus.Fields{"loan_id": in.LoanID, "actor": actor.UserID}).
		Warn("untyped payment recorded without status gate")
	in.Type = domain.TypeNormal
	return u.record(ctx, actor, in, false)
}

func (u *Usecase) record(ctx context.Context, actor user.Actor, in RecordInput, typed bool) (*ReceiptDTO, error) {
	start := time.Now()
	defer u.metrics.ObservePayment(start)

	var out *ReceiptDTO
	err := u.checkMemberParam(in)
	if err == nil {
		err = u.tx.WithinLoanTx(ctx, in.LoanKind, in.LoanID, func(r uow.Repos, acct loan.Account) error {
			var err error
			out, err = u.apply(ctx, r, acct, actor, in, typed)
			return err
		})
	}
	if err != nil {
		u.metrics.IncPaymentRejected(rejectReason(err))
		u.log.WithFields(logrus.Fields{
			"loan_id":      in.LoanID,
			"loan_type":    in.LoanKind,
			"payment_type": in.Type,
			"amount":       in.Amount.String(),
		}).WithError(err).Info("payment rejected")
		return nil, err
	}

	u.metrics.IncPaymentRecorded(string(in.LoanKind), string(in.Type))
	u.log.WithFields(logrus.Fields{
		"payment_id":   out.PaymentID,
		"loan_id":      out.LoanID,
		"payment_type": out.PaymentType,
		"amount":       out.Amount,
		"total_due":    out.TotalDue,
		"loan_status":  out.LoanStatus,
		"actor":        actor.UserID,
	}).Info("payment recorded")
	return out, nil
}

func (u *Usecase) checkMemberParam(in RecordInput) error {
	switch in.LoanKind {
	case loan.KindGroup:
		if in.MemberID == nil || *in.MemberID == 0 {
			return domain.ErrMemberRequired
		}
	case loan.KindIndividual:
		if in.MemberID != nil {
			return fmt.Errorf("%w: individual loan payments take no member", domain.ErrInvalidParameters)
		}
	default:
		return loan.ErrInvalidKind
	}
	return nil
}

// apply runs on the freshly locked loan; any error rolls the whole call back.
func (u *Usecase) apply(ctx context.Context, r uow.Repos, acct loan.Account, actor user.Actor, in RecordInput, typed bool) (*ReceiptDTO, error) {
	l := acct.Base()
	now := u.now().UTC()

	if err := domain.CheckAmount(in.Amount, l.TotalDue); err != nil {
		return nil, err
	}
	if g, ok := acct.(*loan.GroupLoan); ok {
		if err := checkMember(ctx, r.Members, g, *in.MemberID); err != nil {
			return nil, err
		}
	}
	if typed {
		if err := domain.Gate(in.Type, l, now); err != nil {
			return nil, err
		}
	}
	if err := domain.ApplyToBalance(l, in.Amount); err != nil {
		return nil, err
	}
	if typed {
		domain.Settle(in.Type, l)
	}

	p := domain.Payment{
		PaymentID:   id.NewID32(),
		Amount:      in.Amount,
		PaymentDate: now,
		PaymentType: in.Type,
	}
	if actor.UserID != 0 {
		p.RecordedByID = &actor.UserID
	}

	switch a := acct.(type) {
	case *loan.IndividualLoan:
		if err := r.Loans.SaveIndividual(ctx, a); err != nil {
			return nil, err
		}
		if err := r.Payments.CreateIndividual(ctx, &domain.IndividualLoanPayment{Payment: p, IndividualLoanID: a.ID}); err != nil {
			return nil, err
		}
	case *loan.GroupLoan:
		if err := r.Loans.SaveGroup(ctx, a); err != nil {
			return nil, err
		}
		if err := r.Payments.CreateGroup(ctx, &domain.GroupLoanPayment{Payment: p, GroupLoanID: a.ID, MemberID: *in.MemberID}); err != nil {
			return nil, err
		}
	default:
		return nil, loan.ErrInvalidKind
	}

	return &ReceiptDTO{
		PaymentDTO: toDTO(p, l, in.MemberID),
		TotalDue:   money.Format(l.TotalDue),
		TotalPaid:  money.Format(l.TotalPaid),
		LoanStatus: string(l.Status),
	}, nil
}

func checkMember(ctx context.Context, members membership.Repository, g *loan.GroupLoan, memberID uint64) error {
	s, err := members.Find(ctx, g.ID, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: member %d, loan %s", domain.ErrMemberNotInGroup, memberID, g.LoanID)
	}
	if err != nil {
		return err
	}
	if s.IsBlocked {
		return fmt.Errorf("%w: member %d, loan %s", domain.ErrMemberBlocked, memberID, g.LoanID)
	}
	return nil
}

// List returns the payments of one loan, newest first. Borrowers see their
// own payments only.
func (u *Usecase) List(ctx context.Context, actor user.Actor, in ListInput) ([]PaymentDTO, error) {
	f := domain.ListFilter{MemberID: in.MemberID, Limit: in.Limit, Offset: in.Offset}
	var out []PaymentDTO

	switch in.LoanKind {
	case loan.KindIndividual:
		l, err := u.repos.Loans.GetIndividual(ctx, in.LoanID)
		if err != nil {
			return nil, loanNotFound(err, in.LoanID)
		}
		if !actor.Role.IsLoanOfficerOrHigher() && l.RecipientID != actor.UserID {
			return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, in.LoanID)
		}
		f.LoanID, f.MemberID = l.ID, nil
		rows, err := u.repos.Payments.ListIndividual(ctx, f)
		if err != nil {
			return nil, err
		}
		out = make([]PaymentDTO, 0, len(rows))
		for _, p := range rows {
			out = append(out, toDTO(p.Payment, &l.Loan, nil))
		}
	case loan.KindGroup:
		g, err := u.repos.Loans.GetGroup(ctx, in.LoanID)
		if err != nil {
			return nil, loanNotFound(err, in.LoanID)
		}
		f.LoanID = g.ID
		if !actor.Role.IsLoanOfficerOrHigher() {
			f.MemberID = &actor.UserID
		}
		rows, err := u.repos.Payments.ListGroup(ctx, f)
		if err != nil {
			return nil, err
		}
		out = make([]PaymentDTO, 0, len(rows))
		for _, p := range rows {
			member := p.MemberID
			out = append(out, toDTO(p.Payment, &g.Loan, &member))
		}
	default:
		return nil, loan.ErrInvalidKind
	}
	return out, nil
}

func toDTO(p domain.Payment, l *loan.Loan, memberID *uint64) PaymentDTO {
	return PaymentDTO{
		PaymentID:   p.PaymentID,
		LoanID:      l.LoanID,
		LoanType:    string(l.LoanType),
		MemberID:    memberID,
		Amount:      money.Format(p.Amount),
		PaymentDate: p.PaymentDate,
		PaymentType: string(p.PaymentType),
		RecordedBy:  p.RecordedByID,
	}
}

func loanNotFound(err error, loanID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", loan.ErrNotFound, loanID)
	}
	return err
}

// rejectReason is the metrics label of a rejected payment.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNonPositiveAmount):
		return "non_positive_amount"
	case errors.Is(err, domain.ErrAmountExceedsBalance):
		return "amount_exceeds_balance"
	case errors.Is(err, domain.ErrInvalidParameters):
		return "invalid_parameters"
	case errors.Is(err, loan.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, loan.ErrNotFound):
		return "loan_not_found"
	}
	return "other"
}
