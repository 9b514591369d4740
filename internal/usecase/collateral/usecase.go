package collateral

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domain "mifi-backend/internal/domain/collateral"
	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/uow"
	"mifi-backend/internal/domain/user"
	"mifi-backend/pkg/id"
)

type Usecase struct {
	repos uow.Repos
	tx    uow.UnitOfWork
	log   *logrus.Logger
	now   func() time.Time
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{repos: repos, tx: tx, log: log, now: time.Now}
}

func (u *Usecase) Upload(ctx context.Context, actor user.Actor, in UploadInput) (*CollateralDTO, error) {
	if !in.CollateralType.Valid() {
		return nil, fmt.Errorf("%w: got %q", domain.ErrInvalidType, in.CollateralType)
	}
	if (in.LoanKind == "") != (in.LoanID == "") {
		return nil, domain.ErrIncompleteReference
	}
	c := &domain.Collateral{
		CollateralID:   id.NewID32(),
		CollateralType: in.CollateralType,
		File:           domain.StoragePath(in.LoanKind, in.LoanID, in.CollateralType, in.FileName),
		Description:    in.Description,
		UploadedAt:     u.now().UTC(),
	}
	if actor.UserID != 0 {
		c.UploadedByID = &actor.UserID
	}

	if in.LoanKind == "" {
		if err := u.repos.Collaterals.Create(ctx, c); err != nil {
			return nil, err
		}
	} else {
		if !in.LoanKind.Valid() {
			return nil, loan.ErrInvalidKind
		}
		err := u.tx.WithinLoanTx(ctx, in.LoanKind, in.LoanID, func(r uow.Repos, acct loan.Account) error {
			if err := c.AttachTo(acct); err != nil {
				return err
			}
			return r.Collaterals.Create(ctx, c)
		})
		if err != nil {
			return nil, err
		}
	}

	u.log.WithFields(logrus.Fields{
		"collateral_id": c.CollateralID,
		"type":          c.CollateralType,
		"loan_id":       in.LoanID,
		"actor":         actor.UserID,
	}).Info("collateral uploaded")
	return toDTO(c), nil
}

// AttachLater links unattached collaterals to a loan in bulk. Collaterals
// that are already attached, or unknown, are skipped.
func (u *Usecase) AttachLater(ctx context.Context, actor user.Actor, in AttachInput) (*AttachResult, error) {
	res := &AttachResult{LoanID: in.LoanID, Requested: len(in.CollateralIDs)}
	if len(in.CollateralIDs) == 0 {
		return res, nil
	}
	err := u.tx.WithinLoanTx(ctx, in.LoanKind, in.LoanID, func(r uow.Repos, acct loan.Account) error {
		if err := domain.CheckAttachable(acct.Base()); err != nil {
			return err
		}
		n, err := r.Collaterals.AttachUnassigned(ctx, in.CollateralIDs, acct)
		res.Attached = n
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"loan_id":   in.LoanID,
		"requested": res.Requested,
		"attached":  res.Attached,
		"actor":     actor.UserID,
	}).Info("collaterals attached")
	return res, nil
}

func (u *Usecase) Verify(ctx context.Context, actor user.Actor, collateralID string) (*CollateralDTO, error) {
	var out *domain.Collateral
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Collaterals.Get(ctx, collateralID)
		if err != nil {
			return notFound(err, collateralID)
		}
		c.Verify(actor.UserID, u.now())
		out = c
		return r.Collaterals.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"collateral_id": collateralID, "actor": actor.UserID}).Info("collateral verified")
	return toDTO(out), nil
}

func (u *Usecase) Get(ctx context.Context, collateralID string) (*CollateralDTO, error) {
	c, err := u.repos.Collaterals.Get(ctx, collateralID)
	if err != nil {
		return nil, notFound(err, collateralID)
	}
	return toDTO(c), nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) ([]CollateralDTO, error) {
	f := domain.Filter{Unattached: in.Unattached, Type: in.Type, Limit: in.Limit, Offset: in.Offset}
	if in.LoanID != "" {
		ref, err := u.resolve(ctx, in.LoanKind, in.LoanID)
		if err != nil {
			return nil, err
		}
		f.LoanKind, f.LoanID = ref.Kind, &ref.ID
	}
	rows, err := u.repos.Collaterals.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]CollateralDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) resolve(ctx context.Context, kind loan.Kind, loanID string) (loan.Ref, error) {
	var (
		acct loan.Account
		err  error
	)
	switch kind {
	case loan.KindIndividual:
		acct, err = u.repos.Loans.GetIndividual(ctx, loanID)
	case loan.KindGroup:
		acct, err = u.repos.Loans.GetGroup(ctx, loanID)
	default:
		return loan.Ref{}, domain.ErrIncompleteReference
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.Ref{}, fmt.Errorf("%w: %s", loan.ErrNotFound, loanID)
	}
	if err != nil {
		return loan.Ref{}, err
	}
	return acct.Ref(), nil
}

func toDTO(c *domain.Collateral) *CollateralDTO {
	dto := &CollateralDTO{
		CollateralID:   c.CollateralID,
		CollateralType: string(c.CollateralType),
		File:           c.File,
		Description:    c.Description,
		Verified:       c.Verified,
		VerifiedBy:     c.VerifiedByID,
		VerifiedAt:     c.VerifiedAt,
		UploadedBy:     c.UploadedByID,
		UploadedAt:     c.UploadedAt,
	}
	if ref, ok := c.Ref(); ok {
		kind := string(ref.Kind)
		dto.Attached, dto.LoanType = true, &kind
	}
	return dto
}

func notFound(err error, collateralID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, collateralID)
	}
	return err
}
