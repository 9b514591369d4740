package mysql

import (
	"context"

	collateralDomain "mifi-backend/internal/domain/collateral"
	loanDomain "mifi-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type CollateralRepository struct{ db *gorm.DB }

func NewCollateralRepository(db *gorm.DB) *CollateralRepository {
	return &CollateralRepository{db: db}
}

func (r *CollateralRepository) Create(ctx context.Context, c *collateralDomain.Collateral) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CollateralRepository) Save(ctx context.Context, c *collateralDomain.Collateral) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CollateralRepository) Get(ctx context.Context, collateralID string) (*collateralDomain.Collateral, error) {
	var out collateralDomain.Collateral
	if err := r.db.WithContext(ctx).Where("collateral_id = ?", collateralID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CollateralRepository) List(ctx context.Context, f collateralDomain.Filter) ([]collateralDomain.Collateral, error) {
	q := r.db.WithContext(ctx).Model(&collateralDomain.Collateral{})
	switch {
	case f.Unattached:
		q = q.Where("loan_id IS NULL")
	case f.LoanKind != "" && f.LoanID != nil:
		q = q.Where("loan_kind = ? AND loan_id = ?", f.LoanKind, *f.LoanID)
	case f.LoanKind != "":
		q = q.Where("loan_kind = ?", f.LoanKind)
	}
	if f.Type != "" {
		q = q.Where("collateral_type = ?", f.Type)
	}
	var out []collateralDomain.Collateral
	return out, paginate(q.Order("uploaded_at DESC, id DESC"), f.Limit, f.Offset).Find(&out).Error
}

func (r *CollateralRepository) ListByLoan(ctx context.Context, ref loanDomain.Ref) ([]collateralDomain.Collateral, error) {
	var out []collateralDomain.Collateral
	err := r.db.WithContext(ctx).
		Where("loan_kind = ? AND loan_id = ?", ref.Kind, ref.ID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *CollateralRepository) AttachUnassigned(ctx context.Context, collateralIDs []string, acct loanDomain.Account) (int64, error) {
	if len(collateralIDs) == 0 {
		return 0, nil
	}
	var free []collateralDomain.Collateral
	if err := r.db.WithContext(ctx).
		Where("collateral_id IN ? AND loan_id IS NULL", collateralIDs).
		Find(&free).Error; err != nil {
		return 0, err
	}

	ref, loanID := acct.Ref(), acct.Base().LoanID
	var linked int64
	for i := range free {
		c := &free[i]
		// loan_id IS NULL again: a concurrent attach may have won the row
		res := r.db.WithContext(ctx).Model(&collateralDomain.Collateral{}).
			Where("id = ? AND loan_id IS NULL", c.ID).
			Updates(map[string]any{
				"loan_kind": ref.Kind,
				"loan_id":   ref.ID,
				"file":      collateralDomain.StoragePath(ref.Kind, loanID, c.CollateralType, c.File),
			})
		if res.Error != nil {
			return linked, res.Error
		}
		linked += res.RowsAffected
	}
	return linked, nil
}
