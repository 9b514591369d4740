package mysql

import (
	"context"
	"time"

	loanDomain "mifi-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) CreateIndividual(ctx context.Context, l *loanDomain.IndividualLoan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) CreateGroup(ctx context.Context, g *loanDomain.GroupLoan) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *LoanRepository) SaveIndividual(ctx context.Context, l *loanDomain.IndividualLoan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) SaveGroup(ctx context.Context, g *loanDomain.GroupLoan) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *LoanRepository) GetIndividual(ctx context.Context, loanID string) (*loanDomain.IndividualLoan, error) {
	return firstByLoanID[loanDomain.IndividualLoan](r.db.WithContext(ctx), loanID)
}

func (r *LoanRepository) GetGroup(ctx context.Context, loanID string) (*loanDomain.GroupLoan, error) {
	return firstByLoanID[loanDomain.GroupLoan](r.db.WithContext(ctx), loanID)
}

func (r *LoanRepository) GetGroupByID(ctx context.Context, id uint64) (*loanDomain.GroupLoan, error) {
	var out loanDomain.GroupLoan
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetIndividualForUpdate(ctx context.Context, loanID string) (*loanDomain.IndividualLoan, error) {
	return firstByLoanID[loanDomain.IndividualLoan](forUpdate(r.db.WithContext(ctx)), loanID)
}

func (r *LoanRepository) GetGroupForUpdate(ctx context.Context, loanID string) (*loanDomain.GroupLoan, error) {
	return firstByLoanID[loanDomain.GroupLoan](forUpdate(r.db.WithContext(ctx)), loanID)
}

func firstByLoanID[T any](q *gorm.DB, loanID string) (*T, error) {
	var out T
	if err := q.Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) ListIndividual(ctx context.Context, f loanDomain.ListFilter) ([]loanDomain.IndividualLoan, error) {
	var out []loanDomain.IndividualLoan
	q := listLoans(r.db.WithContext(ctx).Model(&loanDomain.IndividualLoan{}), f, "recipient_id = ?", f.RecipientID)
	return out, q.Find(&out).Error
}

func (r *LoanRepository) ListGroup(ctx context.Context, f loanDomain.ListFilter) ([]loanDomain.GroupLoan, error) {
	var out []loanDomain.GroupLoan
	q := listLoans(r.db.WithContext(ctx).Model(&loanDomain.GroupLoan{}), f,
		"id IN (SELECT group_loan_id FROM group_member_statuses WHERE member_id = ?)", f.MemberID)
	return out, q.Find(&out).Error
}

// listLoans applies the shared filter; ownCond matches the borrower side
// (recipient or member) and is OR-ed with the officer condition.
func listLoans(q *gorm.DB, f loanDomain.ListFilter, ownCond string, ownID *uint64) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	switch {
	case f.OfficerID != nil && ownID != nil:
		q = q.Where("(loan_officer_id = ? OR "+ownCond+")", *f.OfficerID, *ownID)
	case f.OfficerID != nil:
		q = q.Where("loan_officer_id = ?", *f.OfficerID)
	case ownID != nil:
		q = q.Where(ownCond, *ownID)
	}
	return paginate(q.Order("id DESC"), f.Limit, f.Offset)
}

func (r *LoanRepository) MarkOverdue(ctx context.Context, kind loanDomain.Kind, asOf time.Time) (int64, error) {
	model, err := loanModel(kind)
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Model(model).
		Where("status = ? AND end_date < ?", loanDomain.StatusActive, asOf).
		Update("status", loanDomain.StatusOverdue)
	return res.RowsAffected, res.Error
}
