package mysql

import (
	"context"

	paymentDomain "mifi-backend/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) CreateIndividual(ctx context.Context, p *paymentDomain.IndividualLoanPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) CreateGroup(ctx context.Context, p *paymentDomain.GroupLoanPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListIndividual(ctx context.Context, f paymentDomain.ListFilter) ([]paymentDomain.IndividualLoanPayment, error) {
	q := r.db.WithContext(ctx).Model(&paymentDomain.IndividualLoanPayment{})
	if f.LoanID != 0 {
		q = q.Where("individual_loan_id = ?", f.LoanID)
	}
	var out []paymentDomain.IndividualLoanPayment
	return out, newestFirst(q, f).Find(&out).Error
}

func (r *PaymentRepository) ListGroup(ctx context.Context, f paymentDomain.ListFilter) ([]paymentDomain.GroupLoanPayment, error) {
	q := r.db.WithContext(ctx).Model(&paymentDomain.GroupLoanPayment{})
	if f.LoanID != 0 {
		q = q.Where("group_loan_id = ?", f.LoanID)
	}
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	var out []paymentDomain.GroupLoanPayment
	return out, newestFirst(q, f).Find(&out).Error
}

func newestFirst(q *gorm.DB, f paymentDomain.ListFilter) *gorm.DB {
	return paginate(q.Order("payment_date DESC, id DESC"), f.Limit, f.Offset)
}
