package mysql

import (
	"context"

	loanDomain "mifi-backend/internal/domain/loan"
	memberDomain "mifi-backend/internal/domain/membership"

	"gorm.io/gorm"
)

type MembershipRepository struct{ db *gorm.DB }

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) CreateBatch(ctx context.Context, rows []memberDomain.GroupMemberStatus) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *MembershipRepository) DeleteByGroupLoan(ctx context.Context, groupLoanID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("group_loan_id = ?", groupLoanID).
		Delete(&memberDomain.GroupMemberStatus{})
	return res.RowsAffected, res.Error
}

func (r *MembershipRepository) Get(ctx context.Context, id uint64) (*memberDomain.GroupMemberStatus, error) {
	var out memberDomain.GroupMemberStatus
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *MembershipRepository) GetForUpdate(ctx context.Context, id uint64) (*memberDomain.GroupMemberStatus, error) {
	var out memberDomain.GroupMemberStatus
	if err := forUpdate(r.db.WithContext(ctx)).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *MembershipRepository) Find(ctx context.Context, groupLoanID, memberID uint64) (*memberDomain.GroupMemberStatus, error) {
	var out memberDomain.GroupMemberStatus
	err := r.db.WithContext(ctx).
		Where("group_loan_id = ? AND member_id = ?", groupLoanID, memberID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *MembershipRepository) List(ctx context.Context, f memberDomain.Filter) ([]memberDomain.GroupMemberStatus, error) {
	q := r.db.WithContext(ctx).Model(&memberDomain.GroupMemberStatus{})
	if f.GroupLoanID != nil {
		q = q.Where("group_loan_id = ?", *f.GroupLoanID)
	}
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	if f.FrequencyLetter != "" {
		q = q.Where("frequency_letter = ?", f.FrequencyLetter)
	}
	if f.IsBlocked != nil {
		q = q.Where("is_blocked = ?", *f.IsBlocked)
	}
	var out []memberDomain.GroupMemberStatus
	return out, paginate(q.Order("id ASC"), f.Limit, f.Offset).Find(&out).Error
}

func (r *MembershipRepository) Save(ctx context.Context, s *memberDomain.GroupMemberStatus) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *MembershipRepository) SetLetter(ctx context.Context, groupLoanID uint64, letter loanDomain.FrequencyLetter) (int64, error) {
	res := r.db.WithContext(ctx).Model(&memberDomain.GroupMemberStatus{}).
		Where("group_loan_id = ?", groupLoanID).
		Update("frequency_letter", letter)
	return res.RowsAffected, res.Error
}
