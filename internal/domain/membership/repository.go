package membership

import (
	"context"

	"mifi-backend/internal/domain/loan"
)

type Repository interface {
	CreateBatch(ctx context.Context, rows []GroupMemberStatus) error
	// DeleteByGroupLoan removes every status row of the group and returns the count.
	DeleteByGroupLoan(ctx context.Context, groupLoanID uint64) (int64, error)

	Get(ctx context.Context, id uint64) (*GroupMemberStatus, error)
	GetForUpdate(ctx context.Context, id uint64) (*GroupMemberStatus, error)
	// Find looks up the status of one member within one group.
	Find(ctx context.Context, groupLoanID, memberID uint64) (*GroupMemberStatus, error)
	List(ctx context.Context, f Filter) ([]GroupMemberStatus, error)

	Save(ctx context.Context, s *GroupMemberStatus) error
	// SetLetter relabels every row of the group in place, leaving block
	// state untouched. Returns the number of rows changed.
	SetLetter(ctx context.Context, groupLoanID uint64, letter loan.FrequencyLetter) (int64, error)
}
