package membership

import (
	"context"

	"mifi-backend/internal/domain/loan"
)

// Register creates the initial member set of a freshly created group.
// The caller owns the transaction.
func Register(ctx context.Context, repo Repository, g *loan.GroupLoan, memberIDs []uint64) ([]GroupMemberStatus, error) {
	rows, err := BuildStatuses(g, memberIDs)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Replace swaps the whole member set of g. The floor is checked before any
// row is removed, and block state of previous rows is not carried over.
// The caller owns the transaction.
func Replace(ctx context.Context, repo Repository, g *loan.GroupLoan, memberIDs []uint64) ([]GroupMemberStatus, error) {
	rows, err := BuildStatuses(g, memberIDs)
	if err != nil {
		return nil, err
	}
	if _, err := repo.DeleteByGroupLoan(ctx, g.ID); err != nil {
		return nil, err
	}
	if err := repo.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
