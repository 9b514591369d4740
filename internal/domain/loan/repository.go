package loan

import (
	"context"
	"time"
)

type Repository interface {
	CreateIndividual(ctx context.Context, l *IndividualLoan) error
	CreateGroup(ctx context.Context, g *GroupLoan) error
	SaveIndividual(ctx context.Context, l *IndividualLoan) error
	SaveGroup(ctx context.Context, g *GroupLoan) error

	// Lookups by public loan_id
	GetIndividual(ctx context.Context, loanID string) (*IndividualLoan, error)
	GetGroup(ctx context.Context, loanID string) (*GroupLoan, error)
	// GetGroupByID resolves the internal id carried by member status rows.
	GetGroupByID(ctx context.Context, id uint64) (*GroupLoan, error)

	// Same as above but takes a row lock for the rest of the transaction
	GetIndividualForUpdate(ctx context.Context, loanID string) (*IndividualLoan, error)
	GetGroupForUpdate(ctx context.Context, loanID string) (*GroupLoan, error)

	ListIndividual(ctx context.Context, f ListFilter) ([]IndividualLoan, error)
	ListGroup(ctx context.Context, f ListFilter) ([]GroupLoan, error)

	// MarkOverdue flips active loans whose end date is before asOf to overdue
	// and returns how many rows moved.
	MarkOverdue(ctx context.Context, kind Kind, asOf time.Time) (int64, error)
}
