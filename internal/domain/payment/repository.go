package payment

import "context"

type Repository interface {
	CreateIndividual(ctx context.Context, p *IndividualLoanPayment) error
	CreateGroup(ctx context.Context, p *GroupLoanPayment) error

	// Newest first
	ListIndividual(ctx context.Context, f ListFilter) ([]IndividualLoanPayment, error)
	ListGroup(ctx context.Context, f ListFilter) ([]GroupLoanPayment, error)
}
