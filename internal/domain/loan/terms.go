package loan

import (
	"fmt"

	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/money"
)

// ApplyDefaults fills the documented creation defaults: total_due starts at
// the principal, status starts active, frequency starts weekly.
func (l *Loan) ApplyDefaults() {
	if l.TotalDue.IsZero() {
		l.TotalDue = l.Amount
	}
	if l.Status == "" {
		l.Status = StatusActive
	}
	if l.RepaymentFrequency == "" {
		l.RepaymentFrequency = FrequencyWeekly
	}
}

// DurationDays is end_date - start_date in calendar days.
func (l *Loan) DurationDays() int {
	return civil.DaysBetween(l.StartDate, l.EndDate)
}

// Validate checks the structural terms of the loan. Collateral requirements
// live with the collateral registry and are checked by the caller.
func (l *Loan) Validate() error {
	if l.StartDate.IsZero() || l.EndDate.IsZero() {
		return fmt.Errorf("%w: both start date and end date are required", ErrInvalidLoanTerm)
	}
	if l.EndDate.Before(l.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrInvalidLoanTerm)
	}
	d := l.DurationDays()
	if d == 0 {
		return fmt.Errorf("%w: loan must last at least one day", ErrInvalidLoanTerm)
	}
	if d > MaxTermDays {
		return fmt.Errorf("%w: loan duration cannot exceed %d days (got %d)", ErrInvalidLoanTerm, MaxTermDays, d)
	}
	if !l.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidLoanTerm)
	}
	if err := money.Check(l.Amount); err != nil {
		return fmt.Errorf("%w: amount: %v", ErrInvalidLoanTerm, err)
	}
	if l.Penalty.IsNegative() {
		return fmt.Errorf("%w: penalty cannot be negative", ErrInvalidLoanTerm)
	}
	if !l.RepaymentFrequency.Valid() {
		return fmt.Errorf("%w: unknown repayment frequency %q", ErrInvalidLoanTerm, l.RepaymentFrequency)
	}
	if l.TotalDue.IsNegative() || l.TotalPaid.IsNegative() {
		return fmt.Errorf("%w: balances cannot be negative", ErrInvalidLoanTerm)
	}
	return nil
}

// Validate adds the group-specific terms to the shared checks.
func (g *GroupLoan) Validate() error {
	if err := g.Loan.Validate(); err != nil {
		return err
	}
	if !g.FrequencyLetter.Valid() {
		return fmt.Errorf("%w: frequency letter must be one of A-E", ErrInvalidLoanTerm)
	}
	if g.TotalGroupLoan.IsNegative() {
		return fmt.Errorf("%w: total group loan cannot be negative", ErrInvalidLoanTerm)
	}
	if err := money.Check(g.TotalGroupLoan); err != nil {
		return fmt.Errorf("%w: total group loan: %v", ErrInvalidLoanTerm, err)
	}
	if g.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalidLoanTerm)
	}
	return nil
}
