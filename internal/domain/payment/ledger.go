package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mifi-backend/internal/domain/loan"
	"mifi-backend/pkg/money"
)

// CheckAmount validates amount against the outstanding balance without
// touching it. 0 < amount <= due.
func CheckAmount(amount, due decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrNonPositiveAmount, money.Format(amount))
	}
	if err := money.Check(amount); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if amount.GreaterThan(due) {
		return fmt.Errorf("%w: amount %s, outstanding %s",
			ErrAmountExceedsBalance, money.Format(amount), money.Format(due))
	}
	return nil
}

// ApplyToBalance moves amount from total_due to total_paid. l must be the
// freshly locked row; nothing is changed when the amount is rejected.
func ApplyToBalance(l *loan.Loan, amount decimal.Decimal) error {
	if err := CheckAmount(amount, l.TotalDue); err != nil {
		return err
	}
	l.TotalDue = l.TotalDue.Sub(amount)
	l.TotalPaid = l.TotalPaid.Add(amount)
	return nil
}

// Gate is the status precondition of a typed payment.
func Gate(t Type, l *loan.Loan, asOf time.Time) error {
	switch t {
	case TypeNormal:
		if l.Status != loan.StatusActive {
			return fmt.Errorf("%w: normal payments require an active loan (status %s)", loan.ErrInvalidStatus, l.Status)
		}
	case TypeAdvance:
		if l.Status != loan.StatusActive {
			return fmt.Errorf("%w: advance payments require an active loan (status %s)", loan.ErrInvalidStatus, l.Status)
		}
		if l.HasPendingInstallment(asOf) {
			return fmt.Errorf("%w: an installment is currently due, pay it as a normal payment", loan.ErrInvalidStatus)
		}
	case TypeRecovery:
		if l.Status != loan.StatusOverdue {
			return fmt.Errorf("%w: recovery payments require an overdue loan (status %s)", loan.ErrInvalidStatus, l.Status)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	return nil
}

// Settle applies the post-payment transition of a typed payment.
func Settle(t Type, l *loan.Loan) {
	if t == TypeRecovery && !l.TotalDue.IsPositive() {
		l.Status = loan.StatusPaid
	}
}
