package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/money"
)

// CalculateInterest is the advisory interest over the loan term at the fixed
// annual rate. It never feeds back into TotalDue.
func (l *Loan) CalculateInterest() decimal.Decimal {
	d := l.DurationDays()
	if d <= 0 {
		return decimal.Zero
	}
	days := decimal.NewFromInt(int64(d))
	base := l.Amount.Mul(AnnualInterestRate).Mul(days)

	switch l.RepaymentFrequency {
	case FrequencyDaily:
		return money.Round(base.Div(decimal.NewFromInt(365)))
	case FrequencyWeekly:
		// rate/52 per week over d/7 weeks
		return money.Round(base.Div(decimal.NewFromInt(52 * 7)))
	case FrequencyMonthly:
		// rate/12 per month over d/30 months
		return money.Round(base.Div(decimal.NewFromInt(12 * 30)))
	}
	return decimal.Zero
}

// TotalInstallments is the number of installments the balance is split into.
func (l *Loan) TotalInstallments() int {
	d := l.DurationDays()
	switch l.RepaymentFrequency {
	case FrequencyDaily:
		return d
	case FrequencyWeekly:
		return d / 7
	case FrequencyMonthly:
		return d / 30
	}
	return 1
}

type Installment struct {
	Date   time.Time
	Amount decimal.Decimal
}

// PaymentSchedule splits the current TotalDue equally over the installments,
// one entry per period from StartDate while the date does not pass EndDate.
// A term shorter than one period is a single bullet installment.
func (l *Loan) PaymentSchedule() []Installment {
	return l.schedule(l.TotalDue)
}

func (l *Loan) schedule(total decimal.Decimal) []Installment {
	if l.StartDate.IsZero() || l.EndDate.IsZero() || l.EndDate.Before(l.StartDate) {
		return nil
	}
	n := l.TotalInstallments()
	if n < 1 {
		n = 1
	}
	each := total.DivRound(decimal.NewFromInt(int64(n)), money.Scale)

	start := civil.Truncate(l.StartDate)
	end := civil.Truncate(l.EndDate)
	var out []Installment
	for cur := start; !cur.After(end); cur = l.next(cur, start.Day()) {
		out = append(out, Installment{Date: cur, Amount: each})
	}
	return out
}

func (l *Loan) next(cur time.Time, anchorDay int) time.Time {
	switch l.RepaymentFrequency {
	case FrequencyDaily:
		return cur.AddDate(0, 0, 1)
	case FrequencyMonthly:
		return civil.AddMonthClamped(cur, anchorDay)
	default:
		return cur.AddDate(0, 0, 7)
	}
}

// AmountDueAsOf is what the borrower should have paid by asOf according to
// the original schedule (TotalDue + TotalPaid split over the installments),
// minus what has been paid. Zero or negative means nothing is pending.
func (l *Loan) AmountDueAsOf(asOf time.Time) decimal.Decimal {
	obligation := l.TotalDue.Add(l.TotalPaid)
	expected := decimal.Zero
	asOf = civil.Truncate(asOf)
	for _, in := range l.schedule(obligation) {
		if in.Date.After(asOf) {
			break
		}
		expected = expected.Add(in.Amount)
	}
	if expected.GreaterThan(obligation) {
		expected = obligation
	}
	return expected.Sub(l.TotalPaid)
}

// HasPendingInstallment reports whether an installment is due and unpaid at asOf.
func (l *Loan) HasPendingInstallment(asOf time.Time) bool {
	return l.AmountDueAsOf(asOf).IsPositive()
}
