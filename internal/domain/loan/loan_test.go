package loan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/money"
)

func newLoan(freq Frequency, start, end time.Time, amount string) *Loan {
	l := &Loan{
		LoanType:           KindIndividual,
		Amount:             money.MustParse(amount),
		RepaymentFrequency: freq,
		StartDate:          start,
		EndDate:            end,
	}
	l.ApplyDefaults()
	return l
}

func TestApplyDefaults(t *testing.T) {
	l := &Loan{Amount: money.MustParse("1000.00")}
	l.ApplyDefaults()

	assert.Equal(t, "1000.00", money.Format(l.TotalDue))
	assert.True(t, l.TotalPaid.IsZero())
	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, FrequencyWeekly, l.RepaymentFrequency)

	// explicit values survive
	l = &Loan{Amount: money.MustParse("1000.00"), TotalDue: money.MustParse("250.00"), Status: StatusPending}
	l.ApplyDefaults()
	assert.Equal(t, "250.00", money.Format(l.TotalDue))
	assert.Equal(t, StatusPending, l.Status)
}

func TestValidate_Duration(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	tests := []struct {
		name    string
		end     time.Time
		wantErr bool
	}{
		{"one day", start.AddDate(0, 0, 1), false},
		{"fourteen days", start.AddDate(0, 0, 14), false},
		{"exactly 28 days", start.AddDate(0, 0, 28), false},
		{"29 days", start.AddDate(0, 0, 29), true},
		{"same day", start, true},
		{"end before start", start.AddDate(0, 0, -1), true},
		{"missing end", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLoan(FrequencyWeekly, start, tt.end, "1000.00")
			err := l.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidLoanTerm), "got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_AmountsAndFrequency(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	end := civil.Date(2024, time.January, 15)

	l := newLoan(FrequencyWeekly, start, end, "0")
	assert.ErrorIs(t, l.Validate(), ErrInvalidLoanTerm)

	l = newLoan(FrequencyWeekly, start, end, "1000.00")
	l.Penalty = money.MustParse("-1")
	assert.ErrorIs(t, l.Validate(), ErrInvalidLoanTerm)

	l = newLoan("yearly", start, end, "1000.00")
	assert.ErrorIs(t, l.Validate(), ErrInvalidLoanTerm)
}

func TestGroupLoanValidate(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	g := &GroupLoan{
		Loan:            *newLoan(FrequencyWeekly, start, start.AddDate(0, 0, 14), "500.00"),
		GroupName:       "Mawa",
		FrequencyLetter: "B",
		DueDate:         start.AddDate(0, 0, 14),
	}
	require.NoError(t, g.Validate())

	g.FrequencyLetter = "F"
	assert.ErrorIs(t, g.Validate(), ErrInvalidLoanTerm)

	g.FrequencyLetter = "A"
	g.DueDate = time.Time{}
	assert.ErrorIs(t, g.Validate(), ErrInvalidLoanTerm)
}

func TestCalculateInterest(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	end := civil.Date(2024, time.January, 15)

	tests := []struct {
		freq Frequency
		want string
	}{
		{FrequencyDaily, "15.34"},
		{FrequencyWeekly, "15.38"},
		{FrequencyMonthly, "15.56"},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			l := newLoan(tt.freq, start, end, "1000.00")
			assert.Equal(t, tt.want, money.Format(l.CalculateInterest()))
		})
	}

	t.Run("non-positive duration", func(t *testing.T) {
		l := newLoan(FrequencyDaily, start, start, "1000.00")
		assert.True(t, l.CalculateInterest().IsZero())
	})

	t.Run("does not touch total due", func(t *testing.T) {
		l := newLoan(FrequencyDaily, start, end, "1000.00")
		_ = l.CalculateInterest()
		assert.Equal(t, "1000.00", money.Format(l.TotalDue))
	})
}

func TestTotalInstallments(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	end := civil.Date(2024, time.January, 15)

	assert.Equal(t, 14, newLoan(FrequencyDaily, start, end, "1").TotalInstallments())
	assert.Equal(t, 2, newLoan(FrequencyWeekly, start, end, "1").TotalInstallments())
	assert.Equal(t, 0, newLoan(FrequencyMonthly, start, end, "1").TotalInstallments())

	l := newLoan(FrequencyWeekly, start, end, "1")
	l.RepaymentFrequency = "unknown"
	assert.Equal(t, 1, l.TotalInstallments())
}

func TestPaymentSchedule_Weekly(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	l := newLoan(FrequencyWeekly, start, civil.Date(2024, time.January, 15), "1000.00")

	got := l.PaymentSchedule()
	require.Len(t, got, 3)
	wantDates := []string{"2024-01-01", "2024-01-08", "2024-01-15"}
	for i, in := range got {
		assert.Equal(t, wantDates[i], civil.Format(in.Date))
		assert.Equal(t, "500.00", money.Format(in.Amount))
	}

	// restartable: a second call yields the same sequence
	assert.Equal(t, got, l.PaymentSchedule())
}

func TestPaymentSchedule_Daily(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	l := newLoan(FrequencyDaily, start, civil.Date(2024, time.January, 15), "1000.00")

	got := l.PaymentSchedule()
	require.Len(t, got, 15)
	assert.Equal(t, "71.43", money.Format(got[0].Amount))
	assert.Equal(t, "2024-01-15", civil.Format(got[len(got)-1].Date))
}

func TestPaymentSchedule_MonthlyClampsMonthEnd(t *testing.T) {
	l := newLoan(FrequencyMonthly, civil.Date(2024, time.January, 31), civil.Date(2024, time.February, 28), "900.00")

	got := l.PaymentSchedule()
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-31", civil.Format(got[0].Date))
	assert.Equal(t, "900.00", money.Format(got[0].Amount))
}

func TestPaymentSchedule_UsesCurrentBalance(t *testing.T) {
	l := newLoan(FrequencyWeekly, civil.Date(2024, time.January, 1), civil.Date(2024, time.January, 15), "1000.00")
	l.TotalDue = money.MustParse("700.00")
	l.TotalPaid = money.MustParse("300.00")

	for _, in := range l.PaymentSchedule() {
		assert.Equal(t, "350.00", money.Format(in.Amount))
	}
}

func TestHasPendingInstallment(t *testing.T) {
	start := civil.Date(2024, time.January, 1)
	l := newLoan(FrequencyWeekly, start, civil.Date(2024, time.January, 15), "1000.00")

	assert.False(t, l.HasPendingInstallment(civil.Date(2023, time.December, 31)), "nothing due before start")
	assert.True(t, l.HasPendingInstallment(start), "first installment falls on the start date")

	l.TotalDue = money.MustParse("500.00")
	l.TotalPaid = money.MustParse("500.00")
	assert.False(t, l.HasPendingInstallment(civil.Date(2024, time.January, 3)))
	assert.True(t, l.HasPendingInstallment(civil.Date(2024, time.January, 8)))

	l.TotalDue = money.MustParse("0")
	l.TotalPaid = money.MustParse("1000.00")
	assert.False(t, l.HasPendingInstallment(civil.Date(2024, time.February, 1)))
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, KindGroup.Valid())
	assert.False(t, Kind("joint").Valid())
	assert.True(t, StatusPaid.Valid())
	assert.False(t, Status("ACTIVE").Valid())
	assert.True(t, FrequencyLetter("E").Valid())
	assert.False(t, FrequencyLetter("AB").Valid())
}

func TestAccountRefs(t *testing.T) {
	var acct Account = &GroupLoan{Loan: Loan{ID: 9}}
	assert.Equal(t, Ref{Kind: KindGroup, ID: 9}, acct.Ref())
	acct.Base().TotalDue = money.MustParse("5.00")
	assert.Equal(t, "5.00", money.Format(acct.(*GroupLoan).TotalDue))
}
