package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks ledger activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	LoansCreated       *prometheus.CounterVec
	PaymentsRecorded   *prometheus.CounterVec
	PaymentRejections  *prometheus.CounterVec
	MemberBlockChanges *prometheus.CounterVec
	OverdueTransitions prometheus.Counter
	PaymentDuration    prometheus.Histogram
}

// New registers all ledger metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoansCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mifi_loans_created_total",
			Help: "Loans created, by loan type",
		}, []string{"loan_type"}),
		PaymentsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mifi_payments_recorded_total",
			Help: "Payments applied to a loan balance, by loan type and payment type",
		}, []string{"loan_type", "payment_type"}),
		PaymentRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mifi_payment_rejections_total",
			Help: "Payments rejected, by reason",
		}, []string{"reason"}),
		MemberBlockChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mifi_member_block_changes_total",
			Help: "Group member block state changes",
		}, []string{"action"}),
		OverdueTransitions: f.NewCounter(prometheus.CounterOpts{
			Name: "mifi_overdue_transitions_total",
			Help: "Loans moved from active to overdue by the sweep",
		}),
		PaymentDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mifi_payment_duration_seconds",
			Help:    "Duration of payment recording including the loan lock",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncLoanCreated(loanType string) {
	if m == nil {
		return
	}
	m.LoansCreated.WithLabelValues(loanType).Inc()
}

func (m *Metrics) IncPaymentRecorded(loanType, paymentType string) {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues(loanType, paymentType).Inc()
}

func (m *Metrics) IncPaymentRejected(reason string) {
	if m == nil {
		return
	}
	m.PaymentRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncMemberBlockChange(blocked bool) {
	if m == nil {
		return
	}
	action := "unblock"
	if blocked {
		action = "block"
	}
	m.MemberBlockChanges.WithLabelValues(action).Inc()
}

func (m *Metrics) AddOverdueTransitions(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.OverdueTransitions.Add(float64(n))
}

// ObservePayment records the duration of a payment call started at start.
func (m *Metrics) ObservePayment(start time.Time) {
	if m == nil {
		return
	}
	m.PaymentDuration.Observe(time.Since(start).Seconds())
}
