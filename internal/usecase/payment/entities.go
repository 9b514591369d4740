package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"mifi-backend/internal/domain/loan"
	domain "mifi-backend/internal/domain/payment"
)

type RecordInput struct {
	LoanKind loan.Kind
	LoanID   string
	Amount   decimal.Decimal
	Type     domain.Type // default NORMAL
	// required for group loans, rejected for individual loans
	MemberID *uint64
}

type ListInput struct {
	LoanKind loan.Kind
	LoanID   string
	MemberID *uint64
	Limit    int
	Offset   int
}

type PaymentDTO struct {
	PaymentID   string    `json:"payment_id"`
	LoanID      string    `json:"loan_id"`
	LoanType    string    `json:"loan_type"`
	MemberID    *uint64   `json:"member,omitempty"`
	Amount      string    `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	PaymentType string    `json:"payment_type"`
	RecordedBy  *uint64   `json:"recorded_by"`
}

// ReceiptDTO is a recorded payment with the loan balance it left behind.
type ReceiptDTO struct {
	PaymentDTO
	TotalDue   string `json:"total_due"`
	TotalPaid  string `json:"total_paid"`
	LoanStatus string `json:"loan_status"`
}
