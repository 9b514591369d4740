package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAdvance  Type = "ADVANCE"
	TypeNormal   Type = "NORMAL"
	TypeRecovery Type = "RECOVERY"
)

func (t Type) Valid() bool {
	return t == TypeAdvance || t == TypeNormal || t == TypeRecovery
}

// Payment is the append-only record shared by both variants.
type Payment struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID    string          `gorm:"column:payment_id;size:32;not null;uniqueIndex" json:"payment_id"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null" json:"amount"`
	PaymentDate  time.Time       `gorm:"column:payment_date;not null;index" json:"payment_date"`
	PaymentType  Type            `gorm:"column:payment_type;size:10;not null" json:"payment_type"`
	RecordedByID *uint64         `gorm:"column:recorded_by_id" json:"recorded_by"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

type IndividualLoanPayment struct {
	Payment
	IndividualLoanID uint64 `gorm:"column:individual_loan_id;not null;index" json:"-"`
}

func (IndividualLoanPayment) TableName() string { return "individual_loan_payments" }

type GroupLoanPayment struct {
	Payment
	GroupLoanID uint64 `gorm:"column:group_loan_id;not null;index" json:"-"`
	MemberID    uint64 `gorm:"column:member_id;not null;index" json:"member_id"`
}

func (GroupLoanPayment) TableName() string { return "group_loan_payments" }

type ListFilter struct {
	LoanID   uint64 // internal id of the parent loan, 0 = any
	MemberID *uint64
	Limit    int
	Offset   int
}
