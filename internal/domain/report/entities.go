package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var (
	ErrNotFound     = errors.New("report not found")
	ErrInvalidRange = errors.New("report start date must not be after end date")
	ErrUnknownName  = errors.New("unknown report name")
)

type Name string

const (
	NamePaymentsCollected Name = "payments_collected"
	NameActiveGroups      Name = "active_groups"
	NameAmountLoaned      Name = "amount_loaned"
	NameActiveLoans       Name = "active_loans"
	NameSummary           Name = "summary"
)

func (n Name) Valid() bool {
	switch n {
	case NamePaymentsCollected, NameActiveGroups, NameAmountLoaned, NameActiveLoans, NameSummary:
		return true
	}
	return false
}

type PaymentsCollected struct {
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	PaymentCount  int64           `json:"payment_count"`
}

type ActiveGroups struct {
	TotalGroups  int64 `json:"total_groups"`
	ActiveGroups int64 `json:"active_groups"`
}

type AmountLoaned struct {
	TotalAmount           decimal.Decimal `json:"total_amount"`
	IndividualLoansAmount decimal.Decimal `json:"individual_loans_amount"`
	GroupLoansAmount      decimal.Decimal `json:"group_loans_amount"`
}

type ActiveLoans struct {
	TotalLoans   int64 `json:"total_loans"`
	ActiveLoans  int64 `json:"active_loans"`
	OverdueLoans int64 `json:"overdue_loans"`
}

type Summary struct {
	PaymentsCollected PaymentsCollected `json:"payments_collected"`
	ActiveGroups      ActiveGroups      `json:"active_groups"`
	AmountLoaned      AmountLoaned      `json:"amount_loaned"`
	ActiveLoans       ActiveLoans       `json:"active_loans"`
}

// Snapshot is a generated report kept for later reading.
type Snapshot struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	SnapshotID    string         `gorm:"column:snapshot_id;size:32;not null;uniqueIndex" json:"snapshot_id"`
	Name          Name           `gorm:"column:name;size:100;not null;index" json:"name"`
	GeneratedAt   time.Time      `gorm:"column:generated_at;not null" json:"generated_at"`
	GeneratedByID *uint64        `gorm:"column:generated_by_id" json:"generated_by"`
	Payload       datatypes.JSON `gorm:"column:payload" json:"payload"`
}

func (Snapshot) TableName() string { return "report_snapshots" }

// StatusCount is the number of loans of one kind in one status.
type StatusCount struct {
	Status string
	Count  int64
}
