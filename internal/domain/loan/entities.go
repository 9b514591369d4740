package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"mifi-backend/internal/domain/user"
)

type Kind string

const (
	KindIndividual Kind = "individual"
	KindGroup      Kind = "group"
)

func (k Kind) Valid() bool { return k == KindIndividual || k == KindGroup }

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
	// StatusPaid is reached only through a recovery payment that clears the balance.
	StatusPaid Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusOverdue, StatusCompleted, StatusPaid:
		return true
	}
	return false
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

// FrequencyLetter tags the repayment cohort (A-E) of a group loan.
type FrequencyLetter string

func (l FrequencyLetter) Valid() bool {
	return len(l) == 1 && l[0] >= 'A' && l[0] <= 'E'
}

const (
	// MaxTermDays is the longest allowed distance between start and end date.
	MaxTermDays = 28
)

// AnnualInterestRate is the single system-wide rate (40%). It is policy, not
// a per-loan column.
var AnnualInterestRate = decimal.RequireFromString("0.40")

// Loan carries the terms and balance shared by both loan variants. It is
// embedded into IndividualLoan and GroupLoan and stored in each variant's table.
type Loan struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID             string          `gorm:"column:loan_id;size:32;not null;uniqueIndex" json:"loan_id"`
	LoanType           Kind            `gorm:"column:loan_type;size:20;not null" json:"loan_type"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null" json:"amount"`
	Penalty            decimal.Decimal `gorm:"column:penalty;type:decimal(5,2);not null" json:"penalty"`
	RepaymentFrequency Frequency       `gorm:"column:repayment_frequency;size:10;not null" json:"repayment_frequency"`
	StartDate          time.Time       `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate            time.Time       `gorm:"column:end_date;type:date;not null" json:"end_date"`
	Status             Status          `gorm:"column:status;size:20;not null;index" json:"status"`
	TotalDue           decimal.Decimal `gorm:"column:total_due;type:decimal(14,2);not null" json:"total_due"`
	TotalPaid          decimal.Decimal `gorm:"column:total_paid;type:decimal(14,2);not null" json:"total_paid"`
	LoanOfficerID      *uint64         `gorm:"column:loan_officer_id;index" json:"loan_officer_id"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Base gives access to the shared part of either variant.
func (l *Loan) Base() *Loan { return l }

// OfficerIs reports whether userID is the loan officer assigned to l.
func (l *Loan) OfficerIs(userID uint64) bool {
	return l.LoanOfficerID != nil && *l.LoanOfficerID == userID
}

// ManagedBy reports whether actor may change l or its members: roles that
// see every loan, or the loan officer assigned to it.
func (l *Loan) ManagedBy(actor user.Actor) bool {
	if actor.Role.SeesAllLoans() {
		return true
	}
	return actor.Role.IsLoanOfficerOrHigher() && l.OfficerIs(actor.UserID)
}

type IndividualLoan struct {
	Loan
	FirstName   string `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName    string `gorm:"column:last_name;size:100;not null" json:"last_name"`
	RecipientID uint64 `gorm:"column:recipient_id;not null;index" json:"recipient_id"`
}

func (IndividualLoan) TableName() string { return "individual_loans" }

func (l *IndividualLoan) Ref() Ref { return Ref{Kind: KindIndividual, ID: l.ID} }

type GroupLoan struct {
	Loan
	GroupName       string          `gorm:"column:group_name;size:100;not null" json:"group_name"`
	FrequencyLetter FrequencyLetter `gorm:"column:frequency_letter;size:1;not null" json:"frequency_letter"`
	TotalGroupLoan  decimal.Decimal `gorm:"column:total_group_loan;type:decimal(14,2);not null" json:"total_group_loan"`
	LoanGiven       bool            `gorm:"column:loan_given;not null" json:"loan_given"`
	DueDate         time.Time       `gorm:"column:due_date;type:date;not null" json:"due_date"`
	Transferred     bool            `gorm:"column:transferred;not null" json:"transferred"`
	Blocked         bool            `gorm:"column:blocked;not null" json:"blocked"`
	New             bool            `gorm:"column:new;not null" json:"new"`
	MeetingTime     *string         `gorm:"column:time;size:100" json:"time"`
}

func (GroupLoan) TableName() string { return "group_loans" }

func (g *GroupLoan) Ref() Ref { return Ref{Kind: KindGroup, ID: g.ID} }

// Ref is the tagged identity of a loan: which variant table, which row.
type Ref struct {
	Kind Kind
	ID   uint64
}

// Account is implemented by both loan variants; the payment recorder and the
// collateral registry work against it instead of inspecting concrete types.
type Account interface {
	Base() *Loan
	Ref() Ref
}

var (
	_ Account = (*IndividualLoan)(nil)
	_ Account = (*GroupLoan)(nil)
)

// ListFilter narrows list queries; nil/zero fields are ignored. When OfficerID
// is set together with RecipientID or MemberID the two conditions are OR-ed
// ("loans I manage or loans I borrow under").
type ListFilter struct {
	Status      Status
	OfficerID   *uint64
	RecipientID *uint64 // individual loans only
	MemberID    *uint64 // group loans only
	Limit       int
	Offset      int
}
