package loan

import (
	"time"

	"github.com/shopspring/decimal"

	domain "mifi-backend/internal/domain/loan"
)

// Terms are the shared loan fields supplied on creation.
type Terms struct {
	Amount             decimal.Decimal
	Penalty            decimal.Decimal
	RepaymentFrequency domain.Frequency // default weekly
	StartDate          time.Time
	EndDate            time.Time
	Status             domain.Status // default active
	LoanOfficerID      *uint64
}

type CreateIndividualInput struct {
	Terms
	FirstName   string
	LastName    string
	RecipientID uint64
	// pre-uploaded, unattached collaterals to link in the same transaction
	CollateralIDs []string
}

type CreateGroupInput struct {
	Terms
	GroupName       string
	FrequencyLetter domain.FrequencyLetter
	TotalGroupLoan  decimal.Decimal
	LoanGiven       bool
	DueDate         time.Time
	Transferred     bool
	Blocked         bool
	New             *bool // default true
	MeetingTime     *string
	MemberIDs       []uint64
}

// TermsPatch carries optional changes to the shared fields. Amount and the
// balances are not patchable; they move only through payments.
type TermsPatch struct {
	Penalty            *decimal.Decimal
	RepaymentFrequency *domain.Frequency
	StartDate          *time.Time
	EndDate            *time.Time
	Status             *domain.Status
	LoanOfficerID      *uint64
}

type UpdateIndividualInput struct {
	LoanID string
	TermsPatch
	FirstName     *string
	LastName      *string
	CollateralIDs []string
}

type UpdateGroupInput struct {
	LoanID string
	TermsPatch
	GroupName       *string
	FrequencyLetter *domain.FrequencyLetter
	TotalGroupLoan  *decimal.Decimal
	LoanGiven       *bool
	DueDate         *time.Time
	Transferred     *bool
	Blocked         *bool
	New             *bool
	MeetingTime     *string
	// nil keeps the current members; non-nil replaces them wholesale
	MemberIDs []uint64
}

type ListInput struct {
	Status domain.Status
	Limit  int
	Offset int
}

type LoanDTO struct {
	LoanID             string    `json:"loan_id"`
	LoanType           string    `json:"loan_type"`
	Amount             string    `json:"amount"`
	Penalty            string    `json:"penalty"`
	InterestRate       string    `json:"interest_rate"`
	Interest           string    `json:"interest"`
	RepaymentFrequency string    `json:"repayment_frequency"`
	StartDate          string    `json:"start_date"`
	EndDate            string    `json:"end_date"`
	Status             string    `json:"status"`
	TotalDue           string    `json:"total_due"`
	TotalPaid          string    `json:"total_paid"`
	TotalInstallments  int       `json:"total_installments"`
	LoanOfficerID      *uint64   `json:"loan_officer"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type IndividualLoanDTO struct {
	LoanDTO
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	RecipientID   uint64   `json:"recipient"`
	CollateralIDs []string `json:"collaterals,omitempty"`
}

type MemberDTO struct {
	ID              uint64     `json:"id"`
	MemberID        uint64     `json:"member"`
	FrequencyLetter string     `json:"frequency_letter"`
	IsBlocked       bool       `json:"is_blocked"`
	BlockedAt       *time.Time `json:"blocked_at"`
	BlockedBy       *uint64    `json:"blocked_by"`
}

type GroupLoanDTO struct {
	LoanDTO
	GroupName       string      `json:"group_name"`
	FrequencyLetter string      `json:"frequency_letter"`
	TotalGroupLoan  string      `json:"total_group_loan"`
	LoanGiven       bool        `json:"loan_given"`
	DueDate         string      `json:"due_date"`
	Transferred     bool        `json:"transferred"`
	Blocked         bool        `json:"blocked"`
	New             bool        `json:"new"`
	Time            *string     `json:"time"`
	Members         []MemberDTO `json:"members,omitempty"`
}

type InstallmentDTO struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type ScheduleDTO struct {
	LoanID            string           `json:"loan_id"`
	LoanType          string           `json:"loan_type"`
	TotalDue          string           `json:"total_due"`
	Interest          string           `json:"interest"`
	TotalInstallments int              `json:"total_installments"`
	Installments      []InstallmentDTO `json:"installments"`
}
