package membership

import (
	"time"

	"mifi-backend/internal/domain/loan"
)

type ListInput struct {
	// public loan_id of the group loan
	GroupLoanID     string
	FrequencyLetter loan.FrequencyLetter
	IsBlocked       *bool
	Limit           int
	Offset          int
}

type SetBlockedInput struct {
	StatusID  uint64
	IsBlocked bool
}

type ReplaceInput struct {
	GroupLoanID string
	MemberIDs   []uint64
}

type StatusDTO struct {
	ID              uint64     `json:"id"`
	MemberID        uint64     `json:"member"`
	FrequencyLetter string     `json:"frequency_letter"`
	IsBlocked       bool       `json:"is_blocked"`
	BlockedAt       *time.Time `json:"blocked_at"`
	BlockedBy       *uint64    `json:"blocked_by"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
