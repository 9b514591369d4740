package collateral

import (
	"time"

	domain "mifi-backend/internal/domain/collateral"
	"mifi-backend/internal/domain/loan"
)

// UploadInput registers a collateral. LoanKind and LoanID are given together
// or not at all.
type UploadInput struct {
	LoanKind       loan.Kind
	LoanID         string
	CollateralType domain.Type
	FileName       string
	Description    string
}

type AttachInput struct {
	LoanKind      loan.Kind
	LoanID        string
	CollateralIDs []string
}

type ListInput struct {
	LoanKind   loan.Kind
	LoanID     string
	Unattached bool
	Type       domain.Type
	Limit      int
	Offset     int
}

type CollateralDTO struct {
	CollateralID   string     `json:"collateral_id"`
	Attached       bool       `json:"attached"`
	LoanType       *string    `json:"loan_type"`
	CollateralType string     `json:"collateral_type"`
	File           string     `json:"file"`
	Description    string     `json:"description"`
	Verified       bool       `json:"verified"`
	VerifiedBy     *uint64    `json:"verified_by"`
	VerifiedAt     *time.Time `json:"verified_at"`
	UploadedBy     *uint64    `json:"uploaded_by"`
	UploadedAt     time.Time  `json:"uploaded_at"`
}

type AttachResult struct {
	LoanID    string `json:"loan_id"`
	Requested int    `json:"requested"`
	Attached  int64  `json:"attached"`
}
