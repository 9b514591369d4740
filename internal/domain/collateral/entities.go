package collateral

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"mifi-backend/internal/domain/loan"
)

var (
	ErrNotFound            = errors.New("collateral not found")
	ErrIncompleteReference = errors.New("loan type and loan id must be provided together")
	ErrInvalidType         = errors.New("collateral type must be PHOTO, VIDEO or DOCUMENT")
)

type Type string

const (
	TypePhoto    Type = "PHOTO"
	TypeVideo    Type = "VIDEO"
	TypeDocument Type = "DOCUMENT"
)

func (t Type) Valid() bool {
	return t == TypePhoto || t == TypeVideo || t == TypeDocument
}

// Collateral is evidence attached to at most one loan. LoanKind and LoanID are
// either both set or both nil.
type Collateral struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"-"`
	CollateralID   string     `gorm:"column:collateral_id;size:32;not null;uniqueIndex" json:"collateral_id"`
	LoanKind       *loan.Kind `gorm:"column:loan_kind;size:20;index:ix_collateral_loan" json:"loan_type"`
	LoanID         *uint64    `gorm:"column:loan_id;index:ix_collateral_loan" json:"-"`
	CollateralType Type       `gorm:"column:collateral_type;size:10;not null" json:"collateral_type"`
	File           string     `gorm:"column:file;size:255;not null" json:"file"`
	Description    string     `gorm:"column:description;type:text" json:"description"`
	Verified       bool       `gorm:"column:verified;not null" json:"verified"`
	VerifiedByID   *uint64    `gorm:"column:verified_by_id" json:"verified_by"`
	VerifiedAt     *time.Time `gorm:"column:verified_at" json:"verified_at"`
	UploadedByID   *uint64    `gorm:"column:uploaded_by_id" json:"uploaded_by"`
	UploadedAt     time.Time  `gorm:"column:uploaded_at;not null" json:"uploaded_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Collateral) TableName() string { return "collaterals" }

// Ref reports the loan this collateral is attached to, if any.
func (c *Collateral) Ref() (loan.Ref, bool) {
	if c.LoanKind == nil || c.LoanID == nil {
		return loan.Ref{}, false
	}
	return loan.Ref{Kind: *c.LoanKind, ID: *c.LoanID}, true
}

// CheckAttachable rejects loans that can no longer take collateral.
func CheckAttachable(l *loan.Loan) error {
	if l.Status != loan.StatusActive && l.Status != loan.StatusPending {
		return fmt.Errorf("%w: collateral can only be attached to active or pending loans (status %s)",
			loan.ErrInvalidStatus, l.Status)
	}
	return nil
}

// AttachTo links the collateral to acct after checking the loan status.
func (c *Collateral) AttachTo(acct loan.Account) error {
	if err := CheckAttachable(acct.Base()); err != nil {
		return err
	}
	ref := acct.Ref()
	c.LoanKind = &ref.Kind
	c.LoanID = &ref.ID
	return nil
}

func (c *Collateral) Verify(actorID uint64, at time.Time) {
	at = at.UTC()
	c.Verified = true
	c.VerifiedByID = &actorID
	c.VerifiedAt = &at
}

// StoragePath is the object key a file is stored under. An empty kind means
// the collateral was uploaded without a loan.
func StoragePath(kind loan.Kind, loanID string, t Type, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	typ := strings.ToLower(string(t))
	switch kind {
	case loan.KindIndividual:
		return path.Join("collaterals", "individual_loans", loanID, typ, base)
	case loan.KindGroup:
		return path.Join("collaterals", "group_loans", loanID, typ, base)
	}
	return path.Join("collaterals", "unassigned", typ, base)
}

// RequiredTypes lists the collateral types a loan kind must carry.
func RequiredTypes(kind loan.Kind) []Type {
	if kind == loan.KindIndividual {
		return []Type{TypePhoto}
	}
	return nil
}

// MissingRequired returns loan.ErrMissingCollateral naming the first
// required type absent from attached.
func MissingRequired(kind loan.Kind, attached []Collateral) error {
	have := make(map[Type]bool, len(attached))
	for _, c := range attached {
		have[c.CollateralType] = true
	}
	for _, t := range RequiredTypes(kind) {
		if !have[t] {
			return fmt.Errorf("%w: %s loans need at least one %s collateral", loan.ErrMissingCollateral, kind, t)
		}
	}
	return nil
}

type Filter struct {
	LoanKind   loan.Kind
	LoanID     *uint64
	Unattached bool
	Type       Type
	Limit      int
	Offset     int
}
