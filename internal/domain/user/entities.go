package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user reference not found")

type Role string

const (
	RoleClient        Role = "clients"
	RoleLoanOfficer   Role = "loan_officer"
	RoleRegionManager Role = "region_manager"
	RoleManager       Role = "manager"
	RoleSuperuser     Role = "superuser"
	RoleGuarantor     Role = "guarantor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleLoanOfficer, RoleRegionManager, RoleManager, RoleSuperuser, RoleGuarantor:
		return true
	}
	return false
}

// IsLoanOfficerOrHigher is the role floor for ledger mutations.
func (r Role) IsLoanOfficerOrHigher() bool {
	return r == RoleLoanOfficer || r.IsRegionManagerOrHigher()
}

// IsRegionManagerOrHigher is the role floor for reports.
func (r Role) IsRegionManagerOrHigher() bool {
	return r == RoleRegionManager || r == RoleManager || r == RoleSuperuser
}

// SeesAllLoans reports whether the role bypasses per-user loan visibility.
func (r Role) SeesAllLoans() bool { return r.IsRegionManagerOrHigher() }

type User struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	Email       string    `gorm:"column:email;size:254;not null;uniqueIndex" json:"email"`
	FirstName   string    `gorm:"column:first_name;size:150" json:"first_name"`
	LastName    string    `gorm:"column:last_name;size:150" json:"last_name"`
	Role        Role      `gorm:"column:role;size:20;not null" json:"role"`
	PhoneNumber *string   `gorm:"column:phone_number;size:20" json:"phone_number"`
	Region      *string   `gorm:"column:region;size:100" json:"region"`
	NRCNumber   string    `gorm:"column:nrc_number;size:30;not null;uniqueIndex" json:"nrc_number"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Actor is the acting user attached to every mutating call.
type Actor struct {
	UserID uint64
	Role   Role
}
