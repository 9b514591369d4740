package mysql

import (
	"mifi-backend/internal/domain/collateral"
	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/membership"
	"mifi-backend/internal/domain/payment"
	"mifi-backend/internal/domain/report"
	"mifi-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every table owned by the ledger, parents first.
func Models() []any {
	return []any{
		&user.User{},
		&loan.IndividualLoan{},
		&loan.GroupLoan{},
		&membership.GroupMemberStatus{},
		&payment.IndividualLoanPayment{},
		&payment.GroupLoanPayment{},
		&collateral.Collateral{},
		&report.Snapshot{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
