package mysql

import (
	"testing"
	"time"

	loanDomain "mifi-backend/internal/domain/loan"
	userDomain "mifi-backend/internal/domain/user"
	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/id"
	"mifi-backend/pkg/money"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an in-memory sqlite DB holding the full ledger schema.
// One connection only: every new :memory: connection is a fresh database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role userDomain.Role) *userDomain.User {
	t.Helper()
	u := &userDomain.User{Email: email, Role: role, NRCNumber: email}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func makeIndividual(recipientID uint64, amount string) *loanDomain.IndividualLoan {
	l := &loanDomain.IndividualLoan{
		Loan: loanDomain.Loan{
			LoanID:             id.NewID32(),
			LoanType:           loanDomain.KindIndividual,
			Amount:             money.MustParse(amount),
			RepaymentFrequency: loanDomain.FrequencyWeekly,
			StartDate:          civil.Date(2024, time.January, 1),
			EndDate:            civil.Date(2024, time.January, 15),
		},
		FirstName:   "Mwila",
		LastName:    "Banda",
		RecipientID: recipientID,
	}
	l.ApplyDefaults()
	return l
}

func makeGroup(amount string) *loanDomain.GroupLoan {
	g := &loanDomain.GroupLoan{
		Loan: loanDomain.Loan{
			LoanID:             id.NewID32(),
			LoanType:           loanDomain.KindGroup,
			Amount:             money.MustParse(amount),
			RepaymentFrequency: loanDomain.FrequencyWeekly,
			StartDate:          civil.Date(2024, time.January, 1),
			EndDate:            civil.Date(2024, time.January, 15),
		},
		GroupName:       "Tiyende",
		FrequencyLetter: "B",
		TotalGroupLoan:  money.MustParse(amount),
		DueDate:         civil.Date(2024, time.January, 15),
		New:             true,
	}
	g.ApplyDefaults()
	return g
}
