package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	mw "mifi-backend/internal/adapter/middleware"
	"mifi-backend/internal/domain/loan"
	domainReport "mifi-backend/internal/domain/report"
	"mifi-backend/internal/domain/user"
	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/id"
	"mifi-backend/pkg/money"
)

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// every :memory: connection is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func run(t *testing.T, gdb *gorm.DB, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(*logrus.Logger) (*gorm.DB, error) { return gdb, nil })
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedLoan(t *testing.T, gdb *gorm.DB, status loan.Status, end time.Time) *loan.IndividualLoan {
	t.Helper()
	l := &loan.IndividualLoan{
		Loan: loan.Loan{
			LoanID:             id.NewID32(),
			LoanType:           loan.KindIndividual,
			Amount:             money.MustParse("1000.00"),
			Penalty:            money.MustParse("0"),
			RepaymentFrequency: loan.FrequencyWeekly,
			StartDate:          end.AddDate(0, 0, -14),
			EndDate:            end,
			Status:             status,
			TotalDue:           money.MustParse("1000.00"),
			TotalPaid:          money.MustParse("0"),
		},
		FirstName:   "Ada",
		LastName:    "Banda",
		RecipientID: 1,
	}
	require.NoError(t, gdb.Create(l).Error)
	return l
}

func TestMigrateThenSweep(t *testing.T) {
	gdb := memoryDB(t)

	out, err := run(t, gdb, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	due := seedLoan(t, gdb, loan.StatusActive, civil.Date(2024, time.January, 15))
	seedLoan(t, gdb, loan.StatusActive, civil.Date(2024, time.March, 1))
	seedLoan(t, gdb, loan.StatusCompleted, civil.Date(2024, time.January, 1))

	out, err = run(t, gdb, "sweep-overdue", "--as-of", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, "1 loan(s) moved to overdue as of 2024-02-01\n", out)

	var got loan.IndividualLoan
	require.NoError(t, gdb.Where("loan_id = ?", due.LoanID).First(&got).Error)
	assert.Equal(t, loan.StatusOverdue, got.Status)

	out, err = run(t, gdb, "report", "active_loans")
	require.NoError(t, err)
	var report domainReport.ActiveLoans
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, domainReport.ActiveLoans{TotalLoans: 3, ActiveLoans: 1, OverdueLoans: 1}, report)
}

func TestReportSaveStoresSnapshot(t *testing.T) {
	gdb := memoryDB(t)
	_, err := run(t, gdb, "migrate")
	require.NoError(t, err)

	out, err := run(t, gdb, "report", "active_groups", "--save", "--by", "4")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "active_groups"`)

	var n int64
	require.NoError(t, gdb.Model(&domainReport.Snapshot{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestReportArgumentErrors(t *testing.T) {
	gdb := memoryDB(t)

	_, err := run(t, gdb, "report", "bogus")
	assert.ErrorIs(t, err, domainReport.ErrUnknownName)

	_, err = run(t, gdb, "report", "summary", "--start", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start and --end")

	_, err = run(t, gdb, "sweep-overdue", "--as-of", "01/02/2024")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, nil, "token", "--user", "5", "--role", "manager", "--ttl", "10m")
	require.NoError(t, err)

	actor, err := mw.ParseToken([]byte("cli-secret"), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, user.Actor{UserID: 5, Role: user.RoleManager}, actor)

	_, err = run(t, nil, "token", "--user", "5", "--role", "admin")
	assert.Error(t, err)
}
