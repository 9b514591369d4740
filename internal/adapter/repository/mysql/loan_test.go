package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "mifi-backend/internal/domain/loan"
	memberDomain "mifi-backend/internal/domain/membership"
	userDomain "mifi-backend/internal/domain/user"
	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/money"

	"gorm.io/gorm"
)

func TestCreateAndGetIndividual(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	client := seedUser(t, db, "client@example.com", userDomain.RoleClient)
	l := makeIndividual(client.ID, "1000.00")
	if err := repo.CreateIndividual(ctx, l); err != nil {
		t.Fatalf("CreateIndividual: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("CreateIndividual did not set auto-increment ID")
	}

	got, err := repo.GetIndividual(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetIndividual: %v", err)
	}
	if got.RecipientID != client.ID || got.LoanType != loanDomain.KindIndividual {
		t.Errorf("unexpected loan: %+v", got)
	}
	if money.Format(got.TotalDue) != "1000.00" || !got.TotalPaid.IsZero() {
		t.Errorf("balances not persisted: due=%s paid=%s", got.TotalDue, got.TotalPaid)
	}
	if civil.Format(got.EndDate) != "2024-01-15" {
		t.Errorf("end date = %s", civil.Format(got.EndDate))
	}
}

func TestSaveUpdatesBalance(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	g := makeGroup("500.00")
	if err := repo.CreateGroup(ctx, g); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	g.TotalDue = money.MustParse("350.50")
	g.TotalPaid = money.MustParse("149.50")
	if err := repo.SaveGroup(ctx, g); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}

	got, err := repo.GetGroupForUpdate(ctx, g.LoanID)
	if err != nil {
		t.Fatalf("GetGroupForUpdate: %v", err)
	}
	if !got.TotalDue.Equal(money.MustParse("350.50")) || !got.TotalPaid.Equal(money.MustParse("149.50")) {
		t.Errorf("balance not updated: due=%s paid=%s", got.TotalDue, got.TotalPaid)
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	if _, err := repo.GetIndividual(ctx, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := repo.GetGroupForUpdate(ctx, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestListIndividual_Visibility(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	officer := seedUser(t, db, "officer@example.com", userDomain.RoleLoanOfficer)
	c1 := seedUser(t, db, "c1@example.com", userDomain.RoleClient)
	c2 := seedUser(t, db, "c2@example.com", userDomain.RoleClient)

	managed := makeIndividual(c1.ID, "100.00")
	managed.LoanOfficerID = &officer.ID
	own := makeIndividual(c2.ID, "200.00")
	other := makeIndividual(c1.ID, "300.00")
	other.Status = loanDomain.StatusCompleted
	for _, l := range []*loanDomain.IndividualLoan{managed, own, other} {
		if err := repo.CreateIndividual(ctx, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tests := []struct {
		name string
		f    loanDomain.ListFilter
		want int
	}{
		{"all", loanDomain.ListFilter{}, 3},
		{"by officer", loanDomain.ListFilter{OfficerID: &officer.ID}, 1},
		{"by recipient", loanDomain.ListFilter{RecipientID: &c1.ID}, 2},
		{"officer or recipient", loanDomain.ListFilter{OfficerID: &officer.ID, RecipientID: &c2.ID}, 2},
		{"by status", loanDomain.ListFilter{Status: loanDomain.StatusCompleted}, 1},
		{"paged", loanDomain.ListFilter{Limit: 2, Offset: 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListIndividual(ctx, tt.f)
			if err != nil {
				t.Fatalf("ListIndividual: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d rows, want %d", len(got), tt.want)
			}
		})
	}
}

func TestListGroup_ByMember(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	members := NewMembershipRepository(db)
	ctx := context.Background()

	g1, g2 := makeGroup("100.00"), makeGroup("200.00")
	for _, g := range []*loanDomain.GroupLoan{g1, g2} {
		if err := repo.CreateGroup(ctx, g); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	rows, err := memberDomain.BuildStatuses(g1, []uint64{7, 8})
	if err != nil {
		t.Fatal(err)
	}
	if err := members.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	memberID := uint64(7)
	got, err := repo.ListGroup(ctx, loanDomain.ListFilter{MemberID: &memberID})
	if err != nil {
		t.Fatalf("ListGroup: %v", err)
	}
	if len(got) != 1 || got[0].LoanID != g1.LoanID {
		t.Fatalf("unexpected groups: %+v", got)
	}
}

func TestMarkOverdue(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	c := seedUser(t, db, "c@example.com", userDomain.RoleClient)
	past := makeIndividual(c.ID, "100.00") // ends 2024-01-15
	current := makeIndividual(c.ID, "100.00")
	current.StartDate = civil.Date(2024, time.February, 1)
	current.EndDate = civil.Date(2024, time.February, 20)
	done := makeIndividual(c.ID, "100.00")
	done.Status = loanDomain.StatusCompleted
	for _, l := range []*loanDomain.IndividualLoan{past, current, done} {
		if err := repo.CreateIndividual(ctx, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := repo.MarkOverdue(ctx, loanDomain.KindIndividual, civil.Date(2024, time.February, 1))
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("moved %d loans, want 1", n)
	}
	got, _ := repo.GetIndividual(ctx, past.LoanID)
	if got.Status != loanDomain.StatusOverdue {
		t.Errorf("status = %s", got.Status)
	}
	got, _ = repo.GetIndividual(ctx, done.LoanID)
	if got.Status != loanDomain.StatusCompleted {
		t.Errorf("completed loan touched: %s", got.Status)
	}

	if _, err := repo.MarkOverdue(ctx, "joint", time.Now()); !errors.Is(err, loanDomain.ErrInvalidKind) {
		t.Errorf("want ErrInvalidKind, got %v", err)
	}
}
