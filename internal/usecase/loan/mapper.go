package loan

import (
	domainCollateral "mifi-backend/internal/domain/collateral"
	domain "mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/membership"
	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/money"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func (t Terms) toLoan(kind domain.Kind) domain.Loan {
	return domain.Loan{
		LoanType:           kind,
		Amount:             t.Amount,
		Penalty:            t.Penalty,
		RepaymentFrequency: t.RepaymentFrequency,
		StartDate:          civil.Truncate(t.StartDate),
		EndDate:            civil.Truncate(t.EndDate),
		Status:             t.Status,
		LoanOfficerID:      t.LoanOfficerID,
	}
}

func (p TermsPatch) apply(l *domain.Loan) error {
	if p.Penalty != nil {
		l.Penalty = *p.Penalty
	}
	if p.RepaymentFrequency != nil {
		l.RepaymentFrequency = *p.RepaymentFrequency
	}
	if p.StartDate != nil {
		l.StartDate = civil.Truncate(*p.StartDate)
	}
	if p.EndDate != nil {
		l.EndDate = civil.Truncate(*p.EndDate)
	}
	if p.Status != nil {
		if err := checkSettableStatus(*p.Status); err != nil {
			return err
		}
		l.Status = *p.Status
	}
	if p.LoanOfficerID != nil {
		l.LoanOfficerID = p.LoanOfficerID
	}
	return nil
}

func toLoanDTO(l *domain.Loan) LoanDTO {
	return LoanDTO{
		LoanID:             l.LoanID,
		LoanType:           string(l.LoanType),
		Amount:             money.Format(l.Amount),
		Penalty:            money.Format(l.Penalty),
		InterestRate:       money.Format(domain.AnnualInterestRate.Mul(hundred)),
		Interest:           money.Format(l.CalculateInterest()),
		RepaymentFrequency: string(l.RepaymentFrequency),
		StartDate:          civil.Format(l.StartDate),
		EndDate:            civil.Format(l.EndDate),
		Status:             string(l.Status),
		TotalDue:           money.Format(l.TotalDue),
		TotalPaid:          money.Format(l.TotalPaid),
		TotalInstallments:  l.TotalInstallments(),
		LoanOfficerID:      l.LoanOfficerID,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func toIndividualDTO(l *domain.IndividualLoan, cols []domainCollateral.Collateral) *IndividualLoanDTO {
	dto := &IndividualLoanDTO{
		LoanDTO:     toLoanDTO(&l.Loan),
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		RecipientID: l.RecipientID,
	}
	for _, c := range cols {
		dto.CollateralIDs = append(dto.CollateralIDs, c.CollateralID)
	}
	return dto
}

func toGroupDTO(g *domain.GroupLoan, rows []membership.GroupMemberStatus) *GroupLoanDTO {
	dto := &GroupLoanDTO{
		LoanDTO:         toLoanDTO(&g.Loan),
		GroupName:       g.GroupName,
		FrequencyLetter: string(g.FrequencyLetter),
		TotalGroupLoan:  money.Format(g.TotalGroupLoan),
		LoanGiven:       g.LoanGiven,
		DueDate:         civil.Format(g.DueDate),
		Transferred:     g.Transferred,
		Blocked:         g.Blocked,
		New:             g.New,
		Time:            g.MeetingTime,
	}
	for _, r := range rows {
		dto.Members = append(dto.Members, MemberDTO{
			ID:              r.ID,
			MemberID:        r.MemberID,
			FrequencyLetter: string(r.FrequencyLetter),
			IsBlocked:       r.IsBlocked,
			BlockedAt:       r.BlockedAt,
			BlockedBy:       r.BlockedByID,
		})
	}
	return dto
}

func toScheduleDTO(l *domain.Loan) *ScheduleDTO {
	dto := &ScheduleDTO{
		LoanID:            l.LoanID,
		LoanType:          string(l.LoanType),
		TotalDue:          money.Format(l.TotalDue),
		Interest:          money.Format(l.CalculateInterest()),
		TotalInstallments: l.TotalInstallments(),
		Installments:      []InstallmentDTO{},
	}
	for _, in := range l.PaymentSchedule() {
		dto.Installments = append(dto.Installments, InstallmentDTO{
			Date:   civil.Format(in.Date),
			Amount: money.Format(in.Amount),
		})
	}
	return dto
}
