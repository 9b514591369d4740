package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	domain "mifi-backend/internal/domain/loan"
	"mifi-backend/internal/usecase/loan"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *logrus.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *logrus.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

type termsReq struct {
	Amount             string  `json:"amount"              validate:"required,money"`
	Penalty            string  `json:"penalty"             validate:"omitempty,money"`
	RepaymentFrequency string  `json:"repayment_frequency" validate:"omitempty,oneof=daily weekly monthly"`
	StartDate          string  `json:"start_date"          validate:"required,isodate"`
	EndDate            string  `json:"end_date"            validate:"required,isodate"`
	Status             string  `json:"status"              validate:"omitempty,oneof=pending active overdue completed"`
	LoanOfficerID      *uint64 `json:"loan_officer"`
}

func (r termsReq) toTerms() loan.Terms {
	t := loan.Terms{
		Amount:             amount(r.Amount),
		RepaymentFrequency: domain.Frequency(r.RepaymentFrequency),
		StartDate:          date(r.StartDate),
		EndDate:            date(r.EndDate),
		Status:             domain.Status(r.Status),
		LoanOfficerID:      r.LoanOfficerID,
	}
	if r.Penalty != "" {
		t.Penalty = amount(r.Penalty)
	}
	return t
}

type createIndividualReq struct {
	termsReq
	FirstName   string   `json:"first_name"  validate:"required,max=100"`
	LastName    string   `json:"last_name"   validate:"required,max=100"`
	RecipientID uint64   `json:"recipient"   validate:"required"`
	Collaterals []string `json:"collaterals" validate:"omitempty,dive,hex32"`
}

type createGroupReq struct {
	termsReq
	GroupName       string   `json:"group_name"       validate:"required,max=100"`
	FrequencyLetter string   `json:"frequency_letter" validate:"required,freqletter"`
	TotalGroupLoan  string   `json:"total_group_loan" validate:"omitempty,money"`
	LoanGiven       bool     `json:"loan_given"`
	DueDate         string   `json:"due_date"         validate:"required,isodate"`
	Transferred     bool     `json:"transferred"`
	Blocked         bool     `json:"blocked"`
	New             *bool    `json:"new"`
	MeetingTime     *string  `json:"time"             validate:"omitempty,max=100"`
	Members         []uint64 `json:"members"          validate:"required"`
}

type termsPatchReq struct {
	Penalty            *string `json:"penalty"             validate:"omitempty,money"`
	RepaymentFrequency *string `json:"repayment_frequency" validate:"omitempty,oneof=daily weekly monthly"`
	StartDate          *string `json:"start_date"          validate:"omitempty,isodate"`
	EndDate            *string `json:"end_date"            validate:"omitempty,isodate"`
	Status             *string `json:"status"              validate:"omitempty,oneof=pending active overdue completed"`
	LoanOfficerID      *uint64 `json:"loan_officer"`
}

func (r termsPatchReq) toPatch() loan.TermsPatch {
	p := loan.TermsPatch{
		Penalty:       optAmount(r.Penalty),
		StartDate:     optDate(r.StartDate),
		EndDate:       optDate(r.EndDate),
		LoanOfficerID: r.LoanOfficerID,
	}
	if r.RepaymentFrequency != nil {
		f := domain.Frequency(*r.RepaymentFrequency)
		p.RepaymentFrequency = &f
	}
	if r.Status != nil {
		s := domain.Status(*r.Status)
		p.Status = &s
	}
	return p
}

type updateIndividualReq struct {
	LoanIDParam
	termsPatchReq
	FirstName   *string  `json:"first_name"  validate:"omitempty,max=100"`
	LastName    *string  `json:"last_name"   validate:"omitempty,max=100"`
	Collaterals []string `json:"collaterals" validate:"omitempty,dive,hex32"`
}

type updateGroupReq struct {
	LoanIDParam
	termsPatchReq
	GroupName       *string  `json:"group_name"       validate:"omitempty,max=100"`
	FrequencyLetter *string  `json:"frequency_letter" validate:"omitempty,freqletter"`
	TotalGroupLoan  *string  `json:"total_group_loan" validate:"omitempty,money"`
	LoanGiven       *bool    `json:"loan_given"`
	DueDate         *string  `json:"due_date"         validate:"omitempty,isodate"`
	Transferred     *bool    `json:"transferred"`
	Blocked         *bool    `json:"blocked"`
	New             *bool    `json:"new"`
	MeetingTime     *string  `json:"time"             validate:"omitempty,max=100"`
	Members         []uint64 `json:"members"`
}

type listLoansReq struct {
	PageQuery
	Status string `query:"status" validate:"omitempty,oneof=pending active overdue completed paid"`
}

func (h *LoanHandler) CreateIndividual(c echo.Context) error {
	var req createIndividualReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateIndividual(c.Request().Context(), currentActor(c), loan.CreateIndividualInput{
		Terms:         req.toTerms(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		RecipientID:   req.RecipientID,
		CollateralIDs: req.Collaterals,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) CreateGroup(c echo.Context) error {
	var req createGroupReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := loan.CreateGroupInput{
		Terms:           req.toTerms(),
		GroupName:       req.GroupName,
		FrequencyLetter: domain.FrequencyLetter(req.FrequencyLetter),
		LoanGiven:       req.LoanGiven,
		DueDate:         date(req.DueDate),
		Transferred:     req.Transferred,
		Blocked:         req.Blocked,
		New:             req.New,
		MeetingTime:     req.MeetingTime,
		MemberIDs:       req.Members,
	}
	if req.TotalGroupLoan != "" {
		in.TotalGroupLoan = amount(req.TotalGroupLoan)
	}
	dto, err := h.uc.CreateGroup(c.Request().Context(), currentActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) UpdateIndividual(c echo.Context) error {
	var req updateIndividualReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.UpdateIndividual(c.Request().Context(), currentActor(c), loan.UpdateIndividualInput{
		LoanID:        req.LoanID,
		TermsPatch:    req.toPatch(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		CollateralIDs: req.Collaterals,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UpdateGroup(c echo.Context) error {
	var req updateGroupReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := loan.UpdateGroupInput{
		LoanID:         req.LoanID,
		TermsPatch:     req.toPatch(),
		GroupName:      req.GroupName,
		TotalGroupLoan: optAmount(req.TotalGroupLoan),
		LoanGiven:      req.LoanGiven,
		DueDate:        optDate(req.DueDate),
		Transferred:    req.Transferred,
		Blocked:        req.Blocked,
		New:            req.New,
		MeetingTime:    req.MeetingTime,
		MemberIDs:      req.Members,
	}
	if req.FrequencyLetter != nil {
		l := domain.FrequencyLetter(*req.FrequencyLetter)
		in.FrequencyLetter = &l
	}
	dto, err := h.uc.UpdateGroup(c.Request().Context(), currentActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetIndividual(c echo.Context) error {
	var req LoanIDParam
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.GetIndividual(c.Request().Context(), currentActor(c), req.LoanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetGroup(c echo.Context) error {
	var req LoanIDParam
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.GetGroup(c.Request().Context(), currentActor(c), req.LoanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListIndividual(c echo.Context) error {
	var req listLoansReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListIndividual(c.Request().Context(), currentActor(c), loan.ListInput{
		Status: domain.Status(req.Status),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) ListGroup(c echo.Context) error {
	var req listLoansReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListGroup(c.Request().Context(), currentActor(c), loan.ListInput{
		Status: domain.Status(req.Status),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Schedule serves the installment plan of one loan kind.
func (h *LoanHandler) Schedule(kind domain.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req LoanIDParam
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
		dto, err := h.uc.Schedule(c.Request().Context(), currentActor(c), kind, req.LoanID)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, dto)
	}
}
