package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/usecase/membership"
)

type MembershipHandler struct {
	uc  *membership.Usecase
	log *logrus.Logger
}

func NewMembershipHandler(uc *membership.Usecase, log *logrus.Logger) *MembershipHandler {
	return &MembershipHandler{uc: uc, log: log}
}

type listMembersReq struct {
	LoanIDParam
	PageQuery
	FrequencyLetter string `query:"frequency_letter" validate:"omitempty,freqletter"`
	IsBlocked       string `query:"is_blocked"       validate:"omitempty,oneof=true false"`
}

type replaceMembersReq struct {
	LoanIDParam
	Members []uint64 `json:"members" validate:"required"`
}

type statusIDParam struct {
	ID uint64 `param:"id" validate:"required"`
}

type setBlockedReq struct {
	ID        uint64 `param:"id" json:"-" validate:"required"`
	IsBlocked *bool  `json:"is_blocked" validate:"required"`
}

func (h *MembershipHandler) List(c echo.Context) error {
	var req listMembersReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := membership.ListInput{
		GroupLoanID:     req.LoanID,
		FrequencyLetter: loan.FrequencyLetter(req.FrequencyLetter),
		Limit:           req.Limit,
		Offset:          req.Offset,
	}
	if req.IsBlocked != "" {
		b := req.IsBlocked == "true"
		in.IsBlocked = &b
	}
	out, err := h.uc.List(c.Request().Context(), currentActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Replace swaps the whole member list of a group loan.
func (h *MembershipHandler) Replace(c echo.Context) error {
	var req replaceMembersReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Replace(c.Request().Context(), currentActor(c), membership.ReplaceInput{
		GroupLoanID: req.LoanID,
		MemberIDs:   req.Members,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MembershipHandler) Get(c echo.Context) error {
	var req statusIDParam
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), currentActor(c), req.ID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *MembershipHandler) SetBlocked(c echo.Context) error {
	var req setBlockedReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetBlocked(c.Request().Context(), currentActor(c), membership.SetBlockedInput{
		StatusID:  req.ID,
		IsBlocked: *req.IsBlocked,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
