package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"mifi-backend/internal/domain/loan"
	domain "mifi-backend/internal/domain/payment"
	"mifi-backend/internal/usecase/payment"
)

type PaymentHandler struct {
	uc  *payment.Usecase
	log *logrus.Logger
}

func NewPaymentHandler(uc *payment.Usecase, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

type recordPaymentReq struct {
	LoanIDParam
	Amount      string  `json:"amount"       validate:"required,money"`
	PaymentType string  `json:"payment_type" validate:"omitempty,oneof=NORMAL ADVANCE RECOVERY"`
	MemberID    *uint64 `json:"member"`
}

type makePaymentReq struct {
	LoanType string  `json:"loan_type" validate:"required,oneof=individual group"`
	LoanID   string  `json:"loan_id"   validate:"required,hex32"`
	Amount   string  `json:"amount"    validate:"required,money"`
	MemberID *uint64 `json:"member"`
}

type listPaymentsReq struct {
	LoanIDParam
	PageQuery
	MemberID uint64 `query:"member"`
}

// Record applies a typed payment to a loan of the given kind.
func (h *PaymentHandler) Record(kind loan.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req recordPaymentReq
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
		dto, err := h.uc.Record(c.Request().Context(), currentActor(c), payment.RecordInput{
			LoanKind: kind,
			LoanID:   req.LoanID,
			Amount:   amount(req.Amount),
			Type:     domain.Type(req.PaymentType),
			MemberID: req.MemberID,
		})
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(http.StatusCreated, dto)
	}
}

// MakePayment serves the untyped payment route kept for older clients.
func (h *PaymentHandler) MakePayment(c echo.Context) error {
	var req makePaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.MakePayment(c.Request().Context(), currentActor(c), payment.RecordInput{
		LoanKind: loan.Kind(req.LoanType),
		LoanID:   req.LoanID,
		Amount:   amount(req.Amount),
		MemberID: req.MemberID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Response().Header().Set("Deprecation", "true")
	return c.JSON(http.StatusCreated, dto)
}

func (h *PaymentHandler) List(kind loan.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req listPaymentsReq
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
		in := payment.ListInput{
			LoanKind: kind,
			LoanID:   req.LoanID,
			Limit:    req.Limit,
			Offset:   req.Offset,
		}
		if req.MemberID != 0 {
			in.MemberID = &req.MemberID
		}
		out, err := h.uc.List(c.Request().Context(), currentActor(c), in)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}
