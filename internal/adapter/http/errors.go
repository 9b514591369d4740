package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"mifi-backend/internal/domain/collateral"
	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/membership"
	"mifi-backend/internal/domain/payment"
	"mifi-backend/internal/domain/report"
	"mifi-backend/internal/domain/user"
	"mifi-backend/pkg/money"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// first match wins; wrapped sentinels come before their parents
var errorMappings = []errorMapping{
	{loan.ErrNotFound, http.StatusNotFound, "loan_not_found"},
	{loan.ErrInvalidLoanTerm, http.StatusUnprocessableEntity, "invalid_loan_term"},
	{loan.ErrMissingCollateral, http.StatusUnprocessableEntity, "missing_collateral"},
	{loan.ErrInvalidStatus, http.StatusConflict, "invalid_loan_status"},
	{loan.ErrInvalidKind, http.StatusBadRequest, "invalid_loan_type"},
	{membership.ErrInsufficientMembers, http.StatusUnprocessableEntity, "insufficient_members"},
	{membership.ErrNotFound, http.StatusNotFound, "member_status_not_found"},
	{payment.ErrNonPositiveAmount, http.StatusUnprocessableEntity, "non_positive_amount"},
	{payment.ErrAmountExceedsBalance, http.StatusUnprocessableEntity, "amount_exceeds_balance"},
	{payment.ErrMemberBlocked, http.StatusConflict, "member_blocked"},
	{payment.ErrInvalidParameters, http.StatusUnprocessableEntity, "invalid_payment_parameters"},
	{collateral.ErrNotFound, http.StatusNotFound, "collateral_not_found"},
	{collateral.ErrIncompleteReference, http.StatusUnprocessableEntity, "incomplete_loan_reference"},
	{collateral.ErrInvalidType, http.StatusUnprocessableEntity, "invalid_collateral_type"},
	{user.ErrNotFound, http.StatusUnprocessableEntity, "user_reference_not_found"},
	{report.ErrNotFound, http.StatusNotFound, "report_not_found"},
	{report.ErrInvalidRange, http.StatusUnprocessableEntity, "invalid_range"},
	{report.ErrUnknownName, http.StatusNotFound, "unknown_report"},
	{money.ErrInvalid, http.StatusUnprocessableEntity, "invalid_amount"},
	{money.ErrPrecision, http.StatusUnprocessableEntity, "invalid_amount"},
}

// StatusFor maps a usecase error to its HTTP status and stable code.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError renders err; unmapped errors are logged and hidden from the client.
func writeError(c echo.Context, log *logrus.Logger, err error) error {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		msg = "internal error"
	}
	return c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "invalid_request"})
}

// bindAndValidate decodes path, query and body into req and validates it.
// When it reports false the error response has already been written.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation_failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
