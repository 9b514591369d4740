package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	domain "mifi-backend/internal/domain/report"
	"mifi-backend/internal/usecase/report"
)

type ReportHandler struct {
	uc  *report.Usecase
	log *logrus.Logger
}

func NewReportHandler(uc *report.Usecase, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

type dateRangeReq struct {
	StartDate string `query:"start_date" validate:"required,isodate"`
	EndDate   string `query:"end_date"   validate:"required,isodate"`
}

type generateReportReq struct {
	Name      string `json:"name"       validate:"required,oneof=payments_collected active_groups amount_loaned active_loans summary"`
	StartDate string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   string `json:"end_date"   validate:"omitempty,isodate"`
}

// missingRange lists the date fields a ranged report was sent without.
func (r generateReportReq) missingRange() []FieldError {
	if domain.Name(r.Name) != domain.NamePaymentsCollected && domain.Name(r.Name) != domain.NameSummary {
		return nil
	}
	var out []FieldError
	if r.StartDate == "" {
		out = append(out, FieldError{Field: "start_date", Message: "is required"})
	}
	if r.EndDate == "" {
		out = append(out, FieldError{Field: "end_date", Message: "is required"})
	}
	return out
}

type listSnapshotsReq struct {
	PageQuery
	Name string `query:"name" validate:"omitempty,oneof=payments_collected active_groups amount_loaned active_loans summary"`
}

type snapshotIDParam struct {
	SnapshotID string `param:"snapshot_id" validate:"required,hex32"`
}

func (h *ReportHandler) PaymentsCollected(c echo.Context) error {
	var req dateRangeReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.PaymentsCollected(c.Request().Context(), date(req.StartDate), date(req.EndDate))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) ActiveGroups(c echo.Context) error {
	out, err := h.uc.ActiveGroups(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) AmountLoaned(c echo.Context) error {
	out, err := h.uc.AmountLoaned(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) ActiveLoans(c echo.Context) error {
	out, err := h.uc.ActiveLoans(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Summary(c echo.Context) error {
	var req dateRangeReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Summary(c.Request().Context(), date(req.StartDate), date(req.EndDate))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Generate computes a report and stores it as a snapshot.
func (h *ReportHandler) Generate(c echo.Context) error {
	var req generateReportReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if missing := req.missingRange(); len(missing) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Code: "validation_failed", Details: missing})
	}
	dto, err := h.uc.Generate(c.Request().Context(), currentActor(c), report.GenerateInput{
		Name:      domain.Name(req.Name),
		StartDate: date(req.StartDate),
		EndDate:   date(req.EndDate),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ReportHandler) ListSnapshots(c echo.Context) error {
	var req listSnapshotsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListSnapshots(c.Request().Context(), domain.Name(req.Name), req.Limit, req.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) GetSnapshot(c echo.Context) error {
	var req snapshotIDParam
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.GetSnapshot(c.Request().Context(), req.SnapshotID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
