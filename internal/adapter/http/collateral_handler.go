package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	domain "mifi-backend/internal/domain/collateral"
	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/usecase/collateral"
)

type CollateralHandler struct {
	uc  *collateral.Usecase
	log *logrus.Logger
}

func NewCollateralHandler(uc *collateral.Usecase, log *logrus.Logger) *CollateralHandler {
	return &CollateralHandler{uc: uc, log: log}
}

type uploadCollateralReq struct {
	LoanType       string `json:"loan_type"       validate:"omitempty,oneof=individual group"`
	LoanID         string `json:"loan_id"         validate:"omitempty,hex32"`
	CollateralType string `json:"collateral_type" validate:"required,oneof=PHOTO VIDEO DOCUMENT"`
	File           string `json:"file"            validate:"required,max=255"`
	Description    string `json:"description"     validate:"max=1000"`
}

type attachCollateralsReq struct {
	LoanIDParam
	Collaterals []string `json:"collaterals" validate:"required,min=1,dive,hex32"`
}

type collateralIDParam struct {
	CollateralID string `param:"collateral_id" validate:"required,hex32"`
}

type listCollateralsReq struct {
	PageQuery
	LoanType       string `query:"loan_type"       validate:"omitempty,oneof=individual group"`
	LoanID         string `query:"loan_id"         validate:"omitempty,hex32"`
	Unattached     bool   `query:"unattached"`
	CollateralType string `query:"collateral_type" validate:"omitempty,oneof=PHOTO VIDEO DOCUMENT"`
}

func (h *CollateralHandler) Upload(c echo.Context) error {
	var req uploadCollateralReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Upload(c.Request().Context(), currentActor(c), collateral.UploadInput{
		LoanKind:       loan.Kind(req.LoanType),
		LoanID:         req.LoanID,
		CollateralType: domain.Type(req.CollateralType),
		FileName:       req.File,
		Description:    req.Description,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Attach links already uploaded collaterals to a loan of the given kind.
func (h *CollateralHandler) Attach(kind loan.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req attachCollateralsReq
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
		out, err := h.uc.AttachLater(c.Request().Context(), currentActor(c), collateral.AttachInput{
			LoanKind:      kind,
			LoanID:        req.LoanID,
			CollateralIDs: req.Collaterals,
		})
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (h *CollateralHandler) Verify(c echo.Context) error {
	var req collateralIDParam
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Verify(c.Request().Context(), currentActor(c), req.CollateralID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CollateralHandler) Get(c echo.Context) error {
	var req collateralIDParam
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), req.CollateralID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CollateralHandler) List(c echo.Context) error {
	var req listCollateralsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.List(c.Request().Context(), collateral.ListInput{
		LoanKind:   loan.Kind(req.LoanType),
		LoanID:     req.LoanID,
		Unattached: req.Unattached,
		Type:       domain.Type(req.CollateralType),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
