package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	mw "mifi-backend/internal/adapter/middleware"
	"mifi-backend/internal/domain/user"
	"mifi-backend/pkg/civil"
	"mifi-backend/pkg/money"
)

// PageQuery is embedded by list requests; echo binds only exported embeds.
type PageQuery struct {
	Limit  int `query:"limit"  validate:"gte=0,lte=200"`
	Offset int `query:"offset" validate:"gte=0"`
}

type LoanIDParam struct {
	LoanID string `param:"loan_id" json:"-" validate:"required,hex32"`
}

// currentActor is the user JWTAuth resolved; every API route runs behind it.
func currentActor(c echo.Context) user.Actor {
	a, _ := mw.ActorFrom(c)
	return a
}

// The parse helpers run after validation, so the inputs are well formed.

func amount(s string) decimal.Decimal {
	d, _ := money.Parse(s)
	return d
}

func optAmount(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d := amount(*s)
	return &d
}

func date(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := civil.Parse(s)
	return t
}

func optDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := date(*s)
	return &t
}
