package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	mw "mifi-backend/internal/adapter/middleware"
	"mifi-backend/internal/domain/loan"
	"mifi-backend/internal/domain/user"
)

// Deps are the pieces NewRouter wires together.
type Deps struct {
	Log         *logrus.Logger
	Redis       redis.Cmdable
	IdempTTL    time.Duration
	JWTSecret   []byte
	Health      *Handler
	Loans       *LoanHandler
	Members     *MembershipHandler
	Payments    *PaymentHandler
	Collaterals *CollateralHandler
	Reports     *ReportHandler
	// mounted unauthenticated when set, e.g. the prometheus handler
	Metrics echo.HandlerFunc
}

func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(echomw.Recover(), accessLog(d.Log))

	e.GET("/health", d.Health.Health)
	e.GET("/ready", d.Health.Ready)
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics)
	}

	api := e.Group("", mw.JWTAuth(d.JWTSecret))
	officer := mw.RequireRole(user.Role.IsLoanOfficerOrHigher)
	regional := mw.RequireRole(user.Role.IsRegionManagerOrHigher)
	idem := mw.IdempotencyMiddleware(d.Redis, d.IdempTTL, d.Log)

	// individual loans
	api.GET("/individual-loans", d.Loans.ListIndividual)
	api.POST("/individual-loans", d.Loans.CreateIndividual, officer, idem)
	api.GET("/individual-loans/:loan_id", d.Loans.GetIndividual)
	api.PATCH("/individual-loans/:loan_id", d.Loans.UpdateIndividual, officer, idem)
	api.GET("/individual-loans/:loan_id/schedule", d.Loans.Schedule(loan.KindIndividual))
	api.GET("/individual-loans/:loan_id/payments", d.Payments.List(loan.KindIndividual))
	api.POST("/individual-loans/:loan_id/payments", d.Payments.Record(loan.KindIndividual), officer, idem)
	api.POST("/individual-loans/:loan_id/collaterals", d.Collaterals.Attach(loan.KindIndividual), officer, idem)

	// group loans
	api.GET("/group-loans", d.Loans.ListGroup)
	api.POST("/group-loans", d.Loans.CreateGroup, officer, idem)
	api.GET("/group-loans/:loan_id", d.Loans.GetGroup)
	api.PATCH("/group-loans/:loan_id", d.Loans.UpdateGroup, officer, idem)
	api.GET("/group-loans/:loan_id/schedule", d.Loans.Schedule(loan.KindGroup))
	api.GET("/group-loans/:loan_id/payments", d.Payments.List(loan.KindGroup))
	api.POST("/group-loans/:loan_id/payments", d.Payments.Record(loan.KindGroup), officer, idem)
	api.POST("/group-loans/:loan_id/collaterals", d.Collaterals.Attach(loan.KindGroup), officer, idem)
	api.GET("/group-loans/:loan_id/members", d.Members.List)
	api.PUT("/group-loans/:loan_id/members", d.Members.Replace, officer, idem)

	// member status rows
	api.GET("/member-statuses/:id", d.Members.Get, officer)
	api.PATCH("/member-statuses/:id", d.Members.SetBlocked, officer, idem)

	// untyped payments
	api.POST("/payments", d.Payments.MakePayment, officer, idem)

	// collaterals
	api.GET("/collaterals", d.Collaterals.List, officer)
	api.POST("/collaterals", d.Collaterals.Upload, officer, idem)
	api.GET("/collaterals/:collateral_id", d.Collaterals.Get, officer)
	api.POST("/collaterals/:collateral_id/verify", d.Collaterals.Verify, officer, idem)

	// reports
	reports := api.Group("/reports", regional)
	reports.GET("/payments-collected", d.Reports.PaymentsCollected)
	reports.GET("/active-groups", d.Reports.ActiveGroups)
	reports.GET("/amount-loaned", d.Reports.AmountLoaned)
	reports.GET("/active-loans", d.Reports.ActiveLoans)
	reports.GET("/summary", d.Reports.Summary)
	reports.GET("/snapshots", d.Reports.ListSnapshots)
	reports.POST("/snapshots", d.Reports.Generate, idem)
	reports.GET("/snapshots/:snapshot_id", d.Reports.GetSnapshot)

	return e
}

// accessLog forwards echo's request log to logrus.
func accessLog(log *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			})
			if v.RequestID != "" {
				entry = entry.WithField("request_id", v.RequestID)
			}
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
