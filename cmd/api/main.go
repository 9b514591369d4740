package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "mifi-backend/internal/adapter/http"
	"mifi-backend/internal/adapter/repository/mysql"
	"mifi-backend/internal/config"
	"mifi-backend/internal/infrastructure/cache"
	"mifi-backend/internal/infrastructure/db"
	"mifi-backend/internal/infrastructure/logging"
	"mifi-backend/internal/infrastructure/metrics"
	"mifi-backend/internal/usecase/collateral"
	"mifi-backend/internal/usecase/loan"
	"mifi-backend/internal/usecase/membership"
	"mifi-backend/internal/usecase/payment"
	"mifi-backend/internal/usecase/report"
	"mifi-backend/internal/worker"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, os.Stdout)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	rdb, err := cache.OpenRedis(context.Background(), cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.WithError(err).Fatal("redis unavailable")
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repos := mysql.NewRepos(gdb)
	tx := mysql.NewGormUoW(gdb)

	loans := loan.NewUsecase(repos, tx, log, m)
	loans.RequirePhotoOnCreate = cfg.RequirePhotoOnCreate

	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("database handle")
	}
	health := httpadp.NewHandler(map[string]httpadp.Check{
		"db":    sqlDB.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	e := httpadp.NewRouter(httpadp.Deps{
		Log:         log,
		Redis:       rdb,
		IdempTTL:    time.Duration(cfg.IdempTTLSecs) * time.Second,
		JWTSecret:   []byte(cfg.JWTSecret),
		Health:      health,
		Loans:       httpadp.NewLoanHandler(loans, log),
		Members:     httpadp.NewMembershipHandler(membership.NewUsecase(repos, tx, log, m), log),
		Payments:    httpadp.NewPaymentHandler(payment.NewUsecase(repos, tx, log, m), log),
		Collaterals: httpadp.NewCollateralHandler(collateral.NewUsecase(repos, tx, log), log),
		Reports:     httpadp.NewReportHandler(report.NewUsecase(mysql.NewReportRepository(gdb), log), log),
		Metrics:     echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	})

	sweeper := worker.NewOverdueWorker(loans, cfg.OverdueSweepSchedule, log)
	if err := sweeper.Start(); err != nil {
		log.WithError(err).Fatal("overdue sweep")
	}

	addr := ":" + cfg.AppPort
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	sweeper.Stop(ctx)
	log.Info("stopped")
}
