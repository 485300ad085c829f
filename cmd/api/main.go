package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/fieldwork-payroll-go/internal/service/attendance"
	closeRequestService "github.com/cmlabs-hris/fieldwork-payroll-go/internal/service/closerequest"
	payrollService "github.com/cmlabs-hris/fieldwork-payroll-go/internal/service/payroll"
	repairService "github.com/cmlabs-hris/fieldwork-payroll-go/internal/service/repair"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	clock, err := civiltime.New(cfg.Civil.Timezone)
	if err != nil {
		slog.Error("Invalid civil timezone", "error", err)
		os.Exit(1)
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db)
	workerRepo := postgresql.NewWorkerRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	tripRepo := postgresql.NewTripRepository(db)
	closeRequestRepo := postgresql.NewCloseRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(txManager, eventRepo, workerRepo, siteRepo, closeRequestRepo, clock)
	closeRequestSvc := closeRequestService.NewCloseRequestService(txManager, closeRequestRepo, eventRepo, workerRepo, clock)
	payrollSvc := payrollService.NewPayrollService(txManager, workerRepo, siteRepo, eventRepo, tripRepo, clock, cfg.Payroll.SummaryMaxDays)
	repairSvc := repairService.NewRepairService(txManager, eventRepo, closeRequestRepo, workerRepo, clock)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	closeRequestHandler := appHTTP.NewCloseRequestHandler(closeRequestSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	repairHandler := appHTTP.NewRepairHandler(repairSvc, cfg.Repair.WindowDays)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		attendanceHandler,
		closeRequestHandler,
		payrollHandler,
		repairHandler,
	)

	// Cron jobs run in the civil zone so "0 3 * * *" means 03:00 local
	scheduler := cron.NewScheduler(clock.Location())
	repairJobs := cron.NewRepairJobs(repairSvc, cfg.Repair.Schedule, cfg.Repair.WindowDays)
	if err := repairJobs.RegisterJobs(scheduler); err != nil {
		slog.Error("Failed to register cron jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
