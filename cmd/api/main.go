package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/config"
	appHTTP "github.com/gulfline-hr/payroll-backend-go/internal/handler/http"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/cron"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/database"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/sse"
	"github.com/gulfline-hr/payroll-backend-go/internal/repository/postgresql"
	adjustmentService "github.com/gulfline-hr/payroll-backend-go/internal/service/adjustment"
	approvalService "github.com/gulfline-hr/payroll-backend-go/internal/service/approval"
	notificationService "github.com/gulfline-hr/payroll-backend-go/internal/service/notification"
	payrollService "github.com/gulfline-hr/payroll-backend-go/internal/service/payroll"
	"github.com/gulfline-hr/payroll-backend-go/internal/service/payrollsync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "gulfline-payroll"),
	)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	reimbursementRepo := postgresql.NewReimbursementRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	notifier := notificationService.NewService(hub, logger)
	calculator := payrollService.NewCalculator(employeeRepo, leaveRepo, logger)
	payrollSvc := payrollService.NewService(payrollRepo, logger)
	syncSvc := payrollsync.NewService(
		employeeRepo,
		payrollRepo,
		bonusRepo,
		reimbursementRepo,
		deductionRepo,
		overtimeRepo,
		calculator,
		notifier,
		cfg.Sync.AllowCreate,
		logger,
	)
	scheduler := payrollsync.NewScheduler(syncSvc, cfg.Sync.Debounce, logger)
	approvalSvc := approvalService.NewService(
		bonusRepo,
		reimbursementRepo,
		deductionRepo,
		overtimeRepo,
		payrollRepo,
		scheduler,
		logger,
	)
	adjustmentSvc := adjustmentService.NewService(
		bonusRepo,
		reimbursementRepo,
		deductionRepo,
		overtimeRepo,
		employeeRepo,
		logger,
	)

	cronScheduler := cron.NewScheduler(logger)
	cronScheduler.AddJob("payroll-reconcile-sweep", cfg.Sync.SweepInterval, func(ctx context.Context) error {
		now := time.Now()
		return syncSvc.ReconcileMissing(ctx, now.Year(), now.Month())
	})
	cronScheduler.Start()

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, syncSvc, approvalSvc)
	adjustmentHandler := appHTTP.NewAdjustmentHandler(adjustmentSvc, approvalSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub, JWTService)

	router := appHTTP.NewRouter(JWTService, payrollHandler, adjustmentHandler, eventsHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	cronScheduler.Stop()
	scheduler.Stop()
}
