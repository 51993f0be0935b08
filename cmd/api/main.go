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

	"github.com/peoplehq/workday-backend-go/internal/config"
	appHTTP "github.com/peoplehq/workday-backend-go/internal/handler/http"
	"github.com/peoplehq/workday-backend-go/internal/pkg/clock"
	"github.com/peoplehq/workday-backend-go/internal/pkg/database"
	"github.com/peoplehq/workday-backend-go/internal/pkg/jwt"
	"github.com/peoplehq/workday-backend-go/internal/repository/postgresql"
	attendanceService "github.com/peoplehq/workday-backend-go/internal/service/attendance"
	leaveService "github.com/peoplehq/workday-backend-go/internal/service/leave"
	notificationService "github.com/peoplehq/workday-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	employeeDir := postgresql.NewEmployeeDirectory(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	dispatcher := notificationService.NewDispatcher(notificationRepo, logger)
	defer dispatcher.Close()

	sysClock := clock.System()
	attendanceSvc := attendanceService.NewService(attendanceRepo, shiftRepo, employeeDir, txManager, dispatcher, sysClock)
	reconciler := leaveService.NewReconciler(attendanceRepo)
	leaveSvc := leaveService.NewService(leaveTypeRepo, leaveBalanceRepo, leaveRequestRepo, employeeDir, reconciler, txManager, dispatcher, sysClock)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftRepo)
	notificationHandler := appHTTP.NewNotificationHandler(notificationRepo)
	authHandler := appHTTP.NewAuthHandler(jwtService)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		shiftHandler,
		notificationHandler,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
