package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geocode"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/repository/postgresql"
	adjustmentService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/adjustment"
	authService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/service/location"
	notificationService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/notification"
	timetrackService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/timetrack"
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

	employeeRepo := postgresql.NewEmployeeRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	officeRepo := postgresql.NewOfficeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var geocoder geocode.Geocoder = geocode.Noop{}
	if cfg.Geocoder.Enabled {
		geocoder = geocode.NewNominatimClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)
	}
	resolver := location.NewResolver(geocoder, officeRepo)

	hub := sse.NewHub()
	notifService := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifService.Stop()

	timeTrackingService := timetrackService.NewTimeTrackingService(
		timetrackService.Config{SingleEntryPerDay: cfg.Attendance.SingleEntryPerDay},
		timeEntryRepo,
		employeeRepo,
		resolver,
		notifService,
	)
	adjService := adjustmentService.NewAdjustmentService(db, adjustmentRepo, timeEntryRepo, notifService)
	authSvc := authService.NewAuthService(employeeRepo, jwtService)

	scheduler := cron.NewScheduler()
	cron.NewStaleEntryJobs(timeEntryRepo, notifService).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	timeEntryHandler := appHTTP.NewTimeEntryHandler(timeTrackingService)
	adjustmentHandler := appHTTP.NewAdjustmentHandler(adjService)
	notificationHandler := appHTTP.NewNotificationHandler(notifService, jwtService)

	router := appHTTP.NewRouter(jwtService, authHandler, timeEntryHandler, adjustmentHandler, notificationHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		fmt.Println("Server error:", err)
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			fmt.Println("Shutdown error:", err)
		}
	}
}
