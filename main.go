package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"insuranceapi/bootstrap"
	"insuranceapi/config"
	"insuranceapi/controllers"
	_ "insuranceapi/docs"
	"insuranceapi/middleware"
	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/repository"
	"insuranceapi/services"
	"insuranceapi/services/job"
	"insuranceapi/utils"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           insuranceapi
// @version         1.0
// @description     Insurance brokerage back office API

// @BasePath  /

func main() {
	// 1) Load config
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("LoadConfig error: %v", err)
	}

	// 2) Init structured logger with config
	utils.InitLoggerWithConfig(
		config.Cfg.LogFile,
		config.Cfg.LogLevel,
		config.Cfg.LogMaxSize,
		config.Cfg.LogMaxBackups,
		config.Cfg.LogMaxAge,
		config.Cfg.LogCompress,
	)
	logger.Infof("Starting insuranceapi with log level: %s", config.Cfg.LogLevel)
	if config.Cfg.SessionSecretGenerated {
		logger.Warnf("SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	// 3) Connect DB (GORM) and migrate
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("ConnectDB error: %v", err)
	}
	if config.DB == nil {
		log.Fatal("Database is nil after ConnectDB")
	}
	defer config.CloseDB()

	if err := config.Migrate(models.All()...); err != nil {
		logger.Fatalf("Migrate error: %v", err)
	}

	// 4) Seed defaults and warm the lookup cache
	ctx := context.Background()
	if err := bootstrap.SeedDefaults(repository.NewDropdownRepository()); err != nil {
		logger.Fatalf("Seed error: %v", err)
	}
	auth := services.NewAuthService()
	if err := auth.EnsureAdmin(ctx, config.Cfg.AdminUsername, config.Cfg.AdminPassword); err != nil {
		logger.Fatalf("Seed admin error: %v", err)
	}
	if err := bootstrap.LoadData(); err != nil {
		logger.Fatalf("Load data error: %v", err)
	}

	// 5) Wire services
	reminders := services.NewReminderService()
	controllers.SetAuthService(auth)
	controllers.SetClientService(services.NewClientService(auth))
	controllers.SetReminderService(reminders)
	controllers.SetDropdownService(services.NewDropdownService())
	controllers.SetCityService(services.NewCityService())
	controllers.SetDashboardService(services.NewDashboardService(reminders))
	controllers.SetAuditService(services.NewAuditService())
	controllers.SetHealthCheck(func(ctx context.Context) error {
		sqlDB, err := config.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	// 6) Background jobs
	runner := job.NewRunner(time.Minute)
	if err := runner.AddJob(job.LookupRefreshJob, config.Cfg.LookupRefreshInterval, job.LookupRefresh(bootstrap.LoadData)); err != nil {
		logger.Fatalf("Job setup error: %v", err)
	}
	if err := runner.AddJob(job.ReminderDigestJob, config.Cfg.ReminderDigestInterval, job.ReminderDigest(reminders)); err != nil {
		logger.Fatalf("Job setup error: %v", err)
	}
	controllers.SetJobRunner(runner)
	runner.Start()

	// 7) Setup Gin
	router := controllers.NewRouter(controllers.RouterOptions{
		Session: middleware.SessionOptions{
			Secret: config.Cfg.SessionSecret,
			Name:   config.Cfg.SessionName,
			MaxAge: config.Cfg.SessionMaxAge,
			Secure: config.Cfg.SessionSecure,
		},
		CORSOrigins: config.Cfg.CORSAllowedOrigins,
	}, services.NewEntryServices(auth))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 8) Run with graceful shutdown
	srv := &http.Server{
		Addr:              "0.0.0.0:" + config.Cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server at port %s", config.Cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Infof("Received shutdown signal, stopping job runner and draining connections...")
	runner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	logger.Infof("Application shutdown complete")
}
