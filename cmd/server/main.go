package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/spf13/afero"

	httpapi "rental-backoffice/internal/api/http"
	"rental-backoffice/internal/config"
	"rental-backoffice/internal/contract"
	"rental-backoffice/internal/jobs"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/notify"
	"rental-backoffice/internal/repository/postgres"
	"rental-backoffice/internal/scheduler"
	"rental-backoffice/internal/security"
	"rental-backoffice/internal/service"
	"rental-backoffice/internal/storage"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	fs := ff.NewFlagSet("rental-server")
	var (
		configPath = fs.StringLong("config", "config/config.dev.yaml", "Path to configuration file")
		noCron     = fs.BoolLong("no-cron", "Do not start the in-process scheduler")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("RENTAL")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting rental back-office...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Storage configuration", "upload_dir", cfg.Storage.UploadDir, "contracts_dir", cfg.Storage.ContractsDir)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Storage and contract rendering
	osFs := afero.NewOsFs()
	files := storage.NewLocalStorage(osFs, storage.Config{
		UploadDir:    cfg.Storage.UploadDir,
		ContractsDir: cfg.Storage.ContractsDir,
	})
	if err := files.EnsureDir(); err != nil {
		logger.Error("Failed to create contracts directory", "error", err)
		log.Fatalf("Failed to create contracts directory: %v", err)
	}
	generator := contract.NewGenerator(osFs, cfg.ContractOptions())

	mailer := notify.NewSendGridMailer(cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.FromName)
	if cfg.Mail.APIKey == "" {
		logger.Warn("SENDGRID_API_KEY not set, contract mailing is disabled")
	}

	// Initialize Services
	rentalSvc := service.NewRentalService(store.RentalRepository)
	customerSvc := service.NewCustomerService(store.CustomerRepository)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository)
	photoSvc := service.NewPhotoService(store.PhotoRepository, files)
	contractSvc := service.NewContractService(
		store.ContractRepository,
		store.PhotoRepository,
		store.RentalRepository,
		generator,
		files,
		files,
		mailer,
	)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Rentals:   rentalSvc,
		Contracts: contractSvc,
		Customers: customerSvc,
		Vehicles:  vehicleSvc,
		Photos:    photoSvc,
		Tokens:    tokenManager,
		Users:     store.UserRepository,
		Location:  cfg.Location(),
		Health:    db.PingContext,
	})

	var cronScheduler *scheduler.Scheduler
	if !*noCron {
		jobRunner := jobs.NewJobRunner(store.RentalRepository, contractSvc)
		cronScheduler = scheduler.NewScheduler(jobRunner, cfg.Scheduler)
		cronScheduler.Start()
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
