package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/spf13/afero"

	"rental-backoffice/internal/config"
	"rental-backoffice/internal/contract"
	"rental-backoffice/internal/jobs"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/notify"
	"rental-backoffice/internal/repository/postgres"
	"rental-backoffice/internal/scheduler"
	"rental-backoffice/internal/service"
	"rental-backoffice/internal/storage"
)

func main() {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("rental-cronjob")
	var (
		configPath = fs.StringLong("config", "config/config.dev.yaml", "Path to configuration file")
		runOnce    = fs.StringLong("run-once", "", "Run a specific job once and exit (mark-pending-returns, regenerate-contracts, all)")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("RENTAL_CRON")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting cronjob runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	store := postgres.NewStore(db)
	osFs := afero.NewOsFs()
	files := storage.NewLocalStorage(osFs, storage.Config{
		UploadDir:    cfg.Storage.UploadDir,
		ContractsDir: cfg.Storage.ContractsDir,
	})
	contractSvc := service.NewContractService(
		store.ContractRepository,
		store.PhotoRepository,
		store.RentalRepository,
		contract.NewGenerator(osFs, cfg.ContractOptions()),
		files,
		files,
		notify.NewSendGridMailer(cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.FromName),
	)

	jobRunner := jobs.NewJobRunner(store.RentalRepository, contractSvc)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner, cfg.Scheduler)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "mark-pending-returns":
		jobRunner.MarkPendingReturns()
	case "regenerate-contracts":
		jobRunner.RegenerateClosedContracts()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - mark-pending-returns\n")
		fmt.Printf("  - regenerate-contracts\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
