package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/KoTeHok22/Locus-sub001/internal/config"
	"github.com/KoTeHok22/Locus-sub001/internal/handler"
	"github.com/KoTeHok22/Locus-sub001/internal/notify/noop"
	"github.com/KoTeHok22/Locus-sub001/internal/notify/ses"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
	"github.com/KoTeHok22/Locus-sub001/internal/recognizer/qwen"
	"github.com/KoTeHok22/Locus-sub001/internal/repository/postgres"
	"github.com/KoTeHok22/Locus-sub001/internal/router"
	"github.com/KoTeHok22/Locus-sub001/internal/service"
	s3storage "github.com/KoTeHok22/Locus-sub001/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	projectRepo := postgres.NewProjectRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	materialRepo := postgres.NewMaterialRepo(db)
	deliveryRepo := postgres.NewDeliveryRepo(db)

	// Initialize storage and recognizer
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	docRecognizer := qwen.NewRecognizer(&cfg.Recognizer)

	var emailSender port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	projectSvc := service.NewProjectService(projectRepo)
	documentSvc := service.NewDocumentService(
		docRepo, projectRepo, docRecognizer, s3Client,
		cfg.S3.Bucket, cfg.S3.MaxFileSizeMB, cfg.S3.PresignExpiry)
	deliverySvc := service.NewDeliveryService(
		deliveryRepo, docRepo, projectRepo, materialRepo,
		emailSender, cfg.Email.ManagerTo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	documentH := handler.NewDocumentHandler(documentSvc)
	deliveryH := handler.NewDeliveryHandler(deliverySvc)
	projectH := handler.NewProjectHandler(projectSvc, deliverySvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, documentH, deliveryH, projectH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the recognition queue worker alongside the HTTP server.
	worker := service.NewRecognitionQueueWorker(docRepo, documentSvc, service.RecognitionQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	log.Printf("Shutdown complete")
	return nil
}
