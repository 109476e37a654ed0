package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/townhub-api/internal/application/events"
	"github.com/townhub-api/internal/application/notify"
	"github.com/townhub-api/internal/application/purge"
	syncapp "github.com/townhub-api/internal/application/sync"
	"github.com/townhub-api/internal/config"
	"github.com/townhub-api/internal/infrastructure/dynamo"
	"github.com/townhub-api/internal/infrastructure/feeds"
	"github.com/townhub-api/internal/infrastructure/google"
	jwtinfra "github.com/townhub-api/internal/infrastructure/jwt"
	"github.com/townhub-api/internal/infrastructure/push"
	s3infra "github.com/townhub-api/internal/infrastructure/s3"
	"github.com/townhub-api/internal/scheduler"
	transporthttp "github.com/townhub-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SNS push notifier (optional — graceful fallback).
	var notifier push.Notifier
	if n, err := push.NewNotifier(cfg); err == nil {
		notifier = n
	} else {
		log.Printf("WARN: push notifier not available: %v", err)
	}

	deps := &transporthttp.Deps{
		EventRepo:    dynamo.NewEventRepo(dynamoClient, cfg.DynamoTables.Events),
		ObituaryRepo: dynamo.NewObituaryRepo(dynamoClient, cfg.DynamoTables.Obituaries),
		HousingRepo:  dynamo.NewHousingRepo(dynamoClient, cfg.DynamoTables.Housing),
		JobPostRepo:  dynamo.NewJobPostRepo(dynamoClient, cfg.DynamoTables.JobPosts),
		BusinessRepo: dynamo.NewBusinessRepo(dynamoClient, cfg.DynamoTables.Businesses),
		UserRepo:     dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		DeviceRepo:   dynamo.NewDeviceRepo(dynamoClient, cfg.DynamoTables.Devices),
		InterestRepo: dynamo.NewInterestRepo(dynamoClient, cfg.DynamoTables.Interests),
		ReminderRepo: dynamo.NewReminderRepo(dynamoClient, cfg.DynamoTables.Reminders),
		MediaRepo:    dynamo.NewMediaRepo(dynamoClient, cfg.DynamoTables.Media),
		FeedClient:   feeds.NewClient(15 * time.Second),
		Notifier:     notifier,
		S3Store:      s3Store,
		JWTProvider:  jwtProvider,
		GoogleAuth:   google.NewVerifier(cfg.GoogleClientID),
		Logger:       logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Optional in-process scheduler; most deployments use an external cron
	// service against /v1/tasks/* instead.
	if cfg.CronEnabled {
		loc := cfg.Location()
		eventsSvc := events.NewService(events.ServiceDeps{
			Repo:   deps.EventRepo,
			TownID: cfg.TownID,
			Loc:    loc,
		})
		syncSvc := syncapp.NewService(syncapp.ServiceDeps{
			Client: deps.FeedClient,
			Events: eventsSvc,
			Feeds:  cfg.Feeds,
			TownID: cfg.TownID,
			Loc:    loc,
			Logger: logger,
		})
		notifySvc := notify.NewService(notify.ServiceDeps{
			Events:    deps.EventRepo,
			Interests: deps.InterestRepo,
			Devices:   deps.DeviceRepo,
			Reminders: deps.ReminderRepo,
			Push:      notifier,
			TownName:  cfg.TownName,
			Loc:       loc,
			Logger:    logger,
		})
		purgeSvc := purge.NewService(purge.ServiceDeps{
			Events:     deps.EventRepo,
			Obituaries: deps.ObituaryRepo,
			Housing:    deps.HousingRepo,
			Reminders:  deps.ReminderRepo,
			Interests:  deps.InterestRepo,
			Loc:        loc,
			Logger:     logger,
		})
		sched, err := scheduler.New(cfg, syncSvc, notifySvc, purgeSvc, logger)
		if err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
