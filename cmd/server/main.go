package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/vizora/configs"
	"github.com/maheshrc27/vizora/internal/api"
	job "github.com/maheshrc27/vizora/internal/jobs"
	"github.com/maheshrc27/vizora/internal/logger"
	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/queue"
	"github.com/maheshrc27/vizora/internal/repository"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/maheshrc27/vizora/internal/workflow"
	"github.com/maheshrc27/vizora/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	logger.SetupDefault(os.Stdout, cfg.Environment)

	if cfg.SecretKey == "" {
		key, err := utils.GenerateRandomKey(32)
		if err != nil {
			log.Fatalf("Failed to generate secret key: %v", err)
		}
		cfg.SecretKey = key
		slog.Info("SECRET_KEY not set, sessions will not survive a restart")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mc := metrics.NewCollector(reg)

	var (
		storage     repository.Storage
		redisClient *redis.Client
		err         error
	)
	if cfg.RedisURI != "" {
		redisClient, err = repository.NewRedisClient(context.Background(), cfg.RedisURI)
		if err != nil {
			log.Fatalf("Redis is unreachable: %v", err)
		}
		storage = repository.NewRedisStorage(redisClient)
	} else {
		storage = repository.NewMemoryStorage()
		slog.Info("REDIS_URI not set, using in-memory storage")
	}

	userRepo := repository.NewUserRepository(storage)
	settingsRepo := repository.NewSettingsRepository(storage)
	postRepo := repository.NewPostRepository()

	manager := workflow.NewManager(mc)

	// connect scheduling: asynq when Redis is available, timers otherwise
	var (
		scheduler    service.ConnectScheduler
		asynqClient  *asynq.Client
		asynqServer  *asynq.Server
		localConnect *service.LocalConnectScheduler
		redisConn    asynq.RedisConnOpt
	)
	if cfg.RedisURI != "" {
		redisConn, err = asynq.ParseRedisURI(cfg.RedisURI)
		if err != nil {
			log.Fatalf("Invalid REDIS_URI: %v", err)
		}
		asynqClient = asynq.NewClient(redisConn)
		scheduler = queue.NewScheduler(asynqClient, asynq.NewInspector(redisConn))
	} else {
		localConnect = service.NewLocalConnectScheduler()
		scheduler = localConnect
	}

	userService := service.NewUserService(userRepo, scheduler, cfg.ConnectDelay, mc)
	postService := service.NewPostService(postRepo, userRepo, mc)
	settingsService := service.NewSettingsService(settingsRepo)
	authService := service.NewAuthService(userRepo, postService, scheduler, manager)
	publishService := service.NewPublishService(cfg.FrontendURL, cfg.PublishFallbackDelay, mc)
	assistant := service.NewAssistant(cfg.OpenAI, mc)
	composeService := service.NewComposeService(manager, userService, postService, settingsService, publishService, assistant, service.NewMediaService())
	insightsService := service.NewInsightsService(userService, postService)

	if assistant.Configured() {
		slog.Info("AI provider configured", "model", cfg.OpenAI.Model)
	} else {
		slog.Info("OPENAI_API_KEY not set, using mock assistant")
	}

	// queue
	if localConnect != nil {
		localConnect.Start(userService.CompleteConnect)
	} else {
		queueW := queue.NewQueue(userService.CompleteConnect)
		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		queueW.Register(mux)

		log.Println("Starting the Asynq server...")
		if err := asynqServer.Start(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}

	// cron jobs
	sweepJob := job.NewCompositionSweepJob(manager, cfg.CompositionIdleTimeout)

	c := cron.New()
	if err := sweepJob.Schedule(c, 5*time.Minute); err != nil {
		log.Fatalf("Could not schedule composition sweep: %v", err)
	}
	c.Start()

	app := api.NewApp(*cfg, api.Services{
		Auth:      authService,
		Users:     userService,
		Posts:     postService,
		Settings:  settingsService,
		Compose:   composeService,
		Publish:   publishService,
		Assistant: assistant,
		Insights:  insightsService,
	}, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, func() {
		c.Stop()
		if localConnect != nil {
			localConnect.Close()
		}
		if asynqServer != nil {
			asynqServer.Shutdown()
		}
		if asynqClient != nil {
			asynqClient.Close()
		}
		if redisClient != nil {
			redisClient.Close()
		}
	})
}

func gracefulShutdown(app *fiber.App, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	cleanup()
	log.Println("Server shutdown complete.")
}
