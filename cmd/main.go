package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/cache"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/config"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/database"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/events"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/groq"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/handlers"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/mailer"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/middlewares"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/repository"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/routes"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/services"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/storage"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting StoryMania backend in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
	if err != nil {
		sugar.Warnf("Redis unavailable, story list caching disabled: %v", err)
		rdb = nil
	}
	storyCache := cache.New(rdb, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)

	mail := mailer.NewBrevoClient(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)

	var uploader storage.Uploader
	if cfg.S3.Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg.S3.Region, cfg.S3.Bucket)
		if err != nil {
			sugar.Fatalf("S3 store init failed: %v", err)
		}
		uploader = s3Store
		sugar.Infof("S3 media storage configured (bucket %s)", cfg.S3.Bucket)
	} else {
		sugar.Warn("S3 bucket not configured, media uploads will fail")
	}

	var producer *events.Producer
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		sugar.Infof("Kafka producer configured (topic %s)", cfg.Kafka.Topic)
	} else {
		sugar.Warn("Kafka not configured, domain events will be skipped")
	}
	var publisher events.Publisher
	if producer != nil {
		publisher = producer
	}

	groqClient := groq.NewClient(cfg.Groq.APIKey)

	jwtMgr := utils.NewJWTManager(cfg.App.JWT.Secret, time.Duration(cfg.App.JWT.TTLHours)*time.Hour)

	userRepo := repository.NewMongoUserRepo(db, "users")
	storyRepo := repository.NewMongoStoryRepo(db, "stories")
	characterRepo := repository.NewMongoCharacterRepo(db, "characters")
	mediaRepo := repository.NewMongoMediaRepo(db, "media")

	authSvc := services.NewAuthService(userRepo, mail, publisher, jwtMgr, sugar)
	storySvc := services.NewStoryService(storyRepo, mediaRepo, userRepo, uploader, storyCache, publisher, sugar)
	characterSvc := services.NewCharacterService(characterRepo, storyRepo, uploader, sugar)

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, sugar),
		User:      handlers.NewUserHandler(authSvc, storySvc, sugar),
		Story:     handlers.NewStoryHandler(storySvc, sugar),
		Character: handlers.NewCharacterHandler(characterSvc, sugar),
		Groq:      handlers.NewGroqHandler(groqClient, sugar),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.FrontendOrigin,
		AllowCredentials: cfg.App.FrontendOrigin != "",
	}))
	app.Use(middlewares.RequestLogger(logger))

	routes.Register(app, h, jwtMgr)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			sugar.Errorf("Kafka producer close error: %v", err)
		}
	}

	sugar.Info("Graceful shutdown complete")
}
