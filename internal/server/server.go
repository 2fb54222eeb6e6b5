package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plexus/internal/queue"
	mid "plexus/internal/server/middleware"
	"plexus/internal/storage"
	"plexus/internal/store"
	"plexus/internal/util"
	"plexus/pkg/ai"
	ollamaai "plexus/pkg/ai/ollama"
	openaiai "plexus/pkg/ai/openai"
	"plexus/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	jwksUrl := util.GetEnv("AUTH_URL") + "/jwks"
	k, err := keyfunc.NewDefault([]string{jwksUrl})
	if err != nil {
		logger.Fatal("Failed to load jwks keys", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := store.NewPool(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	if err := store.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to declare queues", "err", err)
	}

	s3Client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Failed to create S3 client", "err", err)
	}

	app := &mid.App{
		DBConn:       conn,
		Queue:        ch,
		Key:          &k,
		S3:           s3Client,
		AiClient:     newAIClient(),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("100M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func newAIClient() ai.GraphAIClient {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := ollamaai.New(ollamaai.Params{
			ChatModel:             util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:        util.GetEnv("AI_EMBED_MODEL"),
			BaseURL:               util.GetEnv("AI_CHAT_URL"),
			APIKey:                util.GetEnv("AI_CHAT_KEY"),
			MaxConcurrentRequests: int64(util.GetEnvInt("AI_MAX_CONCURRENT", 2)),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		return client
	default:
		return openaiai.New(openaiai.Params{
			ChatModel:           util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:      util.GetEnv("AI_EMBED_MODEL"),
			ChatURL:             util.GetEnv("AI_CHAT_URL"),
			ChatKey:             util.GetEnv("AI_CHAT_KEY"),
			EmbeddingURL:        util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey:        util.GetEnv("AI_EMBED_KEY"),
			EmbeddingDimensions: util.GetEnvInt("AI_EMBED_DIM", 1536),
		})
	}
}
