package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"plexus/pkg/ai"
)

// AppUser is the authenticated caller, populated by AuthMiddleware.
type AppUser struct {
	UserID string
	Role   string
}

// App bundles the shared dependencies handlers need.
type App struct {
	DBConn       *pgxpool.Pool
	Queue        *amqp091.Channel
	Key          *keyfunc.Keyfunc
	S3           *s3.Client
	AiClient     ai.GraphAIClient
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// AppContextMiddleware wraps every request context with the shared App.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app, nil})
		}
	}
}
