package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/datagems-eu/dmm/backend/pkg/store"
)

type App struct {
	DBConn *pgxpool.Pool
	Queue  *amqp091.Channel
	S3     *s3.Client
	Store  store.GraphStore
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(
	db *pgxpool.Pool,
	queue *amqp091.Channel,
	s3 *s3.Client,
	graphs store.GraphStore,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				DBConn: db,
				Queue:  queue,
				S3:     s3,
				Store:  graphs,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
