package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/pkg/utils"
)

const healthTimeout = 2 * time.Second

// Pinger - всё, что умеет проверить соединение: пул pgx, обёртка над redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc позволяет передать функцию вместо типа.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthController struct {
	db     Pinger
	redis  Pinger
	logger *zap.Logger
}

func NewHealthController(db, redis Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logger: logger}
}

func (ctrl *HealthController) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	res := dto.HealthDTO{Database: "ok", Redis: "ok"}
	code := http.StatusOK
	if err := ctrl.db.Ping(ctx); err != nil {
		ctrl.logger.Error("Health: база данных недоступна", zap.Error(err))
		res.Database = "down"
		code = http.StatusServiceUnavailable
	}
	if err := ctrl.redis.Ping(ctx); err != nil {
		ctrl.logger.Error("Health: Redis недоступен", zap.Error(err))
		res.Redis = "down"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, utils.HTTPResponse{Status: code == http.StatusOK, Message: "health", Body: res})
}
