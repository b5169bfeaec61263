package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/service"
	appwebsocket "asset-system/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin уже проверен CORS-политикой, токен проверяем сами
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketController подключает браузер к ленте активности. Токен передаётся
// в ?token=, потому что браузерный WebSocket не умеет ставить заголовки.
type WebSocketController struct {
	hub        *appwebsocket.Hub
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, jwtService service.JWTService, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, jwtService: jwtService, logger: logger}
}

func (ctrl *WebSocketController) ServeActivity(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		return respondError(c, apperrors.ErrEmptyAuthHeader, "", ctrl.logger)
	}
	claims, err := ctrl.jwtService.ValidateToken(tokenString)
	if err != nil {
		return respondError(c, err, "Ошибка проверки токена", ctrl.logger)
	}
	if claims.IsRefreshToken {
		return respondError(c, apperrors.ErrTokenIsNotAccess, "", ctrl.logger)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrader сам ответил клиенту кодом ошибки
		ctrl.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(ctrl.hub, conn, claims.StaffID)
	ctrl.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()

	ctrl.logger.Info("WebSocket: клиент подключён к ленте", zap.Uint64("staffID", claims.StaffID))
	return nil
}
