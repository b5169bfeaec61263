package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: вход не выполнен", zap.String("email", payload.Email), zap.Error(err))
		return respondError(c, err, "Ошибка авторизации", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Вход выполнен", http.StatusOK)
}

func (ctrl *AuthController) Refresh(c echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.authService.Refresh(c.Request().Context(), payload.RefreshToken)
	if err != nil {
		return respondError(c, err, "Ошибка обновления токена", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Токены обновлены", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	staffID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return respondError(c, apperrors.ErrUnauthorized, "", ctrl.logger)
	}
	res, err := ctrl.authService.Me(c.Request().Context(), staffID)
	if err != nil {
		return respondError(c, err, "Ошибка получения профиля", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Профиль получен", http.StatusOK)
}
