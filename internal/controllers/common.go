package controllers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/utils"
)

// respondError отдаёт ошибки валидатора как есть, остальные переводит в HTTP-код.
func respondError(c echo.Context, err error, fallback string, logger *zap.Logger) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.ErrorResponse(c, err, logger)
	}
	return utils.ErrorResponse(c, apperrors.FromServiceError(err, fallback), logger)
}

// bindAndValidate - общий шаг всех POST/PUT/PATCH. Ошибку передавать в respondError.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", nil, nil)
	}
	return c.Validate(dst)
}
