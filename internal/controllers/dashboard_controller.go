package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/services"
	"asset-system/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(ds services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: ds, logger: logger}
}

func (ctrl *DashboardController) GetSummary(c echo.Context) error {
	summary, err := ctrl.dashboardService.Summary(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Ошибка получения сводки", ctrl.logger)
	}
	return utils.SuccessResponse(c, summary, "Сводка получена", http.StatusOK)
}
