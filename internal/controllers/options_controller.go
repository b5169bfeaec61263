package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"asset-system/internal/services"
	"asset-system/pkg/utils"
)

// OptionsController отдаёт справочники для выпадающих списков фронта.
type OptionsController struct {
	optionsService services.OptionsServiceInterface
}

func NewOptionsController(optionsService services.OptionsServiceInterface) *OptionsController {
	return &OptionsController{optionsService: optionsService}
}

func (ctrl *OptionsController) GetOptions(c echo.Context) error {
	return utils.SuccessResponse(c, ctrl.optionsService.Options(), "Справочники получены", http.StatusOK)
}
