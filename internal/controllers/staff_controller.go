package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	"asset-system/pkg/utils"
)

type StaffController struct {
	staffService services.StaffServiceInterface
	logger       *zap.Logger
}

func NewStaffController(staffService services.StaffServiceInterface, logger *zap.Logger) *StaffController {
	return &StaffController{staffService: staffService, logger: logger}
}

func (ctrl *StaffController) GetStaff(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())
	res, err := ctrl.staffService.GetAll(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Ошибка получения списка сотрудников", ctrl.logger)
	}
	return utils.SuccessResponse(c, res.List, "Список сотрудников получен", http.StatusOK, res.Pagination.TotalCount)
}

func (ctrl *StaffController) FindStaff(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.staffService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения сотрудника", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Сотрудник найден", http.StatusOK)
}

func (ctrl *StaffController) CreateStaff(c echo.Context) error {
	var d dto.CreateStaffDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.staffService.Create(c.Request().Context(), d)
	if err != nil {
		return respondError(c, err, "Ошибка создания сотрудника", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Сотрудник создан", http.StatusCreated)
}

func (ctrl *StaffController) UpdateStaff(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateStaffDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.staffService.Update(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка обновления сотрудника", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Сотрудник обновлён", http.StatusOK)
}

func (ctrl *StaffController) DeleteStaff(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.staffService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Ошибка удаления сотрудника", ctrl.logger)
	}
	return c.NoContent(http.StatusNoContent)
}
