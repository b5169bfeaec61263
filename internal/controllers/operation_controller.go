package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	"asset-system/pkg/utils"
)

type OperationController struct {
	operationService services.OperationServiceInterface
	logger           *zap.Logger
}

func NewOperationController(operationService services.OperationServiceInterface, logger *zap.Logger) *OperationController {
	return &OperationController{operationService: operationService, logger: logger}
}

func (ctrl *OperationController) GetOperations(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())
	res, err := ctrl.operationService.GetAll(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Ошибка получения списка операций", ctrl.logger)
	}
	return utils.SuccessResponse(c, res.List, "Список операций получен", http.StatusOK, res.Pagination.TotalCount)
}

func (ctrl *OperationController) FindOperation(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.operationService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения операции", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Операция найдена", http.StatusOK)
}

func (ctrl *OperationController) CreateOperation(c echo.Context) error {
	var d dto.CreateOperationDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.operationService.Create(c.Request().Context(), d)
	if err != nil {
		return respondError(c, err, "Ошибка создания операции", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Операция создана", http.StatusCreated)
}

func (ctrl *OperationController) UpdateOperation(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateOperationDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.operationService.Update(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка обновления операции", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Операция обновлена", http.StatusOK)
}

func (ctrl *OperationController) DeleteOperation(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.operationService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Ошибка удаления операции", ctrl.logger)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctrl *OperationController) ChangeStatus(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateStatusDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.operationService.ChangeStatus(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка смены статуса операции", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Статус операции изменён", http.StatusOK)
}

func (ctrl *OperationController) UpdateProgress(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateProgressDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.operationService.UpdateProgress(c.Request().Context(), id, *d.Progress)
	if err != nil {
		return respondError(c, err, "Ошибка обновления прогресса", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Прогресс операции обновлён", http.StatusOK)
}

func (ctrl *OperationController) AssignStaff(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.AssignStaffDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.operationService.AssignStaff(c.Request().Context(), id, d.StaffIDs)
	if err != nil {
		return respondError(c, err, "Ошибка назначения сотрудников", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Сотрудники назначены", http.StatusOK)
}

func (ctrl *OperationController) GetHistory(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.operationService.History(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения истории операции", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "История операции получена", http.StatusOK)
}
