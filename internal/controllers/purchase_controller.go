package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	"asset-system/pkg/utils"
)

type PurchaseController struct {
	purchaseService services.PurchaseServiceInterface
	logger          *zap.Logger
}

func NewPurchaseController(purchaseService services.PurchaseServiceInterface, logger *zap.Logger) *PurchaseController {
	return &PurchaseController{purchaseService: purchaseService, logger: logger}
}

func (ctrl *PurchaseController) GetPurchases(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())
	res, err := ctrl.purchaseService.GetAll(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Ошибка получения списка закупок", ctrl.logger)
	}
	return utils.SuccessResponse(c, res.List, "Список закупок получен", http.StatusOK, res.Pagination.TotalCount)
}

func (ctrl *PurchaseController) FindPurchase(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.purchaseService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения закупки", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Закупка найдена", http.StatusOK)
}

func (ctrl *PurchaseController) CreatePurchase(c echo.Context) error {
	var d dto.CreatePurchaseDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.purchaseService.Create(c.Request().Context(), d)
	if err != nil {
		return respondError(c, err, "Ошибка создания закупки", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Закупка создана", http.StatusCreated)
}

func (ctrl *PurchaseController) UpdatePurchase(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdatePurchaseDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.purchaseService.Update(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка обновления закупки", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Закупка обновлена", http.StatusOK)
}

func (ctrl *PurchaseController) DeletePurchase(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.purchaseService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Ошибка удаления закупки", ctrl.logger)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctrl *PurchaseController) ChangeStatus(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdatePurchaseStatusDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.purchaseService.ChangeStatus(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка смены статуса закупки", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Статус закупки изменён", http.StatusOK)
}

func (ctrl *PurchaseController) GetHistory(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.purchaseService.History(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения истории закупки", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "История закупки получена", http.StatusOK)
}
