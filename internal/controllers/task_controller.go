package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	"asset-system/pkg/utils"
)

type TaskController struct {
	taskService services.TaskServiceInterface
	logger           *zap.Logger
}

func NewTaskController(taskService services.TaskServiceInterface, logger *zap.Logger) *TaskController {
	return &TaskController{taskService: taskService, logger: logger}
}

func (ctrl *TaskController) GetTasks(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())
	res, err := ctrl.taskService.GetAll(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Ошибка получения списка задач", ctrl.logger)
	}
	return utils.SuccessResponse(c, res.List, "Список задач получен", http.StatusOK, res.Pagination.TotalCount)
}

func (ctrl *TaskController) FindTask(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.taskService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения задачи", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Задача найдена", http.StatusOK)
}

func (ctrl *TaskController) CreateTask(c echo.Context) error {
	var d dto.CreateTaskDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.taskService.Create(c.Request().Context(), d)
	if err != nil {
		return respondError(c, err, "Ошибка создания задачи", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Задача создана", http.StatusCreated)
}

func (ctrl *TaskController) UpdateTask(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateTaskDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.taskService.Update(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка обновления задачи", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Задача обновлена", http.StatusOK)
}

func (ctrl *TaskController) DeleteTask(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.taskService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Ошибка удаления задачи", ctrl.logger)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctrl *TaskController) ChangeStatus(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateStatusDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.taskService.ChangeStatus(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка смены статуса задачи", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Статус задачи изменён", http.StatusOK)
}

func (ctrl *TaskController) UpdateProgress(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateProgressDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.taskService.UpdateProgress(c.Request().Context(), id, *d.Progress)
	if err != nil {
		return respondError(c, err, "Ошибка обновления прогресса", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Прогресс задачи обновлён", http.StatusOK)
}

func (ctrl *TaskController) GetHistory(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.taskService.History(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения истории задачи", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "История задачи получена", http.StatusOK)
}
