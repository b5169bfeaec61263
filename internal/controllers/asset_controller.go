package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AssetController struct {
	assetService services.AssetServiceInterface
	logger       *zap.Logger
}

func NewAssetController(assetService services.AssetServiceInterface, logger *zap.Logger) *AssetController {
	return &AssetController{assetService: assetService, logger: logger}
}

func (ctrl *AssetController) GetAssets(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())
	res, err := ctrl.assetService.GetAll(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Ошибка получения списка активов", ctrl.logger)
	}
	return utils.SuccessResponse(c, res.List, "Список активов получен", http.StatusOK, res.Pagination.TotalCount)
}

func (ctrl *AssetController) FindAsset(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.assetService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения актива", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Актив найден", http.StatusOK)
}

func (ctrl *AssetController) RegisterAsset(c echo.Context) error {
	var d dto.CreateAssetDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.assetService.Register(c.Request().Context(), d)
	if err != nil {
		return respondError(c, err, "Ошибка регистрации актива", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Актив успешно зарегистрирован", http.StatusCreated)
}

func (ctrl *AssetController) UpdateAsset(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var d dto.UpdateAssetDTO
	if err := bindAndValidate(c, &d); err != nil {
		return respondError(c, err, "Ошибка валидации", ctrl.logger)
	}
	res, err := ctrl.assetService.Update(c.Request().Context(), id, d)
	if err != nil {
		return respondError(c, err, "Ошибка обновления актива", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Актив обновлён", http.StatusOK)
}

func (ctrl *AssetController) DeleteAsset(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.assetService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Ошибка удаления актива", ctrl.logger)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDepreciation: ?as_of=YYYY-MM-DD, по умолчанию сегодня.
func (ctrl *AssetController) GetDepreciation(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var asOf time.Time
	if raw := strings.TrimSpace(c.QueryParam("as_of")); raw != "" {
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Параметр as_of должен быть датой ГГГГ-ММ-ДД", nil, nil), ctrl.logger)
		}
	}
	res, err := ctrl.assetService.Depreciation(c.Request().Context(), id, asOf)
	if err != nil {
		return respondError(c, err, "Ошибка расчёта амортизации", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Амортизация рассчитана", http.StatusOK)
}

func (ctrl *AssetController) ExportSchedule(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	// Проверяем актив до записи заголовков, чтобы вернуть нормальную ошибку
	if _, err := ctrl.assetService.GetByID(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Ошибка выгрузки графика", ctrl.logger)
	}
	setXLSXHeaders(c, fmt.Sprintf("depreciation_%d.xlsx", id))
	return ctrl.assetService.ExportSchedule(c.Request().Context(), id, c.Response().Writer)
}

func (ctrl *AssetController) GetRisk(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.assetService.Risk(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка оценки риска", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Риск оценён", http.StatusOK)
}

func (ctrl *AssetController) GetSnapshots(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.assetService.Snapshots(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Ошибка получения снимков амортизации", ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Снимки амортизации получены", http.StatusOK)
}

func (ctrl *AssetController) GetFields(c echo.Context) error {
	res := ctrl.assetService.Fields(c.QueryParam("category"), c.QueryParam("subcategory"))
	return utils.SuccessResponse(c, res, "Поля категории получены", http.StatusOK)
}

func (ctrl *AssetController) GetCategories(c echo.Context) error {
	return utils.SuccessResponse(c, ctrl.assetService.Categories(), "Категории получены", http.StatusOK)
}

func (ctrl *AssetController) ExportAssets(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.QueryParams())
	setXLSXHeaders(c, fmt.Sprintf("assets_%s.xlsx", time.Now().Format("2006-01-02")))
	if err := ctrl.assetService.Export(c.Request().Context(), filter, c.Response().Writer); err != nil {
		ctrl.logger.Error("Ошибка выгрузки реестра активов", zap.Error(err))
		return err
	}
	return nil
}

// ImportAssets принимает multipart-поле "file" с xlsx.
func (ctrl *AssetController) ImportAssets(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Файл не передан (поле file)", nil, nil), ctrl.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Не удалось открыть файл", err, nil), ctrl.logger)
	}
	defer src.Close()

	report, err := ctrl.assetService.Import(c.Request().Context(), src)
	if err != nil {
		return respondError(c, err, "Ошибка импорта активов", ctrl.logger)
	}
	return utils.SuccessResponse(c, report, "Импорт завершён", http.StatusOK)
}

func setXLSXHeaders(c echo.Context, fileName string) {
	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
}
