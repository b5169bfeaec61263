package routes

import (
	"github.com/labstack/echo/v4"

	"asset-system/internal/controllers"
)

func runAssetRouter(secureGroup *echo.Group, ctrl *controllers.AssetController) {
	// Статические пути регистрируем до /:id
	secureGroup.GET("/assets/fields", ctrl.GetFields)
	secureGroup.GET("/assets/categories", ctrl.GetCategories)
	secureGroup.GET("/assets/export", ctrl.ExportAssets)
	secureGroup.POST("/assets/import", ctrl.ImportAssets)

	secureGroup.GET("/assets", ctrl.GetAssets)
	secureGroup.GET("/assets/:id", ctrl.FindAsset)
	secureGroup.POST("/assets", ctrl.RegisterAsset)
	secureGroup.PUT("/assets/:id", ctrl.UpdateAsset)
	secureGroup.DELETE("/assets/:id", ctrl.DeleteAsset)

	secureGroup.GET("/assets/:id/depreciation", ctrl.GetDepreciation)
	secureGroup.GET("/assets/:id/depreciation/export", ctrl.ExportSchedule)
	secureGroup.GET("/assets/:id/risk", ctrl.GetRisk)
	secureGroup.GET("/assets/:id/snapshots", ctrl.GetSnapshots)
}
