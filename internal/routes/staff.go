package routes

import (
	"github.com/labstack/echo/v4"

	"asset-system/internal/controllers"
)

func runStaffRouter(secureGroup *echo.Group, ctrl *controllers.StaffController) {
	secureGroup.GET("/staff", ctrl.GetStaff)
	secureGroup.GET("/staff/:id", ctrl.FindStaff)
	secureGroup.POST("/staff", ctrl.CreateStaff)
	secureGroup.PUT("/staff/:id", ctrl.UpdateStaff)
	secureGroup.DELETE("/staff/:id", ctrl.DeleteStaff)
}
