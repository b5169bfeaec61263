package routes

import (
	"github.com/labstack/echo/v4"

	"asset-system/internal/controllers"
)

func runOperationRouter(secureGroup *echo.Group, ctrl *controllers.OperationController) {
	secureGroup.GET("/operations", ctrl.GetOperations)
	secureGroup.GET("/operations/:id", ctrl.FindOperation)
	secureGroup.POST("/operations", ctrl.CreateOperation)
	secureGroup.PUT("/operations/:id", ctrl.UpdateOperation)
	secureGroup.DELETE("/operations/:id", ctrl.DeleteOperation)
	secureGroup.PATCH("/operations/:id/status", ctrl.ChangeStatus)
	secureGroup.PATCH("/operations/:id/progress", ctrl.UpdateProgress)
	secureGroup.PUT("/operations/:id/staff", ctrl.AssignStaff)
	secureGroup.GET("/operations/:id/history", ctrl.GetHistory)
}

func runTaskRouter(secureGroup *echo.Group, ctrl *controllers.TaskController) {
	secureGroup.GET("/tasks", ctrl.GetTasks)
	secureGroup.GET("/tasks/:id", ctrl.FindTask)
	secureGroup.POST("/tasks", ctrl.CreateTask)
	secureGroup.PUT("/tasks/:id", ctrl.UpdateTask)
	secureGroup.DELETE("/tasks/:id", ctrl.DeleteTask)
	secureGroup.PATCH("/tasks/:id/status", ctrl.ChangeStatus)
	secureGroup.PATCH("/tasks/:id/progress", ctrl.UpdateProgress)
	secureGroup.GET("/tasks/:id/history", ctrl.GetHistory)
}

func runPurchaseRouter(secureGroup *echo.Group, ctrl *controllers.PurchaseController) {
	secureGroup.GET("/purchases", ctrl.GetPurchases)
	secureGroup.GET("/purchases/:id", ctrl.FindPurchase)
	secureGroup.POST("/purchases", ctrl.CreatePurchase)
	secureGroup.PUT("/purchases/:id", ctrl.UpdatePurchase)
	secureGroup.DELETE("/purchases/:id", ctrl.DeletePurchase)
	secureGroup.PATCH("/purchases/:id/status", ctrl.ChangeStatus)
	secureGroup.GET("/purchases/:id/history", ctrl.GetHistory)
}
