package server

import (
	"github.com/datagems-eu/dmm/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api/v1")

	apiRoutes.GET("", routes.GetIndexHandler)

	// Dataset routes
	apiRoutes.POST("/data-workflow", routes.DataWorkflowHandler)
	apiRoutes.POST("/dataset/register", routes.RegisterDatasetHandler)
	apiRoutes.GET("/dataset/profile", routes.GetDatasetProfileHandler)
	apiRoutes.GET("/dataset", routes.ListDatasetsHandler)
	apiRoutes.GET("/dataset/:id", routes.GetDatasetHandler)
	apiRoutes.GET("/dataset/:id/graph", routes.GetDatasetGraphHandler)
	apiRoutes.DELETE("/dataset/:id", routes.DeleteDatasetHandler)
}
