package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetIndexHandler lists the available endpoints.
func GetIndexHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service": "dataset metadata manager",
		"endpoints": map[string]string{
			"workflow": "POST /api/v1/data-workflow",
			"register": "POST /api/v1/dataset/register",
			"profile":  "GET /api/v1/dataset/profile",
			"list":     "GET /api/v1/dataset",
			"dataset":  "GET /api/v1/dataset/:id",
			"graph":    "GET /api/v1/dataset/:id/graph",
			"delete":   "DELETE /api/v1/dataset/:id",
		},
	})
}
