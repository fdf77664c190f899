package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/datagems-eu/dmm/backend/internal/queue"
	"github.com/datagems-eu/dmm/backend/internal/server/middleware"
	"github.com/datagems-eu/dmm/backend/pkg/logger"
	graphstore "github.com/datagems-eu/dmm/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DeleteDatasetHandler removes the stored graph and hands object cleanup
// to the worker via the delete queue.
func DeleteDatasetHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Missing dataset id",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	if err := app.Store.DeleteGraph(ctx, id); err != nil {
		if errors.Is(err, graphstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "Dataset not found",
			})
		}
		logger.Error("Failed to delete dataset", "dataset_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	correlationID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate correlation id", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	msg, err := json.Marshal(queue.DeleteMsg{
		Message:       "Dataset deleted",
		DatasetID:     id,
		CorrelationID: correlationID,
	})
	if err != nil {
		logger.Error("Failed to marshal queue message", "dataset_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.DeleteQueue, msg); err != nil {
		logger.Error("Failed to publish delete event", "dataset_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	logger.Info("Deleted dataset", "dataset_id", id, "correlation_id", correlationID)

	return c.JSON(http.StatusOK, map[string]string{
		"message":        "Dataset deleted",
		"dataset_id":     id,
		"correlation_id": correlationID,
	})
}
