package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/datagems-eu/dmm/backend/internal/server/middleware"
	"github.com/datagems-eu/dmm/backend/internal/storage"
	"github.com/datagems-eu/dmm/backend/pkg/jsonld"
	"github.com/datagems-eu/dmm/backend/pkg/logger"
	"github.com/datagems-eu/dmm/backend/pkg/store"
	graphstore "github.com/datagems-eu/dmm/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetDatasetHandler loads a stored graph and reverse-converts it back to
// the JSON-LD document it was registered from.
func GetDatasetHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Missing dataset id",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	env, err := app.Store.GetGraph(ctx, id)
	if err != nil {
		if errors.Is(err, graphstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "Dataset not found",
			})
		}
		logger.Error("Failed to load dataset", "dataset_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	doc, err := jsonld.ConvertToJSONLD(env, nil)
	if err != nil {
		logger.Error("Failed to reconstruct document", "dataset_id", id, "err", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, doc)
}

// GetDatasetGraphHandler returns the stored property graph envelope,
// optionally with a presigned link to the raw catalogue document.
func GetDatasetGraphHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Missing dataset id",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	env, err := app.Store.GetGraph(ctx, id)
	if err != nil {
		if errors.Is(err, graphstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "Dataset not found",
			})
		}
		logger.Error("Failed to load dataset graph", "dataset_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	resp := map[string]any{
		"graph":    env.Graph,
		"metadata": env.Metadata,
	}

	if c.QueryParam("download") == "true" {
		link, err := storage.GenerateDownloadLink(ctx, app.S3, storage.CatalogueKey(id))
		if err != nil {
			logger.Warn("Failed to generate download link", "dataset_id", id, "err", err)
		} else {
			resp["document_url"] = link
		}

		uploads, err := storage.ListDatasetKeys(ctx, app.S3, storage.ScratchpadPrefix+"/"+id+"/")
		if err != nil {
			logger.Warn("Failed to list scratchpad uploads", "dataset_id", id, "err", err)
		} else if len(uploads) > 0 {
			resp["uploads"] = uploads
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// ListDatasetsHandler returns registered dataset records, newest first.
func ListDatasetsHandler(c echo.Context) error {
	type listResponse struct {
		Message  string               `json:"message"`
		Datasets []store.DatasetRecord `json:"datasets"`
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 500 {
			return c.JSON(http.StatusBadRequest, listResponse{
				Message: "Invalid limit",
			})
		}
		limit = parsed
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, listResponse{
				Message: "Invalid offset",
			})
		}
		offset = parsed
	}

	app := c.(*middleware.AppContext).App
	records, err := app.Store.ListDatasets(c.Request().Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list datasets", "err", err)
		return c.JSON(http.StatusInternalServerError, listResponse{
			Message: "Internal server error",
		})
	}
	if records == nil {
		records = []store.DatasetRecord{}
	}

	return c.JSON(http.StatusOK, listResponse{
		Message:  "OK",
		Datasets: records,
	})
}
