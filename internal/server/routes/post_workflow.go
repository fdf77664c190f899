package routes

import (
	"io"
	"net/http"

	"github.com/datagems-eu/dmm/backend/internal/server/middleware"
	"github.com/datagems-eu/dmm/backend/internal/storage"
	"github.com/datagems-eu/dmm/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DataWorkflowHandler accepts a raw dataset upload and parks it in the
// scratchpad key space until it is registered. Re-uploading the same file
// name for a dataset silently overwrites the previous object.
func DataWorkflowHandler(c echo.Context) error {
	type workflowBody struct {
		FileName  string `form:"file_name" validate:"required"`
		DatasetID string `form:"dataset_id" validate:"required"`
	}

	type workflowResponse struct {
		Message   string `json:"message"`
		DatasetID string `json:"dataset_id,omitempty"`
		Path      string `json:"path,omitempty"`
	}

	data := new(workflowBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, workflowResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, workflowResponse{
			Message: "Invalid request body",
		})
	}

	upload, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, workflowResponse{
			Message: "Missing file upload",
		})
	}

	src, err := upload.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, workflowResponse{
			Message: "Failed to open uploaded file",
		})
	}
	defer src.Close()

	contents, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, workflowResponse{
			Message: "Failed to read uploaded file",
		})
	}

	app := c.(*middleware.AppContext).App
	key := storage.ScratchpadKey(data.DatasetID, data.FileName)

	if err := storage.PutDocument(c.Request().Context(), app.S3, key, contents); err != nil {
		logger.Error("Failed to upload to scratchpad", "dataset_id", data.DatasetID, "err", err)
		return c.JSON(http.StatusInternalServerError, workflowResponse{
			Message: "Failed to upload dataset to scratchpad",
		})
	}

	logger.Info("Uploaded dataset to scratchpad", "dataset_id", data.DatasetID, "file", data.FileName)

	return c.JSON(http.StatusCreated, workflowResponse{
		Message:   "Dataset uploaded",
		DatasetID: data.DatasetID,
		Path:      key,
	})
}
