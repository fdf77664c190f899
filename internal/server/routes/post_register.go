package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/datagems-eu/dmm/backend/internal/queue"
	"github.com/datagems-eu/dmm/backend/internal/server/middleware"
	"github.com/datagems-eu/dmm/backend/internal/storage"
	"github.com/datagems-eu/dmm/backend/pkg/jsonld"
	"github.com/datagems-eu/dmm/backend/pkg/logger"

	"github.com/kaptinlin/jsonrepair"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

type registerResponse struct {
	Message       string `json:"message"`
	DatasetID     string `json:"dataset_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	NodeCount     int    `json:"node_count,omitempty"`
	EdgeCount     int    `json:"edge_count,omitempty"`
	Kind          string `json:"kind,omitempty"`
	Field         string `json:"field,omitempty"`
}

// RegisterDatasetHandler accepts a JSON-LD document, validates it against
// the dataset profile, converts it to a property graph and persists both
// the graph and the raw document. With ?repair=true malformed JSON is run
// through jsonrepair before parsing.
func RegisterDatasetHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, registerResponse{
			Message: "Failed to read request body",
		})
	}

	raw := string(body)
	if c.QueryParam("repair") == "true" {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, registerResponse{
				Message: "Failed to repair JSON document",
			})
		}
		raw = repaired
	}

	doc := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return c.JSON(http.StatusBadRequest, registerResponse{
			Message: "Request body is not a JSON object",
		})
	}

	checkTriples := c.QueryParam("check_rdf") == "true"
	if _, err := jsonld.Validate(doc, jsonld.ValidateOptions{
		Strict:       true,
		CheckTriples: checkTriples,
	}); err != nil {
		resp := registerResponse{Message: err.Error()}
		var verr *jsonld.ValidationError
		if errors.As(err, &verr) {
			resp.Kind = string(verr.Kind)
			resp.Field = verr.Field
		}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}

	env, err := jsonld.Convert(doc, jsonld.ConvertOptions{
		IncludeContext: true,
		GenerateIDs:    true,
	})
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, registerResponse{
			Message: err.Error(),
		})
	}

	datasetID := env.Metadata.RootNode
	correlationID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate correlation id", "err", err)
		return c.JSON(http.StatusInternalServerError, registerResponse{
			Message: "Internal server error",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	// Persist the graph and archive the raw document concurrently. Both
	// must succeed before the registration event is published.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Store.SaveGraph(gctx, datasetID, env)
	})
	g.Go(func() error {
		return storage.PutDocument(gctx, app.S3, storage.CatalogueKey(datasetID), []byte(raw))
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to persist dataset", "dataset_id", datasetID, "err", err)
		return c.JSON(http.StatusInternalServerError, registerResponse{
			Message: "Internal server error",
		})
	}

	msg, err := json.Marshal(queue.RegisterMsg{
		Message:       "Dataset registered",
		DatasetID:     datasetID,
		CorrelationID: correlationID,
		DocumentKey:   storage.CatalogueKey(datasetID),
	})
	if err != nil {
		logger.Error("Failed to marshal queue message", "dataset_id", datasetID, "err", err)
		return c.JSON(http.StatusInternalServerError, registerResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.RegisterQueue, msg); err != nil {
		logger.Error("Failed to publish registration event", "dataset_id", datasetID, "err", err)
		return c.JSON(http.StatusInternalServerError, registerResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("Registered dataset",
		"dataset_id", datasetID,
		"correlation_id", correlationID,
		"nodes", env.Metadata.NodeCount,
		"edges", env.Metadata.EdgeCount,
	)

	return c.JSON(http.StatusCreated, registerResponse{
		Message:       "Dataset registered",
		DatasetID:     datasetID,
		CorrelationID: correlationID,
		NodeCount:     env.Metadata.NodeCount,
		EdgeCount:     env.Metadata.EdgeCount,
	})
}
