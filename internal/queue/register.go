package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/datagems-eu/dmm/backend/internal/storage"
	"github.com/datagems-eu/dmm/backend/internal/util"
	"github.com/datagems-eu/dmm/backend/pkg/common"
	"github.com/datagems-eu/dmm/backend/pkg/jsonld"
	"github.com/datagems-eu/dmm/backend/pkg/leaselock"
	"github.com/datagems-eu/dmm/backend/pkg/logger"
	graphstore "github.com/datagems-eu/dmm/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// convertRegistered validates and converts a catalogue document the same
// way the register route does. The context must ride along in the envelope
// metadata, otherwise re-saving the graph would strip it and reverse
// conversion of the stored dataset would fail.
func convertRegistered(doc map[string]any) (*common.Envelope, error) {
	if _, err := jsonld.Validate(doc, jsonld.ValidateOptions{Strict: true}); err != nil {
		return nil, fmt.Errorf("catalogue document failed validation: %w", err)
	}
	return jsonld.Convert(doc, jsonld.ConvertOptions{
		IncludeContext: true,
		GenerateIDs:    true,
	})
}

// ProcessRegisterMessage materializes the converted property graph for a
// freshly registered dataset. It re-reads the source document from the
// catalogue, converts it, and writes the result next to it so downstream
// consumers can fetch the graph without touching the database.
func ProcessRegisterMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(RegisterMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.DatasetID == "" {
		return fmt.Errorf("register message without dataset id")
	}

	locks := leaselock.New(conn)
	leaseKey := "dataset:" + data.DatasetID

	return locks.WithLease(ctx, leaseKey, leaselock.Options{TTL: 2 * time.Minute}, func(ctx context.Context) error {
		start := time.Now()

		docKey := data.DocumentKey
		if docKey == "" {
			docKey = storage.CatalogueKey(data.DatasetID)
		}

		raw, err := storage.GetDocument(ctx, s3Client, docKey)
		if err != nil {
			return err
		}

		doc := make(map[string]any)
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("catalogue document is not valid JSON: %w", err)
		}

		env, err := convertRegistered(doc)
		if err != nil {
			return err
		}

		result, err := json.Marshal(env)
		if err != nil {
			return err
		}

		err = util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
			return storage.PutDocument(ctx, s3Client, storage.ResultKey(data.DatasetID), result)
		})
		if err != nil {
			return err
		}

		// Keep the stored counts in sync in case the route and worker
		// raced on an update.
		store := graphstore.NewGraphStorePGX(conn)
		if err := store.SaveGraph(ctx, data.DatasetID, env); err != nil {
			return err
		}

		logger.Info("[Queue] Materialized dataset graph",
			"dataset_id", data.DatasetID,
			"correlation_id", data.CorrelationID,
			"nodes", env.Metadata.NodeCount,
			"edges", env.Metadata.EdgeCount,
			"duration", time.Since(start),
		)
		return nil
	})
}
