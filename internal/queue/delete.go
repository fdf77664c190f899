package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/datagems-eu/dmm/backend/internal/storage"
	"github.com/datagems-eu/dmm/backend/internal/util"
	"github.com/datagems-eu/dmm/backend/pkg/leaselock"
	"github.com/datagems-eu/dmm/backend/pkg/logger"
	graphstore "github.com/datagems-eu/dmm/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProcessDeleteMessage removes every stored object for a dataset, both the
// catalogue document and the materialized result. The database row is
// usually gone by the time this runs, so a missing graph is not an error.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(DeleteMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.DatasetID == "" {
		return fmt.Errorf("delete message without dataset id")
	}

	locks := leaselock.New(conn)
	leaseKey := "dataset:" + data.DatasetID

	return locks.WithLease(ctx, leaseKey, leaselock.Options{TTL: 2 * time.Minute}, func(ctx context.Context) error {
		store := graphstore.NewGraphStorePGX(conn)
		if err := store.DeleteGraph(ctx, data.DatasetID); err != nil && !errors.Is(err, graphstore.ErrNotFound) {
			return err
		}

		keys := []string{
			storage.CatalogueKey(data.DatasetID),
			storage.ResultKey(data.DatasetID),
		}
		for _, key := range keys {
			err := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
				return storage.DeleteDocument(ctx, s3Client, key)
			})
			if err != nil {
				return err
			}
		}

		// Scratchpad uploads live under a per-dataset folder.
		err := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
			return storage.DeleteDatasetPrefix(ctx, s3Client, storage.ScratchpadPrefix+"/"+data.DatasetID+"/")
		})
		if err != nil {
			return err
		}

		logger.Info("[Queue] Deleted dataset objects",
			"dataset_id", data.DatasetID,
			"correlation_id", data.CorrelationID,
		)
		return nil
	})
}
