package store

import (
	"context"
	"time"

	"github.com/datagems-eu/dmm/backend/pkg/common"
)

// DatasetRecord summarizes a stored dataset graph.
type DatasetRecord struct {
	ID        string    `json:"id"`
	RootNode  string    `json:"root_node"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GraphStore defines the interface for persisting and querying converted
// dataset graphs. SaveGraph accepts the exact PG-JSON envelope produced by
// the converter and must be atomic: a failed save leaves the previous
// graph untouched.
type GraphStore interface {
	SaveGraph(ctx context.Context, datasetID string, env *common.Envelope) error
	GetGraph(ctx context.Context, datasetID string) (*common.Envelope, error)
	GetNode(ctx context.Context, datasetID string, nodeID string) (*common.Node, error)
	DeleteGraph(ctx context.Context, datasetID string) error
	ListDatasets(ctx context.Context, limit, offset int) ([]DatasetRecord, error)
}
