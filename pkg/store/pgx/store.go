package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datagems-eu/dmm/backend/pkg/common"
	"github.com/datagems-eu/dmm/backend/pkg/store"
)

// ErrNotFound is returned when a dataset or node does not exist.
var ErrNotFound = errors.New("not found")

// GraphStorePGX persists PG-JSON envelopes in postgres. Nodes and edges
// keep their conversion order in an ord column so GetGraph reproduces the
// envelope byte-for-byte.
type GraphStorePGX struct {
	conn *pgxpool.Pool
}

// NewGraphStorePGX creates a postgres-backed graph store on an existing
// connection pool.
func NewGraphStorePGX(conn *pgxpool.Pool) *GraphStorePGX {
	return &GraphStorePGX{conn: conn}
}

var _ store.GraphStore = (*GraphStorePGX)(nil)

// SaveGraph stores an envelope under the given dataset ID, replacing any
// previous graph for that dataset in a single transaction.
func (s *GraphStorePGX) SaveGraph(ctx context.Context, datasetID string, env *common.Envelope) error {
	if env == nil {
		return errors.New("nil envelope")
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	contextJSON, err := marshalOrNull(env.Metadata.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO datasets (id, root_node, node_count, edge_count, context, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			root_node = EXCLUDED.root_node,
			node_count = EXCLUDED.node_count,
			edge_count = EXCLUDED.edge_count,
			context = EXCLUDED.context,
			updated_at = now()`,
		datasetID, env.Metadata.RootNode, env.Metadata.NodeCount, env.Metadata.EdgeCount, contextJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert dataset: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM graph_nodes WHERE dataset_id = $1`, datasetID); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graph_edges WHERE dataset_id = $1`, datasetID); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}

	batch := &pgx.Batch{}
	for i, node := range env.Graph.Nodes {
		labels, err := json.Marshal(node.Labels)
		if err != nil {
			return fmt.Errorf("failed to marshal labels for node %s: %w", node.ID, err)
		}
		properties, err := json.Marshal(node.Properties)
		if err != nil {
			return fmt.Errorf("failed to marshal properties for node %s: %w", node.ID, err)
		}
		batch.Queue(`
			INSERT INTO graph_nodes (dataset_id, node_id, labels, properties, ord)
			VALUES ($1, $2, $3, $4, $5)`,
			datasetID, node.ID, labels, properties, i,
		)
	}
	for i, edge := range env.Graph.Edges {
		properties, err := json.Marshal(edge.Properties)
		if err != nil {
			return fmt.Errorf("failed to marshal properties for edge %s: %w", edge.ID, err)
		}
		batch.Queue(`
			INSERT INTO graph_edges (dataset_id, edge_id, edge_type, source, target, properties, ord)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			datasetID, edge.ID, edge.Type, edge.Source, edge.Target, properties, i,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert graph rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit graph: %w", err)
	}
	return nil
}

// GetGraph loads the envelope stored for a dataset, restoring node and
// edge order. Returns ErrNotFound for unknown datasets.
func (s *GraphStorePGX) GetGraph(ctx context.Context, datasetID string) (*common.Envelope, error) {
	var (
		rootNode    string
		nodeCount   int
		edgeCount   int
		contextJSON []byte
	)
	err := s.conn.QueryRow(ctx, `
		SELECT root_node, node_count, edge_count, context
		FROM datasets WHERE id = $1`, datasetID,
	).Scan(&rootNode, &nodeCount, &edgeCount, &contextJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	env := &common.Envelope{
		Graph: common.Graph{
			Nodes: make([]common.Node, 0, nodeCount),
			Edges: make([]common.Edge, 0, edgeCount),
		},
		Metadata: common.Metadata{
			SourceFormat: "JSON-LD",
			NodeCount:    nodeCount,
			EdgeCount:    edgeCount,
			RootNode:     rootNode,
		},
	}
	if len(contextJSON) > 0 {
		var docContext any
		if err := json.Unmarshal(contextJSON, &docContext); err != nil {
			return nil, fmt.Errorf("failed to unmarshal context: %w", err)
		}
		env.Metadata.Context = docContext
	}

	rows, err := s.conn.Query(ctx, `
		SELECT node_id, labels, properties
		FROM graph_nodes WHERE dataset_id = $1 ORDER BY ord`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			node       common.Node
			labels     []byte
			properties []byte
		)
		if err := rows.Scan(&node.ID, &labels, &properties); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		if err := json.Unmarshal(labels, &node.Labels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal labels: %w", err)
		}
		if err := json.Unmarshal(properties, &node.Properties); err != nil {
			return nil, fmt.Errorf("failed to unmarshal properties: %w", err)
		}
		env.Graph.Nodes = append(env.Graph.Nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	edgeRows, err := s.conn.Query(ctx, `
		SELECT edge_id, edge_type, source, target, properties
		FROM graph_edges WHERE dataset_id = $1 ORDER BY ord`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var (
			edge       common.Edge
			properties []byte
		)
		if err := edgeRows.Scan(&edge.ID, &edge.Type, &edge.Source, &edge.Target, &properties); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		if err := json.Unmarshal(properties, &edge.Properties); err != nil {
			return nil, fmt.Errorf("failed to unmarshal edge properties: %w", err)
		}
		env.Graph.Edges = append(env.Graph.Edges, edge)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}

	return env, nil
}

// GetNode loads a single node of a dataset graph. Returns ErrNotFound
// when either the dataset or the node is missing.
func (s *GraphStorePGX) GetNode(ctx context.Context, datasetID string, nodeID string) (*common.Node, error) {
	var (
		node       common.Node
		labels     []byte
		properties []byte
	)
	err := s.conn.QueryRow(ctx, `
		SELECT node_id, labels, properties
		FROM graph_nodes WHERE dataset_id = $1 AND node_id = $2`,
		datasetID, nodeID,
	).Scan(&node.ID, &labels, &properties)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load node: %w", err)
	}
	if err := json.Unmarshal(labels, &node.Labels); err != nil {
		return nil, fmt.Errorf("failed to unmarshal labels: %w", err)
	}
	if err := json.Unmarshal(properties, &node.Properties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal properties: %w", err)
	}
	return &node, nil
}

// DeleteGraph removes a dataset and its graph rows.
func (s *GraphStorePGX) DeleteGraph(ctx context.Context, datasetID string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, datasetID)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDatasets pages through stored datasets, newest first.
func (s *GraphStorePGX) ListDatasets(ctx context.Context, limit, offset int) ([]store.DatasetRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(ctx, `
		SELECT id, root_node, node_count, edge_count, created_at, updated_at
		FROM datasets ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var records []store.DatasetRecord
	for rows.Next() {
		var r store.DatasetRecord
		if err := rows.Scan(&r.ID, &r.RootNode, &r.NodeCount, &r.EdgeCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read datasets: %w", err)
	}
	return records, nil
}

func marshalOrNull(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
