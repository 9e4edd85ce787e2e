// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// InsertGraphEdge persists a generic typed edge. Self-loops are
// rejected, weight must be non-negative, and metadata keys must come
// from the closed set accepted at the boundary.
func (s *Store) InsertGraphEdge(ctx context.Context, e types.GraphEdge) (types.GraphEdge, error) {
	if e.SourceID == "" || e.TargetID == "" {
		return e, fmt.Errorf("graph edge source_id and target_id must not be empty")
	}
	if e.SourceID == e.TargetID {
		return e, fmt.Errorf("graph edge source_id must differ from target_id (no self-loops)")
	}
	if e.Weight < 0 {
		return e, fmt.Errorf("graph edge weight must be >= 0, got %v", e.Weight)
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return e, fmt.Errorf("graph edge confidence must be in [0, 1], got %v", e.Confidence)
	}
	for key := range e.EdgeMetadata {
		if !types.ValidEdgeMetadataKey(key) {
			return e, fmt.Errorf("graph edge metadata key %q is not in the accepted key set", key)
		}
	}
	if e.EdgeType == "" {
		return e, fmt.Errorf("graph edge edge_type must not be empty")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Weight == 0 {
		e.Weight = 1.0
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	var metadataJSON any
	if len(e.EdgeMetadata) > 0 {
		data, err := json.Marshal(e.EdgeMetadata)
		if err != nil {
			return e, fmt.Errorf("marshaling edge metadata: %w", err)
		}
		metadataJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO graph_edges
			(id, source_id, target_id, edge_type, weight, confidence,
			 edge_metadata, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SourceID, e.TargetID, e.EdgeType, e.Weight, e.Confidence,
		metadataJSON, nullable(e.CreatedBy), formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return e, fmt.Errorf("inserting graph edge: %w", err)
	}
	return e, nil
}

// ListGraphEdges returns all graph edges ordered by source, target, and
// type for reproducibility.
func (s *Store) ListGraphEdges(ctx context.Context) ([]types.GraphEdge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, target_id, edge_type, weight, confidence,
			edge_metadata, created_by, created_at, updated_at
		 FROM graph_edges ORDER BY source_id, target_id, edge_type, id`)
	if err != nil {
		return nil, fmt.Errorf("listing graph edges: %w", err)
	}
	defer rows.Close()

	var edges []types.GraphEdge
	for rows.Next() {
		var (
			e                    types.GraphEdge
			metadataJSON, createdBy sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.EdgeType,
			&e.Weight, &e.Confidence, &metadataJSON, &createdBy,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning graph edge: %w", err)
		}
		if metadataJSON.Valid {
			json.Unmarshal([]byte(metadataJSON.String), &e.EdgeMetadata)
		}
		if createdBy.Valid {
			e.CreatedBy = createdBy.String
		}
		e.CreatedAt = parseTime(createdAt)
		e.UpdatedAt = parseTime(updatedAt)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
