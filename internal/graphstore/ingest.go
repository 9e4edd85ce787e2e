// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// IngestSummary holds counts from a candidate ingestion run.
type IngestSummary struct {
	Ingested int
	Updated  int
	Skipped  int
	Failed   int
	Edges    int
}

// Total returns the number of candidate files processed.
func (s IngestSummary) Total() int {
	return s.Ingested + s.Updated + s.Skipped + s.Failed
}

// Ingest reads candidate YAML files from graphDir/candidates/ and
// populates resources, citation edges, and graph edges. Unchanged files
// are skipped on subsequent runs; changed files replace the resource's
// previous edge set. Individual file failures are counted, never abort
// the sweep.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	candDir := filepath.Join(s.graphDir, candidatesDir)

	entries, err := os.ReadDir(candDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading candidates directory %s: %w", candDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "-citations.yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		resourceID := strings.TrimSuffix(entry.Name(), "-citations.yaml")
		filePath := filepath.Join(candDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", resourceID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE resource_id = ?`, resourceID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", resourceID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", resourceID, err)
			summary.Failed++
			continue
		}

		var set types.CandidateSet
		if err := yaml.Unmarshal(data, &set); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", resourceID, err)
			summary.Failed++
			continue
		}
		if set.Resource.ID == "" {
			set.Resource.ID = resourceID
		}

		edgeCount, err := s.ingestSet(ctx, &set, modTime, isUpdate)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", resourceID, err)
			summary.Failed++
			continue
		}
		summary.Edges += edgeCount

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d edges)\n", resourceID, edgeCount)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "ingested %s (%d edges)\n", resourceID, edgeCount)
			summary.Ingested++
		}
	}

	fmt.Fprintf(w, "\ningested: %d, updated: %d, skipped: %d, failed: %d, edges: %d\n",
		summary.Ingested, summary.Updated, summary.Skipped, summary.Failed, summary.Edges)

	return summary, nil
}

// ingestSet writes one candidate set in a transaction: the resource
// record, its citation edges, and its graph edges. An update replaces
// the resource's previous edges.
func (s *Store) ingestSet(ctx context.Context, set *types.CandidateSet, modTime string, isUpdate bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM citation_edges WHERE source_resource_id = ?`, set.Resource.ID); err != nil {
			return 0, fmt.Errorf("deleting old citation edges: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM graph_edges WHERE source_id = ?`, set.Resource.ID); err != nil {
			return 0, fmt.Errorf("deleting old graph edges: %w", err)
		}
	}

	createdAt := set.Resource.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO resources (id, title, identifier, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, identifier=excluded.identifier`,
		set.Resource.ID, set.Resource.Title, set.Resource.Identifier, formatTime(createdAt),
	); err != nil {
		return 0, fmt.Errorf("upserting resource: %w", err)
	}

	now := formatTime(time.Now())
	edgeCount := 0

	for i, c := range set.Citations {
		if (c.TargetResourceID == "") == (c.TargetURL == "") {
			return 0, fmt.Errorf("citation %d requires exactly one of target_resource_id or target_url", i)
		}
		citationType := c.CitationType
		if citationType == "" {
			citationType = types.CitationReference
		}
		position := c.Position
		if position == 0 {
			position = i + 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO citation_edges
				(id, source_resource_id, target_resource_id, target_url, citation_type,
				 context_snippet, position, importance_score, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			uuid.NewString(), set.Resource.ID, nullable(c.TargetResourceID), nullable(c.TargetURL),
			string(citationType), c.ContextSnippet, position, now, now,
		); err != nil {
			return 0, fmt.Errorf("inserting citation %d: %w", i, err)
		}
		edgeCount++
	}

	for i, g := range set.GraphEdges {
		if g.TargetID == "" || g.EdgeType == "" {
			return 0, fmt.Errorf("graph edge %d requires target_id and edge_type", i)
		}
		if g.TargetID == set.Resource.ID {
			return 0, fmt.Errorf("graph edge %d is a self-loop", i)
		}
		for key := range g.EdgeMetadata {
			if !types.ValidEdgeMetadataKey(key) {
				return 0, fmt.Errorf("graph edge %d metadata key %q is not accepted", i, key)
			}
		}
		weight := g.Weight
		if weight == 0 {
			weight = 1.0
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO graph_edges
				(id, source_id, target_id, edge_type, weight, confidence,
				 edge_metadata, created_by, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), set.Resource.ID, g.TargetID, g.EdgeType, weight, g.Confidence,
			marshalMetadata(g.EdgeMetadata), nullable(g.CreatedBy), now, now,
		); err != nil {
			return 0, fmt.Errorf("inserting graph edge %d: %w", i, err)
		}
		edgeCount++
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ingest_status (resource_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(resource_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		set.Resource.ID, modTime,
	); err != nil {
		return 0, fmt.Errorf("updating ingest status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return edgeCount, nil
}

// marshalMetadata serializes a metadata bag to a JSON column value, or
// nil for an empty bag.
func marshalMetadata(m map[string]string) any {
	if len(m) == 0 {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return string(data)
}
