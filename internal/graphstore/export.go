// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEdge is a resolved citation edge flattened with resource titles
// for export.
type ExportEdge struct {
	ID              string  `json:"id" yaml:"id"`
	SourceID        string  `json:"source_id" yaml:"source_id"`
	SourceTitle     string  `json:"source_title,omitempty" yaml:"source_title,omitempty"`
	TargetID        string  `json:"target_id" yaml:"target_id"`
	TargetTitle     string  `json:"target_title,omitempty" yaml:"target_title,omitempty"`
	CitationType    string  `json:"citation_type" yaml:"citation_type"`
	ImportanceScore float64 `json:"importance_score" yaml:"importance_score"`
}

const exportLimit = 100000

// ExportYAML writes the resolved citation network to
// graph/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEdges(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(s.graphDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the resolved citation network to
// graph/index/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEdges(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(s.graphDir, indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEdges(ctx context.Context) ([]ExportEdge, error) {
	edges, err := s.ListCitationEdges(ctx, CitationFilter{OnlyResolved: true, Limit: exportLimit})
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	ids := make([]string, 0, len(edges)*2)
	for _, e := range edges {
		ids = append(ids, e.SourceResourceID, e.TargetResourceID)
	}
	titles, err := s.ResourceTitles(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportEdge, len(edges))
	for i, e := range edges {
		entries[i] = ExportEdge{
			ID:              e.ID,
			SourceID:        e.SourceResourceID,
			SourceTitle:     titles[e.SourceResourceID],
			TargetID:        e.TargetResourceID,
			TargetTitle:     titles[e.TargetResourceID],
			CitationType:    string(e.CitationType),
			ImportanceScore: e.ImportanceScore,
		}
	}
	return entries, nil
}
