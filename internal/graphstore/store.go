// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphstore persists the citation graph: resources, citation
// edges, generic graph edges, importance scores, and discovery
// hypotheses. See docs/ARCHITECTURE § Graph Store.
package graphstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

const (
	candidatesDir = "candidates"
	indexDir      = "index"
	dbFile        = "citations.db"
)

// ErrNotFound is returned when a resource, edge, or hypothesis ID does
// not exist. Callers map it to a 404-equivalent.
var ErrNotFound = errors.New("not found")

// Store manages the citation graph SQLite database.
type Store struct {
	db       *sql.DB
	graphDir string
}

// NewStore opens or creates the citation graph database at
// graphDir/index/citations.db, creating the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.GraphDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.GraphDir, candidatesDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating candidates directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, graphDir: cfg.GraphDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resources (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			identifier TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_identifier ON resources(identifier)`,
		`CREATE TABLE IF NOT EXISTS citation_edges (
			id TEXT PRIMARY KEY,
			source_resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			target_resource_id TEXT,
			target_url TEXT,
			citation_type TEXT NOT NULL,
			context_snippet TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			importance_score REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK (target_resource_id IS NOT NULL OR target_url IS NOT NULL)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citation_edges_source ON citation_edges(source_resource_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citation_edges_target ON citation_edges(target_resource_id)`,
		`CREATE TABLE IF NOT EXISTS graph_edges (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			target_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			edge_type TEXT NOT NULL,
			weight REAL NOT NULL DEFAULT 1.0,
			confidence REAL NOT NULL DEFAULT 0,
			edge_metadata TEXT,
			created_by TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK (source_id <> target_id),
			CHECK (weight >= 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_graph_edges_source ON graph_edges(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_graph_edges_target ON graph_edges(target_id)`,
		`CREATE TABLE IF NOT EXISTS importance_scores (
			resource_id TEXT PRIMARY KEY,
			score REAL NOT NULL,
			converged INTEGER NOT NULL DEFAULT 1,
			computed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hypotheses (
			id TEXT PRIMARY KEY,
			a_resource_id TEXT NOT NULL,
			c_resource_id TEXT NOT NULL,
			b_resource_ids TEXT NOT NULL,
			hypothesis_type TEXT NOT NULL,
			plausibility_score REAL NOT NULL,
			path_strength REAL NOT NULL,
			path_length INTEGER NOT NULL,
			common_neighbors INTEGER NOT NULL,
			discovered_at TEXT NOT NULL,
			is_validated INTEGER NOT NULL DEFAULT 0,
			validation_notes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hypotheses_pair ON hypotheses(a_resource_id, c_resource_id)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			resource_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// formatTime and parseTime keep timestamps as RFC3339Nano strings in
// UTC so string comparison orders chronologically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
