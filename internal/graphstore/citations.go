// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// InsertCitationEdge persists a citation edge. Exactly one of
// TargetResourceID or TargetURL must be set at creation. A missing ID
// is assigned a UUID; timestamps default to now.
func (s *Store) InsertCitationEdge(ctx context.Context, e types.CitationEdge) (types.CitationEdge, error) {
	if e.SourceResourceID == "" {
		return e, fmt.Errorf("citation edge source_resource_id must not be empty")
	}
	if (e.TargetResourceID == "") == (e.TargetURL == "") {
		return e, fmt.Errorf("citation edge requires exactly one of target_resource_id or target_url at creation")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CitationType == "" {
		e.CitationType = types.CitationReference
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO citation_edges
			(id, source_resource_id, target_resource_id, target_url, citation_type,
			 context_snippet, position, importance_score, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SourceResourceID, nullable(e.TargetResourceID), nullable(e.TargetURL),
		string(e.CitationType), e.ContextSnippet, e.Position, e.ImportanceScore,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return e, fmt.Errorf("inserting citation edge: %w", err)
	}
	return e, nil
}

// GetCitationEdge looks up a citation edge by ID.
func (s *Store) GetCitationEdge(ctx context.Context, id string) (types.CitationEdge, error) {
	row := s.db.QueryRowContext(ctx, citationSelect+` WHERE id = ?`, id)
	e, err := scanCitationEdge(row)
	if err == sql.ErrNoRows {
		return types.CitationEdge{}, fmt.Errorf("citation edge %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.CitationEdge{}, fmt.Errorf("looking up citation edge %s: %w", id, err)
	}
	return e, nil
}

// CitationFilter narrows a citation edge scan. Zero-value fields are
// ignored.
type CitationFilter struct {
	// SourceResourceID restricts to edges owned by a resource.
	SourceResourceID string

	// TargetResourceID restricts to edges resolved to a resource.
	TargetResourceID string

	// OnlyUnresolved restricts to edges with no resolved target.
	OnlyUnresolved bool

	// OnlyResolved restricts to edges with a resolved target.
	OnlyResolved bool

	// Limit caps the number of returned edges. Zero means no cap.
	Limit int
}

// ListCitationEdges scans citation edges matching the filter, ordered
// by source resource and position for reproducibility.
func (s *Store) ListCitationEdges(ctx context.Context, f CitationFilter) ([]types.CitationEdge, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(citationSelect)
	qb.WriteString(` WHERE 1=1`)

	if f.SourceResourceID != "" {
		qb.WriteString(` AND source_resource_id = ?`)
		args = append(args, f.SourceResourceID)
	}
	if f.TargetResourceID != "" {
		qb.WriteString(` AND target_resource_id = ?`)
		args = append(args, f.TargetResourceID)
	}
	if f.OnlyUnresolved {
		qb.WriteString(` AND target_resource_id IS NULL`)
	}
	if f.OnlyResolved {
		qb.WriteString(` AND target_resource_id IS NOT NULL`)
	}
	qb.WriteString(` ORDER BY source_resource_id, position, id`)
	if f.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing citation edges: %w", err)
	}
	defer rows.Close()

	var edges []types.CitationEdge
	for rows.Next() {
		e, err := scanCitationEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning citation edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// MarkResolved fills the resolved target on a single edge, keeping
// target_url intact for audit. Row-level update, safe to run
// concurrently with ingestion.
func (s *Store) MarkResolved(ctx context.Context, edgeID, targetResourceID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE citation_edges SET target_resource_id = ?, updated_at = ? WHERE id = ?`,
		targetResourceID, formatTime(time.Now()), edgeID,
	)
	if err != nil {
		return fmt.Errorf("resolving citation edge %s: %w", edgeID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("citation edge %s: %w", edgeID, ErrNotFound)
	}
	return nil
}

// CommitImportanceScores atomically replaces the resource-level
// importance table and denormalizes each score onto the inbound
// citation edges of its resource. Concurrent readers see either the
// previous or the new score set, never a mix.
func (s *Store) CommitImportanceScores(ctx context.Context, scores map[string]float64, converged bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning importance commit: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM importance_scores`); err != nil {
		return fmt.Errorf("clearing importance scores: %w", err)
	}

	now := formatTime(time.Now())
	convergedVal := 0
	if converged {
		convergedVal = 1
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO importance_scores (resource_id, score, converged, computed_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing importance insert: %w", err)
	}
	defer insert.Close()

	update, err := tx.PrepareContext(ctx,
		`UPDATE citation_edges SET importance_score = ?, updated_at = ? WHERE target_resource_id = ?`)
	if err != nil {
		return fmt.Errorf("preparing edge score update: %w", err)
	}
	defer update.Close()

	for resourceID, score := range scores {
		if _, err := insert.ExecContext(ctx, resourceID, score, convergedVal, now); err != nil {
			return fmt.Errorf("inserting importance for %s: %w", resourceID, err)
		}
		if _, err := update.ExecContext(ctx, score, now, resourceID); err != nil {
			return fmt.Errorf("denormalizing importance for %s: %w", resourceID, err)
		}
	}

	return tx.Commit()
}

// GetImportance returns the stored importance score for a resource, or
// zero if no ranking run has scored it yet.
func (s *Store) GetImportance(ctx context.Context, resourceID string) (float64, error) {
	var score float64
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM importance_scores WHERE resource_id = ?`, resourceID).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("looking up importance for %s: %w", resourceID, err)
	}
	return score, nil
}

// TopEdgesByImportance returns resolved citation edges ordered by
// importance score descending, then edge ID for determinism.
func (s *Store) TopEdgesByImportance(ctx context.Context, limit int) ([]types.CitationEdge, error) {
	rows, err := s.db.QueryContext(ctx,
		citationSelect+` WHERE target_resource_id IS NOT NULL
		 ORDER BY importance_score DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing top edges: %w", err)
	}
	defer rows.Close()

	var edges []types.CitationEdge
	for rows.Next() {
		e, err := scanCitationEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning citation edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

const citationSelect = `SELECT id, source_resource_id, target_resource_id, target_url,
	citation_type, context_snippet, position, importance_score, created_at, updated_at
	FROM citation_edges`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCitationEdge(row rowScanner) (types.CitationEdge, error) {
	var (
		e                  types.CitationEdge
		targetID, targetURL, snippet sql.NullString
		citationType       string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.SourceResourceID, &targetID, &targetURL,
		&citationType, &snippet, &e.Position, &e.ImportanceScore,
		&createdAt, &updatedAt)
	if err != nil {
		return e, err
	}
	if targetID.Valid {
		e.TargetResourceID = targetID.String
	}
	if targetURL.Valid {
		e.TargetURL = targetURL.String
	}
	if snippet.Valid {
		e.ContextSnippet = snippet.String
	}
	e.CitationType = types.CitationType(citationType)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
