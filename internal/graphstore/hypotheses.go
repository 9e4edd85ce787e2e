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

// InsertHypothesis persists a discovery hypothesis. A missing ID is
// assigned a UUID; DiscoveredAt defaults to now.
func (s *Store) InsertHypothesis(ctx context.Context, h types.DiscoveryHypothesis) (types.DiscoveryHypothesis, error) {
	if h.AResourceID == "" || h.CResourceID == "" {
		return h, fmt.Errorf("hypothesis endpoints must not be empty")
	}
	if len(h.BResourceIDs) == 0 {
		return h, fmt.Errorf("hypothesis bridge set must not be empty")
	}
	for _, b := range h.BResourceIDs {
		if b == h.AResourceID || b == h.CResourceID {
			return h, fmt.Errorf("hypothesis bridge %s overlaps an endpoint", b)
		}
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.DiscoveredAt.IsZero() {
		h.DiscoveredAt = time.Now()
	}

	bridgesJSON, err := json.Marshal(h.BResourceIDs)
	if err != nil {
		return h, fmt.Errorf("marshaling bridge set: %w", err)
	}

	validated := 0
	if h.IsValidated {
		validated = 1
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO hypotheses
			(id, a_resource_id, c_resource_id, b_resource_ids, hypothesis_type,
			 plausibility_score, path_strength, path_length, common_neighbors,
			 discovered_at, is_validated, validation_notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.AResourceID, h.CResourceID, string(bridgesJSON), string(h.HypothesisType),
		h.PlausibilityScore, h.PathStrength, h.PathLength, h.CommonNeighbors,
		formatTime(h.DiscoveredAt), validated, nullable(h.ValidationNotes),
	)
	if err != nil {
		return h, fmt.Errorf("inserting hypothesis: %w", err)
	}
	return h, nil
}

// GetHypothesis looks up a hypothesis by ID.
func (s *Store) GetHypothesis(ctx context.Context, id string) (types.DiscoveryHypothesis, error) {
	row := s.db.QueryRowContext(ctx, hypothesisSelect+` WHERE id = ?`, id)
	h, err := scanHypothesis(row)
	if err == sql.ErrNoRows {
		return types.DiscoveryHypothesis{}, fmt.Errorf("hypothesis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.DiscoveryHypothesis{}, fmt.Errorf("looking up hypothesis %s: %w", id, err)
	}
	return h, nil
}

// ListHypotheses returns hypotheses ordered by plausibility descending,
// then path length ascending. Zero limit returns all.
func (s *Store) ListHypotheses(ctx context.Context, limit int) ([]types.DiscoveryHypothesis, error) {
	query := hypothesisSelect + ` ORDER BY plausibility_score DESC, path_length ASC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing hypotheses: %w", err)
	}
	defer rows.Close()

	var hypotheses []types.DiscoveryHypothesis
	for rows.Next() {
		h, err := scanHypothesis(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning hypothesis: %w", err)
		}
		hypotheses = append(hypotheses, h)
	}
	return hypotheses, rows.Err()
}

// ValidateHypothesis marks a hypothesis as human-reviewed with optional
// notes. Validated hypotheses lower the novelty of future hypotheses
// for the same resource pair.
func (s *Store) ValidateHypothesis(ctx context.Context, id, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE hypotheses SET is_validated = 1, validation_notes = ? WHERE id = ?`,
		nullable(notes), id)
	if err != nil {
		return fmt.Errorf("validating hypothesis %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("hypothesis %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountValidatedPair returns how many validated hypotheses already
// connect the unordered pair (a, c).
func (s *Store) CountValidatedPair(ctx context.Context, a, c string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM hypotheses
		 WHERE is_validated = 1
		   AND ((a_resource_id = ? AND c_resource_id = ?)
		     OR (a_resource_id = ? AND c_resource_id = ?))`,
		a, c, c, a).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting validated hypotheses for (%s, %s): %w", a, c, err)
	}
	return count, nil
}

const hypothesisSelect = `SELECT id, a_resource_id, c_resource_id, b_resource_ids,
	hypothesis_type, plausibility_score, path_strength, path_length,
	common_neighbors, discovered_at, is_validated, validation_notes
	FROM hypotheses`

func scanHypothesis(row rowScanner) (types.DiscoveryHypothesis, error) {
	var (
		h            types.DiscoveryHypothesis
		bridgesJSON  string
		hypType      string
		discoveredAt string
		validated    int
		notes        sql.NullString
	)
	err := row.Scan(&h.ID, &h.AResourceID, &h.CResourceID, &bridgesJSON,
		&hypType, &h.PlausibilityScore, &h.PathStrength, &h.PathLength,
		&h.CommonNeighbors, &discoveredAt, &validated, &notes)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal([]byte(bridgesJSON), &h.BResourceIDs); err != nil {
		return h, fmt.Errorf("unmarshaling bridge set: %w", err)
	}
	h.HypothesisType = types.HypothesisType(hypType)
	h.DiscoveredAt = parseTime(discoveredAt)
	h.IsValidated = validated != 0
	if notes.Valid {
		h.ValidationNotes = notes.String
	}
	return h, nil
}
