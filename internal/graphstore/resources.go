// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// UpsertResource inserts or updates a resource record.
func (s *Store) UpsertResource(ctx context.Context, r types.Resource) error {
	if r.ID == "" {
		return fmt.Errorf("resource id must not be empty")
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources (id, title, identifier, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, identifier=excluded.identifier`,
		r.ID, r.Title, r.Identifier, formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("upserting resource %s: %w", r.ID, err)
	}
	return nil
}

// GetResource looks up a resource by ID. Returns ErrNotFound for an
// unknown ID.
func (s *Store) GetResource(ctx context.Context, id string) (types.Resource, error) {
	var (
		r          types.Resource
		identifier sql.NullString
		createdAt  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, identifier, created_at FROM resources WHERE id = ?`, id,
	).Scan(&r.ID, &r.Title, &identifier, &createdAt)
	if err == sql.ErrNoRows {
		return types.Resource{}, fmt.Errorf("resource %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Resource{}, fmt.Errorf("looking up resource %s: %w", id, err)
	}
	if identifier.Valid {
		r.Identifier = identifier.String
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// ListResources returns all resources ordered by ID.
func (s *Store) ListResources(ctx context.Context) ([]types.Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, identifier, created_at FROM resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var resources []types.Resource
	for rows.Next() {
		var (
			r          types.Resource
			identifier sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&r.ID, &r.Title, &identifier, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		if identifier.Valid {
			r.Identifier = identifier.String
		}
		r.CreatedAt = parseTime(createdAt)
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// ResourceTitles returns a map of resource ID to title for the given
// IDs. Missing IDs are simply absent from the map.
func (s *Store) ResourceTitles(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string, len(ids))
	for _, id := range ids {
		if _, ok := titles[id]; ok {
			continue
		}
		var title string
		err := s.db.QueryRowContext(ctx,
			`SELECT title FROM resources WHERE id = ?`, id).Scan(&title)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("looking up title for %s: %w", id, err)
		}
		titles[id] = title
	}
	return titles, nil
}
