// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package traversal answers bounded-depth neighbor and path queries
// over an in-memory snapshot of the citation graph.
// See docs/ARCHITECTURE § Traversal Engine.
package traversal

import (
	"context"
	"fmt"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// Direction selects which edge orientations a traversal follows.
type Direction int

const (
	// Outbound follows edges from source to target.
	Outbound Direction = iota
	// Inbound follows edges from target to source.
	Inbound
	// Both treats every edge as bidirectional.
	Both
)

// Edge is the queryable-edge view shared by citation and graph edges.
// Citation edges carry weight 1.0 and their citation type as the kind;
// graph edges carry their own weight and edge type.
type Edge struct {
	ID       string  `json:"id"`
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Kind     string  `json:"kind"`
	Weight   float64 `json:"weight"`
}

// hop is one adjacency entry: the neighbor reached and the edge used.
type hop struct {
	to   string
	edge Edge
}

// Snapshot is an immutable adjacency index over the edge set as of load
// time. Queries against a snapshot never see concurrent store writes.
type Snapshot struct {
	adjacency map[string][]hop
	nodes     map[string]bool
}

// LoadSnapshot reads resolved citation edges and graph edges from the
// store and builds an adjacency index in the given direction. A
// non-zero window restricts the snapshot to edges created inside it.
func LoadSnapshot(ctx context.Context, store *graphstore.Store, dir Direction, window types.TimeWindow) (*Snapshot, error) {
	citations, err := store.ListCitationEdges(ctx, graphstore.CitationFilter{OnlyResolved: true})
	if err != nil {
		return nil, fmt.Errorf("loading citation edges: %w", err)
	}
	graphEdges, err := store.ListGraphEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading graph edges: %w", err)
	}

	s := &Snapshot{
		adjacency: make(map[string][]hop),
		nodes:     make(map[string]bool),
	}

	for _, c := range citations {
		if !window.IsZero() && !window.Contains(c.CreatedAt) {
			continue
		}
		s.add(dir, Edge{
			ID:       c.ID,
			SourceID: c.SourceResourceID,
			TargetID: c.TargetResourceID,
			Kind:     string(c.CitationType),
			Weight:   1.0,
		})
	}
	for _, g := range graphEdges {
		if !window.IsZero() && !window.Contains(g.CreatedAt) {
			continue
		}
		s.add(dir, Edge{
			ID:       g.ID,
			SourceID: g.SourceID,
			TargetID: g.TargetID,
			Kind:     g.EdgeType,
			Weight:   g.Weight,
		})
	}

	return s, nil
}

func (s *Snapshot) add(dir Direction, e Edge) {
	s.nodes[e.SourceID] = true
	s.nodes[e.TargetID] = true
	if dir == Outbound || dir == Both {
		s.adjacency[e.SourceID] = append(s.adjacency[e.SourceID], hop{to: e.TargetID, edge: e})
	}
	if dir == Inbound || dir == Both {
		s.adjacency[e.TargetID] = append(s.adjacency[e.TargetID], hop{to: e.SourceID, edge: e})
	}
}

// Contains reports whether the snapshot has any edge touching the
// resource.
func (s *Snapshot) Contains(resourceID string) bool {
	return s.nodes[resourceID]
}
