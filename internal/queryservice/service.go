// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queryservice composes the store, traversal engine, and
// ranker outputs into the citation queries exposed to the presentation
// layer. It performs no graph algorithms itself.
// See docs/ARCHITECTURE § Query Service.
package queryservice

import (
	"context"
	"fmt"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/internal/traversal"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// Direction selects which citation edges of a resource to return.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
	DirectionBoth     Direction = "both"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionOutbound, DirectionInbound, DirectionBoth:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("direction must be outbound, inbound, or both, got %q", s)
	}
}

// Service answers citation queries by composition.
type Service struct {
	store *graphstore.Store
}

// New returns a query service backed by the given store.
func New(store *graphstore.Store) *Service {
	return &Service{store: store}
}

// AnnotatedEdge is a citation edge with source and target titles
// attached for display.
type AnnotatedEdge struct {
	types.CitationEdge
	SourceTitle string `json:"source_title,omitempty"`
	TargetTitle string `json:"target_title,omitempty"`
}

// CitationCounts summarizes a partitioned citation set.
type CitationCounts struct {
	Outbound int `json:"outbound"`
	Inbound  int `json:"inbound"`
	Total    int `json:"total"`
}

// CitationsResult partitions a resource's citation edges by direction.
type CitationsResult struct {
	ResourceID string          `json:"resource_id"`
	Outbound   []AnnotatedEdge `json:"outbound,omitempty"`
	Inbound    []AnnotatedEdge `json:"inbound,omitempty"`
	Counts     CitationCounts  `json:"counts"`
}

// CitationsFor returns the citation edges touching a resource,
// partitioned by direction and annotated with resource titles. An
// unknown resource ID surfaces graphstore.ErrNotFound.
func (s *Service) CitationsFor(ctx context.Context, resourceID string, dir Direction) (CitationsResult, error) {
	if resourceID == "" {
		return CitationsResult{}, fmt.Errorf("resource id must not be empty")
	}
	if _, err := ParseDirection(string(dir)); err != nil {
		return CitationsResult{}, err
	}
	if _, err := s.store.GetResource(ctx, resourceID); err != nil {
		return CitationsResult{}, err
	}

	result := CitationsResult{ResourceID: resourceID}

	if dir == DirectionOutbound || dir == DirectionBoth {
		edges, err := s.store.ListCitationEdges(ctx, graphstore.CitationFilter{SourceResourceID: resourceID})
		if err != nil {
			return CitationsResult{}, err
		}
		result.Outbound, err = s.annotate(ctx, edges)
		if err != nil {
			return CitationsResult{}, err
		}
	}
	if dir == DirectionInbound || dir == DirectionBoth {
		edges, err := s.store.ListCitationEdges(ctx, graphstore.CitationFilter{TargetResourceID: resourceID})
		if err != nil {
			return CitationsResult{}, err
		}
		result.Inbound, err = s.annotate(ctx, edges)
		if err != nil {
			return CitationsResult{}, err
		}
	}

	result.Counts = CitationCounts{
		Outbound: len(result.Outbound),
		Inbound:  len(result.Inbound),
		Total:    len(result.Outbound) + len(result.Inbound),
	}
	return result, nil
}

// NetworkNode is a resource in a citation network result.
type NetworkNode struct {
	ID         string  `json:"id"`
	Title      string  `json:"title,omitempty"`
	Importance float64 `json:"importance"`
}

// NetworkResult is the deduplicated union of per-resource traversals.
type NetworkResult struct {
	Nodes []NetworkNode    `json:"nodes"`
	Edges []traversal.Edge `json:"edges"`
}

// networkNodeCap bounds each seed's expansion for response-time
// predictability.
const networkNodeCap = 200

// CitationNetwork unions bounded traversals around each requested
// resource, deduplicating nodes and edges. Citation edges whose stored
// importance falls below minImportance are dropped; graph edges carry
// no importance and always pass.
func (s *Service) CitationNetwork(ctx context.Context, resourceIDs []string, minImportance float64, depth int) (NetworkResult, error) {
	if len(resourceIDs) == 0 {
		return NetworkResult{}, fmt.Errorf("at least one resource id is required")
	}
	if depth < 1 || depth > 2 {
		return NetworkResult{}, fmt.Errorf("network depth must be 1 or 2, got %d", depth)
	}

	snapshot, err := traversal.LoadSnapshot(ctx, s.store, traversal.Both, types.TimeWindow{})
	if err != nil {
		return NetworkResult{}, err
	}

	// Importance is read off the stored citation edges (written by the
	// ranker), keyed by edge ID.
	resolved, err := s.store.ListCitationEdges(ctx, graphstore.CitationFilter{OnlyResolved: true})
	if err != nil {
		return NetworkResult{}, err
	}
	edgeImportance := make(map[string]float64, len(resolved))
	for _, e := range resolved {
		edgeImportance[e.ID] = e.ImportanceScore
	}

	nodeSet := make(map[string]bool)
	edgeSet := make(map[string]bool)
	var result NetworkResult

	addNode := func(id string) {
		if !nodeSet[id] {
			nodeSet[id] = true
			result.Nodes = append(result.Nodes, NetworkNode{ID: id})
		}
	}

	for _, id := range resourceIDs {
		addNode(id)
		tr, err := snapshot.Traverse(ctx, traversal.Options{
			StartID: id,
			Hops:    depth,
			Limit:   networkNodeCap,
		})
		if err != nil {
			return NetworkResult{}, err
		}
		for _, n := range tr.Neighbors {
			addNode(n.ResourceID)
		}
		for _, e := range tr.Edges {
			if imp, isCitation := edgeImportance[e.ID]; isCitation && imp < minImportance {
				continue
			}
			if !edgeSet[e.ID] {
				edgeSet[e.ID] = true
				result.Edges = append(result.Edges, e)
			}
		}
	}

	for i := range result.Nodes {
		title, err := s.store.ResourceTitles(ctx, []string{result.Nodes[i].ID})
		if err != nil {
			return NetworkResult{}, err
		}
		result.Nodes[i].Title = title[result.Nodes[i].ID]
		imp, err := s.store.GetImportance(ctx, result.Nodes[i].ID)
		if err != nil {
			return NetworkResult{}, err
		}
		result.Nodes[i].Importance = imp
	}

	return result, nil
}

const (
	// overviewCap bounds the global overview regardless of the
	// requested limit, so it never degenerates into a full-table scan.
	overviewCap = 100

	defaultOverviewLimit = 20
)

// GlobalOverview returns the top edges by importance score when no
// specific resources are requested. The requested limit is clamped to
// a fixed cap.
func (s *Service) GlobalOverview(ctx context.Context, limit int) ([]AnnotatedEdge, error) {
	if limit <= 0 {
		limit = defaultOverviewLimit
	}
	if limit > overviewCap {
		limit = overviewCap
	}
	edges, err := s.store.TopEdgesByImportance(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, edges)
}

// annotate attaches resource titles to citation edges.
func (s *Service) annotate(ctx context.Context, edges []types.CitationEdge) ([]AnnotatedEdge, error) {
	ids := make([]string, 0, len(edges)*2)
	for _, e := range edges {
		ids = append(ids, e.SourceResourceID)
		if e.TargetResourceID != "" {
			ids = append(ids, e.TargetResourceID)
		}
	}
	titles, err := s.store.ResourceTitles(ctx, ids)
	if err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedEdge, len(edges))
	for i, e := range edges {
		annotated[i] = AnnotatedEdge{
			CitationEdge: e,
			SourceTitle:  titles[e.SourceResourceID],
			TargetTitle:  titles[e.TargetResourceID],
		}
	}
	return annotated, nil
}
