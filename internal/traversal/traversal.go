// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package traversal

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pharos.traversal")

// Options configures a traversal query.
type Options struct {
	// StartID is the resource to expand from.
	StartID string

	// Hops is the maximum traversal depth. Must be >= 1.
	Hops int

	// EdgeKinds is an allow-list of edge kinds (citation types and
	// graph edge types). Empty admits every kind.
	EdgeKinds []string

	// MinWeight excludes edges below this weight from consideration
	// entirely, not just from output. Must be >= 0.
	MinWeight float64

	// Limit caps the total number of neighbors found. Must be >= 1.
	Limit int

	// IncludePaths requests the distinct shortest path to each
	// neighbor in the result.
	IncludePaths bool
}

// Validate rejects malformed input before any graph access, naming the
// violated constraint.
func (o Options) Validate() error {
	if o.StartID == "" {
		return fmt.Errorf("traversal start resource id must not be empty")
	}
	if o.Hops < 1 {
		return fmt.Errorf("traversal hops must be >= 1, got %d", o.Hops)
	}
	if o.Limit < 1 {
		return fmt.Errorf("traversal limit must be >= 1, got %d", o.Limit)
	}
	if o.MinWeight < 0 {
		return fmt.Errorf("traversal min weight must be >= 0, got %v", o.MinWeight)
	}
	return nil
}

// Neighbor is a resource reached by a traversal, at its shortest
// discovered distance, with the edge that first reached it.
type Neighbor struct {
	ResourceID string  `json:"resource_id"`
	Distance   int     `json:"distance"`
	Weight     float64 `json:"weight"`
	EdgeID     string  `json:"edge_id"`
}

// Result holds the outcome of a traversal: deduplicated neighbors
// sorted by (distance asc, weight desc, id asc), the edges used to
// reach them, and optionally the path to each neighbor.
type Result struct {
	Neighbors []Neighbor `json:"neighbors"`
	Edges     []Edge     `json:"edges"`
	Paths     [][]string `json:"paths,omitempty"`
}

// Traverse runs a breadth-first expansion from the start resource.
// A visited set guarantees each resource appears once at its shortest
// distance even in cyclic graphs. Expansion at each node is ordered by
// edge weight descending then neighbor ID ascending, so results are
// deterministic under the limit cut-off. An unknown start resource
// yields an empty result, not an error.
func (s *Snapshot) Traverse(ctx context.Context, opts Options) (Result, error) {
	_, span := tracer.Start(ctx, "traversal.Traverse",
		trace.WithAttributes(
			attribute.String("start_id", opts.StartID),
			attribute.Int("hops", opts.Hops),
			attribute.Int("limit", opts.Limit),
		),
	)
	defer span.End()

	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	var result Result
	if !s.Contains(opts.StartID) {
		return result, nil
	}

	allowed := make(map[string]bool, len(opts.EdgeKinds))
	for _, k := range opts.EdgeKinds {
		allowed[k] = true
	}

	visited := map[string]int{opts.StartID: 0}
	parent := map[string]string{}
	frontier := []string{opts.StartID}

	for depth := 1; depth <= opts.Hops && len(frontier) > 0 && len(result.Neighbors) < opts.Limit; depth++ {
		var nextFrontier []string

		for _, current := range frontier {
			if len(result.Neighbors) >= opts.Limit {
				break
			}

			hops := append([]hop(nil), s.adjacency[current]...)
			sort.Slice(hops, func(i, j int) bool {
				if hops[i].edge.Weight != hops[j].edge.Weight {
					return hops[i].edge.Weight > hops[j].edge.Weight
				}
				return hops[i].to < hops[j].to
			})

			for _, h := range hops {
				if h.edge.Weight < opts.MinWeight {
					continue
				}
				if len(allowed) > 0 && !allowed[h.edge.Kind] {
					continue
				}
				if _, seen := visited[h.to]; seen {
					continue
				}
				if len(result.Neighbors) >= opts.Limit {
					break
				}

				visited[h.to] = depth
				parent[h.to] = current
				nextFrontier = append(nextFrontier, h.to)
				result.Neighbors = append(result.Neighbors, Neighbor{
					ResourceID: h.to,
					Distance:   depth,
					Weight:     h.edge.Weight,
					EdgeID:     h.edge.ID,
				})
				result.Edges = append(result.Edges, h.edge)
			}
		}

		frontier = nextFrontier
	}

	sort.SliceStable(result.Neighbors, func(i, j int) bool {
		if result.Neighbors[i].Distance != result.Neighbors[j].Distance {
			return result.Neighbors[i].Distance < result.Neighbors[j].Distance
		}
		if result.Neighbors[i].Weight != result.Neighbors[j].Weight {
			return result.Neighbors[i].Weight > result.Neighbors[j].Weight
		}
		return result.Neighbors[i].ResourceID < result.Neighbors[j].ResourceID
	})

	if opts.IncludePaths {
		result.Paths = make([][]string, len(result.Neighbors))
		for i, n := range result.Neighbors {
			result.Paths[i] = buildPath(parent, opts.StartID, n.ResourceID)
		}
	}

	span.SetAttributes(attribute.Int("neighbors", len(result.Neighbors)))
	return result, nil
}

// buildPath walks the parent chain back from target to start and
// reverses it into start-to-target order.
func buildPath(parent map[string]string, start, target string) []string {
	var reversed []string
	for id := target; ; {
		reversed = append(reversed, id)
		if id == start {
			break
		}
		id = parent[id]
	}
	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}
