// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// Summary holds counts from a resolution sweep. Ambiguous counts edges
// that matched more than one resource and were resolved to the most
// recently created one; they are included in Resolved as well.
type Summary struct {
	Resolved   int
	Unresolved int
	Ambiguous  int
	Malformed  int
}

// Total returns the number of unresolved edges examined.
func (s Summary) Total() int {
	return s.Resolved + s.Unresolved + s.Malformed
}

// Resolver matches unresolved citation edges against known resources.
type Resolver struct {
	store *graphstore.Store
}

// New returns a Resolver backed by the given store.
func New(store *graphstore.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveAll sweeps every unresolved citation edge, matching its target
// URL against resource identifiers by normalized comparison. Unique
// matches fill target_resource_id and keep target_url. Ambiguous
// matches resolve to the most recently created resource and are counted
// as warnings. Malformed targets are skipped and counted, never raised.
// The sweep is idempotent and updates edges row by row, so it is safe
// to run concurrently with ingestion.
func (r *Resolver) ResolveAll(ctx context.Context, w io.Writer) (Summary, error) {
	index, err := r.buildIndex(ctx)
	if err != nil {
		return Summary{}, err
	}

	edges, err := r.store.ListCitationEdges(ctx, graphstore.CitationFilter{OnlyUnresolved: true})
	if err != nil {
		return Summary{}, fmt.Errorf("listing unresolved edges: %w", err)
	}

	var summary Summary
	for _, edge := range edges {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		key, err := Normalize(edge.TargetURL)
		if err != nil {
			summary.Malformed++
			continue
		}

		candidates := index[key]
		switch len(candidates) {
		case 0:
			summary.Unresolved++
		case 1:
			if err := r.store.MarkResolved(ctx, edge.ID, candidates[0].ID); err != nil {
				return summary, err
			}
			summary.Resolved++
		default:
			// Most recently created resource wins; deterministic because
			// the index is sorted by creation time descending then ID.
			winner := candidates[0]
			if err := r.store.MarkResolved(ctx, edge.ID, winner.ID); err != nil {
				return summary, err
			}
			fmt.Fprintf(w, "warning %s: %d resources match %q, picked %s\n",
				edge.ID, len(candidates), edge.TargetURL, winner.ID)
			summary.Resolved++
			summary.Ambiguous++
		}
	}

	fmt.Fprintf(w, "resolved: %d, unresolved: %d, ambiguous: %d, malformed: %d\n",
		summary.Resolved, summary.Unresolved, summary.Ambiguous, summary.Malformed)

	slog.Debug("resolution sweep completed",
		slog.Int("examined", summary.Total()),
		slog.Int("resolved", summary.Resolved),
		slog.Int("ambiguous", summary.Ambiguous),
	)

	return summary, nil
}

// buildIndex maps each resource's normalized identifier to the
// resources carrying it, most recently created first.
func (r *Resolver) buildIndex(ctx context.Context) (map[string][]types.Resource, error) {
	resources, err := r.store.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}

	index := make(map[string][]types.Resource)
	for _, res := range resources {
		if res.Identifier == "" {
			continue
		}
		key, err := Normalize(res.Identifier)
		if err != nil {
			slog.Debug("skipping resource with unnormalizable identifier",
				slog.String("resource_id", res.ID),
				slog.String("identifier", res.Identifier),
			)
			continue
		}
		index[key] = append(index[key], res)
	}

	for key := range index {
		candidates := index[key]
		sort.Slice(candidates, func(i, j int) bool {
			if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
				return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
			}
			return candidates[i].ID < candidates[j].ID
		})
	}

	return index, nil
}
