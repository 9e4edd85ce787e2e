// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranker computes a global importance score per resource from
// the resolved citation graph using power-iteration PageRank.
// See docs/ARCHITECTURE § Importance Ranker.
package ranker

import (
	"context"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

var tracer = otel.Tracer("pharos.ranker")

const (
	// DefaultDamping is the probability of following a citation versus
	// jumping to a uniformly random resource. Standard value from the
	// original PageRank paper.
	DefaultDamping = 0.85

	// DefaultMaxIterations caps the power iteration loop so pathological
	// graphs have bounded runtime.
	DefaultMaxIterations = 100

	// DefaultTolerance is the L1 convergence threshold: iteration stops
	// once the summed absolute score change falls below it.
	DefaultTolerance = 1e-6
)

// Options configures the PageRank computation.
type Options struct {
	Damping       float64
	MaxIterations int
	Tolerance     float64
}

// Validate applies defaults for out-of-range values.
func (o *Options) Validate() {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
}

// OptionsFromConfig builds Options from a RankerConfig, falling back to
// defaults for unset fields.
func OptionsFromConfig(cfg types.RankerConfig) Options {
	opts := Options{
		Damping:       cfg.Damping,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
	}
	opts.Validate()
	return opts
}

// Result holds the output of a PageRank computation. Scores sum to
// approximately 1 across all scored resources.
type Result struct {
	// Scores maps resource ID to importance in [0, 1].
	Scores map[string]float64

	// Iterations is the number of power iterations performed.
	Iterations int

	// Converged reports whether the L1 delta fell below the tolerance
	// before the iteration cap. A false value is not fatal: the
	// best-effort scores are still usable, and committed.
	Converged bool

	// Delta is the final L1 difference between iterations.
	Delta float64
}

// Compute runs power-iteration PageRank over the resolved citation
// edges. Edge A→B means "A cites B", so importance flows to cited
// resources. Dangling resources (no resolved outbound citations)
// redistribute their score uniformly instead of losing it, which keeps
// the score sum at 1 across iterations. Pure function: no store access,
// no shared state.
func Compute(edges []types.CitationEdge, opts Options) Result {
	opts.Validate()

	// Node set: every resource on either end of a resolved edge.
	outbound := make(map[string][]string)
	nodes := make(map[string]bool)
	for _, e := range edges {
		if !e.Resolved() {
			continue
		}
		nodes[e.SourceResourceID] = true
		nodes[e.TargetResourceID] = true
		outbound[e.SourceResourceID] = append(outbound[e.SourceResourceID], e.TargetResourceID)
	}

	n := float64(len(nodes))
	if n == 0 {
		return Result{Scores: map[string]float64{}, Converged: true}
	}

	d := opts.Damping
	scores := make(map[string]float64, len(nodes))
	next := make(map[string]float64, len(nodes))
	for id := range nodes {
		scores[id] = 1 / n
	}

	var dangling []string
	for id := range nodes {
		if len(outbound[id]) == 0 {
			dangling = append(dangling, id)
		}
	}

	result := Result{}
	for iter := 0; iter < opts.MaxIterations; iter++ {
		danglingSum := 0.0
		for _, id := range dangling {
			danglingSum += scores[id]
		}

		base := (1-d)/n + d*danglingSum/n
		for id := range nodes {
			next[id] = base
		}
		for src, targets := range outbound {
			share := d * scores[src] / float64(len(targets))
			for _, tgt := range targets {
				next[tgt] += share
			}
		}

		delta := 0.0
		for id := range nodes {
			delta += math.Abs(next[id] - scores[id])
		}
		scores, next = next, scores

		result.Iterations = iter + 1
		result.Delta = delta
		if delta < opts.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Scores = scores
	return result
}

// Service recomputes importance over the store and commits the result.
type Service struct {
	store *graphstore.Store
	opts  Options
}

// NewService returns a ranking service backed by the given store.
func NewService(store *graphstore.Store, opts Options) *Service {
	opts.Validate()
	return &Service{store: store, opts: opts}
}

// Recompute loads the resolved edge set, computes importance fully in
// memory, and commits the score map atomically. A non-converged result
// is still committed; callers inspect Result.Converged to decide
// whether to re-run with different parameters.
func (s *Service) Recompute(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "ranker.Recompute")
	defer span.End()

	edges, err := s.store.ListCitationEdges(ctx, graphstore.CitationFilter{OnlyResolved: true})
	if err != nil {
		return Result{}, err
	}

	result := Compute(edges, s.opts)

	span.SetAttributes(
		attribute.Int("edge_count", len(edges)),
		attribute.Int("node_count", len(result.Scores)),
		attribute.Int("iterations", result.Iterations),
		attribute.Bool("converged", result.Converged),
	)

	if err := s.store.CommitImportanceScores(ctx, result.Scores, result.Converged); err != nil {
		return result, err
	}

	slog.Debug("importance recompute committed",
		slog.Int("nodes", len(result.Scores)),
		slog.Int("iterations", result.Iterations),
		slog.Bool("converged", result.Converged),
		slog.Float64("delta", result.Delta),
	)

	return result, nil
}
