// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery generates literature-based-discovery hypotheses:
// plausible connections between two resources through shared
// intermediate resources (the ABC pattern).
// See docs/ARCHITECTURE § Discovery Engine.
package discovery

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/internal/traversal"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

var tracer = otel.Tracer("pharos.discovery")

const (
	// DefaultHopBound is how far each side reaches for bridges.
	DefaultHopBound = 1

	// DefaultLimit is the default hypothesis cap.
	DefaultLimit = 20

	// neighborCap bounds each side's neighbor expansion. The hop bound
	// is the primary latency bound; this cap only guards degenerate
	// hub-dominated graphs.
	neighborCap = 10000
)

// Default plausibility component weights.
const (
	DefaultStrengthWeight = 0.5
	DefaultNoveltyWeight  = 0.3
	DefaultNeighborWeight = 0.2
)

// Engine runs ABC discovery over the store.
type Engine struct {
	store *graphstore.Store
	cfg   types.DiscoveryConfig
}

// New returns a discovery engine. Zero config fields fall back to
// defaults.
func New(store *graphstore.Store, cfg types.DiscoveryConfig) *Engine {
	if cfg.HopBound <= 0 {
		cfg.HopBound = DefaultHopBound
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultLimit
	}
	if cfg.StrengthWeight <= 0 && cfg.NoveltyWeight <= 0 && cfg.NeighborWeight <= 0 {
		cfg.StrengthWeight = DefaultStrengthWeight
		cfg.NoveltyWeight = DefaultNoveltyWeight
		cfg.NeighborWeight = DefaultNeighborWeight
	}
	return &Engine{store: store, cfg: cfg}
}

// Request parameterizes one discovery run. A and C may each resolve to
// several resources; every (a, c) pair is considered.
type Request struct {
	AResourceIDs []string
	CResourceIDs []string

	// HopBound overrides the configured per-side hop bound when > 0.
	HopBound int

	// Limit caps the ranked hypothesis list. Zero uses the configured
	// default.
	Limit int

	// Window restricts discovery to edges created inside it, enabling
	// "findable by date X" backtesting.
	Window types.TimeWindow

	// Persist stores the surviving hypotheses.
	Persist bool
}

// Discover finds bridge resources between every (a, c) pair and returns
// ranked hypotheses. Empty endpoint sets and disjoint neighborhoods
// produce an empty list, never an error.
func (e *Engine) Discover(ctx context.Context, req Request) ([]types.DiscoveryHypothesis, error) {
	ctx, span := tracer.Start(ctx, "discovery.Discover",
		trace.WithAttributes(
			attribute.Int("a_count", len(req.AResourceIDs)),
			attribute.Int("c_count", len(req.CResourceIDs)),
		),
	)
	defer span.End()

	if len(req.AResourceIDs) == 0 || len(req.CResourceIDs) == 0 {
		return nil, nil
	}

	hopBound := req.HopBound
	if hopBound <= 0 {
		hopBound = e.cfg.HopBound
	}
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.MaxResults
	}
	if limit < 1 {
		return nil, fmt.Errorf("discovery limit must be >= 1, got %d", limit)
	}

	// Bridges connect regardless of citation direction, so the snapshot
	// is loaded bidirectionally.
	snapshot, err := traversal.LoadSnapshot(ctx, e.store, traversal.Both, req.Window)
	if err != nil {
		return nil, err
	}

	var hypotheses []types.DiscoveryHypothesis
	for _, a := range req.AResourceIDs {
		for _, c := range req.CResourceIDs {
			if a == c {
				continue
			}
			h, ok, err := e.hypothesize(ctx, snapshot, a, c, hopBound)
			if err != nil {
				return nil, err
			}
			if ok {
				hypotheses = append(hypotheses, h)
			}
		}
	}

	sort.SliceStable(hypotheses, func(i, j int) bool {
		if hypotheses[i].PlausibilityScore != hypotheses[j].PlausibilityScore {
			return hypotheses[i].PlausibilityScore > hypotheses[j].PlausibilityScore
		}
		if hypotheses[i].PathLength != hypotheses[j].PathLength {
			return hypotheses[i].PathLength < hypotheses[j].PathLength
		}
		if hypotheses[i].AResourceID != hypotheses[j].AResourceID {
			return hypotheses[i].AResourceID < hypotheses[j].AResourceID
		}
		return hypotheses[i].CResourceID < hypotheses[j].CResourceID
	})
	if len(hypotheses) > limit {
		hypotheses = hypotheses[:limit]
	}

	if req.Persist {
		for i, h := range hypotheses {
			stored, err := e.store.InsertHypothesis(ctx, h)
			if err != nil {
				return nil, err
			}
			hypotheses[i] = stored
		}
	}

	span.SetAttributes(attribute.Int("hypotheses", len(hypotheses)))
	return hypotheses, nil
}

// hypothesize intersects the neighborhoods of a and c into one
// hypothesis carrying every bridge. Returns ok=false when the
// neighborhoods are disjoint.
func (e *Engine) hypothesize(ctx context.Context, snapshot *traversal.Snapshot, a, c string, hopBound int) (types.DiscoveryHypothesis, bool, error) {
	na, err := neighborWeights(ctx, snapshot, a, hopBound)
	if err != nil {
		return types.DiscoveryHypothesis{}, false, err
	}
	nc, err := neighborWeights(ctx, snapshot, c, hopBound)
	if err != nil {
		return types.DiscoveryHypothesis{}, false, err
	}

	type bridge struct {
		id       string
		strength float64
	}
	var bridges []bridge
	for id, wa := range na {
		wc, shared := nc[id]
		if !shared || id == a || id == c {
			continue
		}
		// Bridge strength is the weaker of the two connecting edges.
		strength := wa
		if wc < strength {
			strength = wc
		}
		bridges = append(bridges, bridge{id: id, strength: strength})
	}
	if len(bridges) == 0 {
		return types.DiscoveryHypothesis{}, false, nil
	}

	sort.Slice(bridges, func(i, j int) bool {
		if bridges[i].strength != bridges[j].strength {
			return bridges[i].strength > bridges[j].strength
		}
		return bridges[i].id < bridges[j].id
	})

	pathStrength := 0.0
	bridgeIDs := make([]string, len(bridges))
	for i, b := range bridges {
		bridgeIDs[i] = b.id
		pathStrength += b.strength
	}

	validated, err := e.store.CountValidatedPair(ctx, a, c)
	if err != nil {
		return types.DiscoveryHypothesis{}, false, err
	}
	// Novelty decays as 1/(1+v) over validated hypotheses for the pair.
	novelty := 1.0 / float64(1+validated)

	common := len(bridges)
	plausibility := e.cfg.StrengthWeight*(pathStrength/(1+pathStrength)) +
		e.cfg.NoveltyWeight*novelty +
		e.cfg.NeighborWeight*(1-1/float64(1+common))

	return types.DiscoveryHypothesis{
		AResourceID:       a,
		CResourceID:       c,
		BResourceIDs:      bridgeIDs,
		HypothesisType:    types.HypothesisABC,
		PlausibilityScore: plausibility,
		PathStrength:      pathStrength,
		PathLength:        2 * hopBound,
		CommonNeighbors:   common,
	}, true, nil
}

// neighborWeights returns each neighbor of start within the hop bound
// mapped to the weight of the strongest edge that first reached it.
func neighborWeights(ctx context.Context, snapshot *traversal.Snapshot, start string, hopBound int) (map[string]float64, error) {
	result, err := snapshot.Traverse(ctx, traversal.Options{
		StartID: start,
		Hops:    hopBound,
		Limit:   neighborCap,
	})
	if err != nil {
		return nil, err
	}
	weights := make(map[string]float64, len(result.Neighbors))
	for _, n := range result.Neighbors {
		weights[n.ResourceID] = n.Weight
	}
	return weights, nil
}
