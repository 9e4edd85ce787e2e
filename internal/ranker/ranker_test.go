// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

func edge(src, tgt string) types.CitationEdge {
	return types.CitationEdge{SourceResourceID: src, TargetResourceID: tgt}
}

func scoreSum(scores map[string]float64) float64 {
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum
}

func TestComputeEmptyGraph(t *testing.T) {
	result := Compute(nil, Options{})
	assert.True(t, result.Converged)
	assert.Empty(t, result.Scores)
}

func TestComputeChain(t *testing.T) {
	// 1 -> 2 -> 3. Node 3 is dangling; its score redistributes uniformly.
	// Fixed point for d = 0.85: b = (1-d)/(3-d-d^2-d^3), scores
	// b, b(1+d), b(1+d+d^2).
	result := Compute([]types.CitationEdge{edge("1", "2"), edge("2", "3")}, Options{})

	require.True(t, result.Converged, "chain must converge within default iteration cap")
	require.Len(t, result.Scores, 3)

	assert.InDelta(t, 0.18442, result.Scores["1"], 1e-4)
	assert.InDelta(t, 0.34117, result.Scores["2"], 1e-4)
	assert.InDelta(t, 0.47441, result.Scores["3"], 1e-4)

	assert.Greater(t, result.Scores["3"], result.Scores["2"])
	assert.Greater(t, result.Scores["2"], result.Scores["1"])
}

func TestComputeScoresSumToOne(t *testing.T) {
	edges := []types.CitationEdge{
		edge("a", "b"), edge("a", "c"), edge("b", "c"),
		edge("d", "a"), edge("c", "d"), edge("e", "a"),
	}
	result := Compute(edges, Options{})

	require.True(t, result.Converged)
	assert.InDelta(t, 1.0, scoreSum(result.Scores), 1e-4)
}

func TestComputeDanglingNodesDoNotLeakMass(t *testing.T) {
	// b and c have no outbound edges; without redistribution the sum
	// would decay toward (1-d).
	edges := []types.CitationEdge{edge("a", "b"), edge("a", "c")}
	result := Compute(edges, Options{})

	require.True(t, result.Converged)
	assert.InDelta(t, 1.0, scoreSum(result.Scores), 1e-4)
	assert.InDelta(t, result.Scores["b"], result.Scores["c"], 1e-9, "symmetric targets score equally")
}

func TestComputeIgnoresUnresolvedEdges(t *testing.T) {
	edges := []types.CitationEdge{
		edge("a", "b"),
		{SourceResourceID: "a", TargetURL: "https://example.com/unresolved"},
	}
	result := Compute(edges, Options{})

	require.Len(t, result.Scores, 2)
	_, ok := result.Scores["https://example.com/unresolved"]
	assert.False(t, ok)
}

func TestComputeIterationCap(t *testing.T) {
	// A 2-cycle with one iteration allowed cannot converge at the
	// default tolerance.
	edges := []types.CitationEdge{edge("a", "b"), edge("b", "a")}
	result := Compute(edges, Options{MaxIterations: 1, Tolerance: 1e-12})

	assert.False(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.InDelta(t, 1.0, scoreSum(result.Scores), 1e-4, "even partial results conserve mass")
}

func TestComputeDeterministic(t *testing.T) {
	edges := []types.CitationEdge{
		edge("a", "b"), edge("b", "c"), edge("c", "a"), edge("a", "c"),
	}
	first := Compute(edges, Options{})
	second := Compute(edges, Options{})
	require.Len(t, second.Scores, len(first.Scores))
	for id, score := range first.Scores {
		assert.InDelta(t, score, second.Scores[id], 1e-9, "node %s", id)
	}
}

func TestOptionsValidateDefaults(t *testing.T) {
	var opts Options
	opts.Validate()
	assert.Equal(t, DefaultDamping, opts.Damping)
	assert.Equal(t, DefaultMaxIterations, opts.MaxIterations)
	assert.Equal(t, DefaultTolerance, opts.Tolerance)

	opts = Options{Damping: 1.5, MaxIterations: -1, Tolerance: 0}
	opts.Validate()
	assert.Equal(t, DefaultDamping, opts.Damping)
	assert.Equal(t, DefaultMaxIterations, opts.MaxIterations)
	assert.Equal(t, DefaultTolerance, opts.Tolerance)
}

func TestRecomputeCommitsScores(t *testing.T) {
	store, err := graphstore.NewStore(types.StoreConfig{GraphDir: t.TempDir()})
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, store.UpsertResource(ctx, types.Resource{ID: id}))
	}
	_, err = store.InsertCitationEdge(ctx, edge("1", "2"))
	require.NoError(t, err)
	_, err = store.InsertCitationEdge(ctx, edge("2", "3"))
	require.NoError(t, err)

	result, err := NewService(store, Options{}).Recompute(ctx)
	require.NoError(t, err)
	require.True(t, result.Converged)

	imp, err := store.GetImportance(ctx, "3")
	require.NoError(t, err)
	assert.InDelta(t, result.Scores["3"], imp, 1e-9)

	// Denormalized onto the inbound edge as well.
	edges, err := store.ListCitationEdges(ctx, graphstore.CitationFilter{TargetResourceID: "3"})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.InDelta(t, result.Scores["3"], edges[0].ImportanceScore, 1e-9)
}
