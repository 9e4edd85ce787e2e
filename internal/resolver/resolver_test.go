// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

func newTestStore(t *testing.T) *graphstore.Store {
	t.Helper()
	store, err := graphstore.NewStore(types.StoreConfig{GraphDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResolveAllMatchesNormalizedIdentifiers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertResource(ctx, types.Resource{
		ID: "src", Title: "Source Paper",
	}))
	require.NoError(t, store.UpsertResource(ctx, types.Resource{
		ID: "target", Title: "Target Paper", Identifier: "https://example.com/x",
	}))

	edge, err := store.InsertCitationEdge(ctx, types.CitationEdge{
		SourceResourceID: "src", TargetURL: "https://EXAMPLE.com/x/",
	})
	require.NoError(t, err)

	summary, err := New(store).ResolveAll(ctx, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 0, summary.Unresolved)
	assert.Equal(t, 0, summary.Ambiguous)

	got, err := store.GetCitationEdge(ctx, edge.ID)
	require.NoError(t, err)
	assert.Equal(t, "target", got.TargetResourceID)
	assert.Equal(t, "https://EXAMPLE.com/x/", got.TargetURL, "original target URL is preserved")
}

func TestResolveAllIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertResource(ctx, types.Resource{
		ID: "src", Title: "Source Paper",
	}))
	require.NoError(t, store.UpsertResource(ctx, types.Resource{
		ID: "2301.07041", Title: "Target Paper", Identifier: "arXiv:2301.07041",
	}))
	_, err := store.InsertCitationEdge(ctx, types.CitationEdge{
		SourceResourceID: "src", TargetURL: "https://arxiv.org/abs/2301.07041",
	})
	require.NoError(t, err)

	first, err := New(store).ResolveAll(ctx, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Resolved)

	// A second sweep finds no unresolved edges and changes nothing.
	second, err := New(store).ResolveAll(ctx, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, second)
}

func TestResolveAllAmbiguityPicksNewestResource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertResource(ctx, types.Resource{
		ID: "old-copy", Identifier: "https://example.com/x", CreatedAt: older,
	}))
	require.NoError(t, store.UpsertResource(ctx, types.Resource{
		ID: "new-copy", Identifier: "https://example.com/x/", CreatedAt: newer,
	}))
	require.NoError(t, store.UpsertResource(ctx, types.Resource{ID: "src"}))

	edge, err := store.InsertCitationEdge(ctx, types.CitationEdge{
		SourceResourceID: "src", TargetURL: "http://EXAMPLE.com/x",
	})
	require.NoError(t, err)

	var out strings.Builder
	summary, err := New(store).ResolveAll(ctx, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 1, summary.Ambiguous)
	assert.Contains(t, out.String(), "warning")

	got, err := store.GetCitationEdge(ctx, edge.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-copy", got.TargetResourceID)
}

func TestResolveAllCountsMalformedAndUnmatched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertResource(ctx, types.Resource{ID: "src"}))
	_, err := store.InsertCitationEdge(ctx, types.CitationEdge{
		SourceResourceID: "src", TargetURL: "not a url at all",
	})
	require.NoError(t, err)
	_, err = store.InsertCitationEdge(ctx, types.CitationEdge{
		SourceResourceID: "src", TargetURL: "https://nowhere.example.org/paper",
	})
	require.NoError(t, err)

	summary, err := New(store).ResolveAll(ctx, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Malformed)
	assert.Equal(t, 1, summary.Unresolved)
	assert.Equal(t, 0, summary.Resolved)
	assert.Equal(t, 2, summary.Total())
}
