package graphstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{GraphDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustUpsertResource(t *testing.T, store *Store, id, title, identifier string) {
	t.Helper()
	err := store.UpsertResource(context.Background(), types.Resource{
		ID: id, Title: title, Identifier: identifier,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func mustInsertCitation(t *testing.T, store *Store, e types.CitationEdge) types.CitationEdge {
	t.Helper()
	stored, err := store.InsertCitationEdge(context.Background(), e)
	if err != nil {
		t.Fatal(err)
	}
	return stored
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testStore(t)

	tables := []string{"resources", "citation_edges", "graph_edges", "importance_scores", "hypotheses", "ingest_status"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

// --- resource tests ---

func TestResourceRoundTrip(t *testing.T) {
	store := testStore(t)
	mustUpsertResource(t, store, "2301.07041", "Efficient Attention", "https://arxiv.org/abs/2301.07041")

	r, err := store.GetResource(context.Background(), "2301.07041")
	if err != nil {
		t.Fatal(err)
	}
	if r.Title != "Efficient Attention" {
		t.Errorf("Title = %q, want %q", r.Title, "Efficient Attention")
	}
	if r.Identifier != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("Identifier = %q", r.Identifier)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetResourceNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetResource(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertResourcePreservesCreatedAt(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := store.UpsertResource(ctx, types.Resource{ID: "r1", Title: "First", CreatedAt: created}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertResource(ctx, types.Resource{ID: "r1", Title: "Renamed"}); err != nil {
		t.Fatal(err)
	}

	r, err := store.GetResource(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if r.Title != "Renamed" {
		t.Errorf("Title = %q, want %q", r.Title, "Renamed")
	}
	if !r.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, created)
	}
}

// --- citation edge tests ---

func TestInsertCitationEdgeRequiresExactlyOneTarget(t *testing.T) {
	store := testStore(t)
	mustUpsertResource(t, store, "r1", "Paper A", "")
	ctx := context.Background()

	tests := []struct {
		name    string
		edge    types.CitationEdge
		wantErr bool
	}{
		{"url only", types.CitationEdge{SourceResourceID: "r1", TargetURL: "https://example.com/x"}, false},
		{"resolved only", types.CitationEdge{SourceResourceID: "r1", TargetResourceID: "r1"}, false},
		{"neither", types.CitationEdge{SourceResourceID: "r1"}, true},
		{"both", types.CitationEdge{SourceResourceID: "r1", TargetResourceID: "r1", TargetURL: "https://example.com"}, true},
		{"no source", types.CitationEdge{TargetURL: "https://example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.InsertCitationEdge(ctx, tt.edge)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarkResolvedKeepsTargetURL(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	mustUpsertResource(t, store, "r1", "Paper A", "")
	mustUpsertResource(t, store, "r2", "Paper B", "")

	edge := mustInsertCitation(t, store, types.CitationEdge{
		SourceResourceID: "r1", TargetURL: "https://example.com/b",
	})

	if err := store.MarkResolved(ctx, edge.ID, "r2"); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetCitationEdge(ctx, edge.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TargetResourceID != "r2" {
		t.Errorf("TargetResourceID = %q, want r2", got.TargetResourceID)
	}
	if got.TargetURL != "https://example.com/b" {
		t.Errorf("TargetURL = %q, want original preserved", got.TargetURL)
	}
}

func TestMarkResolvedUnknownEdge(t *testing.T) {
	store := testStore(t)

	err := store.MarkResolved(context.Background(), "missing", "r1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListCitationEdgesFilters(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	mustUpsertResource(t, store, "r1", "Paper A", "")
	mustUpsertResource(t, store, "r2", "Paper B", "")

	mustInsertCitation(t, store, types.CitationEdge{SourceResourceID: "r1", TargetResourceID: "r2"})
	mustInsertCitation(t, store, types.CitationEdge{SourceResourceID: "r1", TargetURL: "https://example.com/unknown"})
	mustInsertCitation(t, store, types.CitationEdge{SourceResourceID: "r2", TargetResourceID: "r1"})

	unresolved, err := store.ListCitationEdges(ctx, CitationFilter{OnlyUnresolved: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(unresolved) != 1 {
		t.Errorf("unresolved = %d, want 1", len(unresolved))
	}

	resolved, err := store.ListCitationEdges(ctx, CitationFilter{OnlyResolved: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved) != 2 {
		t.Errorf("resolved = %d, want 2", len(resolved))
	}

	bySource, err := store.ListCitationEdges(ctx, CitationFilter{SourceResourceID: "r1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySource) != 2 {
		t.Errorf("by source = %d, want 2", len(bySource))
	}

	byTarget, err := store.ListCitationEdges(ctx, CitationFilter{TargetResourceID: "r2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byTarget) != 1 {
		t.Errorf("by target = %d, want 1", len(byTarget))
	}
}

// --- importance commit tests ---

func TestCommitImportanceScoresDenormalizes(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	mustUpsertResource(t, store, "r1", "Paper A", "")
	mustUpsertResource(t, store, "r2", "Paper B", "")

	edge := mustInsertCitation(t, store, types.CitationEdge{SourceResourceID: "r1", TargetResourceID: "r2"})

	scores := map[string]float64{"r1": 0.25, "r2": 0.75}
	if err := store.CommitImportanceScores(ctx, scores, true); err != nil {
		t.Fatal(err)
	}

	imp, err := store.GetImportance(ctx, "r2")
	if err != nil {
		t.Fatal(err)
	}
	if imp != 0.75 {
		t.Errorf("GetImportance(r2) = %v, want 0.75", imp)
	}

	got, err := store.GetCitationEdge(ctx, edge.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ImportanceScore != 0.75 {
		t.Errorf("edge ImportanceScore = %v, want the target's score 0.75", got.ImportanceScore)
	}
}

func TestCommitImportanceScoresReplacesPreviousRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	mustUpsertResource(t, store, "r1", "Paper A", "")

	if err := store.CommitImportanceScores(ctx, map[string]float64{"r1": 0.5, "gone": 0.5}, true); err != nil {
		t.Fatal(err)
	}
	if err := store.CommitImportanceScores(ctx, map[string]float64{"r1": 1.0}, true); err != nil {
		t.Fatal(err)
	}

	imp, err := store.GetImportance(ctx, "gone")
	if err != nil {
		t.Fatal(err)
	}
	if imp != 0 {
		t.Errorf("stale score survived commit: %v", imp)
	}
}

func TestGetImportanceUnrankedResourceIsZero(t *testing.T) {
	store := testStore(t)

	imp, err := store.GetImportance(context.Background(), "never-ranked")
	if err != nil {
		t.Fatal(err)
	}
	if imp != 0 {
		t.Errorf("imp = %v, want 0", imp)
	}
}

// --- graph edge tests ---

func TestInsertGraphEdgeValidation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	mustUpsertResource(t, store, "r1", "Paper A", "")
	mustUpsertResource(t, store, "r2", "Paper B", "")

	tests := []struct {
		name    string
		edge    types.GraphEdge
		wantErr bool
	}{
		{"valid", types.GraphEdge{SourceID: "r1", TargetID: "r2", EdgeType: "co_authorship", Weight: 0.5, Confidence: 0.9}, false},
		{"self-loop", types.GraphEdge{SourceID: "r1", TargetID: "r1", EdgeType: "similarity"}, true},
		{"negative weight", types.GraphEdge{SourceID: "r1", TargetID: "r2", EdgeType: "similarity", Weight: -1}, true},
		{"confidence out of range", types.GraphEdge{SourceID: "r1", TargetID: "r2", EdgeType: "similarity", Confidence: 1.5}, true},
		{"missing type", types.GraphEdge{SourceID: "r1", TargetID: "r2"}, true},
		{"unknown metadata key", types.GraphEdge{SourceID: "r1", TargetID: "r2", EdgeType: "similarity",
			EdgeMetadata: map[string]string{"nonsense": "x"}}, true},
		{"known metadata key", types.GraphEdge{SourceID: "r1", TargetID: "r2", EdgeType: "similarity",
			EdgeMetadata: map[string]string{"method": "cosine"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.InsertGraphEdge(ctx, tt.edge)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphEdgeDefaultWeightAndRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	mustUpsertResource(t, store, "r1", "Paper A", "")
	mustUpsertResource(t, store, "r2", "Paper B", "")

	_, err := store.InsertGraphEdge(ctx, types.GraphEdge{
		SourceID: "r1", TargetID: "r2", EdgeType: "co_authorship",
		Confidence:   0.8,
		EdgeMetadata: map[string]string{"source": "orcid"},
		CreatedBy:    "ingestion",
	})
	if err != nil {
		t.Fatal(err)
	}

	edges, err := store.ListGraphEdges(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	e := edges[0]
	if e.Weight != 1.0 {
		t.Errorf("Weight = %v, want default 1.0", e.Weight)
	}
	if e.EdgeMetadata["source"] != "orcid" {
		t.Errorf("EdgeMetadata = %v", e.EdgeMetadata)
	}
	if e.CreatedBy != "ingestion" {
		t.Errorf("CreatedBy = %q", e.CreatedBy)
	}
}

// --- hypothesis tests ---

func TestHypothesisRoundTripAndValidation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	h, err := store.InsertHypothesis(ctx, types.DiscoveryHypothesis{
		AResourceID: "r1", CResourceID: "r3", BResourceIDs: []string{"r2"},
		HypothesisType: types.HypothesisABC, PlausibilityScore: 0.7,
		PathStrength: 1.0, PathLength: 2, CommonNeighbors: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.ValidateHypothesis(ctx, h.ID, "checked against corpus"); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetHypothesis(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsValidated {
		t.Error("IsValidated = false after validation")
	}
	if got.ValidationNotes != "checked against corpus" {
		t.Errorf("ValidationNotes = %q", got.ValidationNotes)
	}
	if len(got.BResourceIDs) != 1 || got.BResourceIDs[0] != "r2" {
		t.Errorf("BResourceIDs = %v", got.BResourceIDs)
	}

	count, err := store.CountValidatedPair(ctx, "r3", "r1") // unordered
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("CountValidatedPair = %d, want 1", count)
	}
}

func TestInsertHypothesisRejectsBridgeOverlap(t *testing.T) {
	store := testStore(t)

	_, err := store.InsertHypothesis(context.Background(), types.DiscoveryHypothesis{
		AResourceID: "r1", CResourceID: "r3", BResourceIDs: []string{"r1"},
	})
	if err == nil {
		t.Error("expected error for bridge overlapping endpoint A")
	}

	_, err = store.InsertHypothesis(context.Background(), types.DiscoveryHypothesis{
		AResourceID: "r1", CResourceID: "r3", BResourceIDs: nil,
	})
	if err == nil {
		t.Error("expected error for empty bridge set")
	}
}
