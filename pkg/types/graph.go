// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the citation graph:
// resources, citation edges, generic graph edges, discovery hypotheses,
// and per-stage configuration.
package types

import "time"

// CitationType categorizes how a source resource cites a target.
type CitationType string

const (
	CitationReference CitationType = "reference"
	CitationFootnote  CitationType = "footnote"
	CitationRelated   CitationType = "related"
)

// Resource is a node in the citation graph. Resources are owned by the
// ingestion subsystem; the graph core reads them by ID and never mutates
// them beyond insertion at ingest time.
type Resource struct {
	// ID is an opaque unique identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the resource title.
	Title string `json:"title" yaml:"title"`

	// Identifier is an optional external identifier or URL
	// (e.g. a DOI, an arXiv ID, or the canonical source URL).
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	// CreatedAt is when the resource entered the corpus. Used as the
	// deterministic tie-break when resolution finds multiple matches.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// CitationEdge is a directed edge recording "source cites target". The
// target is either resolved (TargetResourceID set) or raw (TargetURL
// set); exactly one must hold at creation. Resolution fills
// TargetResourceID and keeps TargetURL for audit and re-resolution.
type CitationEdge struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id" yaml:"id"`

	// SourceResourceID is the citing resource. Always set.
	SourceResourceID string `json:"source_resource_id" yaml:"source_resource_id"`

	// TargetResourceID is the cited resource once resolved. Empty means
	// the citation has not been matched to an internal resource yet.
	TargetResourceID string `json:"target_resource_id,omitempty" yaml:"target_resource_id,omitempty"`

	// TargetURL is the raw citation target as extracted. Always present
	// when TargetResourceID is empty; retained after resolution.
	TargetURL string `json:"target_url,omitempty" yaml:"target_url,omitempty"`

	// CitationType classifies the citation: reference, footnote, related.
	CitationType CitationType `json:"citation_type" yaml:"citation_type"`

	// ContextSnippet is the surrounding text where the citation appears.
	ContextSnippet string `json:"context_snippet,omitempty" yaml:"context_snippet,omitempty"`

	// Position is the ordinal of the citation within the source document.
	Position int `json:"position" yaml:"position"`

	// ImportanceScore is the target resource's global importance,
	// denormalized onto the edge. Written only by the importance ranker.
	ImportanceScore float64 `json:"importance_score" yaml:"importance_score"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Resolved reports whether the edge's target has been matched to an
// internal resource.
func (e CitationEdge) Resolved() bool {
	return e.TargetResourceID != ""
}

// GraphEdge is a typed non-citation relation between two resources
// (co-authorship, subject similarity, and the like).
type GraphEdge struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id" yaml:"id"`

	// SourceID and TargetID reference resources. Self-loops are rejected
	// at creation.
	SourceID string `json:"source_id" yaml:"source_id"`
	TargetID string `json:"target_id" yaml:"target_id"`

	// EdgeType names the relation (e.g. "co_authorship", "similarity").
	EdgeType string `json:"edge_type" yaml:"edge_type"`

	// Weight is the relation strength. Must be >= 0; defaults to 1.0.
	Weight float64 `json:"weight" yaml:"weight"`

	// Confidence is the extraction certainty in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// EdgeMetadata is an opaque string key/value bag validated at the
	// boundary against a closed key set.
	EdgeMetadata map[string]string `json:"edge_metadata,omitempty" yaml:"edge_metadata,omitempty"`

	// CreatedBy identifies the subsystem that produced the edge.
	CreatedBy string `json:"created_by,omitempty" yaml:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// edgeMetadataKeys is the closed set of accepted EdgeMetadata keys.
var edgeMetadataKeys = map[string]bool{
	"source":    true,
	"method":    true,
	"dataset":   true,
	"note":      true,
	"extractor": true,
}

// ValidEdgeMetadataKey reports whether key is in the closed metadata
// key set accepted at the ingestion boundary.
func ValidEdgeMetadataKey(key string) bool {
	return edgeMetadataKeys[key]
}
