// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationCandidate is a raw citation record produced by the external
// extraction subsystem, before resolution. Either TargetResourceID or
// TargetURL must be present.
type CitationCandidate struct {
	// TargetResourceID is set when extraction already knows the internal
	// target (e.g. a self-reference within the corpus).
	TargetResourceID string `json:"target_resource_id,omitempty" yaml:"target_resource_id,omitempty"`

	// TargetURL is the raw citation target string.
	TargetURL string `json:"target_url,omitempty" yaml:"target_url,omitempty"`

	// CitationType classifies the citation; defaults to "reference".
	CitationType CitationType `json:"citation_type,omitempty" yaml:"citation_type,omitempty"`

	// ContextSnippet is the surrounding text where the citation appears.
	ContextSnippet string `json:"context_snippet,omitempty" yaml:"context_snippet,omitempty"`

	// Position is the ordinal of the citation within the source document.
	Position int `json:"position" yaml:"position"`
}

// GraphEdgeCandidate is a raw non-citation relation record from the
// extraction subsystem.
type GraphEdgeCandidate struct {
	TargetID     string            `json:"target_id" yaml:"target_id"`
	EdgeType     string            `json:"edge_type" yaml:"edge_type"`
	Weight       float64           `json:"weight" yaml:"weight"`
	Confidence   float64           `json:"confidence" yaml:"confidence"`
	EdgeMetadata map[string]string `json:"edge_metadata,omitempty" yaml:"edge_metadata,omitempty"`
	CreatedBy    string            `json:"created_by,omitempty" yaml:"created_by,omitempty"`
}

// CandidateSet is the per-resource ingestion unit read from
// graph/candidates/[resource]-citations.yaml: the resource itself plus
// every citation and relation extracted from its document.
type CandidateSet struct {
	Resource   Resource             `json:"resource" yaml:"resource"`
	Citations  []CitationCandidate  `json:"citations" yaml:"citations"`
	GraphEdges []GraphEdgeCandidate `json:"graph_edges,omitempty" yaml:"graph_edges,omitempty"`

	// Error records an extraction failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
