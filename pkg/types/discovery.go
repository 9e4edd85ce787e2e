// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HypothesisType categorizes a discovery hypothesis by how it was found.
type HypothesisType string

const (
	// HypothesisABC is the classic literature-based-discovery pattern:
	// A and C are never directly connected but share bridge resources B.
	HypothesisABC HypothesisType = "abc"
)

// DiscoveryHypothesis is a scored candidate connection between two
// resources through one or more unobserved intermediates.
type DiscoveryHypothesis struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id" yaml:"id"`

	// AResourceID and CResourceID are the endpoint resources.
	AResourceID string `json:"a_resource_id" yaml:"a_resource_id"`
	CResourceID string `json:"c_resource_id" yaml:"c_resource_id"`

	// BResourceIDs are the bridge resources, ordered by descending
	// bridge strength. Non-empty and disjoint from {A, C}.
	BResourceIDs []string `json:"b_resource_ids" yaml:"b_resource_ids"`

	// HypothesisType names the discovery pattern that produced this.
	HypothesisType HypothesisType `json:"hypothesis_type" yaml:"hypothesis_type"`

	// PlausibilityScore combines path strength, novelty, and bridge
	// count. Higher is more plausible.
	PlausibilityScore float64 `json:"plausibility_score" yaml:"plausibility_score"`

	// PathStrength is the sum over bridges of the weaker of the two
	// edge weights along A-B and B-C.
	PathStrength float64 `json:"path_strength" yaml:"path_strength"`

	// PathLength is the number of hops from A through a bridge to C.
	PathLength int `json:"path_length" yaml:"path_length"`

	// CommonNeighbors counts the independent bridges.
	CommonNeighbors int `json:"common_neighbors" yaml:"common_neighbors"`

	DiscoveredAt time.Time `json:"discovered_at" yaml:"discovered_at"`

	// IsValidated is set by a human reviewer; validated hypotheses
	// reduce the novelty of future hypotheses for the same pair.
	IsValidated     bool   `json:"is_validated" yaml:"is_validated"`
	ValidationNotes string `json:"validation_notes,omitempty" yaml:"validation_notes,omitempty"`
}
