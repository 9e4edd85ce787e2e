package types

// StoreConfig holds settings for the graph store.
type StoreConfig struct {
	// GraphDir is the base directory for graph data (contains
	// candidates/, index/).
	GraphDir string `json:"graph_dir" yaml:"graph_dir"`
}

// RankerConfig holds settings for the importance ranker.
type RankerConfig struct {
	// Damping is the probability of following a citation versus jumping
	// to a uniformly random resource (default 0.85).
	Damping float64 `json:"damping" yaml:"damping"`

	// MaxIterations caps the power iteration loop (default 100).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Tolerance is the L1 convergence threshold (default 1e-6).
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// TraversalConfig holds defaults for graph traversal queries.
type TraversalConfig struct {
	// MaxHops is the default hop bound (default 2).
	MaxHops int `json:"max_hops" yaml:"max_hops"`

	// MaxResults is the default result limit (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DiscoveryConfig holds settings for the discovery engine.
type DiscoveryConfig struct {
	// HopBound is how far each side may reach for bridges (default 1).
	HopBound int `json:"hop_bound" yaml:"hop_bound"`

	// MaxResults is the default hypothesis limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// StrengthWeight, NoveltyWeight, and NeighborWeight combine the
	// plausibility components; they should sum to 1.
	StrengthWeight float64 `json:"strength_weight" yaml:"strength_weight"`
	NoveltyWeight  float64 `json:"novelty_weight" yaml:"novelty_weight"`
	NeighborWeight float64 `json:"neighbor_weight" yaml:"neighbor_weight"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Ranker    RankerConfig    `json:"ranker" yaml:"ranker"`
	Traversal TraversalConfig `json:"traversal" yaml:"traversal"`
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
}
