package config

import "time"

// ScoringConfig holds the tunable constants of the relevance composite.
// Factor weights feed a weighted mean over fired factors; with equal weights
// this reduces to the plain arithmetic mean. None of these values are part
// of the scoring contract and all may change at runtime via the dynamic
// config watcher.
type ScoringConfig struct {
	// Factor weights
	FocusWeight     float64
	KeywordWeight   float64
	TypeMatchWeight float64
	RecencyWeight   float64
	ProximityWeight float64

	// ProximityRange is the hop distance at which the structural proximity
	// signal reaches zero. Decay is linear: 1 - distance/range.
	ProximityRange int

	// RecencyHalfLife controls the exponential decay of the recency factor
	RecencyHalfLife time.Duration

	// Path scoring
	PathNodeWeight float64
	PathEdgeWeight float64

	// Traversal weighting. Edge cost shrinks as endpoint relevance grows
	// but never drops below MinTraversalCost.
	BaseTraversalCost float64
	MinTraversalCost  float64

	// Default query bounds
	DefaultMaxSubgraphNodes     int
	DefaultRelevanceThreshold   float64
	DefaultNeighborhoodDistance int
	DefaultNeighborhoodNodes    int
	DefaultMaxPaths             int
	DefaultMaxPathLength        int
	DefaultMaxTaskEntities      int
}

// DefaultScoringConfig returns the default scoring configuration
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		FocusWeight:     1.0,
		KeywordWeight:   1.0,
		TypeMatchWeight: 1.0,
		RecencyWeight:   1.0,
		ProximityWeight: 1.0,

		ProximityRange:  2,
		RecencyHalfLife: 7 * 24 * time.Hour,

		PathNodeWeight: 0.7,
		PathEdgeWeight: 0.3,

		BaseTraversalCost: 1.0,
		MinTraversalCost:  0.1,

		DefaultMaxSubgraphNodes:     50,
		DefaultRelevanceThreshold:   0.3,
		DefaultNeighborhoodDistance: 2,
		DefaultNeighborhoodNodes:    30,
		DefaultMaxPaths:             3,
		DefaultMaxPathLength:        4,
		DefaultMaxTaskEntities:      20,
	}
}

// DaysToHalfLife converts a day count to a recency half-life duration
func DaysToHalfLife(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

// Clone returns an independent copy of the configuration
func (c *ScoringConfig) Clone() *ScoringConfig {
	clone := *c
	return &clone
}
