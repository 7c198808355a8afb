package askdoc

// RetrievalMode selects which searches a retrieval runs.
type RetrievalMode string

// Supported retrieval modes.
const (
	ModeHybrid RetrievalMode = "hybrid"
	ModeVector RetrievalMode = "vector"
	ModeText   RetrievalMode = "text"
)

// Default retrieval configuration values.
const (
	DefaultConfidenceThreshold = 0.7
	DefaultAlpha               = 0.5
	DefaultMMRStrength         = 0.7
	DefaultLimit               = 15
)

// RetrievalConfig configures a single retrieval call. The zero value
// is not valid; use DefaultRetrievalConfig or set fields explicitly
// and call Validate before use.
type RetrievalConfig struct {
	// Mode selects hybrid, pure vector, or pure text search.
	Mode RetrievalMode `json:"mode"`

	// ConfidenceThreshold is the minimum vector similarity for a
	// candidate to be eligible at all. A hard filter, not a ranking
	// weight.
	ConfidenceThreshold float64 `json:"confidenceThreshold"`

	// Alpha weights the vector score against the text score:
	// combined = alpha*vector + (1-alpha)*text. Alpha 1 degenerates
	// to pure vector ranking, 0 to pure text.
	Alpha float64 `json:"alpha"`

	// MMRStrength trades relevance against diversity during re-ranking.
	// 1 disables the diversity penalty entirely.
	MMRStrength float64 `json:"mmrStrength"`

	// Limit is the maximum number of results returned.
	Limit int `json:"limit"`
}

// DefaultRetrievalConfig returns the configuration used when the
// caller supplies nothing.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		Mode:                ModeHybrid,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		Alpha:               DefaultAlpha,
		MMRStrength:         DefaultMMRStrength,
		Limit:               DefaultLimit,
	}
}

// Validate returns EINVALID for out-of-range fields. Configuration
// errors are fatal at call time, before any search runs.
func (c *RetrievalConfig) Validate() error {
	switch c.Mode {
	case ModeHybrid, ModeVector, ModeText:
	default:
		return Errorf(EINVALID, "unknown retrieval mode %q", c.Mode)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return Errorf(EINVALID, "confidence threshold must be in [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return Errorf(EINVALID, "alpha must be in [0,1], got %v", c.Alpha)
	}
	if c.MMRStrength < 0 || c.MMRStrength > 1 {
		return Errorf(EINVALID, "mmr strength must be in [0,1], got %v", c.MMRStrength)
	}
	if c.Limit <= 0 {
		return Errorf(EINVALID, "limit must be positive, got %d", c.Limit)
	}
	return nil
}

// RetrievalResult is one ranked retrieval hit. Results are ephemeral,
// produced per query, never persisted.
type RetrievalResult struct {
	Chunk         *Chunk  `json:"chunk"`
	VectorScore   float64 `json:"vectorScore"`
	TextScore     float64 `json:"textScore"`
	CombinedScore float64 `json:"combinedScore"`
	Rank          int     `json:"rank"` // 1-based selection order
}
