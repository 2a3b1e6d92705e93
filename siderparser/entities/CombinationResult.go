package entities

// CombinationResult is the score record for one (anchor, candidate) pair.
// Field names and the 0-100 scale are part of the export contract and must
// stay stable for CSV round-trips.
type CombinationResult struct {
	Drug              string   `json:"drug"`
	RiskScore         float64  `json:"risk_score"`
	SeverityScore     float64  `json:"severity_score"`
	CombinedScore     float64  `json:"combined_score"`
	CommonSideEffects []string `json:"common_side_effects"`
}

// CandidateFailure records a candidate that could not be scored. Failed
// candidates are excluded from the ranking instead of aborting the whole
// run.
type CandidateFailure struct {
	Drug   string `json:"drug"`
	Reason string `json:"reason"`
}

// Ranking is the full result of one combination sweep: every scored
// candidate ordered ascending by combined score (safest first), plus the
// candidates that failed to score.
type Ranking struct {
	Anchor   string              `json:"anchor"`
	Results  []CombinationResult `json:"results"`
	Failures []CandidateFailure  `json:"failures,omitempty"`
}
