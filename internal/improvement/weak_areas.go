package improvement

import "interview-backend/internal/evaluation"

// Weak area thresholds on a dimension's interview average.
const (
	WeakAreaThreshold     = 70.0
	HighSeverityThreshold = 50.0
)

// Severity labels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Dimensions, in the fixed order weak areas are reported.
const (
	DimensionTechnical     = "technical"
	DimensionCommunication = "communication"
	DimensionConfidence    = "confidence"
)

// Area labels shown to the candidate.
const (
	AreaTechnical     = "Technical Knowledge"
	AreaCommunication = "Communication Skills"
	AreaConfidence    = "Confidence & Fluency"
)

// WeakArea is a dimension whose interview average fell below WeakAreaThreshold.
type WeakArea struct {
	Area      string  `json:"area"`
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Severity  string  `json:"severity"`
}

// IdentifyWeakAreas returns at most one weak area per dimension, always ordered
// technical, communication, confidence.
func IdentifyWeakAreas(m evaluation.InterviewMetrics) []WeakArea {
	candidates := []WeakArea{
		{Area: AreaTechnical, Dimension: DimensionTechnical, Score: m.AverageTechnical},
		{Area: AreaCommunication, Dimension: DimensionCommunication, Score: m.AverageCommunication},
		{Area: AreaConfidence, Dimension: DimensionConfidence, Score: m.AverageConfidence},
	}
	out := []WeakArea{}
	for _, wa := range candidates {
		if wa.Score >= WeakAreaThreshold {
			continue
		}
		wa.Severity = SeverityMedium
		if wa.Score < HighSeverityThreshold {
			wa.Severity = SeverityHigh
		}
		out = append(out, wa)
	}
	return out
}
