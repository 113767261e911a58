package evaluation

import "math"

// Performance level bands, checked in descending order; a boundary belongs to the higher band.
const (
	ExcellentThreshold        = 90.0
	GoodThreshold             = 75.0
	SatisfactoryThreshold     = 60.0
	NeedsImprovementThreshold = 45.0
)

// Performance level labels.
const (
	LevelExcellent        = "Excellent"
	LevelGood             = "Good"
	LevelSatisfactory     = "Satisfactory"
	LevelNeedsImprovement = "Needs Improvement"
	LevelPoor             = "Poor"
)

// InterviewMetrics aggregates the scored answers of one interview.
// The zero value means there was nothing to aggregate.
type InterviewMetrics struct {
	AverageTechnical     float64 `json:"average_technical"`
	AverageCommunication float64 `json:"average_communication"`
	AverageConfidence    float64 `json:"average_confidence"`
	AverageOverall       float64 `json:"average_overall"`
	TotalQuestions       int     `json:"total_questions"`
	PerformanceLevel     string  `json:"performance_level,omitempty"`
}

// IsEmpty reports whether the metrics were computed from zero evaluations.
func (m InterviewMetrics) IsEmpty() bool {
	return m.TotalQuestions == 0
}

// Aggregate averages each dimension and the overall score, rounded to 2 decimals.
// An empty input returns the zero InterviewMetrics.
func Aggregate(evals []AnswerEvaluation) InterviewMetrics {
	if len(evals) == 0 {
		return InterviewMetrics{}
	}
	var technical, communication, confidence, overall float64
	for _, e := range evals {
		technical += e.TechnicalScore
		communication += e.CommunicationScore
		confidence += e.ConfidenceScore
		overall += e.OverallScore
	}
	n := float64(len(evals))
	return InterviewMetrics{
		AverageTechnical:     round2(technical / n),
		AverageCommunication: round2(communication / n),
		AverageConfidence:    round2(confidence / n),
		AverageOverall:       round2(overall / n),
		TotalQuestions:       len(evals),
		PerformanceLevel:     PerformanceLevel(overall / n),
	}
}

// PerformanceLevel maps an average overall score to its label.
func PerformanceLevel(score float64) string {
	switch {
	case score >= ExcellentThreshold:
		return LevelExcellent
	case score >= GoodThreshold:
		return LevelGood
	case score >= SatisfactoryThreshold:
		return LevelSatisfactory
	case score >= NeedsImprovementThreshold:
		return LevelNeedsImprovement
	default:
		return LevelPoor
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
