package evaluation

import (
	"math"
	"testing"
)

func TestAggregateEmpty(t *testing.T) {
	m := Aggregate(nil)
	if !m.IsEmpty() {
		t.Fatalf("expected empty metrics, got %+v", m)
	}
	for _, v := range []float64{m.AverageTechnical, m.AverageCommunication, m.AverageConfidence, m.AverageOverall} {
		if math.IsNaN(v) {
			t.Fatalf("empty aggregate produced NaN: %+v", m)
		}
	}
	if m.PerformanceLevel != "" {
		t.Fatalf("expected no performance level for empty input, got %q", m.PerformanceLevel)
	}
}

func TestAggregateAverages(t *testing.T) {
	m := Aggregate([]AnswerEvaluation{
		{TechnicalScore: 80, CommunicationScore: 60, ConfidenceScore: 70, OverallScore: 72},
		{TechnicalScore: 90, CommunicationScore: 70, ConfidenceScore: 80, OverallScore: 81.5},
		{TechnicalScore: 70, CommunicationScore: 65, ConfidenceScore: 61, OverallScore: 66},
	})
	want := InterviewMetrics{
		AverageTechnical:     80,
		AverageCommunication: 65,
		AverageConfidence:    70.33,
		AverageOverall:       73.17,
		TotalQuestions:       3,
		PerformanceLevel:     LevelSatisfactory,
	}
	if m != want {
		t.Fatalf("Aggregate = %+v, want %+v", m, want)
	}
}

func TestPerformanceLevelBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, LevelExcellent},
		{90, LevelExcellent},
		{89.99, LevelGood},
		{75, LevelGood},
		{74.99, LevelSatisfactory},
		{60, LevelSatisfactory},
		{59.99, LevelNeedsImprovement},
		{45, LevelNeedsImprovement},
		{44.99, LevelPoor},
		{0, LevelPoor},
	}
	for _, tt := range tests {
		if got := PerformanceLevel(tt.score); got != tt.want {
			t.Fatalf("PerformanceLevel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestPerformanceLevelMonotonic(t *testing.T) {
	rank := map[string]int{LevelPoor: 0, LevelNeedsImprovement: 1, LevelSatisfactory: 2, LevelGood: 3, LevelExcellent: 4}
	prev := -1
	for s := 0.0; s <= 100; s += 0.25 {
		r := rank[PerformanceLevel(s)]
		if r < prev {
			t.Fatalf("performance level decreased at %v", s)
		}
		prev = r
	}
}
