package improvement

import (
	"fmt"
	"strings"

	"interview-backend/internal/evaluation"
)

// Framing sentences that open the practice plan.
const (
	PracticeFramingWeak = "Follow this plan to strengthen your weak areas."
	PracticeFramingNone = "Continue regular practice with mock interviews to maintain your skill level."
)

var practicePhases = []string{
	"**Week 1-2: Foundation Building**",
	"- Study core concepts in your weak areas (1 hour daily)",
	"- Watch educational videos and take notes",
	"- Complete practice exercises",
	"\n**Week 3-4: Active Practice**",
	"- Practice answering interview questions (30 min daily)",
	"- Record yourself and review for improvement",
	"- Participate in mock interviews with peers",
	"\n**Ongoing:**",
	"- Join study groups or online communities",
	"- Read industry blogs and articles",
	"- Build projects to apply your knowledge",
}

// PracticePlan renders the three-phase schedule. Only the framing sentence depends on
// whether any weak areas were found.
func PracticePlan(weak []WeakArea) string {
	framing := PracticeFramingWeak
	if len(weak) == 0 {
		framing = PracticeFramingNone
	}
	return framing + "\n\n" + strings.Join(practicePhases, "\n")
}

// Recommendation bands on the average overall score.
const (
	RecommendExcellentThreshold    = 85.0
	RecommendGoodThreshold         = 70.0
	RecommendSatisfactoryThreshold = 55.0
)

// OverallRecommendation returns the banded summary sentence for the interview.
func OverallRecommendation(m evaluation.InterviewMetrics) string {
	level := m.PerformanceLevel
	if level == "" {
		level = "Unknown"
	}
	switch score := m.AverageOverall; {
	case score >= RecommendExcellentThreshold:
		return fmt.Sprintf("Excellent performance (%s)! You're well-prepared for interviews. Focus on maintaining this level and staying updated with industry trends.", level)
	case score >= RecommendGoodThreshold:
		return fmt.Sprintf("Good performance (%s)! You have a solid foundation. Work on the identified weak areas to reach the next level.", level)
	case score >= RecommendSatisfactoryThreshold:
		return fmt.Sprintf("Satisfactory performance (%s). You have potential but need focused improvement in key areas. Follow the practice plan diligently.", level)
	default:
		return fmt.Sprintf("Your performance needs improvement (%s). Don't be discouraged! Focus on building strong fundamentals and practice consistently.", level)
	}
}
