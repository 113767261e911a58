package parse

import (
	"fmt"
	"strings"
)

// Question is one generated interview question. Resume generation names the points
// "expected_answer_points"; round generation names them "expected_points". Both decode here.
type Question struct {
	Question             string   `json:"question"`
	ExpectedAnswerPoints []string `json:"expected_answer_points,omitempty"`
	ExpectedPoints       []string `json:"expected_points,omitempty"`
}

// Points returns whichever expected-points field the oracle filled.
func (q Question) Points() []string {
	if len(q.ExpectedAnswerPoints) > 0 {
		return q.ExpectedAnswerPoints
	}
	return q.ExpectedPoints
}

// QuestionSet is the envelope both generation prompts ask for.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// RequiredPoints is the number of expected-answer points every generated question carries.
const RequiredPoints = 3

// ValidateQuestionSet checks the question count, that every question has text and,
// when requirePoints is set, exactly RequiredPoints non-empty expected points.
func ValidateQuestionSet(set QuestionSet, count int, requirePoints bool) error {
	if set.Questions == nil {
		return &ValidationError{Field: "questions", Reason: "missing questions array"}
	}
	if len(set.Questions) != count {
		return &ValidationError{Field: "questions", Reason: fmt.Sprintf("expected exactly %d questions, got %d", count, len(set.Questions))}
	}
	for i, q := range set.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Question) == "" {
			return &ValidationError{Field: field + ".question", Reason: "question text is required"}
		}
		if !requirePoints {
			continue
		}
		points := q.Points()
		if len(points) != RequiredPoints {
			return &ValidationError{Field: field + ".expected_answer_points", Reason: fmt.Sprintf("expected exactly %d points, got %d", RequiredPoints, len(points))}
		}
		for j, p := range points {
			if strings.TrimSpace(p) == "" {
				return &ValidationError{Field: fmt.Sprintf("%s.expected_answer_points[%d]", field, j), Reason: "point is empty"}
			}
		}
	}
	return nil
}
