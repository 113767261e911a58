package roles

import (
	"time"

	"interview-backend/internal/evaluation"
)

// QuestionResponse is the outward-facing representation of a role question.
type QuestionResponse struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Topic          string   `json:"topic,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	ExpectedPoints []string `json:"expectedPoints"`
}

// RoleResponse is the outward-facing representation of a role.
type RoleResponse struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Weights     evaluation.ResolvedWeights `json:"weights"`
	Questions   []QuestionResponse         `json:"questions"`
	CreatedAt   time.Time                  `json:"createdAt"`
}

func toResponse(role Role) RoleResponse {
	qs := make([]QuestionResponse, 0, len(role.Questions))
	for _, q := range role.Questions {
		points := q.ExpectedPoints
		if points == nil {
			points = []string{}
		}
		qs = append(qs, QuestionResponse{
			ID:             q.ID,
			Question:       q.Question,
			Topic:          q.Topic,
			Difficulty:     q.Difficulty,
			ExpectedPoints: points,
		})
	}
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Weights:     role.Weights.Resolve(),
		Questions:   qs,
		CreatedAt:   role.CreatedAt,
	}
}
