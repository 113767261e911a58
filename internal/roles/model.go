package roles

import (
	"strings"
	"time"

	"interview-backend/internal/evaluation"
)

// Role is an interview role defined by an owner. Its resources are the owner's catalog.
type Role struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	// Weights is the role's default scoring configuration; unset dimensions use system defaults.
	Weights   evaluation.Weights
	Questions []Question
	CreatedAt time.Time
}

// Question is a stored question belonging to a role.
type Question struct {
	ID             string
	RoleID         string
	Question       string
	Topic          string
	Difficulty     string
	ExpectedPoints []string
}

// SharedOwnerID owns roles and resources that every user may interview against.
const SharedOwnerID = "shared"

// VisibleTo reports whether userID may start an interview for the role.
func (r Role) VisibleTo(userID string) bool {
	return r.OwnerID == userID || r.OwnerID == SharedOwnerID
}

// QuestionsFor returns the questions matching difficulty. Questions with no difficulty
// match every level, and an empty difficulty matches everything.
func (r Role) QuestionsFor(difficulty string) []Question {
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	out := make([]Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		if difficulty == "" || q.Difficulty == "" || strings.EqualFold(q.Difficulty, difficulty) {
			out = append(out, q)
		}
	}
	return out
}
