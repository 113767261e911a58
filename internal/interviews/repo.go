package interviews

import (
	"context"
	"time"

	"interview-backend/internal/evaluation"
)

// InterviewsRepo defines persistence operations for interviews and their results.
type InterviewsRepo interface {
	Create(ctx context.Context, iv Interview, questions []Question) error
	Get(ctx context.Context, userID, interviewID string) (Interview, error)
	ListByUser(ctx context.Context, userID string) ([]Interview, error)

	Questions(ctx context.Context, interviewID string) ([]Question, error)
	GetQuestion(ctx context.Context, interviewID, questionID string) (Question, error)
	SaveAnswer(ctx context.Context, interviewID, questionID, answer string, ev evaluation.AnswerEvaluation, answeredAt time.Time) error
	// AddFollowUp stores followUp after the last question and marks its parent as having
	// one, atomically. It returns the question as stored.
	AddFollowUp(ctx context.Context, followUp Question) (Question, error)

	// SaveCompletion stores metrics and plan and marks the interview completed, atomically.
	SaveCompletion(ctx context.Context, metrics MetricsRecord, plan PlanRecord, completedAt time.Time) error
	SaveLearningPath(ctx context.Context, rec LearningPathRecord) error

	// CreateRounds inserts a multi-round interview and its pending rounds, atomically.
	CreateRounds(ctx context.Context, iv Interview, rounds []Round) error
	Rounds(ctx context.Context, interviewID string) ([]Round, error)
	GetRound(ctx context.Context, interviewID, roundID string) (Round, error)
	// StartRound stores the round's questions after the interview's last question and
	// marks the round in progress, atomically. It returns the questions as stored.
	StartRound(ctx context.Context, interviewID, roundID string, questions []Question, startedAt time.Time) ([]Question, error)
	CompleteRound(ctx context.Context, interviewID, roundID string, score float64, completedAt time.Time) error

	LatestMetrics(ctx context.Context, interviewID string) (MetricsRecord, error)
	LatestPlan(ctx context.Context, interviewID string) (PlanRecord, error)
	LatestLearningPath(ctx context.Context, interviewID string) (LearningPathRecord, error)
}
