package interviews

import (
	"time"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/improvement"
)

// Interview statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Interview sources.
const (
	SourceResume = "resume"
	SourceRole   = "role"
	SourceRounds = "rounds"
)

// Round statuses.
const (
	RoundPending    = "pending"
	RoundInProgress = "in_progress"
	RoundCompleted  = "completed"
)

// RoundTimeLimitSeconds is the answer window for a question asked in a round.
const RoundTimeLimitSeconds = 300

// Question types.
const (
	QuestionMain     = "main"
	QuestionFollowUp = "followup"
)

// FollowUpTimeLimitSeconds is the answer window for a follow-up question.
const FollowUpTimeLimitSeconds = 120

// Interview is one practice session owned by a user.
type Interview struct {
	ID             string
	UserID         string
	JobRole        string
	Source         string
	RoleID         string
	ResumeID       string
	Difficulty     string
	JobDescription string
	FocusAreas     string
	// WeightsOverride is the raw per-interview weight configuration as submitted.
	// It is kept verbatim so an unparseable value can be reported at scoring time.
	WeightsOverride string
	Status          string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// Question is a question asked during an interview, with its answer once submitted.
type Question struct {
	ID          string
	InterviewID string
	Position    int
	Text        string
	Topic       string
	Type        string
	ParentID    string
	// RoundID is set for questions asked during a round of a multi-round interview.
	RoundID          string
	ExpectedPoints   []string
	TimeLimitSeconds int
	Answer           string
	// Evaluation is nil until the question has been answered and scored.
	Evaluation       *evaluation.AnswerEvaluation
	RequiresFollowUp bool
	AnsweredAt       *time.Time
	CreatedAt        time.Time
}

// IsMain reports whether q was part of the original question set.
func (q Question) IsMain() bool {
	return q.Type != QuestionFollowUp
}

// Round is one stage of a multi-round interview. Rounds run in Order and each is
// scored on its own when completed.
type Round struct {
	ID              string
	InterviewID     string
	Name            string
	Type            string
	Order           int
	DurationMinutes int
	QuestionCount   int
	FocusAreas      []string
	Status          string
	// Score is the round's average overall score, nil until the round is completed.
	Score       *float64
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// MetricsRecord is one stored aggregation of an interview's scores.
type MetricsRecord struct {
	ID          string
	InterviewID string
	Metrics     evaluation.InterviewMetrics
	CreatedAt   time.Time
}

// PlanRecord is one stored improvement plan. Every completion appends a new record.
type PlanRecord struct {
	ID          string
	InterviewID string
	Plan        improvement.Plan
	CreatedAt   time.Time
}

// LearningPathRecord is one stored learning path.
type LearningPathRecord struct {
	ID          string
	InterviewID string
	Path        improvement.LearningPath
	CreatedAt   time.Time
}

// Completion is what completing an interview produced.
type Completion struct {
	Metrics evaluation.InterviewMetrics
	Plan    improvement.Plan
	// LearningPath is nil when the oracle could not produce one.
	LearningPath *improvement.LearningPath
}

// Results is the full view of an interview.
type Results struct {
	Interview    Interview
	Questions    []Question
	Rounds       []Round
	Metrics      *MetricsRecord
	Plan         *PlanRecord
	LearningPath *LearningPathRecord
}
