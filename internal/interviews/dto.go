package interviews

import (
	"time"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/improvement"
)

// InterviewResponse is the outward-facing representation of an interview.
type InterviewResponse struct {
	ID             string     `json:"id"`
	JobRole        string     `json:"jobRole"`
	Source         string     `json:"source"`
	RoleID         string     `json:"roleId,omitempty"`
	ResumeID       string     `json:"resumeId,omitempty"`
	Difficulty     string     `json:"difficulty,omitempty"`
	JobDescription string     `json:"jobDescription,omitempty"`
	FocusAreas     string     `json:"focusAreas,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// EvaluationResponse carries the scores of one answer.
type EvaluationResponse struct {
	TechnicalScore     float64 `json:"technicalScore"`
	CommunicationScore float64 `json:"communicationScore"`
	ConfidenceScore    float64 `json:"confidenceScore"`
	OverallScore       float64 `json:"overallScore"`
	Feedback           string  `json:"feedback"`
}

// QuestionResponse is one interview question, with its answer and scores once submitted.
type QuestionResponse struct {
	ID               string              `json:"id"`
	Position         int                 `json:"position"`
	Question         string              `json:"question"`
	Topic            string              `json:"topic,omitempty"`
	Type             string              `json:"type"`
	ParentID         string              `json:"parentQuestionId,omitempty"`
	RoundID          string              `json:"roundId,omitempty"`
	ExpectedPoints   []string            `json:"expectedPoints"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds,omitempty"`
	Answer           string              `json:"answer,omitempty"`
	Evaluation       *EvaluationResponse `json:"evaluation,omitempty"`
	AnsweredAt       *time.Time          `json:"answeredAt,omitempty"`
}

// StartResponse is returned when an interview is created.
type StartResponse struct {
	Interview InterviewResponse  `json:"interview"`
	Questions []QuestionResponse `json:"questions"`
}

// AnswerResponse is returned after an answer has been scored.
type AnswerResponse struct {
	QuestionID string             `json:"questionId"`
	Evaluation EvaluationResponse `json:"evaluation"`
	FollowUp   *QuestionResponse  `json:"followUp,omitempty"`
}

// RoundResponse is one round of a multi-round interview.
type RoundResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"roundName"`
	Type            string     `json:"roundType"`
	Order           int        `json:"roundOrder"`
	DurationMinutes int        `json:"durationMinutes"`
	QuestionCount   int        `json:"questionCount"`
	FocusAreas      []string   `json:"focusAreas"`
	Status          string     `json:"status"`
	Score           *float64   `json:"score,omitempty"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// MultiRoundResponse is returned when a multi-round interview is created.
type MultiRoundResponse struct {
	Interview InterviewResponse `json:"interview"`
	Rounds    []RoundResponse   `json:"rounds"`
}

// RoundStartResponse is returned when a round is started.
type RoundStartResponse struct {
	Round     RoundResponse      `json:"round"`
	Questions []QuestionResponse `json:"questions"`
}

// RoundCompleteResponse is returned when a round is completed.
type RoundCompleteResponse struct {
	Round             RoundResponse   `json:"round"`
	Metrics           MetricsResponse `json:"metrics"`
	NextRound         *RoundResponse  `json:"nextRound,omitempty"`
	AllRoundsComplete bool            `json:"allRoundsComplete"`
}

// MetricsResponse is the aggregated score summary of an interview.
type MetricsResponse struct {
	AverageTechnical     float64 `json:"averageTechnical"`
	AverageCommunication float64 `json:"averageCommunication"`
	AverageConfidence    float64 `json:"averageConfidence"`
	AverageOverall       float64 `json:"averageOverall"`
	TotalQuestions       int     `json:"totalQuestions"`
	PerformanceLevel     string  `json:"performanceLevel"`
}

// CompleteResponse is returned when an interview is completed.
type CompleteResponse struct {
	Metrics      MetricsResponse           `json:"metrics"`
	Plan         improvement.Plan          `json:"improvementPlan"`
	LearningPath *improvement.LearningPath `json:"learningPath,omitempty"`
}

// ResultsResponse is the full review of an interview.
type ResultsResponse struct {
	Interview    InterviewResponse         `json:"interview"`
	Questions    []QuestionResponse        `json:"questions"`
	Rounds       []RoundResponse           `json:"rounds,omitempty"`
	Metrics      *MetricsResponse          `json:"metrics,omitempty"`
	Plan         *improvement.Plan         `json:"improvementPlan,omitempty"`
	LearningPath *improvement.LearningPath `json:"learningPath,omitempty"`
}

func toInterviewResponse(iv Interview) InterviewResponse {
	return InterviewResponse{
		ID:             iv.ID,
		JobRole:        iv.JobRole,
		Source:         iv.Source,
		RoleID:         iv.RoleID,
		ResumeID:       iv.ResumeID,
		Difficulty:     iv.Difficulty,
		JobDescription: iv.JobDescription,
		FocusAreas:     iv.FocusAreas,
		Status:         iv.Status,
		CreatedAt:      iv.CreatedAt,
		CompletedAt:    iv.CompletedAt,
	}
}

func toEvaluationResponse(ev evaluation.AnswerEvaluation) EvaluationResponse {
	return EvaluationResponse{
		TechnicalScore:     ev.TechnicalScore,
		CommunicationScore: ev.CommunicationScore,
		ConfidenceScore:    ev.ConfidenceScore,
		OverallScore:       ev.OverallScore,
		Feedback:           ev.Feedback,
	}
}

func toQuestionResponse(q Question) QuestionResponse {
	points := q.ExpectedPoints
	if points == nil {
		points = []string{}
	}
	out := QuestionResponse{
		ID:               q.ID,
		Position:         q.Position,
		Question:         q.Text,
		Topic:            q.Topic,
		Type:             q.Type,
		ParentID:         q.ParentID,
		RoundID:          q.RoundID,
		ExpectedPoints:   points,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Answer:           q.Answer,
		AnsweredAt:       q.AnsweredAt,
	}
	if q.Evaluation != nil {
		ev := toEvaluationResponse(*q.Evaluation)
		out.Evaluation = &ev
	}
	return out
}

func toQuestionResponses(qs []Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQuestionResponse(q))
	}
	return out
}

func toMetricsResponse(m evaluation.InterviewMetrics) MetricsResponse {
	return MetricsResponse{
		AverageTechnical:     m.AverageTechnical,
		AverageCommunication: m.AverageCommunication,
		AverageConfidence:    m.AverageConfidence,
		AverageOverall:       m.AverageOverall,
		TotalQuestions:       m.TotalQuestions,
		PerformanceLevel:     m.PerformanceLevel,
	}
}

func toResultsResponse(r Results) ResultsResponse {
	out := ResultsResponse{
		Interview: toInterviewResponse(r.Interview),
		Questions: toQuestionResponses(r.Questions),
	}
	if len(r.Rounds) > 0 {
		out.Rounds = toRoundResponses(r.Rounds)
	}
	if r.Metrics != nil {
		m := toMetricsResponse(r.Metrics.Metrics)
		out.Metrics = &m
	}
	if r.Plan != nil {
		p := r.Plan.Plan
		out.Plan = &p
	}
	if r.LearningPath != nil {
		lp := r.LearningPath.Path
		out.LearningPath = &lp
	}
	return out
}

func toRoundResponse(rd Round) RoundResponse {
	focus := rd.FocusAreas
	if focus == nil {
		focus = []string{}
	}
	return RoundResponse{
		ID:              rd.ID,
		Name:            rd.Name,
		Type:            rd.Type,
		Order:           rd.Order,
		DurationMinutes: rd.DurationMinutes,
		QuestionCount:   rd.QuestionCount,
		FocusAreas:      focus,
		Status:          rd.Status,
		Score:           rd.Score,
		StartedAt:       rd.StartedAt,
		CompletedAt:     rd.CompletedAt,
	}
}

func toRoundResponses(rounds []Round) []RoundResponse {
	out := make([]RoundResponse, 0, len(rounds))
	for _, rd := range rounds {
		out = append(out, toRoundResponse(rd))
	}
	return out
}
