package interviews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/improvement"
	"interview-backend/internal/questions"
	"interview-backend/internal/resumes"
	"interview-backend/internal/roles"
	"interview-backend/internal/shared/telemetry"
)

// Evaluator scores answers and proposes follow-ups.
type Evaluator interface {
	EvaluateResponse(ctx context.Context, in evaluation.Input) evaluation.AnswerEvaluation
	GenerateFollowUp(ctx context.Context, question, answer string, overall float64) (evaluation.FollowUp, bool)
}

// PlanGenerator builds the post-interview improvement plan and learning path.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, m evaluation.InterviewMetrics, roleID string) improvement.Plan
	LearningPath(ctx context.Context, in improvement.LearningPathInput) (improvement.LearningPath, bool)
}

// QuestionSource generates the question sets for resume interviews and interview rounds.
type QuestionSource interface {
	FromResume(ctx context.Context, resumeText, jobRole string) ([]questions.Question, error)
	ForRound(ctx context.Context, spec questions.RoundSpec) ([]questions.Question, error)
}

// RoleSource looks up interview roles.
type RoleSource interface {
	Get(ctx context.Context, roleID string) (roles.Role, error)
}

// ResumeStore stores uploaded resumes and extracts their text.
type ResumeStore interface {
	Upload(ctx context.Context, userID, fileName string, r io.Reader) (resumes.Resume, error)
	Text(ctx context.Context, res resumes.Resume) (string, error)
	Discard(ctx context.Context, res resumes.Resume) error
}

// Service runs the interview lifecycle: start, answer, complete, review.
type Service struct {
	Repo      InterviewsRepo
	Resumes   ResumeStore
	Roles     RoleSource
	Questions QuestionSource
	Evaluator Evaluator
	Plans     PlanGenerator
	Now       func() time.Time
}

// ResumeInput starts an interview from an uploaded resume.
type ResumeInput struct {
	JobRole        string
	JobDescription string
	FocusAreas     string
	// Weights is an optional raw JSON weight configuration for this interview.
	Weights  string
	FileName string
	Body     io.Reader
}

// RoleInput starts an interview from a role's stored questions.
type RoleInput struct {
	RoleID     string
	Difficulty string
	// Weights is an optional raw JSON weight configuration overriding the role's.
	Weights string
}

// Started is a newly created interview with its question set.
type Started struct {
	Interview Interview
	Questions []Question
}

// AnswerResult is the outcome of submitting one answer.
type AnswerResult struct {
	QuestionID string
	Evaluation evaluation.AnswerEvaluation
	// FollowUp is set when the answer earned a follow-up question.
	FollowUp *Question
}

// StartFromResume stores the resume, extracts its text, generates questions from it and
// creates the interview. Question generation failures are returned to the caller.
func (s *Service) StartFromResume(ctx context.Context, userID string, in ResumeInput) (Started, error) {
	if userID == "" {
		return Started{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	jobRole := strings.TrimSpace(in.JobRole)
	if jobRole == "" {
		return Started{}, fmt.Errorf("%w: job role is required", ErrInvalidInput)
	}
	if in.Body == nil || strings.TrimSpace(in.FileName) == "" {
		return Started{}, fmt.Errorf("%w: resume file is required", ErrInvalidInput)
	}

	res, err := s.Resumes.Upload(ctx, userID, in.FileName, in.Body)
	if err != nil {
		return Started{}, mapResumeErr(err)
	}
	text, err := s.Resumes.Text(ctx, res)
	if err != nil {
		s.discardResume(ctx, res)
		return Started{}, mapResumeErr(err)
	}

	iv := Interview{
		ID:              uuid.NewString(),
		UserID:          userID,
		JobRole:         jobRole,
		Source:          SourceResume,
		ResumeID:        res.ID,
		JobDescription:  strings.TrimSpace(in.JobDescription),
		FocusAreas:      strings.TrimSpace(in.FocusAreas),
		WeightsOverride: strings.TrimSpace(in.Weights),
		Status:          StatusInProgress,
		CreatedAt:       s.now(),
	}

	generated, err := s.Questions.FromResume(ctx, text, jobContext(iv))
	if err != nil {
		s.discardResume(ctx, res)
		return Started{}, err
	}
	qs := make([]Question, 0, len(generated))
	for i, g := range generated {
		qs = append(qs, Question{
			ID:             uuid.NewString(),
			InterviewID:    iv.ID,
			Position:       i,
			Text:           g.Text,
			Type:           QuestionMain,
			ExpectedPoints: g.ExpectedPoints,
			CreatedAt:      iv.CreatedAt,
		})
	}
	if err := s.Repo.Create(ctx, iv, qs); err != nil {
		s.discardResume(ctx, res)
		return Started{}, err
	}
	telemetry.Info("interview.started", map[string]any{
		"interview_id": iv.ID,
		"source":       iv.Source,
		"questions":    len(qs),
	})
	return Started{Interview: iv, Questions: qs}, nil
}

// StartForRole creates an interview from a role's questions at the requested difficulty.
func (s *Service) StartForRole(ctx context.Context, userID string, in RoleInput) (Started, error) {
	if userID == "" {
		return Started{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.RoleID) == "" {
		return Started{}, fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	role, err := s.Roles.Get(ctx, in.RoleID)
	if err != nil {
		if errors.Is(err, roles.ErrNotFound) {
			return Started{}, ErrNotFound
		}
		return Started{}, err
	}
	if !role.VisibleTo(userID) {
		return Started{}, ErrNotFound
	}
	selected := role.QuestionsFor(in.Difficulty)
	if len(selected) == 0 {
		return Started{}, ErrNoQuestions
	}

	iv := Interview{
		ID:              uuid.NewString(),
		UserID:          userID,
		JobRole:         role.Name,
		Source:          SourceRole,
		RoleID:          role.ID,
		Difficulty:      strings.ToLower(strings.TrimSpace(in.Difficulty)),
		WeightsOverride: strings.TrimSpace(in.Weights),
		Status:          StatusInProgress,
		CreatedAt:       s.now(),
	}
	qs := make([]Question, 0, len(selected))
	for i, rq := range selected {
		qs = append(qs, Question{
			ID:             uuid.NewString(),
			InterviewID:    iv.ID,
			Position:       i,
			Text:           rq.Question,
			Topic:          rq.Topic,
			Type:           QuestionMain,
			ExpectedPoints: append([]string(nil), rq.ExpectedPoints...),
			CreatedAt:      iv.CreatedAt,
		})
	}
	if err := s.Repo.Create(ctx, iv, qs); err != nil {
		return Started{}, err
	}
	telemetry.Info("interview.started", map[string]any{
		"interview_id": iv.ID,
		"source":       iv.Source,
		"role_id":      role.ID,
		"questions":    len(qs),
	})
	return Started{Interview: iv, Questions: qs}, nil
}

// List returns the caller's interviews, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Interview, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID)
}

// SubmitAnswer scores an answer, stores it and, for a main question whose score is high or
// low enough, adds a follow-up question. Re-answering a question replaces its evaluation.
func (s *Service) SubmitAnswer(ctx context.Context, userID, interviewID, questionID, answer string) (AnswerResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return AnswerResult{}, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}
	iv, err := s.Repo.Get(ctx, userID, interviewID)
	if err != nil {
		return AnswerResult{}, err
	}
	q, err := s.Repo.GetQuestion(ctx, iv.ID, questionID)
	if err != nil {
		return AnswerResult{}, err
	}

	ev := s.Evaluator.EvaluateResponse(ctx, evaluation.Input{
		Question:       q.Text,
		Answer:         answer,
		ExpectedPoints: q.ExpectedPoints,
		Weights:        s.weightsFor(ctx, iv),
	})
	if err := s.Repo.SaveAnswer(ctx, iv.ID, q.ID, answer, ev, s.now()); err != nil {
		return AnswerResult{}, err
	}

	result := AnswerResult{QuestionID: q.ID, Evaluation: ev}
	if !q.IsMain() || q.RequiresFollowUp {
		return result, nil
	}
	fu, ok := s.Evaluator.GenerateFollowUp(ctx, q.Text, answer, ev.OverallScore)
	if !ok {
		return result, nil
	}
	stored, err := s.Repo.AddFollowUp(ctx, Question{
		ID:               uuid.NewString(),
		InterviewID:      iv.ID,
		Text:             fu.Question,
		Topic:            q.Topic,
		Type:             QuestionFollowUp,
		ParentID:         q.ID,
		RoundID:          q.RoundID,
		ExpectedPoints:   []string{},
		TimeLimitSeconds: FollowUpTimeLimitSeconds,
		CreatedAt:        s.now(),
	})
	if err != nil {
		// The answer is already stored and follow-ups are advisory.
		telemetry.Warn("interview.followup_store_failed", map[string]any{
			"interview_id": iv.ID,
			"question_id":  q.ID,
			"error":        err.Error(),
		})
		return result, nil
	}
	result.FollowUp = &stored
	return result, nil
}

// weightsFor resolves the scoring configuration: the interview override when present,
// else the role's weights, else the system defaults. An unreadable override scores with
// the system defaults rather than falling through to the role.
func (s *Service) weightsFor(ctx context.Context, iv Interview) evaluation.Weights {
	if iv.WeightsOverride != "" {
		w, err := evaluation.ParseWeights(iv.WeightsOverride)
		if err != nil {
			telemetry.Warn("interview.weights_invalid", map[string]any{
				"interview_id": iv.ID,
				"error":        err.Error(),
			})
			return evaluation.Weights{}
		}
		return w
	}
	if iv.RoleID == "" || s.Roles == nil {
		return evaluation.Weights{}
	}
	role, err := s.Roles.Get(ctx, iv.RoleID)
	if err != nil {
		telemetry.Warn("interview.role_weights_unavailable", map[string]any{
			"interview_id": iv.ID,
			"role_id":      iv.RoleID,
			"error":        err.Error(),
		})
		return evaluation.Weights{}
	}
	return role.Weights
}

// Complete aggregates every scored answer, stores the metrics and a new improvement plan,
// and marks the interview completed. Completing again appends another plan.
func (s *Service) Complete(ctx context.Context, userID, interviewID string) (Completion, error) {
	iv, err := s.Repo.Get(ctx, userID, interviewID)
	if err != nil {
		return Completion{}, err
	}
	qs, err := s.Repo.Questions(ctx, iv.ID)
	if err != nil {
		return Completion{}, err
	}

	var evals []evaluation.AnswerEvaluation
	var answered []improvement.AnsweredQuestion
	for _, q := range qs {
		if q.Evaluation == nil {
			continue
		}
		evals = append(evals, *q.Evaluation)
		answered = append(answered, improvement.AnsweredQuestion{
			Question:   q.Text,
			Answer:     q.Answer,
			Type:       q.Type,
			Evaluation: *q.Evaluation,
		})
	}
	if len(evals) == 0 {
		return Completion{}, ErrNothingToAggregate
	}

	m := evaluation.Aggregate(evals)
	plan := s.Plans.GeneratePlan(ctx, m, iv.RoleID)
	now := s.now()
	if err := s.Repo.SaveCompletion(ctx,
		MetricsRecord{ID: uuid.NewString(), InterviewID: iv.ID, Metrics: m, CreatedAt: now},
		PlanRecord{ID: uuid.NewString(), InterviewID: iv.ID, Plan: plan, CreatedAt: now},
		now,
	); err != nil {
		return Completion{}, err
	}

	out := Completion{Metrics: m, Plan: plan}
	path, ok := s.Plans.LearningPath(ctx, improvement.LearningPathInput{
		JobRole: iv.JobRole,
		Metrics: m,
		Answers: answered,
	})
	if ok {
		if err := s.Repo.SaveLearningPath(ctx, LearningPathRecord{
			ID:          uuid.NewString(),
			InterviewID: iv.ID,
			Path:        path,
			CreatedAt:   now,
		}); err != nil {
			telemetry.Warn("interview.learning_path_store_failed", map[string]any{
				"interview_id": iv.ID,
				"error":        err.Error(),
			})
		}
		out.LearningPath = &path
	}

	telemetry.Info("interview.completed", map[string]any{
		"interview_id":      iv.ID,
		"scored_answers":    m.TotalQuestions,
		"average_overall":   m.AverageOverall,
		"performance_level": m.PerformanceLevel,
	})
	return out, nil
}

// Results returns the interview with its questions, the latest metrics, the latest plan
// and the latest learning path, each of which may be absent.
func (s *Service) Results(ctx context.Context, userID, interviewID string) (Results, error) {
	iv, err := s.Repo.Get(ctx, userID, interviewID)
	if err != nil {
		return Results{}, err
	}
	qs, err := s.Repo.Questions(ctx, iv.ID)
	if err != nil {
		return Results{}, err
	}
	out := Results{Interview: iv, Questions: qs}
	if iv.Source == SourceRounds {
		if out.Rounds, err = s.Repo.Rounds(ctx, iv.ID); err != nil {
			return Results{}, err
		}
	}

	if m, err := s.Repo.LatestMetrics(ctx, iv.ID); err == nil {
		out.Metrics = &m
	} else if !errors.Is(err, ErrNotFound) {
		return Results{}, err
	}
	if p, err := s.Repo.LatestPlan(ctx, iv.ID); err == nil {
		out.Plan = &p
	} else if !errors.Is(err, ErrNotFound) {
		return Results{}, err
	}
	if lp, err := s.Repo.LatestLearningPath(ctx, iv.ID); err == nil {
		out.LearningPath = &lp
	} else if !errors.Is(err, ErrNotFound) {
		return Results{}, err
	}
	return out, nil
}

// discardResume removes a resume whose interview could not be created. The caller's
// error is what matters, so a cleanup failure is only logged.
func (s *Service) discardResume(ctx context.Context, res resumes.Resume) {
	if err := s.Resumes.Discard(context.WithoutCancel(ctx), res); err != nil {
		telemetry.Warn("interview.resume_discard_failed", map[string]any{
			"resume_id": res.ID,
			"error":     err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// jobContext is the job description handed to question generation.
func jobContext(iv Interview) string {
	var b strings.Builder
	b.WriteString(iv.JobRole)
	if iv.JobDescription != "" {
		b.WriteString("\nJob Description: " + iv.JobDescription)
	}
	if iv.FocusAreas != "" {
		b.WriteString("\nFocus Areas: " + iv.FocusAreas)
	}
	return b.String()
}

func mapResumeErr(err error) error {
	switch {
	case errors.Is(err, resumes.ErrInvalidInput), errors.Is(err, resumes.ErrEmptyText):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
