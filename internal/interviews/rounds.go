package interviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/questions"
	"interview-backend/internal/shared/telemetry"
)

// RoundInput describes one round requested for a multi-round interview.
type RoundInput struct {
	Name            string
	Type            string
	DurationMinutes int
	QuestionCount   int
	FocusAreas      []string
}

// MultiRoundInput starts an interview made of ordered rounds.
type MultiRoundInput struct {
	JobRole        string
	JobDescription string
	// Weights is an optional raw JSON weight configuration for this interview.
	Weights string
	Rounds  []RoundInput
}

// MultiRoundStarted is a newly created multi-round interview. Its rounds are pending and
// have no questions until they are started.
type MultiRoundStarted struct {
	Interview Interview
	Rounds    []Round
}

// RoundStarted is a round that has just been given its questions.
type RoundStarted struct {
	Round     Round
	Questions []Question
}

// RoundCompletion is the outcome of completing one round.
type RoundCompletion struct {
	Round   Round
	Metrics evaluation.InterviewMetrics
	// Next is the first pending round in order, nil once every round has been completed.
	Next *Round
}

// AllComplete reports whether no round is left to run.
func (rc RoundCompletion) AllComplete() bool {
	return rc.Next == nil
}

// StartMultiRound creates an interview with the requested rounds, all pending.
func (s *Service) StartMultiRound(ctx context.Context, userID string, in MultiRoundInput) (MultiRoundStarted, error) {
	if userID == "" {
		return MultiRoundStarted{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	jobRole := strings.TrimSpace(in.JobRole)
	if jobRole == "" {
		return MultiRoundStarted{}, fmt.Errorf("%w: job role is required", ErrInvalidInput)
	}
	if len(in.Rounds) == 0 {
		return MultiRoundStarted{}, fmt.Errorf("%w: at least one round is required", ErrInvalidInput)
	}

	iv := Interview{
		ID:              uuid.NewString(),
		UserID:          userID,
		JobRole:         jobRole,
		Source:          SourceRounds,
		JobDescription:  strings.TrimSpace(in.JobDescription),
		WeightsOverride: strings.TrimSpace(in.Weights),
		Status:          StatusInProgress,
		CreatedAt:       s.now(),
	}
	rounds := make([]Round, 0, len(in.Rounds))
	for i, ri := range in.Rounds {
		rd, err := newRound(iv, i+1, ri)
		if err != nil {
			return MultiRoundStarted{}, err
		}
		rounds = append(rounds, rd)
	}
	if err := s.Repo.CreateRounds(ctx, iv, rounds); err != nil {
		return MultiRoundStarted{}, err
	}
	telemetry.Info("interview.started", map[string]any{
		"interview_id": iv.ID,
		"source":       iv.Source,
		"rounds":       len(rounds),
	})
	return MultiRoundStarted{Interview: iv, Rounds: rounds}, nil
}

func newRound(iv Interview, order int, in RoundInput) (Round, error) {
	roundType := questions.NormalizeRoundType(in.Type)
	if roundType == "" {
		return Round{}, fmt.Errorf("%w: round %d has unknown type %q", ErrInvalidInput, order, in.Type)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = roundType
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = questions.DefaultRoundMinutes
	}
	count := in.QuestionCount
	switch {
	case count <= 0:
		count = questions.DefaultRoundQuestions
	case count > questions.MaxRoundQuestions:
		count = questions.MaxRoundQuestions
	}
	focus := make([]string, 0, len(in.FocusAreas))
	for _, f := range in.FocusAreas {
		if f = strings.TrimSpace(f); f != "" {
			focus = append(focus, f)
		}
	}
	return Round{
		ID:              uuid.NewString(),
		InterviewID:     iv.ID,
		Name:            name,
		Type:            roundType,
		Order:           order,
		DurationMinutes: duration,
		QuestionCount:   count,
		FocusAreas:      focus,
		Status:          RoundPending,
		CreatedAt:       iv.CreatedAt,
	}, nil
}

// StartRound generates a pending round's questions and moves it to in progress. Question
// generation failures are returned to the caller and leave the round pending.
func (s *Service) StartRound(ctx context.Context, userID, interviewID, roundID string) (RoundStarted, error) {
	iv, err := s.Repo.Get(ctx, userID, interviewID)
	if err != nil {
		return RoundStarted{}, err
	}
	rd, err := s.Repo.GetRound(ctx, iv.ID, roundID)
	if err != nil {
		return RoundStarted{}, err
	}
	if rd.Status != RoundPending {
		return RoundStarted{}, fmt.Errorf("%w: round %s is %s", ErrRoundState, rd.ID, rd.Status)
	}

	generated, err := s.Questions.ForRound(ctx, questions.RoundSpec{
		Type:           rd.Type,
		Name:           rd.Name,
		JobRole:        iv.JobRole,
		JobDescription: iv.JobDescription,
		QuestionCount:  rd.QuestionCount,
		FocusAreas:     rd.FocusAreas,
	})
	if err != nil {
		return RoundStarted{}, err
	}
	now := s.now()
	qs := make([]Question, 0, len(generated))
	for _, g := range generated {
		qs = append(qs, Question{
			ID:               uuid.NewString(),
			InterviewID:      iv.ID,
			Text:             g.Text,
			Topic:            rd.Name,
			Type:             QuestionMain,
			ExpectedPoints:   g.ExpectedPoints,
			TimeLimitSeconds: RoundTimeLimitSeconds,
			CreatedAt:        now,
		})
	}
	stored, err := s.Repo.StartRound(ctx, iv.ID, rd.ID, qs, now)
	if err != nil {
		return RoundStarted{}, err
	}
	rd.Status = RoundInProgress
	rd.StartedAt = &now

	telemetry.Info("interview.round_started", map[string]any{
		"interview_id": iv.ID,
		"round_id":     rd.ID,
		"round_type":   rd.Type,
		"questions":    len(stored),
	})
	return RoundStarted{Round: rd, Questions: stored}, nil
}

// CompleteRound scores an in-progress round as the average of its scored answers,
// follow-ups included, marks it completed and reports the next pending round.
func (s *Service) CompleteRound(ctx context.Context, userID, interviewID, roundID string) (RoundCompletion, error) {
	iv, err := s.Repo.Get(ctx, userID, interviewID)
	if err != nil {
		return RoundCompletion{}, err
	}
	rd, err := s.Repo.GetRound(ctx, iv.ID, roundID)
	if err != nil {
		return RoundCompletion{}, err
	}
	if rd.Status != RoundInProgress {
		return RoundCompletion{}, fmt.Errorf("%w: round %s is %s", ErrRoundState, rd.ID, rd.Status)
	}
	qs, err := s.Repo.Questions(ctx, iv.ID)
	if err != nil {
		return RoundCompletion{}, err
	}
	var evals []evaluation.AnswerEvaluation
	for _, q := range qs {
		if q.RoundID == rd.ID && q.Evaluation != nil {
			evals = append(evals, *q.Evaluation)
		}
	}
	if len(evals) == 0 {
		return RoundCompletion{}, ErrNothingToAggregate
	}

	m := evaluation.Aggregate(evals)
	now := s.now()
	if err := s.Repo.CompleteRound(ctx, iv.ID, rd.ID, m.AverageOverall, now); err != nil {
		return RoundCompletion{}, err
	}
	score := m.AverageOverall
	rd.Status = RoundCompleted
	rd.Score = &score
	rd.CompletedAt = &now

	out := RoundCompletion{Round: rd, Metrics: m}
	rounds, err := s.Repo.Rounds(ctx, iv.ID)
	if err != nil {
		return RoundCompletion{}, err
	}
	for _, next := range rounds {
		if next.Status == RoundPending {
			out.Next = &next
			break
		}
	}

	telemetry.Info("interview.round_completed", map[string]any{
		"interview_id": iv.ID,
		"round_id":     rd.ID,
		"round_score":  score,
		"all_complete": out.AllComplete(),
	})
	return out, nil
}
