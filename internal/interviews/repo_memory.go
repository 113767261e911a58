package interviews

import (
	"context"
	"sort"
	"sync"
	"time"

	"interview-backend/internal/evaluation"
)

// MemoryRepo is an in-memory implementation of InterviewsRepo.
type MemoryRepo struct {
	mu         sync.RWMutex
	interviews map[string]Interview
	questions  map[string][]Question // interviewID -> questions in position order
	rounds     map[string][]Round    // interviewID -> rounds in order
	metrics    map[string][]MetricsRecord
	plans      map[string][]PlanRecord
	paths      map[string][]LearningPathRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		interviews: make(map[string]Interview),
		questions:  make(map[string][]Question),
		rounds:     make(map[string][]Round),
		metrics:    make(map[string][]MetricsRecord),
		plans:      make(map[string][]PlanRecord),
		paths:      make(map[string][]LearningPathRecord),
	}
}

// Create stores an interview with its initial questions.
func (r *MemoryRepo) Create(ctx context.Context, iv Interview, questions []Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews[iv.ID] = iv
	stored := make([]Question, 0, len(questions))
	for _, q := range questions {
		stored = append(stored, cloneQuestion(q))
	}
	r.questions[iv.ID] = stored
	return nil
}

// Get returns an interview owned by userID.
func (r *MemoryRepo) Get(ctx context.Context, userID, interviewID string) (Interview, error) {
	if err := ctx.Err(); err != nil {
		return Interview{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.interviews[interviewID]
	if !ok || iv.UserID != userID {
		return Interview{}, ErrNotFound
	}
	return iv, nil
}

// ListByUser returns a user's interviews, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Interview{}
	for _, iv := range r.interviews {
		if iv.UserID == userID {
			out = append(out, iv)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Questions returns an interview's questions in position order.
func (r *MemoryRepo) Questions(ctx context.Context, interviewID string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Question, 0, len(r.questions[interviewID]))
	for _, q := range r.questions[interviewID] {
		out = append(out, cloneQuestion(q))
	}
	return out, nil
}

// GetQuestion returns one question of an interview.
func (r *MemoryRepo) GetQuestion(ctx context.Context, interviewID, questionID string) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.questions[interviewID] {
		if q.ID == questionID {
			return cloneQuestion(q), nil
		}
	}
	return Question{}, ErrNotFound
}

// SaveAnswer records an answer and its evaluation, replacing any earlier one.
func (r *MemoryRepo) SaveAnswer(ctx context.Context, interviewID, questionID, answer string, ev evaluation.AnswerEvaluation, answeredAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	qs := r.questions[interviewID]
	for i := range qs {
		if qs[i].ID == questionID {
			qs[i].Answer = answer
			qs[i].Evaluation = &ev
			qs[i].AnsweredAt = &answeredAt
			return nil
		}
	}
	return ErrNotFound
}

// AddFollowUp appends a follow-up question and flags its parent.
func (r *MemoryRepo) AddFollowUp(ctx context.Context, followUp Question) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	qs := r.questions[followUp.InterviewID]
	for i := range qs {
		if qs[i].ID == followUp.ParentID {
			qs[i].RequiresFollowUp = true
			followUp.Position = qs[len(qs)-1].Position + 1
			r.questions[followUp.InterviewID] = append(qs, cloneQuestion(followUp))
			return followUp, nil
		}
	}
	return Question{}, ErrNotFound
}

// SaveCompletion appends metrics and a plan and marks the interview completed.
func (r *MemoryRepo) SaveCompletion(ctx context.Context, metrics MetricsRecord, plan PlanRecord, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[metrics.InterviewID]
	if !ok {
		return ErrNotFound
	}
	iv.Status = StatusCompleted
	iv.CompletedAt = &completedAt
	r.interviews[iv.ID] = iv
	r.metrics[iv.ID] = append(r.metrics[iv.ID], metrics)
	r.plans[iv.ID] = append(r.plans[iv.ID], plan)
	return nil
}

// SaveLearningPath appends a learning path.
func (r *MemoryRepo) SaveLearningPath(ctx context.Context, rec LearningPathRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[rec.InterviewID] = append(r.paths[rec.InterviewID], rec)
	return nil
}

// LatestMetrics returns the most recently stored metrics.
func (r *MemoryRepo) LatestMetrics(ctx context.Context, interviewID string) (MetricsRecord, error) {
	if err := ctx.Err(); err != nil {
		return MetricsRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.metrics[interviewID]
	if len(items) == 0 {
		return MetricsRecord{}, ErrNotFound
	}
	return items[len(items)-1], nil
}

// LatestPlan returns the most recently stored improvement plan.
func (r *MemoryRepo) LatestPlan(ctx context.Context, interviewID string) (PlanRecord, error) {
	if err := ctx.Err(); err != nil {
		return PlanRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.plans[interviewID]
	if len(items) == 0 {
		return PlanRecord{}, ErrNotFound
	}
	return items[len(items)-1], nil
}

// LatestLearningPath returns the most recently stored learning path.
func (r *MemoryRepo) LatestLearningPath(ctx context.Context, interviewID string) (LearningPathRecord, error) {
	if err := ctx.Err(); err != nil {
		return LearningPathRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.paths[interviewID]
	if len(items) == 0 {
		return LearningPathRecord{}, ErrNotFound
	}
	return items[len(items)-1], nil
}

// CreateRounds stores a multi-round interview with its rounds and no questions.
func (r *MemoryRepo) CreateRounds(ctx context.Context, iv Interview, rounds []Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews[iv.ID] = iv
	r.questions[iv.ID] = []Question{}
	stored := make([]Round, 0, len(rounds))
	for _, rd := range rounds {
		stored = append(stored, cloneRound(rd))
	}
	sort.SliceStable(stored, func(i, j int) bool { return stored[i].Order < stored[j].Order })
	r.rounds[iv.ID] = stored
	return nil
}

// Rounds returns an interview's rounds in order.
func (r *MemoryRepo) Rounds(ctx context.Context, interviewID string) ([]Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Round, 0, len(r.rounds[interviewID]))
	for _, rd := range r.rounds[interviewID] {
		out = append(out, cloneRound(rd))
	}
	return out, nil
}

// GetRound returns one round of an interview.
func (r *MemoryRepo) GetRound(ctx context.Context, interviewID, roundID string) (Round, error) {
	if err := ctx.Err(); err != nil {
		return Round{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rd := range r.rounds[interviewID] {
		if rd.ID == roundID {
			return cloneRound(rd), nil
		}
	}
	return Round{}, ErrNotFound
}

// StartRound appends the round's questions and marks it in progress.
func (r *MemoryRepo) StartRound(ctx context.Context, interviewID, roundID string, questions []Question, startedAt time.Time) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rounds := r.rounds[interviewID]
	idx := -1
	for i := range rounds {
		if rounds[i].ID == roundID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	if rounds[idx].Status != RoundPending {
		return nil, ErrRoundState
	}

	qs := r.questions[interviewID]
	next := 0
	if len(qs) > 0 {
		next = qs[len(qs)-1].Position + 1
	}
	out := make([]Question, 0, len(questions))
	for i, q := range questions {
		q.Position = next + i
		q.RoundID = roundID
		qs = append(qs, cloneQuestion(q))
		out = append(out, q)
	}
	r.questions[interviewID] = qs
	rounds[idx].Status = RoundInProgress
	rounds[idx].StartedAt = &startedAt
	return out, nil
}

// CompleteRound records the round's score and marks it completed.
func (r *MemoryRepo) CompleteRound(ctx context.Context, interviewID, roundID string, score float64, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rounds := r.rounds[interviewID]
	for i := range rounds {
		if rounds[i].ID != roundID {
			continue
		}
		if rounds[i].Status != RoundInProgress {
			return ErrRoundState
		}
		rounds[i].Status = RoundCompleted
		rounds[i].Score = &score
		rounds[i].CompletedAt = &completedAt
		return nil
	}
	return ErrNotFound
}

// PlanCount returns how many plans have been stored for an interview.
func (r *MemoryRepo) PlanCount(interviewID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plans[interviewID])
}

func cloneQuestion(q Question) Question {
	out := q
	if q.ExpectedPoints != nil {
		out.ExpectedPoints = append([]string(nil), q.ExpectedPoints...)
	}
	if q.Evaluation != nil {
		ev := *q.Evaluation
		out.Evaluation = &ev
	}
	return out
}

func cloneRound(rd Round) Round {
	out := rd
	if rd.FocusAreas != nil {
		out.FocusAreas = append([]string(nil), rd.FocusAreas...)
	}
	if rd.Score != nil {
		v := *rd.Score
		out.Score = &v
	}
	return out
}

var _ InterviewsRepo = (*MemoryRepo)(nil)
