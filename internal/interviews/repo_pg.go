package interviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"interview-backend/internal/evaluation"
)

// PGRepo implements InterviewsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const interviewColumns = `id, user_id, job_role, source, role_id, resume_id, difficulty, job_description, focus_areas, weights_override, status, created_at, completed_at`

const questionColumns = `id, interview_id, position, question, topic, question_type, parent_question_id, round_id, expected_points, time_limit_seconds,
       answer, technical_score, communication_score, confidence_score, overall_score, feedback, requires_followup, answered_at, created_at`

// Create inserts an interview and its questions in one transaction.
func (r *PGRepo) Create(ctx context.Context, iv Interview, questions []Question) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = insertInterview(ctx, tx, iv); err != nil {
		return err
	}
	for _, q := range questions {
		if err = insertQuestion(ctx, tx, q); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns an interview owned by userID.
func (r *PGRepo) Get(ctx context.Context, userID, interviewID string) (Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1 AND user_id = $2`
	iv, err := scanInterview(r.DB.QueryRowContext(ctx, query, interviewID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Interview{}, ErrNotFound
		}
		return Interview{}, err
	}
	return iv, nil
}

// ListByUser returns a user's interviews, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// Questions returns an interview's questions in position order.
func (r *PGRepo) Questions(ctx context.Context, interviewID string) ([]Question, error) {
	query := `SELECT ` + questionColumns + `
FROM interview_questions
WHERE interview_id = $1
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// GetQuestion returns one question of an interview.
func (r *PGRepo) GetQuestion(ctx context.Context, interviewID, questionID string) (Question, error) {
	query := `SELECT ` + questionColumns + `
FROM interview_questions
WHERE interview_id = $1 AND id = $2`
	q, err := scanQuestion(r.DB.QueryRowContext(ctx, query, interviewID, questionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

// SaveAnswer records an answer and its evaluation, replacing any earlier one.
func (r *PGRepo) SaveAnswer(ctx context.Context, interviewID, questionID, answer string, ev evaluation.AnswerEvaluation, answeredAt time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE interview_questions
SET answer = $1,
    technical_score = $2,
    communication_score = $3,
    confidence_score = $4,
    overall_score = $5,
    feedback = $6,
    answered_at = $7
WHERE interview_id = $8 AND id = $9`,
		answer, ev.TechnicalScore, ev.CommunicationScore, ev.ConfidenceScore, ev.OverallScore, ev.Feedback,
		answeredAt, interviewID, questionID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFollowUp appends a follow-up question and flags its parent in one transaction.
func (r *PGRepo) AddFollowUp(ctx context.Context, followUp Question) (q Question, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Question{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
UPDATE interview_questions
SET requires_followup = TRUE
WHERE interview_id = $1 AND id = $2`, followUp.InterviewID, followUp.ParentID)
	if err != nil {
		return Question{}, err
	}
	if n, rerr := res.RowsAffected(); rerr == nil && n == 0 {
		return Question{}, ErrNotFound
	}

	if err = tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(position), -1) + 1
FROM interview_questions
WHERE interview_id = $1`, followUp.InterviewID).Scan(&followUp.Position); err != nil {
		return Question{}, err
	}
	if err = insertQuestion(ctx, tx, followUp); err != nil {
		return Question{}, err
	}
	if err = tx.Commit(); err != nil {
		return Question{}, err
	}
	return followUp, nil
}

// SaveCompletion stores metrics and a plan and marks the interview completed in one transaction.
func (r *PGRepo) SaveCompletion(ctx context.Context, metrics MetricsRecord, plan PlanRecord, completedAt time.Time) (err error) {
	weakAreas, err := json.Marshal(plan.Plan.WeakAreas)
	if err != nil {
		return fmt.Errorf("encode weak areas: %w", err)
	}
	steps, err := json.Marshal(plan.Plan.ImprovementSteps)
	if err != nil {
		return fmt.Errorf("encode improvement steps: %w", err)
	}
	resources, err := json.Marshal(plan.Plan.RecommendedResources)
	if err != nil {
		return fmt.Errorf("encode recommended resources: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	m := metrics.Metrics
	if _, err = tx.ExecContext(ctx, `
INSERT INTO interview_metrics (id, interview_id, average_technical, average_communication, average_confidence, average_overall, performance_level, total_questions, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		metrics.ID, metrics.InterviewID, m.AverageTechnical, m.AverageCommunication, m.AverageConfidence,
		m.AverageOverall, m.PerformanceLevel, m.TotalQuestions, metrics.CreatedAt,
	); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO improvement_plans (id, interview_id, weak_areas, improvement_steps, recommended_resources, practice_plan, overall_recommendation, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		plan.ID, plan.InterviewID, string(weakAreas), string(steps), string(resources),
		plan.Plan.PracticePlan, plan.Plan.OverallRecommendation, plan.CreatedAt,
	); err != nil {
		return err
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `
UPDATE interviews
SET status = $1, completed_at = $2
WHERE id = $3`, StatusCompleted, completedAt, metrics.InterviewID); err != nil {
		return err
	}
	if n, rerr := res.RowsAffected(); rerr == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// SaveLearningPath inserts a learning path.
func (r *PGRepo) SaveLearningPath(ctx context.Context, rec LearningPathRecord) error {
	p := rec.Path
	encoded := make([]string, 0, 4)
	for _, v := range []any{nonNil(p.Strengths), nonNil(p.Weaknesses), p.Roadmap, p.Resources} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode learning path: %w", err)
		}
		encoded = append(encoded, string(data))
	}
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO learning_paths (id, interview_id, strengths, weaknesses, roadmap, resources, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.InterviewID, encoded[0], encoded[1], encoded[2], encoded[3], rec.CreatedAt,
	)
	return err
}

// LatestMetrics returns the most recently stored metrics.
func (r *PGRepo) LatestMetrics(ctx context.Context, interviewID string) (MetricsRecord, error) {
	const query = `
SELECT id, interview_id, average_technical, average_communication, average_confidence, average_overall, performance_level, total_questions, created_at
FROM interview_metrics
WHERE interview_id = $1
ORDER BY created_at DESC
LIMIT 1`
	var rec MetricsRecord
	m := &rec.Metrics
	err := r.DB.QueryRowContext(ctx, query, interviewID).Scan(
		&rec.ID, &rec.InterviewID, &m.AverageTechnical, &m.AverageCommunication, &m.AverageConfidence,
		&m.AverageOverall, &m.PerformanceLevel, &m.TotalQuestions, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MetricsRecord{}, ErrNotFound
		}
		return MetricsRecord{}, err
	}
	return rec, nil
}

// LatestPlan returns the most recently stored improvement plan.
func (r *PGRepo) LatestPlan(ctx context.Context, interviewID string) (PlanRecord, error) {
	const query = `
SELECT id, interview_id, weak_areas, improvement_steps, recommended_resources, practice_plan, overall_recommendation, created_at
FROM improvement_plans
WHERE interview_id = $1
ORDER BY created_at DESC
LIMIT 1`
	var rec PlanRecord
	var weakAreas, steps, resources []byte
	err := r.DB.QueryRowContext(ctx, query, interviewID).Scan(
		&rec.ID, &rec.InterviewID, &weakAreas, &steps, &resources,
		&rec.Plan.PracticePlan, &rec.Plan.OverallRecommendation, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PlanRecord{}, ErrNotFound
		}
		return PlanRecord{}, err
	}
	if err := decodeJSON("weak_areas", weakAreas, &rec.Plan.WeakAreas); err != nil {
		return PlanRecord{}, err
	}
	if err := decodeJSON("improvement_steps", steps, &rec.Plan.ImprovementSteps); err != nil {
		return PlanRecord{}, err
	}
	if err := decodeJSON("recommended_resources", resources, &rec.Plan.RecommendedResources); err != nil {
		return PlanRecord{}, err
	}
	return rec, nil
}

// LatestLearningPath returns the most recently stored learning path.
func (r *PGRepo) LatestLearningPath(ctx context.Context, interviewID string) (LearningPathRecord, error) {
	const query = `
SELECT id, interview_id, strengths, weaknesses, roadmap, resources, created_at
FROM learning_paths
WHERE interview_id = $1
ORDER BY created_at DESC
LIMIT 1`
	var rec LearningPathRecord
	var strengths, weaknesses, roadmap, resources []byte
	err := r.DB.QueryRowContext(ctx, query, interviewID).Scan(
		&rec.ID, &rec.InterviewID, &strengths, &weaknesses, &roadmap, &resources, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LearningPathRecord{}, ErrNotFound
		}
		return LearningPathRecord{}, err
	}
	p := &rec.Path
	for _, f := range []struct {
		name string
		raw  []byte
		dest any
	}{
		{"strengths", strengths, &p.Strengths},
		{"weaknesses", weaknesses, &p.Weaknesses},
		{"roadmap", roadmap, &p.Roadmap},
		{"resources", resources, &p.Resources},
	} {
		if err := decodeJSON(f.name, f.raw, f.dest); err != nil {
			return LearningPathRecord{}, err
		}
	}
	return rec, nil
}

const roundColumns = `id, interview_id, round_name, round_type, round_order, duration_minutes, question_count, focus_areas, status, score, started_at, completed_at, created_at`

// CreateRounds inserts a multi-round interview and its rounds in one transaction.
func (r *PGRepo) CreateRounds(ctx context.Context, iv Interview, rounds []Round) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = insertInterview(ctx, tx, iv); err != nil {
		return err
	}
	for _, rd := range rounds {
		var focus []byte
		if focus, err = json.Marshal(nonNil(rd.FocusAreas)); err != nil {
			return fmt.Errorf("encode focus areas: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `
INSERT INTO interview_rounds (id, interview_id, round_name, round_type, round_order, duration_minutes, question_count, focus_areas, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			rd.ID, rd.InterviewID, rd.Name, rd.Type, rd.Order, rd.DurationMinutes, rd.QuestionCount,
			string(focus), rd.Status, rd.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Rounds returns an interview's rounds in order.
func (r *PGRepo) Rounds(ctx context.Context, interviewID string) ([]Round, error) {
	query := `SELECT ` + roundColumns + ` FROM interview_rounds WHERE interview_id = $1 ORDER BY round_order ASC`
	rows, err := r.DB.QueryContext(ctx, query, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Round{}
	for rows.Next() {
		rd, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}

// GetRound returns one round of an interview.
func (r *PGRepo) GetRound(ctx context.Context, interviewID, roundID string) (Round, error) {
	query := `SELECT ` + roundColumns + ` FROM interview_rounds WHERE interview_id = $1 AND id = $2`
	rd, err := scanRound(r.DB.QueryRowContext(ctx, query, interviewID, roundID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Round{}, ErrNotFound
		}
		return Round{}, err
	}
	return rd, nil
}

// StartRound moves a pending round to in progress and appends its questions in one
// transaction. A round that is not pending yields ErrRoundState.
func (r *PGRepo) StartRound(ctx context.Context, interviewID, roundID string, questions []Question, startedAt time.Time) (out []Question, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
UPDATE interview_rounds
SET status = $1, started_at = $2
WHERE interview_id = $3 AND id = $4 AND status = $5`,
		RoundInProgress, startedAt, interviewID, roundID, RoundPending)
	if err != nil {
		return nil, err
	}
	if n, rerr := res.RowsAffected(); rerr == nil && n == 0 {
		return nil, ErrRoundState
	}

	var next int
	if err = tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(position), -1) + 1
FROM interview_questions
WHERE interview_id = $1`, interviewID).Scan(&next); err != nil {
		return nil, err
	}
	out = make([]Question, 0, len(questions))
	for i, q := range questions {
		q.Position = next + i
		q.RoundID = roundID
		if err = insertQuestion(ctx, tx, q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteRound stores the round's score and marks it completed. A round that is not
// in progress yields ErrRoundState.
func (r *PGRepo) CompleteRound(ctx context.Context, interviewID, roundID string, score float64, completedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE interview_rounds
SET status = $1, score = $2, completed_at = $3
WHERE interview_id = $4 AND id = $5 AND status = $6`,
		RoundCompleted, score, completedAt, interviewID, roundID, RoundInProgress)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRoundState
	}
	return nil
}

func scanRound(row rowScanner) (Round, error) {
	var rd Round
	var focus []byte
	var score sql.NullFloat64
	var startedAt, completedAt sql.NullTime
	if err := row.Scan(
		&rd.ID, &rd.InterviewID, &rd.Name, &rd.Type, &rd.Order, &rd.DurationMinutes, &rd.QuestionCount,
		&focus, &rd.Status, &score, &startedAt, &completedAt, &rd.CreatedAt,
	); err != nil {
		return Round{}, err
	}
	if err := decodeJSON("focus_areas", focus, &rd.FocusAreas); err != nil {
		return Round{}, err
	}
	if score.Valid {
		rd.Score = &score.Float64
	}
	if startedAt.Valid {
		rd.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		rd.CompletedAt = &completedAt.Time
	}
	return rd, nil
}

func insertInterview(ctx context.Context, ex execer, iv Interview) error {
	_, err := ex.ExecContext(ctx, `
INSERT INTO interviews (id, user_id, job_role, source, role_id, resume_id, difficulty, job_description, focus_areas, weights_override, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		iv.ID, iv.UserID, iv.JobRole, iv.Source,
		nullString(iv.RoleID), nullString(iv.ResumeID), nullString(iv.Difficulty),
		nullString(iv.JobDescription), nullString(iv.FocusAreas), nullString(iv.WeightsOverride),
		iv.Status, iv.CreatedAt,
	)
	return err
}

func insertQuestion(ctx context.Context, ex execer, q Question) error {
	points := q.ExpectedPoints
	if points == nil {
		points = []string{}
	}
	encoded, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("encode expected points: %w", err)
	}
	var timeLimit sql.NullInt64
	if q.TimeLimitSeconds > 0 {
		timeLimit = sql.NullInt64{Int64: int64(q.TimeLimitSeconds), Valid: true}
	}
	_, err = ex.ExecContext(ctx, `
INSERT INTO interview_questions (id, interview_id, position, question, topic, question_type, parent_question_id, round_id, expected_points, time_limit_seconds, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		q.ID, q.InterviewID, q.Position, q.Text, nullString(q.Topic), q.Type,
		nullString(q.ParentID), nullString(q.RoundID), string(encoded), timeLimit, q.CreatedAt,
	)
	return err
}

func scanInterview(row rowScanner) (Interview, error) {
	var iv Interview
	var roleID, resumeID, difficulty, description, focus, weights sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(
		&iv.ID, &iv.UserID, &iv.JobRole, &iv.Source, &roleID, &resumeID, &difficulty,
		&description, &focus, &weights, &iv.Status, &iv.CreatedAt, &completedAt,
	); err != nil {
		return Interview{}, err
	}
	iv.RoleID = roleID.String
	iv.ResumeID = resumeID.String
	iv.Difficulty = difficulty.String
	iv.JobDescription = description.String
	iv.FocusAreas = focus.String
	iv.WeightsOverride = weights.String
	if completedAt.Valid {
		iv.CompletedAt = &completedAt.Time
	}
	return iv, nil
}

func scanQuestion(row rowScanner) (Question, error) {
	var q Question
	var topic, parentID, roundID, answer, feedback sql.NullString
	var points []byte
	var timeLimit sql.NullInt64
	var technical, communication, confidence, overall sql.NullFloat64
	var answeredAt sql.NullTime
	if err := row.Scan(
		&q.ID, &q.InterviewID, &q.Position, &q.Text, &topic, &q.Type, &parentID, &roundID, &points, &timeLimit,
		&answer, &technical, &communication, &confidence, &overall, &feedback, &q.RequiresFollowUp, &answeredAt, &q.CreatedAt,
	); err != nil {
		return Question{}, err
	}
	q.Topic = topic.String
	q.ParentID = parentID.String
	q.RoundID = roundID.String
	q.Answer = answer.String
	q.TimeLimitSeconds = int(timeLimit.Int64)
	if err := decodeJSON("expected_points", points, &q.ExpectedPoints); err != nil {
		return Question{}, err
	}
	// A question counts as scored only once an overall score was stored.
	if overall.Valid {
		q.Evaluation = &evaluation.AnswerEvaluation{
			TechnicalScore:     technical.Float64,
			CommunicationScore: communication.Float64,
			ConfidenceScore:    confidence.Float64,
			OverallScore:       overall.Float64,
			Feedback:           feedback.String,
		}
	}
	if answeredAt.Valid {
		q.AnsweredAt = &answeredAt.Time
	}
	return q, nil
}

func decodeJSON(field string, raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", field, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

var _ InterviewsRepo = (*PGRepo)(nil)
