package questions

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"interview-backend/internal/llm"
	"interview-backend/internal/llm/parse"
	"interview-backend/internal/shared/telemetry"
	"interview-backend/internal/shared/util"
)

// Round types.
const (
	RoundHR           = "hr"
	RoundTechnical    = "technical"
	RoundSystemDesign = "system_design"
	RoundBehavioral   = "behavioral"
)

// RoundTypes lists every recognised round type.
var RoundTypes = []string{RoundHR, RoundTechnical, RoundSystemDesign, RoundBehavioral}

// Round defaults and limits.
const (
	DefaultRoundQuestions = 5
	MaxRoundQuestions     = 15
	DefaultRoundMinutes   = 30
	MaxSuggestedRounds    = 5
)

const (
	roundsTemperature         = 0.7
	roundsMaxTokens           = 1500
	roundQuestionsTemperature = 0.8
	roundQuestionsMaxTokens   = 2000
	notProvided               = "Not provided"
)

// Round is one suggested interview round.
type Round struct {
	Name            string   `json:"round_name"`
	Type            string   `json:"round_type"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration_minutes"`
	QuestionCount   int      `json:"question_count"`
	FocusAreas      []string `json:"focus_areas"`
}

// RoundSpec describes the round to generate questions for.
type RoundSpec struct {
	Type           string
	Name           string
	JobRole        string
	JobDescription string
	QuestionCount  int
	FocusAreas     []string
}

var roundFocus = map[string]string{
	RoundHR: "Focus on background, motivation, cultural fit, expectations and availability. " +
		"Questions should assess work history, career goals, company fit, salary expectations and notice period.",
	RoundTechnical: "Focus on coding problems, algorithms, data structures, technical concepts and problem-solving. " +
		"Questions should be open-ended and test practical knowledge.",
	RoundSystemDesign: "Focus on scalable architecture, design patterns, trade-offs, database design and API design. " +
		"Questions should test high-level thinking and architectural skills.",
	RoundBehavioral: "Focus on leadership, teamwork, conflict resolution, decision-making and project management. " +
		"Frame questions for STAR answers (Situation, Task, Action, Result).",
}

type roundSet struct {
	SuggestedRounds []Round `json:"suggested_rounds"`
}

// SuggestRounds proposes 3 to 5 interview rounds for a job. It is advisory: any failure
// yields an empty list. Non-empty results are cached when a cache is configured.
func (g *Generator) SuggestRounds(ctx context.Context, jobRole, jobDescription string) []Round {
	jobRole = strings.TrimSpace(jobRole)
	jobDescription = strings.TrimSpace(jobDescription)
	if jobRole == "" {
		return []Round{}
	}

	key := "rounds:" + util.HashKey(strings.ToLower(jobRole), jobDescription)
	if cached, ok := g.cachedRounds(ctx, key); ok {
		return cached
	}

	const op = "questions.rounds"
	raw, err := g.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:    op,
		SystemPrompt: llm.RoundsSuggestSystem.Render(nil),
		UserPrompt: llm.RoundsSuggestUser.Render(map[string]string{
			"JOB_ROLE":        jobRole,
			"JOB_DESCRIPTION": orNotProvided(jobDescription),
		}),
		Temperature:     roundsTemperature,
		MaxOutputTokens: roundsMaxTokens,
	})
	if err != nil {
		logAdvisoryFailure(op, err)
		return []Round{}
	}
	var set roundSet
	if _, err := parse.DecodeField(raw, "suggested_rounds", &set); err != nil {
		logAdvisoryFailure(op, err)
		return []Round{}
	}

	rounds := normalizeRounds(set.SuggestedRounds)
	if len(rounds) > 0 && g.Cache != nil {
		if err := g.Cache.SetJSON(ctx, key, rounds, g.CacheTTL); err != nil {
			telemetry.Warn("questions.cache_write_failed", map[string]any{"error": err.Error()})
		}
	}
	return rounds
}

func (g *Generator) cachedRounds(ctx context.Context, key string) ([]Round, bool) {
	if g.Cache == nil {
		return nil, false
	}
	var rounds []Round
	ok, err := g.Cache.GetJSON(ctx, key, &rounds)
	if err != nil {
		telemetry.Warn("questions.cache_read_failed", map[string]any{"error": err.Error()})
		return nil, false
	}
	return rounds, ok && len(rounds) > 0
}

// normalizeRounds drops unnamed rounds and unknown types and fills defaults.
func normalizeRounds(in []Round) []Round {
	out := []Round{}
	for _, r := range in {
		r.Name = strings.TrimSpace(r.Name)
		r.Type = NormalizeRoundType(r.Type)
		if r.Name == "" || r.Type == "" {
			continue
		}
		if r.DurationMinutes <= 0 {
			r.DurationMinutes = DefaultRoundMinutes
		}
		r.QuestionCount = clampQuestionCount(r.QuestionCount)
		if r.FocusAreas == nil {
			r.FocusAreas = []string{}
		}
		out = append(out, r)
		if len(out) == MaxSuggestedRounds {
			break
		}
	}
	return out
}

// NormalizeRoundType lowercases t and maps spaces and dashes to underscores. It returns ""
// for an unrecognised type.
func NormalizeRoundType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.NewReplacer(" ", "_", "-", "_").Replace(t)
	if slices.Contains(RoundTypes, t) {
		return t
	}
	return ""
}

// ForRound generates exactly spec.QuestionCount questions for one round. Failures are
// returned wrapped in ErrGenerationFailed.
func (g *Generator) ForRound(ctx context.Context, spec RoundSpec) ([]Question, error) {
	spec.JobRole = strings.TrimSpace(spec.JobRole)
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.JobRole == "" {
		return nil, fmt.Errorf("%w: job role is required", ErrInvalidInput)
	}
	spec.Type = NormalizeRoundType(spec.Type)
	if spec.Name == "" {
		spec.Name = "Interview"
	}
	count := clampQuestionCount(spec.QuestionCount)

	const op = "questions.round"
	raw, err := g.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:    op,
		SystemPrompt: llm.RoundQuestionsSystem.Render(nil),
		UserPrompt: llm.RoundQuestionsUser.Render(map[string]string{
			"COUNT":           fmt.Sprint(count),
			"ROUND_NAME":      spec.Name,
			"JOB_ROLE":        spec.JobRole,
			"JOB_DESCRIPTION": orNotProvided(strings.TrimSpace(spec.JobDescription)),
			"ROUND_FOCUS":     roundFocusText(spec),
		}),
		Temperature:     roundQuestionsTemperature,
		MaxOutputTokens: roundQuestionsMaxTokens,
	})
	if err != nil {
		return nil, generationFailed(op, err)
	}
	return decodeQuestions(op, raw, count, false)
}

func roundFocusText(spec RoundSpec) string {
	focus, ok := roundFocus[spec.Type]
	if !ok {
		focus = "Ask questions that fit the " + spec.Name + " round."
	}
	if len(spec.FocusAreas) > 0 {
		focus += " Key focus areas: " + strings.Join(spec.FocusAreas, ", ") + "."
	}
	return focus
}

func clampQuestionCount(n int) int {
	switch {
	case n <= 0:
		return DefaultRoundQuestions
	case n > MaxRoundQuestions:
		return MaxRoundQuestions
	default:
		return n
	}
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

func logAdvisoryFailure(op string, err error) {
	telemetry.Warn("oracle.fallback", map[string]any{
		"component": "questions",
		"operation": op,
		"error":     err.Error(),
	})
}
