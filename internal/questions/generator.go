package questions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interview-backend/internal/cache"
	"interview-backend/internal/llm"
	"interview-backend/internal/llm/parse"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
)

// ResumeQuestionCount is how many questions a resume interview starts with.
const ResumeQuestionCount = 5

const (
	resumeTemperature = 0.3
	resumeMaxTokens   = 1500
	maxResumeRunes    = 12000
)

// Question is a generated interview question with the points a good answer covers.
type Question struct {
	Text           string   `json:"question"`
	ExpectedPoints []string `json:"expected_points"`
}

// Generator produces interview questions and round plans from the oracle.
// Cache is optional and only holds round suggestions.
type Generator struct {
	Oracle   llm.Client
	Cache    cache.Store
	CacheTTL time.Duration
}

// NewGenerator constructs a Generator. store may be nil.
func NewGenerator(oracle llm.Client, store cache.Store, ttl time.Duration) *Generator {
	return &Generator{Oracle: oracle, Cache: store, CacheTTL: ttl}
}

func (g *Generator) oracle() llm.Client {
	if g == nil || g.Oracle == nil {
		return llm.PlaceholderClient{}
	}
	return g.Oracle
}

// FromResume generates exactly ResumeQuestionCount questions, each with exactly three
// expected answer points. Any oracle, parse or validation failure is returned wrapped in
// ErrGenerationFailed; questions are never fabricated.
func (g *Generator) FromResume(ctx context.Context, resumeText, jobRole string) ([]Question, error) {
	resumeText = strings.TrimSpace(resumeText)
	jobRole = strings.TrimSpace(jobRole)
	if resumeText == "" || jobRole == "" {
		return nil, fmt.Errorf("%w: resume text and job role are required", ErrInvalidInput)
	}

	const op = "questions.resume"
	count := fmt.Sprint(ResumeQuestionCount)
	raw, err := g.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:    op,
		SystemPrompt: llm.QuestionsSystem.Render(nil),
		UserPrompt: llm.ResumeQuestionsUser.Render(map[string]string{
			"COUNT":    count,
			"JOB_ROLE": jobRole,
			"RESUME":   truncateRunes(resumeText, maxResumeRunes),
		}),
		Temperature:     resumeTemperature,
		MaxOutputTokens: resumeMaxTokens,
	})
	if err != nil {
		return nil, generationFailed(op, err)
	}
	return decodeQuestions(op, raw, ResumeQuestionCount, true)
}

func decodeQuestions(op, raw string, count int, requirePoints bool) ([]Question, error) {
	var set parse.QuestionSet
	layer, err := parse.DecodeField(raw, "questions", &set)
	if err != nil {
		return nil, generationFailed(op, err)
	}
	if err := parse.ValidateQuestionSet(set, count, requirePoints); err != nil {
		return nil, generationFailed(op, err)
	}
	if layer != parse.LayerStrict {
		telemetry.Info("questions.decoded", map[string]any{"operation": op, "layer": layer.String()})
	}

	out := make([]Question, 0, len(set.Questions))
	for _, q := range set.Questions {
		points := make([]string, 0, len(q.Points()))
		for _, p := range q.Points() {
			if p = strings.TrimSpace(p); p != "" {
				points = append(points, p)
			}
		}
		out = append(out, Question{Text: strings.TrimSpace(q.Question), ExpectedPoints: points})
	}
	return out, nil
}

func generationFailed(op string, err error) error {
	metrics.IncGenerationFailed()
	telemetry.Error("questions.generation_failed", map[string]any{
		"operation": op,
		"error":     err.Error(),
	})
	return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, op, err)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
