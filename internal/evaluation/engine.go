package evaluation

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"interview-backend/internal/llm"
	"interview-backend/internal/llm/parse"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
)

// Documented defaults applied when the oracle fails or its output cannot be parsed.
const (
	DefaultTechnicalScore = 50.0
	DefaultGrammarScore   = 70.0
	FallbackFeedback      = "Good effort on this answer. Consider providing more specific examples and structuring your response more clearly to demonstrate your knowledge."
)

// Oracle sampling settings per call site.
const (
	technicalTemperature = 0.2
	technicalMaxTokens   = 20
	grammarTemperature   = 0.3
	grammarMaxTokens     = 20
	feedbackTemperature  = 0.7
	feedbackMaxTokens    = 200
)

// Input is one answer to evaluate.
type Input struct {
	Question       string
	Answer         string
	ExpectedPoints []string
	Weights        Weights
}

// AnswerEvaluation is the immutable result of scoring one answer.
type AnswerEvaluation struct {
	TechnicalScore     float64 `json:"technical_score"`
	CommunicationScore float64 `json:"communication_score"`
	ConfidenceScore    float64 `json:"confidence_score"`
	OverallScore       float64 `json:"overall_score"`
	Feedback           string  `json:"feedback"`
}

// Engine scores answers. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	Oracle llm.Client
}

// NewEngine returns an Engine backed by oracle. A nil oracle behaves as permanently unavailable.
func NewEngine(oracle llm.Client) *Engine {
	return &Engine{Oracle: oracle}
}

func (e *Engine) oracle() llm.Client {
	if e == nil || e.Oracle == nil {
		return llm.PlaceholderClient{}
	}
	return e.Oracle
}

// EvaluateResponse scores one answer. The technical, grammar and feedback oracle calls run
// concurrently; each degrades to its documented default, so the result is always complete.
func (e *Engine) EvaluateResponse(ctx context.Context, in Input) AnswerEvaluation {
	start := time.Now()
	weights := in.Weights.Resolve()

	var (
		technical float64
		grammar   float64
		feedback  string
	)
	var g errgroup.Group
	g.Go(func() error {
		technical = e.ScoreTechnical(ctx, in.Question, in.Answer, in.ExpectedPoints)
		return nil
	})
	g.Go(func() error {
		grammar = e.ScoreGrammar(ctx, in.Answer)
		return nil
	})
	g.Go(func() error {
		feedback = e.GenerateFeedback(ctx, in.Question, in.Answer, in.ExpectedPoints)
		return nil
	})
	_ = g.Wait()

	communication := ScoreCommunication(in.Answer, grammar)
	confidence := ScoreConfidence(in.Answer)
	technical = parse.ClampScore(technical)

	metrics.IncEvaluations()
	metrics.ObserveEvaluationDurationMs(metrics.SinceMillis(start))

	return AnswerEvaluation{
		TechnicalScore:     round2(technical),
		CommunicationScore: round2(communication),
		ConfidenceScore:    round2(confidence),
		OverallScore:       round2(weights.Combine(technical, communication, confidence)),
		Feedback:           feedback,
	}
}

// ScoreTechnical asks the oracle for a grammar-blind technical score, defaulting to 50.
func (e *Engine) ScoreTechnical(ctx context.Context, question, answer string, expectedPoints []string) float64 {
	const op = "score.technical"
	raw, err := e.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:    op,
		SystemPrompt: llm.TechnicalSystem.Render(nil),
		UserPrompt: llm.TechnicalUser.Render(map[string]string{
			"QUESTION":        question,
			"EXPECTED_POINTS": llm.Bullets(expectedPoints),
			"ANSWER":          answer,
		}),
		Temperature:     technicalTemperature,
		MaxOutputTokens: technicalMaxTokens,
	})
	if err == nil {
		var score float64
		if score, err = parse.TaggedScore(raw, parse.ScoreTag); err == nil {
			return score
		}
	}
	logFallback(op, "technical", DefaultTechnicalScore, err)
	return DefaultTechnicalScore
}

// ScoreGrammar asks the oracle for a clarity score that ignores accent and nativeness, defaulting to 70.
func (e *Engine) ScoreGrammar(ctx context.Context, answer string) float64 {
	const op = "score.grammar"
	raw, err := e.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:       op,
		SystemPrompt:    llm.GrammarSystem.Render(nil),
		UserPrompt:      llm.GrammarUser.Render(map[string]string{"ANSWER": answer}),
		Temperature:     grammarTemperature,
		MaxOutputTokens: grammarMaxTokens,
	})
	if err == nil {
		var score float64
		if score, err = parse.TaggedScore(raw, parse.ScoreTag); err == nil {
			return score
		}
	}
	logFallback(op, "grammar", DefaultGrammarScore, err)
	return DefaultGrammarScore
}

// GenerateFeedback asks the oracle for 2-3 sentences of neutral, content-focused feedback.
func (e *Engine) GenerateFeedback(ctx context.Context, question, answer string, expectedPoints []string) string {
	const op = "feedback"
	raw, err := e.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:    op,
		SystemPrompt: llm.FeedbackSystem.Render(nil),
		UserPrompt: llm.FeedbackUser.Render(map[string]string{
			"QUESTION":        question,
			"EXPECTED_POINTS": llm.Bullets(expectedPoints),
			"ANSWER":          answer,
		}),
		Temperature:     feedbackTemperature,
		MaxOutputTokens: feedbackMaxTokens,
	})
	if err == nil {
		if text := strings.TrimSpace(raw); text != "" {
			return text
		}
		err = &parse.ParseError{Kind: "text", Reason: "empty feedback"}
	}
	logFallback(op, "feedback", FallbackFeedback, err)
	return FallbackFeedback
}

func logFallback(operation, dimension string, def any, err error) {
	metrics.IncScoreFallback(dimension)
	fields := map[string]any{
		"component": "evaluation",
		"operation": operation,
		"default":   def,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("oracle.fallback", fields)
}
