package evaluation

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"interview-backend/internal/llm"
)

func scriptedOracle(replies map[string]string) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		reply, ok := replies[req.Operation]
		if !ok {
			return "", llm.Unavailable("test", errors.New("no scripted reply for "+req.Operation))
		}
		return reply, nil
	})
}

func TestEvaluateResponseScriptedOracle(t *testing.T) {
	engine := NewEngine(scriptedOracle(map[string]string{
		"score.technical": "<SCORE>80</SCORE>",
		"score.grammar":   "<SCORE>90</SCORE>",
		"feedback":        "  Solid answer with room for an example.  ",
	}))

	got := engine.EvaluateResponse(context.Background(), Input{Question: "What is a mutex?"})
	want := AnswerEvaluation{
		TechnicalScore:     80,
		CommunicationScore: 62,
		ConfidenceScore:    60,
		OverallScore:       68.6,
		Feedback:           "Solid answer with room for an example.",
	}
	if got != want {
		t.Fatalf("EvaluateResponse = %+v, want %+v", got, want)
	}
}

func TestEvaluateResponseOracleFailureUsesDefaults(t *testing.T) {
	failing := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "", llm.Unavailable("test", errors.New("boom"))
	})
	got := NewEngine(failing).EvaluateResponse(context.Background(), Input{Question: "q", Answer: ""})

	if got.TechnicalScore != DefaultTechnicalScore {
		t.Fatalf("expected technical default %v, got %v", DefaultTechnicalScore, got.TechnicalScore)
	}
	if got.CommunicationScore != 56 {
		t.Fatalf("expected communication to blend grammar default 70, got %v", got.CommunicationScore)
	}
	if got.Feedback != FallbackFeedback {
		t.Fatalf("expected fallback feedback, got %q", got.Feedback)
	}
	if got.OverallScore != 54.8 {
		t.Fatalf("expected overall 54.8, got %v", got.OverallScore)
	}
}

func TestEvaluateResponseUnparseableScores(t *testing.T) {
	engine := NewEngine(scriptedOracle(map[string]string{
		"score.technical": "I would rate this answer highly.",
		"score.grammar":   "<SCORE>n/a</SCORE>",
		"feedback":        "   ",
	}))
	got := engine.EvaluateResponse(context.Background(), Input{Question: "q", Answer: "a"})
	if got.TechnicalScore != DefaultTechnicalScore {
		t.Fatalf("expected technical default, got %v", got.TechnicalScore)
	}
	if got.Feedback != FallbackFeedback {
		t.Fatalf("expected fallback feedback for blank reply, got %q", got.Feedback)
	}
}

func TestEvaluateResponseNilOracle(t *testing.T) {
	var engine *Engine
	got := engine.EvaluateResponse(context.Background(), Input{Question: "q", Answer: "a"})
	if got.TechnicalScore != DefaultTechnicalScore || got.Feedback != FallbackFeedback {
		t.Fatalf("expected defaults from nil engine, got %+v", got)
	}
}

func TestEvaluateResponseWeightsOverride(t *testing.T) {
	engine := NewEngine(scriptedOracle(map[string]string{
		"score.technical": "<SCORE>80</SCORE>",
		"score.grammar":   "<SCORE>0</SCORE>",
		"feedback":        "ok",
	}))
	got := engine.EvaluateResponse(context.Background(), Input{
		Question: "q",
		Answer:   "um",
		Weights:  NewWeights(1, 0, 0),
	})
	if got.OverallScore != 80 {
		t.Fatalf("expected overall to equal technical score, got %v", got.OverallScore)
	}
}

func TestEvaluateResponseScoresInRange(t *testing.T) {
	engine := NewEngine(scriptedOracle(map[string]string{
		"score.technical": "<SCORE>250</SCORE>",
		"score.grammar":   "<SCORE>-40</SCORE>",
		"feedback":        "ok",
	}))
	for _, w := range []Weights{{}, NewWeights(3, 3, 3), NewWeights(-1, -1, -1), NewWeights(math.Inf(1), 0, 0)} {
		got := engine.EvaluateResponse(context.Background(), Input{Question: "q", Answer: "some answer", Weights: w})
		for _, v := range []float64{got.TechnicalScore, got.CommunicationScore, got.ConfidenceScore, got.OverallScore} {
			if math.IsNaN(v) || v < 0 || v > 100 {
				t.Fatalf("score out of range for weights %+v: %+v", w.Resolve(), got)
			}
		}
	}
}

func TestEvaluateResponseCallsOracleConcurrently(t *testing.T) {
	var arrived sync.WaitGroup
	arrived.Add(3)
	released := make(chan struct{})
	go func() {
		arrived.Wait()
		close(released)
	}()

	oracle := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		arrived.Done()
		select {
		case <-released:
		case <-time.After(2 * time.Second):
			return "", llm.Unavailable("test", errors.New("calls were serialized"))
		}
		if req.Operation == "feedback" {
			return "fine", nil
		}
		return "<SCORE>90</SCORE>", nil
	})

	got := NewEngine(oracle).EvaluateResponse(context.Background(), Input{Question: "q", Answer: "a"})
	if got.TechnicalScore != 90 || got.Feedback != "fine" {
		t.Fatalf("expected all three calls to overlap, got %+v", got)
	}
}

func TestFeedbackPromptExcludesScores(t *testing.T) {
	var prompt string
	oracle := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		if req.Operation == "feedback" {
			prompt = req.SystemPrompt + req.UserPrompt
		}
		return "<SCORE>10</SCORE>", nil
	})
	NewEngine(oracle).GenerateFeedback(context.Background(), "What is CAP?", "Consistency and availability.", []string{"partition tolerance"})
	if prompt == "" {
		t.Fatal("feedback prompt not captured")
	}
	for _, forbidden := range []string{"<SCORE>", "technical score", "overall score"} {
		if strings.Contains(strings.ToLower(prompt), strings.ToLower(forbidden)) {
			t.Fatalf("feedback prompt should not mention %q:\n%s", forbidden, prompt)
		}
	}
}

func TestFollowUpKind(t *testing.T) {
	tests := []struct {
		overall float64
		want    string
	}{
		{100, FollowUpDeeper},
		{85, FollowUpDeeper},
		{84.99, ""},
		{60, ""},
		{59.99, FollowUpClarification},
		{0, FollowUpClarification},
	}
	for _, tt := range tests {
		if got := FollowUpKind(tt.overall); got != tt.want {
			t.Fatalf("FollowUpKind(%v) = %q, want %q", tt.overall, got, tt.want)
		}
	}
}

func TestGenerateFollowUp(t *testing.T) {
	engine := NewEngine(scriptedOracle(map[string]string{
		"followup.deeper":        `"How would this scale to many writers?"`,
		"followup.clarification": "   ",
	}))

	fu, ok := engine.GenerateFollowUp(context.Background(), "q", "a", 92)
	if !ok || fu.Kind != FollowUpDeeper || fu.Question != "How would this scale to many writers?" {
		t.Fatalf("unexpected deeper follow-up: %+v, %v", fu, ok)
	}
	if _, ok := engine.GenerateFollowUp(context.Background(), "q", "a", 70); ok {
		t.Fatal("expected no follow-up for a mid-range score")
	}
	if _, ok := engine.GenerateFollowUp(context.Background(), "q", "a", 30); ok {
		t.Fatal("expected blank oracle reply to produce no follow-up")
	}
	if _, ok := NewEngine(nil).GenerateFollowUp(context.Background(), "q", "a", 30); ok {
		t.Fatal("expected unavailable oracle to produce no follow-up")
	}
}
