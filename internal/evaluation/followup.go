package evaluation

import (
	"context"
	"strings"

	"interview-backend/internal/llm"
)

// Follow-up thresholds on an answer's overall score.
const (
	DeeperFollowUpThreshold        = 85.0
	ClarificationFollowUpThreshold = 60.0
)

// Follow-up kinds.
const (
	FollowUpDeeper        = "deeper"
	FollowUpClarification = "clarification"
)

const (
	followUpTemperature = 0.7
	followUpMaxTokens   = 150
)

// FollowUp is a generated follow-up question.
type FollowUp struct {
	Kind     string `json:"kind"`
	Question string `json:"question"`
}

// FollowUpKind returns the kind of follow-up an overall score warrants, or "" for none.
func FollowUpKind(overall float64) string {
	switch {
	case overall >= DeeperFollowUpThreshold:
		return FollowUpDeeper
	case overall < ClarificationFollowUpThreshold:
		return FollowUpClarification
	default:
		return ""
	}
}

// GenerateFollowUp asks for one follow-up question when the score is high or low enough.
// It is advisory: any oracle failure or empty reply means no follow-up.
func (e *Engine) GenerateFollowUp(ctx context.Context, question, answer string, overall float64) (FollowUp, bool) {
	kind := FollowUpKind(overall)
	if kind == "" {
		return FollowUp{}, false
	}
	tmpl := llm.FollowUpClarification
	if kind == FollowUpDeeper {
		tmpl = llm.FollowUpDeeper
	}
	op := "followup." + kind
	raw, err := e.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:       op,
		SystemPrompt:    llm.FollowUpSystem.Render(nil),
		UserPrompt:      tmpl.Render(map[string]string{"QUESTION": question, "ANSWER": answer}),
		Temperature:     followUpTemperature,
		MaxOutputTokens: followUpMaxTokens,
	})
	if err != nil {
		logFallback(op, "followup", "none", err)
		return FollowUp{}, false
	}
	text := strings.Trim(strings.TrimSpace(raw), `"'`)
	text = strings.TrimSpace(text)
	if text == "" {
		return FollowUp{}, false
	}
	return FollowUp{Kind: kind, Question: text}, true
}
