package improvement

import (
	"context"
	"encoding/json"
	"strconv"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/llm"
	"interview-backend/internal/llm/parse"
)

const (
	learningPathTemperature = 0.7
	learningPathMaxTokens   = 2000
	maxAnswerRunesInPrompt  = 1000
)

// LearningPath is the oracle-written personalized roadmap stored next to a plan.
type LearningPath struct {
	Strengths  []string       `json:"strengths"`
	Weaknesses []string       `json:"weaknesses"`
	Roadmap    Roadmap        `json:"roadmap"`
	Resources  []PathResource `json:"resources"`
}

// Roadmap groups actions by horizon.
type Roadmap struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"short_term"`
	LongTerm  []string `json:"long_term"`
}

// PathResource is an oracle-suggested resource. Unlike RecommendedResource it is not
// drawn from any catalog.
type PathResource struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// AnsweredQuestion is one scored answer summarized for the learning path prompt.
type AnsweredQuestion struct {
	Question   string
	Answer     string
	Type       string
	Evaluation evaluation.AnswerEvaluation
}

// LearningPathInput is everything the learning path prompt needs.
type LearningPathInput struct {
	JobRole string
	Metrics evaluation.InterviewMetrics
	Answers []AnsweredQuestion
}

// IsEmpty reports whether the oracle returned nothing usable.
func (p LearningPath) IsEmpty() bool {
	return len(p.Strengths) == 0 && len(p.Weaknesses) == 0 &&
		len(p.Roadmap.Immediate) == 0 && len(p.Roadmap.ShortTerm) == 0 && len(p.Roadmap.LongTerm) == 0 &&
		len(p.Resources) == 0
}

// LearningPath asks the oracle for a personalized roadmap. It is advisory: the second
// return value is false when the oracle fails or its reply cannot be decoded.
func (g *Generator) LearningPath(ctx context.Context, in LearningPathInput) (LearningPath, bool) {
	const op = "improvement.learning_path"
	answers, err := answersJSON(in.Answers)
	if err != nil {
		logFallback(op, err)
		return LearningPath{}, false
	}
	raw, err := g.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:    op,
		SystemPrompt: llm.LearningPathSystem.Render(nil),
		UserPrompt: llm.LearningPathUser.Render(map[string]string{
			"JOB_ROLE":      in.JobRole,
			"TECHNICAL":     formatScore(in.Metrics.AverageTechnical),
			"COMMUNICATION": formatScore(in.Metrics.AverageCommunication),
			"CONFIDENCE":    formatScore(in.Metrics.AverageConfidence),
			"OVERALL":       formatScore(in.Metrics.AverageOverall),
			"ANSWERS":       answers,
		}),
		Temperature:     learningPathTemperature,
		MaxOutputTokens: learningPathMaxTokens,
	})
	if err != nil {
		logFallback(op, err)
		return LearningPath{}, false
	}

	var path LearningPath
	if _, err := parse.DecodeField(raw, "strengths", &path); err != nil {
		logFallback(op, err)
		return LearningPath{}, false
	}
	if path.IsEmpty() {
		logFallback(op, &parse.ValidationError{Field: "learning_path", Reason: "no content"})
		return LearningPath{}, false
	}
	return path, true
}

type promptAnswer struct {
	Question      string  `json:"question"`
	Answer        string  `json:"answer"`
	Type          string  `json:"type"`
	Score         float64 `json:"score"`
	Technical     float64 `json:"technical"`
	Communication float64 `json:"communication"`
	Confidence    float64 `json:"confidence"`
}

func answersJSON(answers []AnsweredQuestion) (string, error) {
	items := make([]promptAnswer, 0, len(answers))
	for _, a := range answers {
		typ := a.Type
		if typ == "" {
			typ = "main"
		}
		items = append(items, promptAnswer{
			Question:      a.Question,
			Answer:        truncateRunes(a.Answer, maxAnswerRunesInPrompt),
			Type:          typ,
			Score:         a.Evaluation.OverallScore,
			Technical:     a.Evaluation.TechnicalScore,
			Communication: a.Evaluation.CommunicationScore,
			Confidence:    a.Evaluation.ConfidenceScore,
		})
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
