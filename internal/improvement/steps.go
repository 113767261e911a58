package improvement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"interview-backend/internal/llm"
)

// NoWeakAreasStep is the single step returned when nothing needs work.
const NoWeakAreasStep = "Great job! Continue practicing to maintain your performance level."

// FallbackSteps is returned when the oracle cannot produce steps.
var FallbackSteps = []string{
	"Review fundamental concepts in your weak areas",
	"Practice explaining technical concepts clearly",
	"Record yourself answering practice questions",
	"Seek feedback from peers or mentors",
	"Take online courses to strengthen knowledge gaps",
}

const (
	stepsTemperature = 0.7
	stepsMaxTokens   = 400
	// numberedPrefixRunes is how far into a line a digit may appear for it to count as a step.
	numberedPrefixRunes = 3
)

// ImprovementSteps asks the oracle for five action items targeting the weak areas.
func (g *Generator) ImprovementSteps(ctx context.Context, weak []WeakArea) []string {
	if len(weak) == 0 {
		return []string{NoWeakAreasStep}
	}
	const op = "improvement.steps"
	raw, err := g.oracle().Complete(ctx, llm.CompletionRequest{
		Operation:       op,
		SystemPrompt:    llm.StepsSystem.Render(nil),
		UserPrompt:      llm.StepsUser.Render(map[string]string{"WEAK_AREAS": describeWeakAreas(weak)}),
		Temperature:     stepsTemperature,
		MaxOutputTokens: stepsMaxTokens,
	})
	content := strings.TrimSpace(raw)
	if err == nil && content == "" {
		err = errors.New("empty steps reply")
	}
	if err != nil {
		logFallback(op, err)
		return append([]string(nil), FallbackSteps...)
	}
	return ParseSteps(content)
}

// ParseSteps keeps the lines that carry a digit near their start. When none do, the
// whole reply becomes the only step.
func ParseSteps(content string) []string {
	var steps []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if hasLeadingDigit(line) {
			steps = append(steps, line)
		}
	}
	if len(steps) == 0 {
		return []string{strings.TrimSpace(content)}
	}
	return steps
}

func hasLeadingDigit(line string) bool {
	n := 0
	for _, r := range line {
		if n == numberedPrefixRunes {
			break
		}
		if unicode.IsDigit(r) {
			return true
		}
		n++
	}
	return false
}

func describeWeakAreas(weak []WeakArea) string {
	lines := make([]string, 0, len(weak))
	for _, wa := range weak {
		lines = append(lines, fmt.Sprintf("- %s: %s/100 (%s priority)",
			wa.Area, strconv.FormatFloat(wa.Score, 'f', -1, 64), wa.Severity))
	}
	return strings.Join(lines, "\n")
}
