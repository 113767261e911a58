package llm

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.txt
var promptFiles embed.FS

// Template is an embedded prompt with {{KEY}} placeholders.
type Template struct {
	name string
	text string
}

var (
	TechnicalSystem = mustTemplate("technical_system")
	TechnicalUser   = mustTemplate("technical_user")
	GrammarSystem   = mustTemplate("grammar_system")
	GrammarUser     = mustTemplate("grammar_user")
	FeedbackSystem  = mustTemplate("feedback_system")
	FeedbackUser    = mustTemplate("feedback_user")

	FollowUpSystem        = mustTemplate("followup_system")
	FollowUpDeeper        = mustTemplate("followup_deeper")
	FollowUpClarification = mustTemplate("followup_clarification")

	StepsSystem        = mustTemplate("steps_system")
	StepsUser          = mustTemplate("steps_user")
	LearningPathSystem = mustTemplate("learning_path_system")
	LearningPathUser   = mustTemplate("learning_path_user")

	QuestionsSystem      = mustTemplate("questions_system")
	ResumeQuestionsUser  = mustTemplate("resume_questions_user")
	RoundsSuggestSystem  = mustTemplate("rounds_suggest_system")
	RoundsSuggestUser    = mustTemplate("rounds_suggest_user")
	RoundQuestionsSystem = mustTemplate("round_questions_system")
	RoundQuestionsUser   = mustTemplate("round_questions_user")
)

func mustTemplate(name string) Template {
	data, err := promptFiles.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		panic(fmt.Sprintf("prompt template %q not embedded: %v", name, err))
	}
	return Template{name: name, text: strings.TrimSpace(string(data))}
}

// Name returns the template file name without extension.
func (t Template) Name() string {
	return t.name
}

// Render substitutes every {{KEY}} placeholder present in vars.
func (t Template) Render(vars map[string]string) string {
	if len(vars) == 0 {
		return t.text
	}
	pairs := make([]string, 0, len(vars)*2)
	for key, val := range vars {
		pairs = append(pairs, "{{"+key+"}}", val)
	}
	return strings.NewReplacer(pairs...).Replace(t.text)
}

// Bullets renders items as a "- item" list, one per line.
func Bullets(items []string) string {
	if len(items) == 0 {
		return "- (none provided)"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(strings.TrimSpace(item))
	}
	return b.String()
}
