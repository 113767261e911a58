package roles

import (
	"context"
	"errors"
	"testing"

	"interview-backend/internal/evaluation"
)

func TestServiceCreateAndOwnerOf(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	role, err := svc.Create(ctx, "owner-1", CreateInput{
		Name:    " Data Engineer ",
		Weights: evaluation.NewWeights(0.6, 0.2, 0.2),
		Questions: []QuestionInput{
			{Question: "Describe a pipeline you built.", ExpectedPoints: []string{"ingest", " ", "transform"}},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if role.Name != "Data Engineer" {
		t.Fatalf("expected trimmed name, got %q", role.Name)
	}
	if got := role.Questions[0].ExpectedPoints; len(got) != 2 {
		t.Fatalf("expected blank points dropped, got %v", got)
	}

	owner, err := svc.OwnerOf(ctx, role.ID)
	if err != nil || owner != "owner-1" {
		t.Fatalf("OwnerOf = %q, %v", owner, err)
	}
	if _, err := svc.OwnerOf(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceCreateRejectsBlankQuestion(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:      "QA",
		Questions: []QuestionInput{{Question: "  "}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()
	role, err := svc.Create(ctx, "owner-1", CreateInput{
		Name:      "SRE",
		Questions: []QuestionInput{{Question: "What is an SLO?", ExpectedPoints: []string{"objective"}}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, _ := svc.Get(ctx, role.ID)
	got.Questions[0].ExpectedPoints[0] = "mutated"

	again, _ := svc.Get(ctx, role.ID)
	if again.Questions[0].ExpectedPoints[0] != "objective" {
		t.Fatal("stored role was mutated through a returned copy")
	}
}

func TestRoleVisibilityAndDifficulty(t *testing.T) {
	role := Role{
		OwnerID: "owner-1",
		Questions: []Question{
			{ID: "q1", Difficulty: "easy"},
			{ID: "q2", Difficulty: "Hard"},
			{ID: "q3"},
		},
	}
	if !role.VisibleTo("owner-1") || role.VisibleTo("someone-else") {
		t.Fatalf("unexpected visibility for owned role")
	}
	shared := Role{OwnerID: SharedOwnerID}
	if !shared.VisibleTo("anyone") {
		t.Fatalf("expected shared role to be visible")
	}

	tests := []struct {
		difficulty string
		want       []string
	}{
		{difficulty: "", want: []string{"q1", "q2", "q3"}},
		{difficulty: "hard", want: []string{"q2", "q3"}},
		{difficulty: " EASY ", want: []string{"q1", "q3"}},
		{difficulty: "medium", want: []string{"q3"}},
	}
	for _, tt := range tests {
		got := role.QuestionsFor(tt.difficulty)
		if len(got) != len(tt.want) {
			t.Fatalf("QuestionsFor(%q): expected %d questions, got %d", tt.difficulty, len(tt.want), len(got))
		}
		for i, q := range got {
			if q.ID != tt.want[i] {
				t.Fatalf("QuestionsFor(%q)[%d] = %s, want %s", tt.difficulty, i, q.ID, tt.want[i])
			}
		}
	}
}
