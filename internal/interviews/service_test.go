package interviews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/improvement"
	"interview-backend/internal/llm"
	"interview-backend/internal/questions"
	"interview-backend/internal/resources"
	"interview-backend/internal/resumes"
	"interview-backend/internal/roles"
)

type stubEvaluator struct {
	overall     float64
	followUp    bool
	lastWeights evaluation.Weights
	calls       int
}

func (s *stubEvaluator) EvaluateResponse(ctx context.Context, in evaluation.Input) evaluation.AnswerEvaluation {
	s.calls++
	s.lastWeights = in.Weights
	return evaluation.AnswerEvaluation{
		TechnicalScore:     s.overall,
		CommunicationScore: s.overall,
		ConfidenceScore:    s.overall,
		OverallScore:       s.overall,
		Feedback:           "ok",
	}
}

func (s *stubEvaluator) GenerateFollowUp(ctx context.Context, question, answer string, overall float64) (evaluation.FollowUp, bool) {
	if !s.followUp {
		return evaluation.FollowUp{}, false
	}
	return evaluation.FollowUp{Kind: "deeper", Question: "Can you go deeper on " + question + "?"}, true
}

type stubPlans struct {
	withPath bool
	roleID   string
}

func (s *stubPlans) GeneratePlan(ctx context.Context, m evaluation.InterviewMetrics, roleID string) improvement.Plan {
	s.roleID = roleID
	return improvement.Plan{
		ImprovementSteps:      []string{"practice"},
		OverallRecommendation: fmt.Sprintf("scored %.2f", m.AverageOverall),
	}
}

func (s *stubPlans) LearningPath(ctx context.Context, in improvement.LearningPathInput) (improvement.LearningPath, bool) {
	if !s.withPath {
		return improvement.LearningPath{}, false
	}
	return improvement.LearningPath{Strengths: []string{in.JobRole}}, true
}

type stubQuestions struct {
	err      error
	jobRole  string
	lastSpec questions.RoundSpec
}

func (s *stubQuestions) FromResume(ctx context.Context, resumeText, jobRole string) ([]questions.Question, error) {
	s.jobRole = jobRole
	if s.err != nil {
		return nil, s.err
	}
	out := make([]questions.Question, 0, 5)
	for i := 0; i < 5; i++ {
		out = append(out, questions.Question{
			Text:           fmt.Sprintf("Question %d", i+1),
			ExpectedPoints: []string{"a", "b", "c"},
		})
	}
	return out, nil
}

func (s *stubQuestions) ForRound(ctx context.Context, spec questions.RoundSpec) ([]questions.Question, error) {
	s.lastSpec = spec
	if s.err != nil {
		return nil, s.err
	}
	out := make([]questions.Question, 0, spec.QuestionCount)
	for i := 0; i < spec.QuestionCount; i++ {
		out = append(out, questions.Question{Text: fmt.Sprintf("%s question %d", spec.Name, i+1)})
	}
	return out, nil
}

type stubResumes struct {
	text      string
	err       error
	discarded []string
}

func (s *stubResumes) Upload(ctx context.Context, userID, fileName string, r io.Reader) (resumes.Resume, error) {
	if _, err := io.ReadAll(r); err != nil {
		return resumes.Resume{}, err
	}
	return resumes.Resume{ID: "res-1", UserID: userID, FileName: fileName}, nil
}

func (s *stubResumes) Text(ctx context.Context, res resumes.Resume) (string, error) {
	return s.text, s.err
}

func (s *stubResumes) Discard(ctx context.Context, res resumes.Resume) error {
	s.discarded = append(s.discarded, res.ID)
	return nil
}

type fixture struct {
	svc     *Service
	repo    *MemoryRepo
	roles   *roles.MemoryRepo
	eval    *stubEvaluator
	plans   *stubPlans
	qs      *stubQuestions
	resumes *stubResumes
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		repo:    NewMemoryRepo(),
		roles:   roles.NewMemoryRepo(),
		eval:    &stubEvaluator{overall: 70},
		plans:   &stubPlans{withPath: true},
		qs:      &stubQuestions{},
		resumes: &stubResumes{text: "Go engineer with Postgres experience"},
	}
	f.svc = &Service{
		Repo:      f.repo,
		Resumes:   f.resumes,
		Roles:     f.roles,
		Questions: f.qs,
		Evaluator: f.eval,
		Plans:     f.plans,
		Now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
	return f
}

func (f fixture) seedRole(t *testing.T, owner string, weights evaluation.Weights) roles.Role {
	t.Helper()
	role := roles.Role{
		ID:      "role-1",
		OwnerID: owner,
		Name:    "Backend Engineer",
		Weights: weights,
		Questions: []roles.Question{
			{ID: "rq-1", Question: "Explain indexes", Difficulty: "easy", ExpectedPoints: []string{"b-tree"}},
			{ID: "rq-2", Question: "Design a queue", Difficulty: "hard"},
			{ID: "rq-3", Question: "Tell me about yourself"},
		},
	}
	if err := f.roles.Create(context.Background(), role); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return role
}

func TestStartFromResume(t *testing.T) {
	f := newFixture(t)
	started, err := f.svc.StartFromResume(context.Background(), "user-1", ResumeInput{
		JobRole:        " Backend Engineer ",
		JobDescription: "Build APIs",
		FocusAreas:     "databases",
		FileName:       "cv.pdf",
		Body:           strings.NewReader("%PDF"),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(started.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(started.Questions))
	}
	if started.Interview.ResumeID != "res-1" || started.Interview.Source != SourceResume {
		t.Fatalf("unexpected interview: %+v", started.Interview)
	}
	want := "Backend Engineer\nJob Description: Build APIs\nFocus Areas: databases"
	if f.qs.jobRole != want {
		t.Fatalf("unexpected job context %q", f.qs.jobRole)
	}
	for i, q := range started.Questions {
		if q.Position != i || q.Type != QuestionMain {
			t.Fatalf("unexpected question %d: %+v", i, q)
		}
	}
	if len(f.resumes.discarded) != 0 {
		t.Fatalf("expected resume kept, discarded %v", f.resumes.discarded)
	}
}

func TestStartFromResumeSurfacesGenerationFailure(t *testing.T) {
	f := newFixture(t)
	f.qs.err = fmt.Errorf("%w: wrong count", questions.ErrGenerationFailed)

	_, err := f.svc.StartFromResume(context.Background(), "user-1", ResumeInput{
		JobRole:  "Backend Engineer",
		FileName: "cv.pdf",
		Body:     strings.NewReader("%PDF"),
	})
	if !errors.Is(err, questions.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	items, _ := f.repo.ListByUser(context.Background(), "user-1")
	if len(items) != 0 {
		t.Fatalf("expected no interview stored, got %d", len(items))
	}
	if len(f.resumes.discarded) != 1 || f.resumes.discarded[0] != "res-1" {
		t.Fatalf("expected stored resume to be discarded, got %v", f.resumes.discarded)
	}
}

func TestStartFromResumeValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   ResumeInput
	}{
		{name: "missing role", in: ResumeInput{FileName: "cv.pdf", Body: strings.NewReader("x")}},
		{name: "missing file", in: ResumeInput{JobRole: "SRE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.StartFromResume(context.Background(), "user-1", tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	empty := &stubResumes{err: resumes.ErrEmptyText}
	f.svc.Resumes = empty
	_, err := f.svc.StartFromResume(context.Background(), "user-1", ResumeInput{
		JobRole:  "SRE",
		FileName: "cv.pdf",
		Body:     strings.NewReader("x"),
	})
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, resumes.ErrEmptyText) {
		t.Fatalf("expected wrapped ErrEmptyText, got %v", err)
	}
	if len(empty.discarded) != 1 {
		t.Fatalf("expected unreadable resume to be discarded, got %v", empty.discarded)
	}
}

func TestStartForRoleFiltersDifficulty(t *testing.T) {
	f := newFixture(t)
	f.seedRole(t, roles.SharedOwnerID, evaluation.Weights{})

	started, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1", Difficulty: "Easy"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(started.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(started.Questions))
	}
	if started.Interview.Difficulty != "easy" || started.Interview.JobRole != "Backend Engineer" {
		t.Fatalf("unexpected interview: %+v", started.Interview)
	}
}

func TestStartForRoleNotVisible(t *testing.T) {
	f := newFixture(t)
	f.seedRole(t, "someone-else", evaluation.Weights{})

	if _, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing role, got %v", err)
	}
}

func TestSubmitAnswerWeightResolution(t *testing.T) {
	roleWeights := evaluation.NewWeights(0.6, 0.2, 0.2)
	cases := []struct {
		name     string
		override string
		want     evaluation.ResolvedWeights
	}{
		{name: "role default", want: roleWeights.Resolve()},
		{name: "override", override: `{"technical_weight":0.2}`, want: evaluation.ResolvedWeights{Technical: 0.2, Communication: 0.3, Confidence: 0.3}},
		{name: "unparseable override", override: `{not json`, want: evaluation.DefaultWeights()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedRole(t, "user-1", roleWeights)
			started, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1", Weights: tc.override})
			if err != nil {
				t.Fatalf("start: %v", err)
			}
			if _, err := f.svc.SubmitAnswer(context.Background(), "user-1", started.Interview.ID, started.Questions[0].ID, "an answer"); err != nil {
				t.Fatalf("submit: %v", err)
			}
			if got := f.eval.lastWeights.Resolve(); got != tc.want {
				t.Fatalf("expected weights %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestSubmitAnswerAddsOneFollowUp(t *testing.T) {
	f := newFixture(t)
	f.seedRole(t, "user-1", evaluation.Weights{})
	f.eval.followUp = true
	f.eval.overall = 90

	started, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	ivID, qID := started.Interview.ID, started.Questions[0].ID

	first, err := f.svc.SubmitAnswer(context.Background(), "user-1", ivID, qID, "first answer")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if first.FollowUp == nil {
		t.Fatalf("expected follow-up")
	}
	fu := first.FollowUp
	if fu.Type != QuestionFollowUp || fu.ParentID != qID || fu.TimeLimitSeconds != FollowUpTimeLimitSeconds {
		t.Fatalf("unexpected follow-up: %+v", fu)
	}
	if fu.Position != len(started.Questions) {
		t.Fatalf("expected follow-up at position %d, got %d", len(started.Questions), fu.Position)
	}

	again, err := f.svc.SubmitAnswer(context.Background(), "user-1", ivID, qID, "second answer")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again.FollowUp != nil {
		t.Fatalf("expected no second follow-up")
	}

	nested, err := f.svc.SubmitAnswer(context.Background(), "user-1", ivID, fu.ID, "follow-up answer")
	if err != nil {
		t.Fatalf("answer follow-up: %v", err)
	}
	if nested.FollowUp != nil {
		t.Fatalf("follow-ups must not get follow-ups")
	}

	qs, _ := f.repo.Questions(context.Background(), ivID)
	if len(qs) != len(started.Questions)+1 {
		t.Fatalf("expected %d questions, got %d", len(started.Questions)+1, len(qs))
	}
	if qs[0].Answer != "second answer" {
		t.Fatalf("expected re-answer to replace, got %q", qs[0].Answer)
	}
}

func TestSubmitAnswerRejectsOtherUsers(t *testing.T) {
	f := newFixture(t)
	f.seedRole(t, roles.SharedOwnerID, evaluation.Weights{})
	started, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err = f.svc.SubmitAnswer(context.Background(), "user-2", started.Interview.ID, started.Questions[0].ID, "answer")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = f.svc.SubmitAnswer(context.Background(), "user-1", started.Interview.ID, started.Questions[0].ID, "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCompleteRequiresScoredAnswers(t *testing.T) {
	f := newFixture(t)
	f.seedRole(t, "user-1", evaluation.Weights{})
	started, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.Complete(context.Background(), "user-1", started.Interview.ID); !errors.Is(err, ErrNothingToAggregate) {
		t.Fatalf("expected ErrNothingToAggregate, got %v", err)
	}
	res, err := f.svc.Results(context.Background(), "user-1", started.Interview.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.Metrics != nil || res.Plan != nil || res.Interview.Status != StatusInProgress {
		t.Fatalf("expected no completion, got %+v", res)
	}
}

func TestCompleteAggregatesAndAppendsPlans(t *testing.T) {
	f := newFixture(t)
	f.seedRole(t, "user-1", evaluation.Weights{})
	started, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	ivID := started.Interview.ID

	f.eval.overall = 80
	if _, err := f.svc.SubmitAnswer(context.Background(), "user-1", ivID, started.Questions[0].ID, "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	f.eval.overall = 60
	if _, err := f.svc.SubmitAnswer(context.Background(), "user-1", ivID, started.Questions[1].ID, "b"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	done, err := f.svc.Complete(context.Background(), "user-1", ivID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Metrics.TotalQuestions != 2 || done.Metrics.AverageOverall != 70 {
		t.Fatalf("unexpected metrics: %+v", done.Metrics)
	}
	if f.plans.roleID != "role-1" {
		t.Fatalf("expected plan for role-1, got %q", f.plans.roleID)
	}
	if done.LearningPath == nil || done.LearningPath.Strengths[0] != "Backend Engineer" {
		t.Fatalf("expected learning path, got %+v", done.LearningPath)
	}

	f.eval.overall = 100
	if _, err := f.svc.SubmitAnswer(context.Background(), "user-1", ivID, started.Questions[2].ID, "c"); err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
	if _, err := f.svc.Complete(context.Background(), "user-1", ivID); err != nil {
		t.Fatalf("recomplete: %v", err)
	}
	if n := f.repo.PlanCount(ivID); n != 2 {
		t.Fatalf("expected 2 plans, got %d", n)
	}

	res, err := f.svc.Results(context.Background(), "user-1", ivID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.Interview.Status != StatusCompleted || res.Interview.CompletedAt == nil {
		t.Fatalf("expected completed interview, got %+v", res.Interview)
	}
	if res.Metrics == nil || res.Metrics.Metrics.TotalQuestions != 3 {
		t.Fatalf("expected latest metrics over 3 answers, got %+v", res.Metrics)
	}
	if res.Plan == nil || res.Plan.Plan.OverallRecommendation != "scored 80.00" {
		t.Fatalf("expected latest plan, got %+v", res.Plan)
	}
}

func TestCompleteWithoutLearningPath(t *testing.T) {
	f := newFixture(t)
	f.plans.withPath = false
	f.seedRole(t, "user-1", evaluation.Weights{})
	started, err := f.svc.StartForRole(context.Background(), "user-1", RoleInput{RoleID: "role-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.SubmitAnswer(context.Background(), "user-1", started.Interview.ID, started.Questions[0].ID, "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	done, err := f.svc.Complete(context.Background(), "user-1", started.Interview.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.LearningPath != nil {
		t.Fatalf("expected no learning path")
	}
	res, _ := f.svc.Results(context.Background(), "user-1", started.Interview.ID)
	if res.LearningPath != nil {
		t.Fatalf("expected no stored learning path")
	}
}

func TestPipelineWithUnavailableOracle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedRole(t, "user-1", evaluation.NewWeights(1, 0, 0))

	down := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "", llm.ErrOracleUnavailable
	})
	catalog := resources.NewMemoryRepo()
	for _, res := range []resources.Resource{
		{ID: "res-1", OwnerID: "user-1", Title: "Coding Katas", Tags: []string{"coding"}},
		{ID: "res-2", OwnerID: "user-1", Title: "Talk Like TED", Tags: []string{"presentation"}},
		{ID: "res-3", OwnerID: "user-2", Title: "Someone Else's Drills", Tags: []string{"practice"}},
		{ID: "res-4", OwnerID: roles.SharedOwnerID, Title: "Interview Prep Guide", Tags: []string{"interview prep"}},
	} {
		if err := catalog.Create(ctx, res); err != nil {
			t.Fatalf("seed resource: %v", err)
		}
	}
	plans := improvement.NewGenerator(down, &roles.Service{Repo: f.roles}, &resources.Service{Repo: catalog})
	plans.SharedOwner = roles.SharedOwnerID
	f.svc.Evaluator = evaluation.NewEngine(down)
	f.svc.Plans = plans

	started, err := f.svc.StartForRole(ctx, "user-1", RoleInput{RoleID: "role-1", Difficulty: "easy"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	ivID := started.Interview.ID
	if _, err := f.svc.Complete(ctx, "user-1", ivID); !errors.Is(err, ErrNothingToAggregate) {
		t.Fatalf("expected ErrNothingToAggregate before any answer, got %v", err)
	}

	answered, err := f.svc.SubmitAnswer(ctx, "user-1", ivID, started.Questions[0].ID, "um")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	ev := answered.Evaluation
	want := evaluation.AnswerEvaluation{
		TechnicalScore:     evaluation.DefaultTechnicalScore,
		CommunicationScore: 42,
		ConfidenceScore:    60,
		OverallScore:       50,
		Feedback:           evaluation.FallbackFeedback,
	}
	if ev != want {
		t.Fatalf("evaluation = %+v, want %+v", ev, want)
	}
	if answered.FollowUp != nil {
		t.Fatalf("expected no follow-up without an oracle, got %+v", answered.FollowUp)
	}

	done, err := f.svc.Complete(ctx, "user-1", ivID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Metrics.AverageOverall != 50 || done.Metrics.PerformanceLevel != evaluation.LevelNeedsImprovement {
		t.Fatalf("unexpected metrics %+v", done.Metrics)
	}
	if got := len(done.Plan.WeakAreas); got != 3 {
		t.Fatalf("expected 3 weak areas, got %+v", done.Plan.WeakAreas)
	}
	if done.Plan.WeakAreas[1].Severity != improvement.SeverityHigh {
		t.Fatalf("expected high severity communication, got %+v", done.Plan.WeakAreas[1])
	}
	if len(done.Plan.ImprovementSteps) != len(improvement.FallbackSteps) || done.Plan.ImprovementSteps[0] != improvement.FallbackSteps[0] {
		t.Fatalf("expected fallback steps, got %q", done.Plan.ImprovementSteps)
	}
	var titles []string
	for _, r := range done.Plan.RecommendedResources {
		titles = append(titles, r.Title)
	}
	if want := []string{"Coding Katas", "Talk Like TED", "Interview Prep Guide"}; !slices.Equal(titles, want) {
		t.Fatalf("resources = %q, want %q", titles, want)
	}
	if done.LearningPath != nil {
		t.Fatalf("expected no learning path without an oracle")
	}
}

func newRoundsFixture(t *testing.T) (fixture, MultiRoundStarted) {
	t.Helper()
	f := newFixture(t)
	started, err := f.svc.StartMultiRound(context.Background(), "user-1", MultiRoundInput{
		JobRole:        " Backend Engineer ",
		JobDescription: "Payments platform",
		Rounds: []RoundInput{
			{Name: "HR Screen", Type: "HR"},
			{Name: "Coding", Type: "Technical", QuestionCount: 2, DurationMinutes: 45, FocusAreas: []string{" go ", ""}},
		},
	})
	if err != nil {
		t.Fatalf("start multi-round: %v", err)
	}
	return f, started
}

func TestStartMultiRoundCreatesPendingRounds(t *testing.T) {
	_, started := newRoundsFixture(t)

	if started.Interview.Source != SourceRounds || started.Interview.JobRole != "Backend Engineer" {
		t.Fatalf("unexpected interview %+v", started.Interview)
	}
	if len(started.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(started.Rounds))
	}
	hr, coding := started.Rounds[0], started.Rounds[1]
	if hr.Type != questions.RoundHR || hr.Order != 1 || hr.QuestionCount != questions.DefaultRoundQuestions || hr.DurationMinutes != questions.DefaultRoundMinutes {
		t.Fatalf("unexpected hr round %+v", hr)
	}
	if coding.Order != 2 || coding.QuestionCount != 2 || len(coding.FocusAreas) != 1 || coding.FocusAreas[0] != "go" {
		t.Fatalf("unexpected coding round %+v", coding)
	}
	for _, rd := range started.Rounds {
		if rd.Status != RoundPending || rd.Score != nil {
			t.Fatalf("expected pending round, got %+v", rd)
		}
	}
}

func TestStartMultiRoundValidation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]MultiRoundInput{
		"missing role": {Rounds: []RoundInput{{Type: "hr"}}},
		"no rounds":    {JobRole: "SRE"},
		"unknown type": {JobRole: "SRE", Rounds: []RoundInput{{Type: "karaoke"}}},
		"blank type":   {JobRole: "SRE", Rounds: []RoundInput{{Name: "Chat"}}},
	}
	for name, in := range cases {
		if _, err := f.svc.StartMultiRound(context.Background(), "user-1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestRoundLifecycle(t *testing.T) {
	ctx := context.Background()
	f, started := newRoundsFixture(t)
	ivID := started.Interview.ID
	hr, coding := started.Rounds[0], started.Rounds[1]

	if _, err := f.svc.CompleteRound(ctx, "user-1", ivID, hr.ID); !errors.Is(err, ErrRoundState) {
		t.Fatalf("complete before start: expected ErrRoundState, got %v", err)
	}

	first, err := f.svc.StartRound(ctx, "user-1", ivID, hr.ID)
	if err != nil {
		t.Fatalf("start hr: %v", err)
	}
	if first.Round.Status != RoundInProgress || len(first.Questions) != questions.DefaultRoundQuestions {
		t.Fatalf("unexpected hr start %+v", first)
	}
	if f.qs.lastSpec.JobRole != "Backend Engineer" || f.qs.lastSpec.Type != questions.RoundHR || f.qs.lastSpec.JobDescription != "Payments platform" {
		t.Fatalf("unexpected round spec %+v", f.qs.lastSpec)
	}
	for i, q := range first.Questions {
		if q.Position != i || q.RoundID != hr.ID || q.TimeLimitSeconds != RoundTimeLimitSeconds {
			t.Fatalf("unexpected round question %d: %+v", i, q)
		}
	}
	if _, err := f.svc.StartRound(ctx, "user-1", ivID, hr.ID); !errors.Is(err, ErrRoundState) {
		t.Fatalf("restart: expected ErrRoundState, got %v", err)
	}
	if _, err := f.svc.CompleteRound(ctx, "user-1", ivID, hr.ID); !errors.Is(err, ErrNothingToAggregate) {
		t.Fatalf("complete without answers: expected ErrNothingToAggregate, got %v", err)
	}

	f.eval.overall = 80
	if _, err := f.svc.SubmitAnswer(ctx, "user-1", ivID, first.Questions[0].ID, "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	f.eval.overall = 61
	f.eval.followUp = true
	answered, err := f.svc.SubmitAnswer(ctx, "user-1", ivID, first.Questions[1].ID, "b")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if answered.FollowUp == nil || answered.FollowUp.RoundID != hr.ID {
		t.Fatalf("expected follow-up inside the round, got %+v", answered.FollowUp)
	}
	f.eval.overall = 30
	f.eval.followUp = false
	if _, err := f.svc.SubmitAnswer(ctx, "user-1", ivID, answered.FollowUp.ID, "c"); err != nil {
		t.Fatalf("submit follow-up: %v", err)
	}

	done, err := f.svc.CompleteRound(ctx, "user-1", ivID, hr.ID)
	if err != nil {
		t.Fatalf("complete hr: %v", err)
	}
	if done.Metrics.TotalQuestions != 3 || done.Round.Score == nil || *done.Round.Score != 57 {
		t.Fatalf("unexpected hr completion %+v", done)
	}
	if done.AllComplete() || done.Next == nil || done.Next.ID != coding.ID {
		t.Fatalf("expected coding round next, got %+v", done.Next)
	}

	second, err := f.svc.StartRound(ctx, "user-1", ivID, coding.ID)
	if err != nil {
		t.Fatalf("start coding: %v", err)
	}
	// Round questions follow every earlier question, follow-ups included.
	if second.Questions[0].Position != len(first.Questions)+1 {
		t.Fatalf("expected coding questions after hr, got position %d", second.Questions[0].Position)
	}
	f.eval.overall = 90
	if _, err := f.svc.SubmitAnswer(ctx, "user-1", ivID, second.Questions[0].ID, "d"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	last, err := f.svc.CompleteRound(ctx, "user-1", ivID, coding.ID)
	if err != nil {
		t.Fatalf("complete coding: %v", err)
	}
	if !last.AllComplete() || *last.Round.Score != 90 {
		t.Fatalf("expected final round scored 90, got %+v", last)
	}

	res, err := f.svc.Results(ctx, "user-1", ivID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(res.Rounds) != 2 || res.Rounds[0].Status != RoundCompleted || res.Rounds[1].Status != RoundCompleted {
		t.Fatalf("unexpected rounds in results %+v", res.Rounds)
	}
	whole, err := f.svc.Complete(ctx, "user-1", ivID)
	if err != nil {
		t.Fatalf("complete interview: %v", err)
	}
	if whole.Metrics.TotalQuestions != 4 {
		t.Fatalf("expected interview metrics over every round, got %+v", whole.Metrics)
	}
}

func TestStartRoundGenerationFailureKeepsRoundPending(t *testing.T) {
	ctx := context.Background()
	f, started := newRoundsFixture(t)
	f.qs.err = fmt.Errorf("%w: wrong count", questions.ErrGenerationFailed)

	_, err := f.svc.StartRound(ctx, "user-1", started.Interview.ID, started.Rounds[0].ID)
	if !errors.Is(err, questions.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	rd, err := f.repo.GetRound(ctx, started.Interview.ID, started.Rounds[0].ID)
	if err != nil {
		t.Fatalf("GetRound: %v", err)
	}
	if rd.Status != RoundPending {
		t.Fatalf("expected round to stay pending, got %s", rd.Status)
	}
	if _, err := f.svc.StartRound(ctx, "user-2", started.Interview.ID, started.Rounds[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.StartRound(ctx, "user-1", started.Interview.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing round: expected ErrNotFound, got %v", err)
	}
}
