package interviews

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/questions"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interviews/resume", h.startFromResume)
	rg.POST("/interviews", h.startForRole)
	rg.POST("/interviews/rounds", h.startMultiRound)
	rg.GET("/interviews", h.list)
	rg.POST("/interviews/:id/answers", h.submitAnswer)
	rg.POST("/interviews/:id/complete", h.complete)
	rg.GET("/interviews/:id/results", h.results)
	rg.POST("/interviews/:id/rounds/:roundId/start", h.startRound)
	rg.POST("/interviews/:id/rounds/:roundId/complete", h.completeRound)
}

func (h *Handler) startFromResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "resume file exceeds the 10MB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	started, err := h.Svc.StartFromResume(c.Request.Context(), userID, ResumeInput{
		JobRole:        c.PostForm("jobRole"),
		JobDescription: c.PostForm("jobDescription"),
		FocusAreas:     c.PostForm("focusAreas"),
		Weights:        c.PostForm("evaluationWeights"),
		FileName:       fileHeader.Filename,
		Body:           file,
	})
	if err != nil {
		writeError(c, err, "failed to start interview")
		return
	}
	respond.Created(c, StartResponse{
		Interview: toInterviewResponse(started.Interview),
		Questions: toQuestionResponses(started.Questions),
	})
}

type startRoleRequest struct {
	RoleID     string          `json:"roleId"`
	Difficulty string          `json:"difficulty"`
	Weights    json.RawMessage `json:"weights"`
}

func (h *Handler) startForRole(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req startRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	weights := strings.TrimSpace(string(req.Weights))
	if weights == "null" {
		weights = ""
	}

	started, err := h.Svc.StartForRole(c.Request.Context(), userID, RoleInput{
		RoleID:     strings.TrimSpace(req.RoleID),
		Difficulty: req.Difficulty,
		Weights:    weights,
	})
	if err != nil {
		writeError(c, err, "failed to start interview")
		return
	}
	respond.Created(c, StartResponse{
		Interview: toInterviewResponse(started.Interview),
		Questions: toQuestionResponses(started.Questions),
	})
}

type roundRequest struct {
	Name            string   `json:"roundName"`
	Type            string   `json:"roundType"`
	DurationMinutes int      `json:"durationMinutes"`
	QuestionCount   int      `json:"questionCount"`
	FocusAreas      []string `json:"focusAreas"`
}

type multiRoundRequest struct {
	JobRole        string          `json:"jobRole"`
	JobDescription string          `json:"jobDescription"`
	Weights        json.RawMessage `json:"weights"`
	Rounds         []roundRequest  `json:"selectedRounds"`
}

func (h *Handler) startMultiRound(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req multiRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	weights := strings.TrimSpace(string(req.Weights))
	if weights == "null" {
		weights = ""
	}
	rounds := make([]RoundInput, 0, len(req.Rounds))
	for _, r := range req.Rounds {
		rounds = append(rounds, RoundInput(r))
	}

	started, err := h.Svc.StartMultiRound(c.Request.Context(), userID, MultiRoundInput{
		JobRole:        req.JobRole,
		JobDescription: req.JobDescription,
		Weights:        weights,
		Rounds:         rounds,
	})
	if err != nil {
		writeError(c, err, "failed to start interview")
		return
	}
	respond.Created(c, MultiRoundResponse{
		Interview: toInterviewResponse(started.Interview),
		Rounds:    toRoundResponses(started.Rounds),
	})
}

func (h *Handler) startRound(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	middleware.SetRoundID(c, c.Param("roundId"))

	started, err := h.Svc.StartRound(c.Request.Context(), userID, c.Param("id"), c.Param("roundId"))
	if err != nil {
		writeError(c, err, "failed to start round")
		return
	}
	respond.OK(c, RoundStartResponse{
		Round:     toRoundResponse(started.Round),
		Questions: toQuestionResponses(started.Questions),
	})
}

func (h *Handler) completeRound(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	middleware.SetRoundID(c, c.Param("roundId"))

	done, err := h.Svc.CompleteRound(c.Request.Context(), userID, c.Param("id"), c.Param("roundId"))
	if err != nil {
		writeError(c, err, "failed to complete round")
		return
	}
	out := RoundCompleteResponse{
		Round:             toRoundResponse(done.Round),
		Metrics:           toMetricsResponse(done.Metrics),
		AllRoundsComplete: done.AllComplete(),
	}
	if done.Next != nil {
		next := toRoundResponse(*done.Next)
		out.NextRound = &next
	}
	respond.OK(c, out)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list interviews")
		return
	}
	out := make([]InterviewResponse, 0, len(items))
	for _, iv := range items {
		out = append(out, toInterviewResponse(iv))
	}
	respond.Items(c, out)
}

type answerRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

func (h *Handler) submitAnswer(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.QuestionID = strings.TrimSpace(req.QuestionID)
	if req.QuestionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "questionId is required", nil)
		return
	}
	middleware.SetQuestionID(c, req.QuestionID)

	result, err := h.Svc.SubmitAnswer(c.Request.Context(), userID, c.Param("id"), req.QuestionID, req.Answer)
	if err != nil {
		writeError(c, err, "failed to submit answer")
		return
	}
	out := AnswerResponse{
		QuestionID: result.QuestionID,
		Evaluation: toEvaluationResponse(result.Evaluation),
	}
	if result.FollowUp != nil {
		fu := toQuestionResponse(*result.FollowUp)
		out.FollowUp = &fu
	}
	respond.OK(c, out)
}

func (h *Handler) complete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	done, err := h.Svc.Complete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to complete interview")
		return
	}
	respond.OK(c, CompleteResponse{
		Metrics:      toMetricsResponse(done.Metrics),
		Plan:         done.Plan,
		LearningPath: done.LearningPath,
	})
}

func (h *Handler) results(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	res, err := h.Svc.Results(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch results")
		return
	}
	respond.OK(c, toResultsResponse(res))
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, questions.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "interview not found", nil)
	case errors.Is(err, ErrNoQuestions):
		respond.Error(c, http.StatusNotFound, "no_questions", "role has no questions for this difficulty", nil)
	case errors.Is(err, ErrRoundState):
		respond.Error(c, http.StatusConflict, "round_state", err.Error(), nil)
	case errors.Is(err, ErrNothingToAggregate):
		respond.Error(c, http.StatusConflict, "nothing_to_aggregate", "no scored answers to aggregate", nil)
	case errors.Is(err, questions.ErrGenerationFailed):
		respond.Error(c, http.StatusBadGateway, "generation_failed", "could not generate interview questions", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
