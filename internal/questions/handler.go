package questions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/respond"
)

// Handler exposes round planning over HTTP.
type Handler struct {
	Gen *Generator
}

// NewHandler constructs a Handler.
func NewHandler(gen *Generator) *Handler {
	return &Handler{Gen: gen}
}

// RegisterRoutes attaches round routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rounds/suggest", h.suggest)
	rg.POST("/rounds/questions", h.forRound)
}

type suggestRequest struct {
	JobRole        string `json:"jobRole"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	rounds := h.Gen.SuggestRounds(c.Request.Context(), req.JobRole, req.JobDescription)
	respond.OK(c, gin.H{"rounds": rounds})
}

type roundRequest struct {
	RoundType      string   `json:"roundType"`
	RoundName      string   `json:"roundName"`
	JobRole        string   `json:"jobRole"`
	JobDescription string   `json:"jobDescription"`
	QuestionCount  int      `json:"questionCount"`
	FocusAreas     []string `json:"focusAreas"`
}

func (h *Handler) forRound(c *gin.Context) {
	var req roundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	qs, err := h.Gen.ForRound(c.Request.Context(), RoundSpec{
		Type:           req.RoundType,
		Name:           req.RoundName,
		JobRole:        req.JobRole,
		JobDescription: req.JobDescription,
		QuestionCount:  req.QuestionCount,
		FocusAreas:     req.FocusAreas,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrGenerationFailed):
			respond.Error(c, http.StatusBadGateway, "generation_failed", "could not generate round questions", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate round questions", nil)
		}
		return
	}
	respond.OK(c, gin.H{"questions": qs})
}
