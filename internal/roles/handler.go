package roles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches role routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/roles", h.create)
	rg.GET("/roles", h.list)
	rg.GET("/roles/:id", h.get)
}

type questionRequest struct {
	Question       string   `json:"question"`
	Topic          string   `json:"topic"`
	Difficulty     string   `json:"difficulty"`
	ExpectedPoints []string `json:"expectedPoints"`
}

type createRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Weights     evaluation.Weights `json:"weights"`
	Questions   []questionRequest  `json:"questions"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	in := CreateInput{Name: req.Name, Description: req.Description, Weights: req.Weights}
	for _, q := range req.Questions {
		in.Questions = append(in.Questions, QuestionInput(q))
	}

	role, err := h.Svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create role", nil)
		}
		return
	}
	respond.Created(c, toResponse(role))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list roles", nil)
		}
		return
	}
	out := make([]RoleResponse, 0, len(items))
	for _, role := range items {
		out = append(out, toResponse(role))
	}
	respond.Items(c, out)
}

func (h *Handler) get(c *gin.Context) {
	role, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "role not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch role", nil)
		}
		return
	}
	respond.OK(c, toResponse(role))
}
