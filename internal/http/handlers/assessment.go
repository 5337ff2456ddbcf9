package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/http/response"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/assessment"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type AssessmentService interface {
	Start(ctx context.Context, userID uuid.UUID, skill string) (assessment.StartResult, error)
	Submit(ctx context.Context, userID uuid.UUID, answer string, expectedVersion *int64) (assessment.SubmitResult, error)
	Skip(ctx context.Context, userID uuid.UUID, expectedVersion *int64) (assessment.SubmitResult, error)
}

type AssessmentHandler struct {
	log    *logger.Logger
	engine AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, engine AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{log: log.With("handler", "AssessmentHandler"), engine: engine}
}

type startRequest struct {
	Skill string `json:"skill"`
}

func (h *AssessmentHandler) Start(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req startRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.engine.Start(c.Request.Context(), userID, req.Skill)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, res)
}

type submitRequest struct {
	UserAnswer string `json:"user_answer"`
	Version    *int64 `json:"version"`
}

func (h *AssessmentHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req submitRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.engine.Submit(c.Request.Context(), userID, req.UserAnswer, req.Version)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, res)
}

type skipRequest struct {
	Version *int64 `json:"version"`
}

// Skip accepts an empty body.
func (h *AssessmentHandler) Skip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req skipRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.engine.Skip(c.Request.Context(), userID, req.Version)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, res)
}
