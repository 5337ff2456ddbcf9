package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/http/response"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type NotificationService interface {
	Invite(ctx context.Context, senderID, targetID, roomID uuid.UUID) (*types.Notification, error)
	ListNotifications(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	DeleteNotification(ctx context.Context, userID, id uuid.UUID) error
}

type NotificationHandler struct {
	log           *logger.Logger
	notifications NotificationService
}

func NewNotificationHandler(log *logger.Logger, notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{log: log.With("handler", "NotificationHandler"), notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.notifications.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, gin.H{"notifications": list})
}

type inviteRequest struct {
	TargetUserID string `json:"target_user_id"`
	RoomID       string `json:"room_id"`
}

func (h *NotificationHandler) Invite(c *gin.Context) {
	senderID, ok := currentUser(c)
	if !ok {
		return
	}
	var req inviteRequest
	if !bindJSON(c, &req) {
		return
	}
	targetID, ok := parseID(c, req.TargetUserID, "target_user_id")
	if !ok {
		return
	}
	roomID, ok := parseID(c, req.RoomID, "room_id")
	if !ok {
		return
	}
	n, err := h.notifications.Invite(c.Request.Context(), senderID, targetID, roomID)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, c.Param("id"), "notification_id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, gin.H{"read": true})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, c.Param("id"), "notification_id")
	if !ok {
		return
	}
	if err := h.notifications.DeleteNotification(c.Request.Context(), userID, id); err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	c.Status(http.StatusNoContent)
}
