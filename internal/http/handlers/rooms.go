package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/http/response"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/ctxutil"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

type RoomService interface {
	Join(ctx context.Context, roomID, connID, userID uuid.UUID) error
	Leave(roomID, userID, connID uuid.UUID)
	SendChat(ctx context.Context, roomID, senderID uuid.UUID, text string) error
	History(ctx context.Context, roomID uuid.UUID, limit int) ([]realtime.ChatPayload, error)
	SyncTimer(ctx context.Context, roomID, userID, connID uuid.UUID, state realtime.TimerState) error

	RequestJoin(ctx context.Context, userID, roomID uuid.UUID) (*types.Notification, error)
	ApproveJoin(ctx context.Context, ownerID, roomID, userID uuid.UUID, requestID *uuid.UUID) (*types.Notification, error)
	AcceptInvite(ctx context.Context, userID, roomID uuid.UUID) (bool, error)
}

type RoomHandler struct {
	log   *logger.Logger
	rooms RoomService
}

func NewRoomHandler(log *logger.Logger, rooms RoomService) *RoomHandler {
	return &RoomHandler{log: log.With("handler", "RoomHandler"), rooms: rooms}
}

func (h *RoomHandler) Join(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	var req connectionRequest
	if !bindJSON(c, &req) {
		return
	}
	connID, ok := parseID(c, req.ConnectionID, "connection_id")
	if !ok {
		return
	}
	ctxutil.SetConnectionID(c.Request.Context(), connID)
	if err := h.rooms.Join(c.Request.Context(), roomID, connID, userID); err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, gin.H{"joined": true})
}

func (h *RoomHandler) Leave(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	var req connectionRequest
	if !bindJSON(c, &req) {
		return
	}
	connID, ok := parseID(c, req.ConnectionID, "connection_id")
	if !ok {
		return
	}
	ctxutil.SetConnectionID(c.Request.Context(), connID)
	h.rooms.Leave(roomID, userID, connID)
	response.RespondOK(c, gin.H{"left": true})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage answers 202 once the text is accepted; delivery is fire-and-forget.
func (h *RoomHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.rooms.SendChat(c.Request.Context(), roomID, userID, req.Text); err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

func (h *RoomHandler) ListMessages(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	msgs, err := h.rooms.History(c.Request.Context(), roomID, limit)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}

type timerRequest struct {
	ConnectionID string `json:"connection_id"`
	Timer        int    `json:"timer"`
	Running      bool   `json:"is_running"`
	Mode         string `json:"mode"`
}

func (h *RoomHandler) SyncTimer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	var req timerRequest
	if !bindJSON(c, &req) {
		return
	}
	connID, ok := parseID(c, req.ConnectionID, "connection_id")
	if !ok {
		return
	}
	ctxutil.SetConnectionID(c.Request.Context(), connID)
	state := realtime.TimerState{Timer: req.Timer, Running: req.Running, Mode: req.Mode}
	if err := h.rooms.SyncTimer(c.Request.Context(), roomID, userID, connID, state); err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

func (h *RoomHandler) RequestJoin(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	n, err := h.rooms.RequestJoin(c.Request.Context(), userID, roomID)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

type approveJoinRequest struct {
	UserID         string `json:"user_id"`
	NotificationID string `json:"notification_id"`
}

func (h *RoomHandler) ApproveJoin(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	var req approveJoinRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := parseID(c, req.UserID, "user_id")
	if !ok {
		return
	}
	var requestID *uuid.UUID
	if strings.TrimSpace(req.NotificationID) != "" {
		id, ok := parseID(c, req.NotificationID, "notification_id")
		if !ok {
			return
		}
		requestID = &id
	}
	n, err := h.rooms.ApproveJoin(c.Request.Context(), ownerID, roomID, userID, requestID)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, gin.H{"notification": n})
}

func (h *RoomHandler) AcceptInvite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, c.Param("id"), "room_id")
	if !ok {
		return
	}
	already, err := h.rooms.AcceptInvite(c.Request.Context(), userID, roomID)
	if err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, gin.H{"joined": true, "already_member": already})
}
