package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/http/response"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/ctxutil"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

type ConnectionService interface {
	Connect(userID uuid.UUID) *realtime.Conn
	Register(userID, connID uuid.UUID) error
	Disconnect(connID uuid.UUID)
}

type Streamer interface {
	Stream(w http.ResponseWriter, r *http.Request, c *realtime.Conn)
}

type RealtimeHandler struct {
	log      *logger.Logger
	conns    ConnectionService
	streamer Streamer
}

func NewRealtimeHandler(log *logger.Logger, conns ConnectionService, streamer Streamer) *RealtimeHandler {
	return &RealtimeHandler{
		log:      log.With("handler", "RealtimeHandler"),
		conns:    conns,
		streamer: streamer,
	}
}

type connectedPayload struct {
	ConnectionID uuid.UUID `json:"connection_id"`
}

// Stream opens a connection and serves it as SSE. The first event carries the connection id
// the client uses for register, join, leave and timer calls. Closing the stream disconnects.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	conn := h.conns.Connect(userID)
	defer h.conns.Disconnect(conn.ID)
	ctxutil.SetConnectionID(c.Request.Context(), conn.ID)
	h.log.Info("stream open", "user_id", userID, "connection_id", conn.ID)

	conn.Outbound <- realtime.Message{
		Event: realtime.EventConnected,
		Data:  connectedPayload{ConnectionID: conn.ID},
	}
	h.streamer.Stream(c.Writer, c.Request, conn)
	h.log.Info("stream closed", "user_id", userID, "connection_id", conn.ID)
}

type connectionRequest struct {
	ConnectionID string `json:"connection_id"`
}

func (h *RealtimeHandler) Register(c *gin.Context) {
	userID, ok := currentUser(c)
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
	if err := h.conns.Register(userID, connID); err != nil {
		response.RespondMapped(c, h.log, err, errorTable)
		return
	}
	response.RespondOK(c, gin.H{"registered": true})
}
