package realtime

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

var (
	ErrInvalidIdentity   = errors.New("identity requires id and username")
	ErrUnknownConnection = errors.New("unknown connection")
	ErrInvalidRoom       = errors.New("room id required")
)

type LeavePolicy int

const (
	// LeaveByUser removes every presence entry of the leaving user, across all their tabs.
	LeaveByUser LeavePolicy = iota
	// LeaveByConnection removes only the calling connection.
	LeaveByConnection
)

type Options struct {
	BufferSize  int
	LeavePolicy LeavePolicy
}

const defaultBufferSize = 64

// Hub tracks connections, room presence and the user -> connection direct-address map.
// Every mutation and the enqueue of the broadcasts it causes happen under one lock, so a
// room's members see events in the order the hub processed them.
type Hub struct {
	mu     sync.Mutex
	log    *logger.Logger
	opts   Options
	conns  map[uuid.UUID]*Conn
	rooms  map[string][]Presence
	direct map[uuid.UUID]uuid.UUID
}

func NewHub(log *logger.Logger, opts Options) *Hub {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	return &Hub{
		log:    log.With("component", "RealtimeHub"),
		opts:   opts,
		conns:  make(map[uuid.UUID]*Conn),
		rooms:  make(map[string][]Presence),
		direct: make(map[uuid.UUID]uuid.UUID),
	}
}

func (h *Hub) Connect(userID uuid.UUID) *Conn {
	c := newConn(userID, h.opts.BufferSize)
	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()
	h.log.Debug("connection opened", "connection_id", c.ID, "user_id", userID)
	return c
}

// Register points direct addressing for userID at connID. The latest registration wins.
// connID must be one of userID's own connections.
func (h *Hub) Register(userID, connID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.owned(connID, userID); !ok {
		return ErrUnknownConnection
	}
	h.direct[userID] = connID
	return nil
}

// Owns reports whether connID is live and was opened by userID.
func (h *Hub) Owns(connID, userID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.owned(connID, userID)
	return ok
}

// owned must be called with h.mu held. A connection held by someone else reads as unknown.
func (h *Hub) owned(connID, userID uuid.UUID) (*Conn, bool) {
	c, ok := h.conns[connID]
	if !ok || c.UserID != userID {
		return nil, false
	}
	return c, true
}

func (h *Hub) Join(roomID string, connID uuid.UUID, who Identity) error {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return ErrInvalidRoom
	}
	if who.ID == uuid.Nil || strings.TrimSpace(who.Username) == "" {
		return ErrInvalidIdentity
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.owned(connID, who.ID)
	if !ok {
		return ErrUnknownConnection
	}

	list := h.rooms[roomID]
	for _, p := range list {
		if p.ConnectionID == connID {
			h.send(c, Message{Event: EventRoomUsers, Room: roomID, Data: clonePresence(list)})
			return nil
		}
	}

	list = append(list, Presence{
		ConnectionID: connID,
		UserID:       who.ID,
		Username:     who.Username,
		RoomID:       roomID,
	})
	h.rooms[roomID] = list
	c.rooms[roomID] = struct{}{}

	h.broadcastPresence(roomID)
	h.relay(roomID, connID, Message{
		Event: EventMessage,
		Room:  roomID,
		Data: ChatPayload{
			Room:      roomID,
			Sender:    ChatSender{Username: SystemSender},
			Text:      who.Username + " has joined the room.",
			Timestamp: time.Now().UTC(),
		},
	})
	h.log.Debug("joined room", "room", roomID, "connection_id", connID, "user_id", who.ID)
	return nil
}

// Leave removes presence according to the hub's LeavePolicy. Absent rooms and users are a no-op,
// and a connection is only removed on behalf of the user who opened it.
func (h *Hub) Leave(roomID string, userID, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.rooms[roomID]
	if !ok {
		return
	}
	kept := list[:0:0]
	removed := false
	for _, p := range list {
		drop := p.UserID == userID
		if h.opts.LeavePolicy == LeaveByConnection {
			drop = p.ConnectionID == connID && p.UserID == userID
		}
		if drop {
			removed = true
			if c, ok := h.conns[p.ConnectionID]; ok {
				delete(c.rooms, roomID)
			}
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return
	}
	h.setRoom(roomID, kept)
	h.broadcastPresence(roomID)
}

// Disconnect drops connID from every room and closes it. Safe to call repeatedly.
func (h *Hub) Disconnect(connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	delete(h.conns, connID)

	for roomID := range c.rooms {
		list := h.rooms[roomID]
		kept := list[:0:0]
		for _, p := range list {
			if p.ConnectionID != connID {
				kept = append(kept, p)
			}
		}
		h.setRoom(roomID, kept)
		h.broadcastPresence(roomID)
	}
	c.rooms = make(map[string]struct{})

	for userID, target := range h.direct {
		if target == connID {
			delete(h.direct, userID)
		}
	}
	c.close()
	h.log.Debug("connection closed", "connection_id", connID)
}

func (h *Hub) BroadcastRoom(roomID string, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay(roomID, uuid.Nil, msg)
}

// Relay delivers to every connection in the room except fromConnID.
func (h *Hub) Relay(roomID string, fromConnID uuid.UUID, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay(roomID, fromConnID, msg)
}

// Notify reports whether userID had a registered connection to enqueue to.
func (h *Hub) Notify(userID uuid.UUID, msg Message) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	connID, ok := h.direct[userID]
	if !ok {
		return false
	}
	c, ok := h.conns[connID]
	if !ok {
		return false
	}
	return h.send(c, msg)
}

// Deliver applies an envelope received from another instance or built locally.
func (h *Hub) Deliver(env Envelope) {
	switch {
	case env.UserID != uuid.Nil:
		h.Notify(env.UserID, env.Message)
	case env.Room != "":
		h.Relay(env.Room, env.Except, env.Message)
	}
}

func (h *Hub) Presence(roomID string) []Presence {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clonePresence(h.rooms[roomID])
}

func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

func (h *Hub) setRoom(roomID string, list []Presence) {
	if len(list) == 0 {
		delete(h.rooms, roomID)
		return
	}
	h.rooms[roomID] = list
}

func (h *Hub) broadcastPresence(roomID string) {
	h.relay(roomID, uuid.Nil, Message{Event: EventRoomUsers, Room: roomID, Data: clonePresence(h.rooms[roomID])})
}

// relay must be called with h.mu held.
func (h *Hub) relay(roomID string, except uuid.UUID, msg Message) {
	if msg.Room == "" {
		msg.Room = roomID
	}
	for _, p := range h.rooms[roomID] {
		if p.ConnectionID == except {
			continue
		}
		if c, ok := h.conns[p.ConnectionID]; ok {
			h.send(c, msg)
		}
	}
}

func (h *Hub) send(c *Conn, msg Message) bool {
	select {
	case c.Outbound <- msg:
		return true
	default:
		h.log.Warn("dropping realtime message; outbound buffer full", "connection_id", c.ID, "event", msg.Event)
		return false
	}
}

func clonePresence(list []Presence) []Presence {
	out := make([]Presence, len(list))
	copy(out, list)
	return out
}
