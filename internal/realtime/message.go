package realtime

import (
	"time"

	"github.com/google/uuid"
)

type Event string

const (
	EventConnected    Event = "connected"
	EventRoomUsers    Event = "roomUsers"
	EventMessage      Event = "message"
	EventTimerUpdate  Event = "timerUpdate"
	EventNotification Event = "new-notification"
)

// SystemSender is the username on hub-authored chat messages.
const SystemSender = "System"

type Message struct {
	Event Event  `json:"event"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Identity is the minimum a connection must present to join a room.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type Presence struct {
	ConnectionID uuid.UUID `json:"connection_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	RoomID       string    `json:"room"`
}

type ChatSender struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
}

// ChatPayload is the shape of every "message" event, persisted or hub-authored.
type ChatPayload struct {
	ID        string     `json:"id,omitempty"`
	Room      string     `json:"room"`
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"text"`
	Timestamp time.Time  `json:"timestamp"`
}

type TimerState struct {
	Timer   int    `json:"timer"`
	Running bool   `json:"isRunning"`
	Mode    string `json:"mode"`
}

// Envelope is a Message addressed for cross-process delivery.
type Envelope struct {
	// Exactly one of Room or UserID is set.
	Room   string    `json:"room,omitempty"`
	UserID uuid.UUID `json:"user_id,omitempty"`
	// Except skips one connection when delivering to Room.
	Except  uuid.UUID `json:"except,omitempty"`
	Message Message   `json:"message"`
}
