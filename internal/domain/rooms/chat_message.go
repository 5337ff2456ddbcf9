package rooms

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is append-only: created once, never edited or deleted.
type ChatMessage struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID   uuid.UUID `gorm:"type:uuid;column:room_id;not null;index:idx_room_chat_message_room_ts,priority:1" json:"room"`
	SenderID uuid.UUID `gorm:"type:uuid;column:sender_id;not null;index" json:"sender"`
	Text     string    `gorm:"column:text;type:text;not null" json:"text"`

	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_room_chat_message_room_ts,priority:2" json:"timestamp"`
}

func (ChatMessage) TableName() string { return "room_chat_message" }

func (m *ChatMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}
