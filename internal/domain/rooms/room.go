package rooms

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;not null;default:''" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;column:owner_id;not null;index" json:"owner_id"`
	IsPrivate   bool      `gorm:"column:is_private;not null;default:false" json:"is_private"`
	Language    string    `gorm:"column:language;not null;default:'javascript'" json:"language"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Room) TableName() string { return "room" }

func (r *Room) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RoomMember grants a non-owner access to a room.
type RoomMember struct {
	RoomID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"room_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (RoomMember) TableName() string { return "room_member" }
