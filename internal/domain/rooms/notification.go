package rooms

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationInfo        NotificationKind = "info"
	NotificationInvite      NotificationKind = "invite"
	NotificationJoinRequest NotificationKind = "join_request"
)

// Notification is addressed to one recipient. RelatedID carries a room id for
// invite and join_request kinds; it is a lookup key, not a foreign key.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;column:recipient_id;not null;index" json:"recipient"`
	SenderID    *uuid.UUID       `gorm:"type:uuid;column:sender_id;index" json:"sender,omitempty"`
	Message     string           `gorm:"column:message;type:text;not null" json:"message"`
	Kind        NotificationKind `gorm:"column:kind;not null;default:'info';index" json:"type"`
	RelatedID   string           `gorm:"column:related_id;not null;default:'';index" json:"related_id,omitempty"`
	Read        bool             `gorm:"column:read;not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
