package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultSkillElo = 1200
	MaxSkillMastery = 100
)

// UserSkill is a per-user, per-skill rating. Elo is only moved by assessment scoring;
// Mastery is a 0..100 counter nudged upward by successful answers.
type UserSkill struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_skill_name,priority:1" json:"user_id"`
	Name    string    `gorm:"column:name;not null;uniqueIndex:idx_user_skill_name,priority:2" json:"name"`
	Elo     int       `gorm:"column:elo;not null" json:"elo"`
	Mastery int       `gorm:"column:mastery;not null;default:0" json:"mastery"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (UserSkill) TableName() string { return "user_skill" }

func (s *UserSkill) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
