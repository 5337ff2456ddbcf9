package repos

import (
	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/assessment"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/repoerr"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/rooms"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/user"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

var (
	ErrNotFound = repoerr.ErrNotFound
	ErrConflict = repoerr.ErrConflict
)

type UserRepo = user.UserRepo
type UserSkillRepo = user.UserSkillRepo

type RoomRepo = rooms.RoomRepo
type ChatMessageRepo = rooms.ChatMessageRepo
type NotificationRepo = rooms.NotificationRepo

type AssessmentSessionRepo = assessment.SessionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserSkillRepo(db *gorm.DB, baseLog *logger.Logger) UserSkillRepo {
	return user.NewUserSkillRepo(db, baseLog)
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo { return rooms.NewRoomRepo(db, baseLog) }
func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return rooms.NewChatMessageRepo(db, baseLog)
}
func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return rooms.NewNotificationRepo(db, baseLog)
}

func NewAssessmentSessionRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentSessionRepo {
	return assessment.NewSessionRepo(db, baseLog)
}
