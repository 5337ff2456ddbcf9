package app

import (
	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	UserSkill     repos.UserSkillRepo
	Room          repos.RoomRepo
	ChatMessage   repos.ChatMessageRepo
	Notification  repos.NotificationRepo
	AssessmentRun repos.AssessmentSessionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserSkill:     repos.NewUserSkillRepo(db, log),
		Room:          repos.NewRoomRepo(db, log),
		ChatMessage:   repos.NewChatMessageRepo(db, log),
		Notification:  repos.NewNotificationRepo(db, log),
		AssessmentRun: repos.NewAssessmentSessionRepo(db, log),
	}
}
