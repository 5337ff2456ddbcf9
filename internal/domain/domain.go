package domain

import (
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/domain/assessment"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/domain/rooms"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/domain/user"
)

type (
	User      = user.User
	UserSkill = user.UserSkill

	Room         = rooms.Room
	RoomMember   = rooms.RoomMember
	ChatMessage  = rooms.ChatMessage
	Notification = rooms.Notification

	NotificationKind = rooms.NotificationKind

	AssessmentSession = assessment.AssessmentSession
	QuestionType      = assessment.QuestionType
	Difficulty        = assessment.Difficulty
)

const (
	DefaultSkillElo = user.DefaultSkillElo
	MaxSkillMastery = user.MaxSkillMastery

	NotificationInfo        = rooms.NotificationInfo
	NotificationInvite      = rooms.NotificationInvite
	NotificationJoinRequest = rooms.NotificationJoinRequest

	QuestionObjective  = assessment.QuestionObjective
	QuestionSubjective = assessment.QuestionSubjective

	DifficultyEasy   = assessment.DifficultyEasy
	DifficultyMedium = assessment.DifficultyMedium
	DifficultyHard   = assessment.DifficultyHard
)

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserSkill{},
		&Room{},
		&RoomMember{},
		&ChatMessage{},
		&Notification{},
		&AssessmentSession{},
	}
}
