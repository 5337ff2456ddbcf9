package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/assessment"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/assessment/oracle"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/rooms"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

type Services struct {
	Hub        *realtime.Hub
	Rooms      *rooms.Service
	Assessment *assessment.Engine
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")
	hub := realtime.NewHub(log, cfg.Hub)

	var deliver rooms.Deliverer = &rooms.HubDeliverer{Hub: hub}
	if clients.Bus != nil {
		deliver = &rooms.BusDeliverer{Bus: clients.Bus}
	}
	roomSvc, err := rooms.NewService(rooms.Deps{
		DB:            db,
		Log:           log,
		Hub:           hub,
		Deliver:       deliver,
		Users:         reposet.User,
		Rooms:         reposet.Room,
		Messages:      reposet.ChatMessage,
		Notifications: reposet.Notification,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init rooms service: %w", err)
	}

	deps := assessment.Deps{
		DB:         db,
		Log:        log,
		Sessions:   reposet.AssessmentRun,
		Skills:     reposet.UserSkill,
		SessionTTL: cfg.SessionTTL,
	}
	if len(clients.LLM) > 0 {
		llm, err := oracle.NewLLM(log, oracle.NewChain(log, clients.LLM...))
		if err != nil {
			return Services{}, fmt.Errorf("init assessment oracle: %w", err)
		}
		deps.Generator = llm
		deps.Grader = llm
	}
	engine, err := assessment.NewEngine(deps)
	if err != nil {
		return Services{}, fmt.Errorf("init assessment engine: %w", err)
	}

	return Services{Hub: hub, Rooms: roomSvc, Assessment: engine}, nil
}
