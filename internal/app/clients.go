package app

import (
	"fmt"
	"strings"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/assessment/oracle"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/openai"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime/bus"
)

type Clients struct {
	// Bus is nil when REDIS_ADDR is unset; delivery then stays in-process.
	Bus bus.Bus
	// LLM lists oracle providers in fallback order: OpenAI, then Groq.
	LLM []oracle.Provider
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		b, err := bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis realtime bus: %w", err)
		}
		out.Bus = b
	}

	// Openai
	if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
		c, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.LLM = append(out.LLM, c)
	}

	// Groq (OpenAI-compatible)
	if strings.TrimSpace(cfg.Groq.APIKey) != "" {
		c, err := openai.NewCompatClient(log, cfg.Groq)
		if err != nil {
			return Clients{}, fmt.Errorf("init groq client: %w", err)
		}
		out.LLM = append(out.LLM, c)
	}

	if len(out.LLM) == 0 {
		log.Warn("no LLM provider configured; assessments serve fallback questions and cannot grade subjective answers")
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}
