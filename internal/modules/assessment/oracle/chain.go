package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

// Provider is any backend able to return a JSON object for a prompt.
type Provider interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
	Name() string
}

// Chain tries providers in order; the first success wins.
type Chain struct {
	log       *logger.Logger
	providers []Provider
}

func NewChain(log *logger.Logger, providers ...Provider) *Chain {
	kept := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return &Chain{log: log.With("component", "OracleChain"), providers: kept}
}

func (c *Chain) Len() int { return len(c.providers) }

func (c *Chain) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if len(c.providers) == 0 {
		return nil, ErrNoProviders
	}
	var errs []error
	for _, p := range c.providers {
		obj, err := p.GenerateJSON(ctx, system, user, schemaName, schema)
		if err == nil {
			return obj, nil
		}
		c.log.Warn("oracle provider failed", "provider", p.Name(), "schema", schemaName, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("all oracle providers failed: %w", errors.Join(errs...))
}
