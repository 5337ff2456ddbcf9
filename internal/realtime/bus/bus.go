package bus

import (
	"context"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

// Bus fans realtime envelopes out to every instance. Each instance delivers what it
// receives to its own hub.
type Bus interface {
	Publish(ctx context.Context, env realtime.Envelope) error
	StartForwarder(ctx context.Context, onMsg func(env realtime.Envelope)) error
	Close() error
}
