package rooms

import (
	"context"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime/bus"
)

// Deliverer routes realtime envelopes either straight into the local hub or across
// instances through the bus.
type Deliverer interface {
	Deliver(ctx context.Context, env realtime.Envelope) error
}

type HubDeliverer struct{ Hub *realtime.Hub }

func (d *HubDeliverer) Deliver(_ context.Context, env realtime.Envelope) error {
	d.Hub.Deliver(env)
	return nil
}

// BusDeliverer publishes to the bus; every instance's forwarder hands the envelope to its hub.
type BusDeliverer struct{ Bus bus.Bus }

func (d *BusDeliverer) Deliver(ctx context.Context, env realtime.Envelope) error {
	return d.Bus.Publish(ctx, env)
}
