package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Conn is one live transport connection. The hub closes Done when it drops the connection;
// Outbound is never closed.
type Conn struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan Message

	done      chan struct{}
	closeOnce sync.Once
	rooms     map[string]struct{}
}

func newConn(userID uuid.UUID, buffer int) *Conn {
	return &Conn{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, buffer),
		done:     make(chan struct{}),
		rooms:    make(map[string]struct{}),
	}
}

func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) close() {
	c.closeOnce.Do(func() { close(c.done) })
}
