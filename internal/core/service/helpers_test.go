package service

import (
	"errors"
	"sync"

	"github.com/Wyydra/duet/internal/core/domain"
)

var errBrokenPipe = errors.New("broken pipe")

type fakeChannel struct {
	mu     sync.Mutex
	msgs   []domain.Message
	fail   bool
	closed int
}

func (c *fakeChannel) Send(msg domain.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errBrokenPipe
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeChannel) messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.msgs...)
}

func (c *fakeChannel) types() []domain.MessageType {
	var out []domain.MessageType
	for _, m := range c.messages() {
		out = append(out, m.Type)
	}
	return out
}

func (c *fakeChannel) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

type fixture struct {
	registry *Registry
	rooms    *RoomDirectory
	queue    *PairingQueue
}

func newFixture() *fixture {
	registry := NewRegistry()
	rooms := NewRoomDirectory(registry)
	return &fixture{
		registry: registry,
		rooms:    rooms,
		queue:    NewPairingQueue(registry, rooms),
	}
}

func (f *fixture) connect() (domain.UserID, *fakeChannel) {
	ch := &fakeChannel{}
	return f.registry.Register(ch), ch
}

func equalTypes(got []domain.MessageType, want ...domain.MessageType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
