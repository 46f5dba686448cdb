package ws

import (
	"errors"
	"testing"

	"github.com/Wyydra/duet/internal/core/domain"
)

func TestClientSendDoesNotBlock(t *testing.T) {
	c := NewClient(nil, 2)

	for i := 0; i < 2; i++ {
		if err := c.Send(domain.Lobby()); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}
	if err := c.Send(domain.Lobby()); !errors.Is(err, ErrSendBufferFull) {
		t.Fatalf("Send on full buffer err=%v, want %v", err, ErrSendBufferFull)
	}
}

func TestClientCloseIsIdempotent(t *testing.T) {
	c := NewClient(nil, 1)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := c.Send(domain.Lobby()); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("Send after Close err=%v, want %v", err, ErrChannelClosed)
	}
}
