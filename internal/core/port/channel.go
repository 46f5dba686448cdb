package port

import "github.com/Wyydra/duet/internal/core/domain"

// Channel is the write side of a participant connection. Send must not
// block; a failed Send means the participant is gone.
type Channel interface {
	Send(msg domain.Message) error
	Close() error
}
