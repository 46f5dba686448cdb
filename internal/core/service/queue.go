package service

import (
	"errors"
	"slices"

	"github.com/Wyydra/duet/internal/core/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyQueued = errors.New("participant already queued")
	ErrAlreadyRoomed = errors.New("participant already in a room")
)

// PairingQueue is the FIFO of participants waiting for a partner. Pairs
// are handed to the RoomDirectory as soon as two are waiting.
type PairingQueue struct {
	registry *Registry
	rooms    *RoomDirectory
	waiting  []domain.UserID
}

func NewPairingQueue(registry *Registry, rooms *RoomDirectory) *PairingQueue {
	return &PairingQueue{
		registry: registry,
		rooms:    rooms,
	}
}

// Enqueue appends id, acknowledges it with a lobby message and drains the
// queue. It returns the rooms formed by the drain.
func (q *PairingQueue) Enqueue(id domain.UserID) ([]domain.RoomID, error) {
	if !q.registry.Contains(id) {
		return nil, ErrUnknownParticipant
	}
	if q.Contains(id) {
		return nil, ErrAlreadyQueued
	}
	if _, ok := q.rooms.RoomOf(id); ok {
		return nil, ErrAlreadyRoomed
	}

	q.waiting = append(q.waiting, id)
	log.Debug().Str("client_id", id.String()).Int("queued", len(q.waiting)).Msg("Participant queued")

	// a failed lobby write leaves id queued; the owner reaps it afterwards
	_ = q.registry.Send(id, domain.Lobby())

	return q.drain(), nil
}

// DequeuePair removes the two longest-waiting entries.
func (q *PairingQueue) DequeuePair() (first, second domain.UserID, ok bool) {
	if len(q.waiting) < 2 {
		return domain.UserID{}, domain.UserID{}, false
	}
	first, second = q.waiting[0], q.waiting[1]
	q.waiting = slices.Delete(q.waiting, 0, 2)
	return first, second, true
}

func (q *PairingQueue) Remove(id domain.UserID) bool {
	i := slices.Index(q.waiting, id)
	if i < 0 {
		return false
	}
	q.waiting = slices.Delete(q.waiting, i, i+1)
	return true
}

func (q *PairingQueue) Contains(id domain.UserID) bool {
	return slices.Contains(q.waiting, id)
}

func (q *PairingQueue) Len() int {
	return len(q.waiting)
}

func (q *PairingQueue) drain() []domain.RoomID {
	var formed []domain.RoomID
	for {
		a, b, ok := q.DequeuePair()
		if !ok {
			return formed
		}

		aOK, bOK := q.registry.Contains(a), q.registry.Contains(b)
		if !aOK || !bOK {
			log.Warn().
				Str("first", a.String()).Bool("first_connected", aOK).
				Str("second", b.String()).Bool("second_connected", bOK).
				Msg("Discarding pair with disconnected member")
			// the survivor keeps its place at the head
			switch {
			case aOK:
				q.waiting = slices.Insert(q.waiting, 0, a)
			case bOK:
				q.waiting = slices.Insert(q.waiting, 0, b)
			}
			continue
		}

		formed = append(formed, q.rooms.CreateRoom(a, b))
	}
}
