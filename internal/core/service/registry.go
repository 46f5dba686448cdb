package service

import (
	"errors"

	"github.com/Wyydra/duet/internal/core/domain"
	"github.com/Wyydra/duet/internal/core/port"
	"github.com/rs/zerolog/log"
)

const DefaultDisplayName = "anonymous"

var ErrUnknownParticipant = errors.New("unknown participant")

type Participant struct {
	ID          domain.UserID
	DisplayName string
	channel     port.Channel
}

// Registry is the source of truth for which participants are connected.
// It is not safe for concurrent use; SignalingService serializes access.
type Registry struct {
	participants map[domain.UserID]*Participant
	newID        func() domain.UserID
	failed       []domain.UserID
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[domain.UserID]*Participant),
		newID:        domain.NewUserID,
	}
}

func (r *Registry) Register(ch port.Channel) domain.UserID {
	id := r.newID()
	for r.participants[id] != nil {
		id = r.newID()
	}
	r.participants[id] = &Participant{
		ID:          id,
		DisplayName: DefaultDisplayName,
		channel:     ch,
	}
	return id
}

// Deregister drops id and returns its channel. Unknown ids are a no-op.
func (r *Registry) Deregister(id domain.UserID) (port.Channel, bool) {
	p, ok := r.participants[id]
	if !ok {
		return nil, false
	}
	delete(r.participants, id)
	return p.channel, true
}

func (r *Registry) Lookup(id domain.UserID) (*Participant, bool) {
	p, ok := r.participants[id]
	return p, ok
}

func (r *Registry) Contains(id domain.UserID) bool {
	_, ok := r.participants[id]
	return ok
}

func (r *Registry) SetName(id domain.UserID, name string) {
	p, ok := r.participants[id]
	if !ok {
		return
	}
	if name == "" {
		name = DefaultDisplayName
	}
	p.DisplayName = name
}

// Send writes msg to id's channel. Write failures are remembered so the
// owner can run the disconnect path for them via TakeFailed.
func (r *Registry) Send(id domain.UserID, msg domain.Message) error {
	p, ok := r.participants[id]
	if !ok {
		return ErrUnknownParticipant
	}
	if err := p.channel.Send(msg); err != nil {
		log.Warn().Err(err).
			Str("client_id", id.String()).
			Str("type", string(msg.Type)).
			Msg("Send failed, evicting participant")
		r.failed = append(r.failed, id)
		return err
	}
	return nil
}

func (r *Registry) TakeFailed() []domain.UserID {
	failed := r.failed
	r.failed = nil
	return failed
}

func (r *Registry) Len() int {
	return len(r.participants)
}

func (r *Registry) each(fn func(*Participant)) {
	for _, p := range r.participants {
		fn(p)
	}
}
