package service

import (
	"context"
	"errors"

	"github.com/Wyydra/duet/internal/core/domain"
	"github.com/Wyydra/duet/internal/core/port"
	"github.com/rs/zerolog/log"
)

var ErrStopped = errors.New("signaling service stopped")

type Stats struct {
	Participants int `json:"participants"`
	Queued       int `json:"queued"`
	Rooms        int `json:"rooms"`
}

type connectRequest struct {
	channel port.Channel
	reply   chan domain.UserID
}

type joinRequest struct {
	id   domain.UserID
	name string
}

type relayRequest struct {
	sender domain.UserID
	msg    domain.Message
}

// SignalingService serializes every operation on the registry, the pairing
// queue and the room directory through the Run loop.
type SignalingService struct {
	registry *Registry
	queue    *PairingQueue
	rooms    *RoomDirectory

	connect    chan connectRequest
	disconnect chan domain.UserID
	join       chan joinRequest
	relay      chan relayRequest
	stats      chan chan Stats
	done       chan struct{}
}

func NewSignalingService() *SignalingService {
	registry := NewRegistry()
	rooms := NewRoomDirectory(registry)
	return &SignalingService{
		registry:   registry,
		queue:      NewPairingQueue(registry, rooms),
		rooms:      rooms,
		connect:    make(chan connectRequest),
		disconnect: make(chan domain.UserID),
		join:       make(chan joinRequest),
		relay:      make(chan relayRequest),
		stats:      make(chan chan Stats),
		done:       make(chan struct{}),
	}
}

// Connect registers ch and returns the id allocated for it.
func (s *SignalingService) Connect(ch port.Channel) (domain.UserID, error) {
	req := connectRequest{channel: ch, reply: make(chan domain.UserID, 1)}
	select {
	case s.connect <- req:
	case <-s.done:
		return domain.UserID{}, ErrStopped
	}
	return <-req.reply, nil
}

func (s *SignalingService) Disconnect(id domain.UserID) error {
	select {
	case s.disconnect <- id:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// Join puts id in the pairing queue.
func (s *SignalingService) Join(id domain.UserID, name string) error {
	select {
	case s.join <- joinRequest{id: id, name: name}:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// Relay forwards a signaling message from sender to its room peer.
func (s *SignalingService) Relay(sender domain.UserID, msg domain.Message) error {
	select {
	case s.relay <- relayRequest{sender: sender, msg: msg}:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// Stats reflects every operation submitted before the call.
func (s *SignalingService) Stats() (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case s.stats <- reply:
	case <-s.done:
		return Stats{}, ErrStopped
	}
	return <-reply, nil
}

func (s *SignalingService) Run(ctx context.Context) error {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("count", s.registry.Len()).Msg("Stopping signaling service. Disconnecting all clients.")
			s.registry.each(func(p *Participant) {
				if err := p.channel.Close(); err != nil {
					log.Error().Err(err).Str("client_id", p.ID.String()).Msg("Error closing client connection")
				}
			})
			return nil

		case req := <-s.connect:
			id := s.registry.Register(req.channel)
			log.Info().Int("count", s.registry.Len()).Str("client_id", id.String()).Msg("Client connected")
			req.reply <- id

		case id := <-s.disconnect:
			s.evict(id)

		case req := <-s.join:
			s.handleJoin(req)

		case req := <-s.relay:
			s.handleRelay(req)

		case reply := <-s.stats:
			reply <- Stats{
				Participants: s.registry.Len(),
				Queued:       s.queue.Len(),
				Rooms:        s.rooms.Len(),
			}
		}

		s.reap()
	}
}

func (s *SignalingService) handleJoin(req joinRequest) {
	l := log.With().Str("client_id", req.id.String()).Logger()

	s.registry.SetName(req.id, req.name)
	formed, err := s.queue.Enqueue(req.id)
	if err != nil {
		l.Warn().Err(err).Msg("Join rejected")
		return
	}
	l.Debug().Int("rooms_formed", len(formed)).Int("queued", s.queue.Len()).Msg("Join handled")
}

func (s *SignalingService) handleRelay(req relayRequest) {
	var err error
	msg := req.msg
	switch msg.Type {
	case domain.TypeOffer:
		err = s.rooms.RelayOffer(msg.RoomID, req.sender, msg.SDP)
	case domain.TypeAnswer:
		err = s.rooms.RelayAnswer(msg.RoomID, req.sender, msg.SDP)
	case domain.TypeIceCandidate:
		err = s.rooms.RelayIceCandidate(msg.RoomID, req.sender, msg.Candidate, msg.CandidateType)
	default:
		log.Debug().Str("type", string(msg.Type)).Msg("Ignoring non-relayable message")
		return
	}
	if err != nil {
		log.Warn().Err(err).
			Str("client_id", req.sender.String()).
			Str("room_id", msg.RoomID.String()).
			Str("type", string(msg.Type)).
			Msg("Relay dropped")
	}
}

// evict is the disconnect path. It is safe to call for unknown ids.
func (s *SignalingService) evict(id domain.UserID) {
	ch, ok := s.registry.Deregister(id)
	s.queue.Remove(id)
	s.rooms.Leave(id)
	if !ok {
		return
	}
	if err := ch.Close(); err != nil {
		log.Debug().Err(err).Str("client_id", id.String()).Msg("Error closing client connection")
	}
	log.Info().Int("count", s.registry.Len()).Str("client_id", id.String()).Msg("Client disconnected")
}

// reap evicts participants whose channel failed during the last
// operation. Evictions can fail further sends, so loop until quiet.
func (s *SignalingService) reap() {
	for {
		failed := s.registry.TakeFailed()
		if len(failed) == 0 {
			return
		}
		for _, id := range failed {
			s.evict(id)
		}
	}
}
