package service

import (
	"encoding/json"
	"errors"

	"github.com/Wyydra/duet/internal/core/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotRoomMember = errors.New("sender is not a member of the room")
)

// RoomDirectory owns the active two-party rooms and routes signaling
// between their members.
type RoomDirectory struct {
	registry *Registry
	rooms    map[domain.RoomID]*domain.Room
	byMember map[domain.UserID]domain.RoomID
	seq      uint64
}

func NewRoomDirectory(registry *Registry) *RoomDirectory {
	return &RoomDirectory{
		registry: registry,
		rooms:    make(map[domain.RoomID]*domain.Room),
		byMember: make(map[domain.UserID]domain.RoomID),
	}
}

// CreateRoom binds a and b into a new room and tells both to start
// negotiating. Which side offers is decided by the browsers.
func (d *RoomDirectory) CreateRoom(a, b domain.UserID) domain.RoomID {
	d.seq++
	id := domain.RoomIDFromSeq(d.seq)
	d.rooms[id] = domain.NewRoom(id, a, b)
	d.byMember[a] = id
	d.byMember[b] = id

	log.Info().
		Str("room_id", id.String()).
		Str("first", a.String()).
		Str("second", b.String()).
		Msg("Room created")

	_ = d.registry.Send(a, domain.SendOffer(id))
	_ = d.registry.Send(b, domain.SendOffer(id))
	return id
}

func (d *RoomDirectory) RelayOffer(roomID domain.RoomID, sender domain.UserID, sdp json.RawMessage) error {
	return d.relay(sender, domain.Message{Type: domain.TypeOffer, RoomID: roomID, SDP: sdp})
}

func (d *RoomDirectory) RelayAnswer(roomID domain.RoomID, sender domain.UserID, sdp json.RawMessage) error {
	return d.relay(sender, domain.Message{Type: domain.TypeAnswer, RoomID: roomID, SDP: sdp})
}

func (d *RoomDirectory) RelayIceCandidate(roomID domain.RoomID, sender domain.UserID, candidate json.RawMessage, candidateType domain.CandidateType) error {
	return d.relay(sender, domain.Message{
		Type:          domain.TypeIceCandidate,
		RoomID:        roomID,
		Candidate:     candidate,
		CandidateType: candidateType,
	})
}

// relay delivers msg to the member of msg.RoomID that is not sender.
func (d *RoomDirectory) relay(sender domain.UserID, msg domain.Message) error {
	room, ok := d.rooms[msg.RoomID]
	if !ok {
		return ErrRoomNotFound
	}
	if !d.registry.Contains(sender) {
		return ErrUnknownParticipant
	}
	peer, ok := room.Other(sender)
	if !ok {
		return ErrNotRoomMember
	}
	return d.registry.Send(peer, msg)
}

// Leave tears down the room id belongs to and tells the other member.
// It returns the id of the removed room.
func (d *RoomDirectory) Leave(id domain.UserID) (domain.RoomID, bool) {
	roomID, ok := d.byMember[id]
	if !ok {
		return "", false
	}
	room := d.rooms[roomID]
	delete(d.rooms, roomID)
	for _, m := range room.Members {
		delete(d.byMember, m)
	}

	peer, _ := room.Other(id)
	log.Info().
		Str("room_id", roomID.String()).
		Str("client_id", id.String()).
		Msg("Room closed")

	if d.registry.Contains(peer) {
		_ = d.registry.Send(peer, domain.PeerLeft(roomID))
	}
	return roomID, true
}

func (d *RoomDirectory) RoomOf(id domain.UserID) (domain.RoomID, bool) {
	roomID, ok := d.byMember[id]
	return roomID, ok
}

func (d *RoomDirectory) Room(id domain.RoomID) (*domain.Room, bool) {
	room, ok := d.rooms[id]
	return room, ok
}

func (d *RoomDirectory) Len() int {
	return len(d.rooms)
}
