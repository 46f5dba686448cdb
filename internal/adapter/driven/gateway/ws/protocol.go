package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Wyydra/duet/internal/core/domain"
)

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrMissingType      = errors.New("message has no type")
)

// WireMessage is the JSON shape exchanged with browsers. Field names are
// part of the protocol.
type WireMessage struct {
	Type          string          `json:"type"`
	RoomID        roomIDField     `json:"roomId,omitempty"`
	SDP           json.RawMessage `json:"sdp,omitempty"`
	Candidate     json.RawMessage `json:"candidate,omitempty"`
	CandidateType string          `json:"candidateType,omitempty"`
	Name          string          `json:"name,omitempty"`
}

// roomIDField accepts the room id as a JSON string or number.
type roomIDField string

func (r *roomIDField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = roomIDField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("roomId: %w", err)
	}
	if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
		return fmt.Errorf("roomId: %w", err)
	}
	*r = roomIDField(n.String())
	return nil
}

func Encode(msg domain.Message) WireMessage {
	return WireMessage{
		Type:          string(msg.Type),
		RoomID:        roomIDField(msg.RoomID),
		SDP:           msg.SDP,
		Candidate:     msg.Candidate,
		CandidateType: string(msg.CandidateType),
	}
}

// Decode parses an inbound frame. The display name is only meaningful
// on sender messages.
func Decode(data []byte) (domain.Message, string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return domain.Message{}, "", ErrMalformedMessage
	}

	var w WireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.Message{}, "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if w.Type == "" {
		return domain.Message{}, "", ErrMissingType
	}

	return domain.Message{
		Type:          domain.MessageType(w.Type),
		RoomID:        domain.RoomID(w.RoomID),
		SDP:           w.SDP,
		Candidate:     w.Candidate,
		CandidateType: domain.CandidateType(w.CandidateType),
	}, w.Name, nil
}
