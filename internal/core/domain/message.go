package domain

import "encoding/json"

type MessageType string

const (
	// inbound
	TypeSender MessageType = "sender"

	// outbound
	TypeLobby     MessageType = "lobby"
	TypeSendOffer MessageType = "send-offer"
	TypePeerLeft  MessageType = "peer-left"

	// relayed both ways
	TypeOffer        MessageType = "offer"
	TypeAnswer       MessageType = "answer"
	TypeIceCandidate MessageType = "add-ice-candidate"
)

// CandidateType says which of the two PeerConnections on the sending
// browser gathered an ICE candidate.
type CandidateType string

const (
	CandidateSender   CandidateType = "sender"
	CandidateReceiver CandidateType = "receiver"
)

// Message is a signaling payload. SDP and Candidate are opaque and are
// forwarded byte for byte.
type Message struct {
	Type          MessageType
	RoomID        RoomID
	SDP           json.RawMessage
	Candidate     json.RawMessage
	CandidateType CandidateType
}

func (t MessageType) IsRelayed() bool {
	switch t {
	case TypeOffer, TypeAnswer, TypeIceCandidate:
		return true
	}
	return false
}

func Lobby() Message {
	return Message{Type: TypeLobby}
}

func SendOffer(roomID RoomID) Message {
	return Message{Type: TypeSendOffer, RoomID: roomID}
}

func PeerLeft(roomID RoomID) Message {
	return Message{Type: TypePeerLeft, RoomID: roomID}
}
