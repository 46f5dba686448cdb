package ws

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Wyydra/duet/internal/core/domain"
)

func TestDecode(t *testing.T) {
	for _, tt := range []struct {
		name     string
		in       string
		wantType domain.MessageType
		wantRoom domain.RoomID
		wantName string
	}{
		{"sender", `{"type":"sender"}`, domain.TypeSender, "", ""},
		{"sender with name", `{"type":"sender","name":"alice"}`, domain.TypeSender, "", "alice"},
		{"offer", `{"type":"offer","sdp":{"type":"offer","sdp":"v=0"},"roomId":"1"}`, domain.TypeOffer, "1", ""},
		{"numeric room id", `{"type":"answer","sdp":{},"roomId":12}`, domain.TypeAnswer, "12", ""},
		{"unknown type passes through", `{"type":"chat"}`, domain.MessageType("chat"), "", ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			msg, name, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if msg.Type != tt.wantType || msg.RoomID != tt.wantRoom || name != tt.wantName {
				t.Fatalf("got type=%q room=%q name=%q", msg.Type, msg.RoomID, name)
			}
		})
	}
}

func TestDecodeCandidateIsOpaque(t *testing.T) {
	in := `{"type":"add-ice-candidate","candidate":{"candidate":"candidate:0 1 UDP 1 10.0.0.1 9 typ host","sdpMLineIndex":0},"roomId":"3","candidateType":"sender"}`
	msg, _, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := `{"candidate":"candidate:0 1 UDP 1 10.0.0.1 9 typ host","sdpMLineIndex":0}`
	if string(msg.Candidate) != want {
		t.Fatalf("candidate=%s, want %s", msg.Candidate, want)
	}
	if msg.CandidateType != domain.CandidateSender {
		t.Fatalf("candidateType=%q", msg.CandidateType)
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want error
	}{
		{`hello`, ErrMalformedMessage},
		{``, ErrMalformedMessage},
		{`[1,2]`, ErrMalformedMessage},
		{`{"type":`, ErrMalformedMessage},
		{`{"roomId":{}}`, ErrMalformedMessage},
		{`{"roomId":1.5,"type":"offer"}`, ErrMalformedMessage},
		{`{"sdp":"x"}`, ErrMissingType},
		{`{"type":""}`, ErrMissingType},
	} {
		if _, _, err := Decode([]byte(tt.in)); !errors.Is(err, tt.want) {
			t.Errorf("Decode(%q) err=%v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	for _, tt := range []struct {
		msg  domain.Message
		want string
	}{
		{domain.Lobby(), `{"type":"lobby"}`},
		{domain.SendOffer("1"), `{"type":"send-offer","roomId":"1"}`},
		{
			domain.Message{Type: domain.TypeOffer, RoomID: "1", SDP: json.RawMessage(`{"sdp":"X"}`)},
			`{"type":"offer","roomId":"1","sdp":{"sdp":"X"}}`,
		},
		{
			domain.Message{Type: domain.TypeIceCandidate, RoomID: "2", Candidate: json.RawMessage(`{"c":1}`), CandidateType: domain.CandidateReceiver},
			`{"type":"add-ice-candidate","roomId":"2","candidate":{"c":1},"candidateType":"receiver"}`,
		},
	} {
		b, err := json.Marshal(Encode(tt.msg))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(b) != tt.want {
			t.Errorf("Encode(%v)=%s, want %s", tt.msg.Type, b, tt.want)
		}
	}
}
