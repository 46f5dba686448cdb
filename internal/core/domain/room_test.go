package domain

import "testing"

func TestRoomOther(t *testing.T) {
	a, b, c := NewUserID(), NewUserID(), NewUserID()
	r := NewRoom(RoomIDFromSeq(1), a, b)

	if got, ok := r.Other(a); !ok || got != b {
		t.Fatalf("Other(a)=%v,%v want %v,true", got, ok, b)
	}
	if got, ok := r.Other(b); !ok || got != a {
		t.Fatalf("Other(b)=%v,%v want %v,true", got, ok, a)
	}
	if _, ok := r.Other(c); ok {
		t.Fatalf("Other(non-member) ok=true, want false")
	}
	if r.Has(c) {
		t.Fatalf("Has(non-member)=true")
	}
}

func TestRoomIDFromSeq(t *testing.T) {
	if got := RoomIDFromSeq(1); got != "1" {
		t.Fatalf("RoomIDFromSeq(1)=%q, want %q", got, "1")
	}
	if got := RoomIDFromSeq(42).String(); got != "42" {
		t.Fatalf("RoomIDFromSeq(42)=%q, want %q", got, "42")
	}
}

func TestMessageTypeIsRelayed(t *testing.T) {
	for _, tt := range []struct {
		typ  MessageType
		want bool
	}{
		{TypeOffer, true},
		{TypeAnswer, true},
		{TypeIceCandidate, true},
		{TypeSender, false},
		{TypeLobby, false},
		{TypeSendOffer, false},
		{MessageType("bogus"), false},
	} {
		if got := tt.typ.IsRelayed(); got != tt.want {
			t.Errorf("%q.IsRelayed()=%v, want %v", tt.typ, got, tt.want)
		}
	}
}
