package domain

import (
	"strconv"

	"github.com/google/uuid"
)

type UserID uuid.UUID

func NewUserID() UserID {
	return UserID(uuid.New())
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

// RoomID is the decimal form of a per-process counter.
type RoomID string

func RoomIDFromSeq(seq uint64) RoomID {
	return RoomID(strconv.FormatUint(seq, 10))
}

func (id RoomID) String() string {
	return string(id)
}
