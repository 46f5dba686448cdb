package domain

// Room pairs exactly two participants. Members are fixed at creation.
type Room struct {
	ID      RoomID
	Members [2]UserID
}

func NewRoom(id RoomID, a, b UserID) *Room {
	return &Room{ID: id, Members: [2]UserID{a, b}}
}

func (r *Room) Has(id UserID) bool {
	return r.Members[0] == id || r.Members[1] == id
}

// Other returns the member that is not id. ok is false when id is not a
// member at all.
func (r *Room) Other(id UserID) (UserID, bool) {
	switch id {
	case r.Members[0]:
		return r.Members[1], true
	case r.Members[1]:
		return r.Members[0], true
	}
	return UserID{}, false
}
