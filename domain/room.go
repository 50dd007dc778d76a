package domain

import "time"

// Member is the projection of a Guest kept on the room record for display.
type Member struct {
	GuestID string
	Name    string
}

// Room is a named, optionally private chat channel. The join code locates
// the room without knowing its durable key and is unique among existing
// rooms. Members are kept in join order.
type Room struct {
	ID        string
	Name      string
	IsPrivate bool
	JoinCode  string
	Members   []Member
	CreatedAt time.Time
}

func (r Room) HasMember(guestID string) bool {
	for _, m := range r.Members {
		if m.GuestID == guestID {
			return true
		}
	}
	return false
}

// RoomSummary is the listing projection: no members, no messages.
type RoomSummary struct {
	Name      string
	IsPrivate bool
	JoinCode  string
}

func (r Room) Summary() RoomSummary {
	return RoomSummary{Name: r.Name, IsPrivate: r.IsPrivate, JoinCode: r.JoinCode}
}

// RoomView is the full detail returned to a member of the room.
type RoomView struct {
	Room     Room
	Messages []Message
}
