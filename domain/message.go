// Messages are immutable chat events; once appended to a room's log they
// are never reordered or mutated.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one entry of a room's append-only log. Seq is the
// message's position in the room's total order, assigned at append time
// by the store, never by the client.
type Message struct {
	ID         uuid.UUID
	RoomID     string
	Seq        uint64
	SenderID   string
	SenderName string
	Text       string
	At         time.Time
}
