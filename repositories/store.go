// Package repositories persists guests, rooms and message logs in BadgerDB.
//
// Both repositories share one database so that operations spanning a guest
// and a room (joining, leaving, releasing an identity) commit in a single
// transaction. Cross-entity consistency is never left to the caller.
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"guest-chat/domain"
	"guest-chat/errors"
)

// Key layout. Record keys carry the entity, "idx:" keys are secondary
// uniqueness indexes pointing back at the owning record.
//
//	guest:{sessionToken}            -> guestRecord
//	idx:guest-name:{name}           -> sessionToken
//	room:{roomID}                   -> roomRecord
//	idx:room-code:{joinCode}        -> roomID
//	msg:{roomID}:{seq, zero padded} -> messageRecord
func guestKey(token string) []byte { return []byte("guest:" + token) }

func nameKey(name string) []byte { return []byte("idx:guest-name:" + name) }

func roomKey(id string) []byte { return []byte("room:" + id) }

func codeKey(code string) []byte { return []byte("idx:room-code:" + code) }

// messageKey pads the sequence number to 19 digits so a lexicographic scan
// of the prefix yields the room's total message order.
func messageKey(roomID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d", roomID, seq))
}

func messagePrefix(roomID string) []byte { return []byte("msg:" + roomID + ":") }

type guestRecord struct {
	ID            string    `json:"id"`
	SessionToken  string    `json:"session_token"`
	Name          string    `json:"name"`
	CurrentRoomID string    `json:"current_room_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r guestRecord) toDomain() domain.Guest {
	return domain.Guest{
		ID:            r.ID,
		SessionToken:  r.SessionToken,
		Name:          r.Name,
		CurrentRoomID: r.CurrentRoomID,
		CreatedAt:     r.CreatedAt,
	}
}

type memberRecord struct {
	GuestID string `json:"guest_id"`
	Name    string `json:"name"`
}

type roomRecord struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	IsPrivate bool           `json:"is_private"`
	JoinCode  string         `json:"join_code"`
	Members   []memberRecord `json:"members"`
	NextSeq   uint64         `json:"next_seq"`
	CreatedAt time.Time      `json:"created_at"`
}

func (r roomRecord) toDomain() domain.Room {
	members := make([]domain.Member, len(r.Members))
	for i, m := range r.Members {
		members[i] = domain.Member{GuestID: m.GuestID, Name: m.Name}
	}
	return domain.Room{
		ID:        r.ID,
		Name:      r.Name,
		IsPrivate: r.IsPrivate,
		JoinCode:  r.JoinCode,
		Members:   members,
		CreatedAt: r.CreatedAt,
	}
}

type messageRecord struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	Seq        uint64    `json:"seq"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	At         time.Time `json:"at"`
}

// getRecord loads and decodes the value at key into out. The boolean is
// false when the key does not exist.
func getRecord(txn *badger.Txn, key []byte, out any) (bool, error) {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = item.Value(func(value []byte) error {
		return json.Unmarshal(value, out)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func putRecord(txn *badger.Txn, key []byte, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

const maxConflictRetries = 32

// update runs fn in a read-write transaction, retrying when Badger's
// serializable-snapshot conflict detection aborts the commit. Each retry
// re-runs fn against a fresh snapshot, so every precondition is re-checked
// before the write lands. Retries here are the optimistic-concurrency
// mechanism, not a retry-on-failure policy: genuine storage failures are
// returned immediately.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = db.Update(fn)
		if !stderrors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: conflict retries exhausted: %v", errors.ErrStorageUnavailable, err)
}

var domainKinds = []error{
	errors.ErrUnauthenticated,
	errors.ErrAlreadyBound,
	errors.ErrNameTaken,
	errors.ErrRoomNotFound,
	errors.ErrNotInRoom,
	errors.ErrNotAMember,
	errors.ErrCodeSpaceExhausted,
	errors.ErrStorageUnavailable,
}

// classify passes domain error kinds through untouched and wraps anything
// engine-specific as ErrStorageUnavailable so callers never depend on
// Badger internals.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range domainKinds {
		if stderrors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
}
