//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"guest-chat/domain"
	"guest-chat/errors"
	"guest-chat/joincode"
)

type IRoomRepository interface {
	// CreateWithCreator inserts a new room and registers the creating guest
	// as its first member in one atomic step: no observer ever sees the
	// room without its creator, or the creator pointing at a room that does
	// not list them. The join code is allocated inside the same
	// transaction, with the existence check scoped to its snapshot, so two
	// racing creations can never commit the same code.
	CreateWithCreator(name string, isPrivate bool, alloc joincode.Allocator, creatorToken string) (domain.Room, error)
	FindByCode(code string) (domain.Room, bool, error)
	Get(roomID string) (domain.Room, bool, error)
	// ListPublic returns summaries of non-private rooms only; membership
	// and messages are never part of the projection.
	ListPublic() ([]domain.RoomSummary, error)
	// AddMember joins the guest to the room. A guest already in another
	// room is transferred: the leave and the join commit as one step.
	AddMember(roomID, sessionToken string) (domain.Room, error)
	RemoveMember(roomID, sessionToken string) error
	// AppendMessage assigns the message the next position in the room's
	// total order. Concurrent appends serialize through the room record.
	AppendMessage(roomID, sessionToken, text string) (domain.Message, error)
	// Messages scans a room's log backwards from cursor (nil means the
	// newest entry) and returns up to the configured page limit, oldest
	// first. The returned cursor resumes the scan on the next call; it is
	// nil once the log is exhausted.
	Messages(roomID string, cursor *string) ([]domain.Message, *string, error)
}

type RoomRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewRoomRepository(db *badger.DB, log *slog.Logger, limitMessages *int) RoomRepository {
	return RoomRepository{db: db, log: log, limitMessages: limitMessages}
}

func (r RoomRepository) CreateWithCreator(name string, isPrivate bool, alloc joincode.Allocator, creatorToken string) (domain.Room, error) {
	var created domain.Room
	err := update(r.db, func(txn *badger.Txn) error {
		var guest guestRecord
		bound, err := getRecord(txn, guestKey(creatorToken), &guest)
		if err != nil {
			return err
		}
		if !bound {
			return errors.ErrUnauthenticated
		}

		code, err := alloc.Allocate(func(candidate string) (bool, error) {
			_, err := txn.Get(codeKey(candidate))
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			return true, nil
		})
		if err != nil {
			return err
		}

		// Creating while in another room behaves like a join: the guest
		// is transferred out of the old room in the same transaction.
		if guest.CurrentRoomID != "" {
			if err = dropMember(txn, guest.CurrentRoomID, guest.ID); err != nil {
				return err
			}
		}

		room := roomRecord{
			ID:        uuid.NewString(),
			Name:      name,
			IsPrivate: isPrivate,
			JoinCode:  code,
			Members:   []memberRecord{{GuestID: guest.ID, Name: guest.Name}},
			CreatedAt: time.Now().UTC(),
		}
		if err = putRecord(txn, roomKey(room.ID), room); err != nil {
			return err
		}
		if err = txn.Set(codeKey(code), []byte(room.ID)); err != nil {
			return err
		}
		guest.CurrentRoomID = room.ID
		if err = putRecord(txn, guestKey(creatorToken), guest); err != nil {
			return err
		}
		created = room.toDomain()
		return nil
	})
	if err != nil {
		return domain.Room{}, classify(err)
	}
	r.log.Info("Room created", "room", created.ID, "code", created.JoinCode, "private", created.IsPrivate)
	return created, nil
}

func (r RoomRepository) FindByCode(code string) (domain.Room, bool, error) {
	var record roomRecord
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(codeKey(code))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var roomID string
		if err = item.Value(func(value []byte) error {
			roomID = string(value)
			return nil
		}); err != nil {
			return err
		}
		ok, err := getRecord(txn, roomKey(roomID), &record)
		found = ok
		return err
	})
	if err != nil {
		return domain.Room{}, false, classify(err)
	}
	if !found {
		return domain.Room{}, false, nil
	}
	return record.toDomain(), true, nil
}

func (r RoomRepository) Get(roomID string) (domain.Room, bool, error) {
	var record roomRecord
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		ok, err := getRecord(txn, roomKey(roomID), &record)
		found = ok
		return err
	})
	if err != nil {
		return domain.Room{}, false, classify(err)
	}
	if !found {
		return domain.Room{}, false, nil
	}
	return record.toDomain(), true, nil
}

func (r RoomRepository) ListPublic() ([]domain.RoomSummary, error) {
	var records []roomRecord
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record roomRecord
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	public := lo.Filter(records, func(record roomRecord, _ int) bool {
		return !record.IsPrivate
	})
	return lo.Map(public, func(record roomRecord, _ int) domain.RoomSummary {
		return record.toDomain().Summary()
	}), nil
}

func (r RoomRepository) AddMember(roomID, sessionToken string) (domain.Room, error) {
	var joined domain.Room
	err := update(r.db, func(txn *badger.Txn) error {
		var room roomRecord
		found, err := getRecord(txn, roomKey(roomID), &room)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrRoomNotFound
		}
		var guest guestRecord
		bound, err := getRecord(txn, guestKey(sessionToken), &guest)
		if err != nil {
			return err
		}
		if !bound {
			return errors.ErrUnauthenticated
		}

		if guest.CurrentRoomID == roomID {
			// Re-joining the current room changes nothing.
			joined = room.toDomain()
			return nil
		}
		if guest.CurrentRoomID != "" {
			if err = dropMember(txn, guest.CurrentRoomID, guest.ID); err != nil {
				return err
			}
		}

		room.Members = append(room.Members, memberRecord{GuestID: guest.ID, Name: guest.Name})
		if err = putRecord(txn, roomKey(roomID), room); err != nil {
			return err
		}
		guest.CurrentRoomID = roomID
		if err = putRecord(txn, guestKey(sessionToken), guest); err != nil {
			return err
		}
		joined = room.toDomain()
		return nil
	})
	if err != nil {
		return domain.Room{}, classify(err)
	}
	r.log.Debug("Guest joined room", "room", roomID)
	return joined, nil
}

func (r RoomRepository) RemoveMember(roomID, sessionToken string) error {
	err := update(r.db, func(txn *badger.Txn) error {
		var room roomRecord
		found, err := getRecord(txn, roomKey(roomID), &room)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrRoomNotFound
		}
		var guest guestRecord
		bound, err := getRecord(txn, guestKey(sessionToken), &guest)
		if err != nil {
			return err
		}
		if !bound {
			return errors.ErrUnauthenticated
		}

		before := len(room.Members)
		room.Members = lo.Reject(room.Members, func(m memberRecord, _ int) bool {
			return m.GuestID == guest.ID
		})
		if len(room.Members) == before {
			return errors.ErrNotAMember
		}
		if err = putRecord(txn, roomKey(roomID), room); err != nil {
			return err
		}
		if guest.CurrentRoomID == roomID {
			guest.CurrentRoomID = ""
			if err = putRecord(txn, guestKey(sessionToken), guest); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}
	r.log.Debug("Guest left room", "room", roomID)
	return nil
}

func (r RoomRepository) AppendMessage(roomID, sessionToken, text string) (domain.Message, error) {
	var appended messageRecord
	err := update(r.db, func(txn *badger.Txn) error {
		var room roomRecord
		found, err := getRecord(txn, roomKey(roomID), &room)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrRoomNotFound
		}
		var guest guestRecord
		bound, err := getRecord(txn, guestKey(sessionToken), &guest)
		if err != nil {
			return err
		}
		if !bound {
			return errors.ErrUnauthenticated
		}
		if guest.CurrentRoomID != roomID || !room.toDomain().HasMember(guest.ID) {
			return errors.ErrNotInRoom
		}

		// The sequence number comes off the room record inside this
		// transaction, so concurrent appends to the same room serialize
		// into one arrival order.
		appended = messageRecord{
			ID:         uuid.NewString(),
			RoomID:     roomID,
			Seq:        room.NextSeq,
			SenderID:   guest.ID,
			SenderName: guest.Name,
			Text:       text,
			At:         time.Now().UTC(),
		}
		room.NextSeq++
		if err = putRecord(txn, roomKey(roomID), room); err != nil {
			return err
		}
		return putRecord(txn, messageKey(roomID, appended.Seq), appended)
	})
	if err != nil {
		return domain.Message{}, classify(err)
	}
	return toMessage(appended)
}

func (r RoomRepository) Messages(roomID string, cursor *string) ([]domain.Message, *string, error) {
	var records []messageRecord
	var lastKey string
	exhausted := true
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(roomID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past every possible sequence number, then walk back.
			seekKey = append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		default:
			seekKey = append(append([]byte{}, prefix...), []byte(*cursor)...)
		}
		it.Seek(seekKey)

		// The cursor names the last entry of the previous page; skip it.
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitMessages != nil && len(records) == *r.limitMessages {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			var record messageRecord
			err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		// A still-valid iterator means the limit cut the page short and
		// older entries remain.
		exhausted = !it.ValidForPrefix(prefix)
		return nil
	})
	if err != nil {
		return nil, nil, classify(err)
	}

	// The reverse scan collected newest first; flip back to log order.
	lo.Reverse(records)
	messages := make([]domain.Message, len(records))
	for i, record := range records {
		message, err := toMessage(record)
		if err != nil {
			return nil, nil, err
		}
		messages[i] = message
	}
	if exhausted {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

func toMessage(record messageRecord) (domain.Message, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("corrupt message id %q: %w", record.ID, err)
	}
	return domain.Message{
		ID:         parsedID,
		RoomID:     record.RoomID,
		Seq:        record.Seq,
		SenderID:   record.SenderID,
		SenderName: record.SenderName,
		Text:       record.Text,
		At:         record.At,
	}, nil
}
