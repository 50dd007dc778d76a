//go:generate go run go.uber.org/mock/mockgen -source=identity.go -destination=../mocks/mock_identity_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"guest-chat/domain"
	"guest-chat/errors"
)

type IIdentityRepository interface {
	// ReserveName binds name to sessionToken. Exactly one of two concurrent
	// reservations of the same name succeeds; the other observes
	// ErrNameTaken. A session that already holds a name gets ErrAlreadyBound
	// whatever the new candidate is.
	ReserveName(sessionToken, name string) (domain.Guest, error)
	// Lookup is side-effect free. The boolean is false when the session has
	// no bound guest.
	Lookup(sessionToken string) (domain.Guest, bool, error)
	// Release removes the binding and, in the same transaction, removes the
	// guest from the room it belonged to. Releasing an unbound session is a
	// no-op.
	Release(sessionToken string) error
}

type IdentityRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewIdentityRepository(db *badger.DB, log *slog.Logger) IdentityRepository {
	return IdentityRepository{db: db, log: log}
}

func (r IdentityRepository) ReserveName(sessionToken, name string) (domain.Guest, error) {
	var guest domain.Guest
	err := update(r.db, func(txn *badger.Txn) error {
		var existing guestRecord
		bound, err := getRecord(txn, guestKey(sessionToken), &existing)
		if err != nil {
			return err
		}
		if bound {
			return errors.ErrAlreadyBound
		}

		// Reading the name index registers it in the transaction's read
		// set, so two racing reservations of the same name conflict at
		// commit and the loser re-checks against the winner's write.
		_, err = txn.Get(nameKey(name))
		if err == nil {
			return errors.ErrNameTaken
		}
		if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		record := guestRecord{
			ID:           uuid.NewString(),
			SessionToken: sessionToken,
			Name:         name,
			CreatedAt:    time.Now().UTC(),
		}
		if err = putRecord(txn, guestKey(sessionToken), record); err != nil {
			return err
		}
		if err = txn.Set(nameKey(name), []byte(sessionToken)); err != nil {
			return err
		}
		guest = record.toDomain()
		return nil
	})
	if err != nil {
		return domain.Guest{}, classify(err)
	}
	r.log.Info("Guest name reserved", "name", name)
	return guest, nil
}

func (r IdentityRepository) Lookup(sessionToken string) (domain.Guest, bool, error) {
	var record guestRecord
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		ok, err := getRecord(txn, guestKey(sessionToken), &record)
		found = ok
		return err
	})
	if err != nil {
		return domain.Guest{}, false, classify(err)
	}
	if !found {
		return domain.Guest{}, false, nil
	}
	return record.toDomain(), true, nil
}

func (r IdentityRepository) Release(sessionToken string) error {
	err := update(r.db, func(txn *badger.Txn) error {
		var record guestRecord
		bound, err := getRecord(txn, guestKey(sessionToken), &record)
		if err != nil {
			return err
		}
		if !bound {
			return nil
		}

		if record.CurrentRoomID != "" {
			if err = dropMember(txn, record.CurrentRoomID, record.ID); err != nil {
				return err
			}
		}
		if err = txn.Delete(nameKey(record.Name)); err != nil {
			return err
		}
		return txn.Delete(guestKey(sessionToken))
	})
	if err != nil {
		return classify(err)
	}
	r.log.Info("Guest released", "session", sessionToken)
	return nil
}

// dropMember removes guestID from the room's member list inside the
// caller's transaction. A missing room is tolerated: the binding being
// released must still go away.
func dropMember(txn *badger.Txn, roomID, guestID string) error {
	var room roomRecord
	found, err := getRecord(txn, roomKey(roomID), &room)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	members := room.Members[:0]
	for _, m := range room.Members {
		if m.GuestID != guestID {
			members = append(members, m)
		}
	}
	room.Members = members
	return putRecord(txn, roomKey(roomID), room)
}
