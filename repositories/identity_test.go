package repositories

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"guest-chat/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIdentityRepository_ReserveName_Binds_Session(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openTestDB(t), slog.Default())
	token := uuid.NewString()

	guest, err := repository.ReserveName(token, "Alice")
	req.NoError(err)
	req.Equal("Alice", guest.Name)
	req.Equal(token, guest.SessionToken)
	req.NotEmpty(guest.ID)
	req.False(guest.InRoom())

	fetched, found, err := repository.Lookup(token)
	req.NoError(err)
	req.True(found)
	req.Equal(guest, fetched)
}

func TestIdentityRepository_ReserveName_Rejects_Taken_Name(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openTestDB(t), slog.Default())

	_, err := repository.ReserveName(uuid.NewString(), "Alice")
	req.NoError(err)

	_, err = repository.ReserveName(uuid.NewString(), "Alice")
	req.ErrorIs(err, errors.ErrNameTaken)
}

func TestIdentityRepository_ReserveName_Rejects_Rebinding(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openTestDB(t), slog.Default())
	token := uuid.NewString()

	_, err := repository.ReserveName(token, "Alice")
	req.NoError(err)

	// Immutable once set, even for a different valid name.
	_, err = repository.ReserveName(token, "Alice2")
	req.ErrorIs(err, errors.ErrAlreadyBound)

	_, err = repository.ReserveName(token, "Alice")
	req.ErrorIs(err, errors.ErrAlreadyBound)
}

func TestIdentityRepository_Concurrent_Reservations_One_Winner(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openTestDB(t), slog.Default())

	const contenders = 16
	results := make(chan error, contenders)
	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < contenders; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			_, err := repository.ReserveName(uuid.NewString(), "Highlander")
			results <- err
		}()
	}
	start.Done()
	done.Wait()
	close(results)

	successes, taken := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			req.ErrorIs(err, errors.ErrNameTaken)
			taken++
		}
	}
	req.Equal(1, successes)
	req.Equal(contenders-1, taken)
}

func TestIdentityRepository_Release_Frees_Name(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openTestDB(t), slog.Default())
	token := uuid.NewString()

	_, err := repository.ReserveName(token, "Alice")
	req.NoError(err)
	req.NoError(repository.Release(token))

	_, found, err := repository.Lookup(token)
	req.NoError(err)
	req.False(found)

	// The name is available again for another session.
	_, err = repository.ReserveName(uuid.NewString(), "Alice")
	req.NoError(err)
}

func TestIdentityRepository_Release_Unbound_Session_Is_Noop(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openTestDB(t), slog.Default())

	req.NoError(repository.Release(uuid.NewString()))
}
