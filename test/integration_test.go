package test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"guest-chat/domain"
	"guest-chat/errors"
	"guest-chat/joincode"
	"guest-chat/logs"
	"guest-chat/moderation"
	"guest-chat/repositories"
	"guest-chat/services"
	"guest-chat/sessions"
)

func newCoordinator(t *testing.T, moderator *moderation.Moderator) *services.MembershipService {
	t.Helper()
	cfg, err := LoadConfig()
	require.NoError(t, err)
	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	if cfg.Debug {
		log = logs.GetLoggerFromLevel(slog.LevelDebug)
	}

	// Reduced value log size for testing (avoid gigabytes of preallocation)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return services.NewMembershipService(
		repositories.NewIdentityRepository(db, log),
		repositories.NewRoomRepository(db, log, nil),
		joincode.NewGenerator(0),
		sessions.NewManager(log),
		moderator,
		500,
		log,
	)
}

// Test_Scenario walks the full guest journey: Alice names herself,
// opens a public room, Bob fails to take her name, joins her room with
// the code and posts; Alice sees his message.
func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	coordinator := newCoordinator(t, nil)
	s1 := uuid.NewString()
	s2 := uuid.NewString()

	_, err := coordinator.ChooseName(ctx, s1, "Alice")
	req.NoError(err)

	// A bound session is rejected on resubmission, even with a candidate
	// that would not pass validation.
	_, err = coordinator.ChooseName(ctx, s1, "not a name!")
	req.ErrorIs(err, errors.ErrAlreadyBound)

	room, err := coordinator.CreateRoom(ctx, s1, "Room1", false)
	req.NoError(err)
	req.Len(room.JoinCode, joincode.CodeLength)

	summaries, err := coordinator.ListPublicRooms(ctx, s1)
	req.NoError(err)
	req.Contains(summaries, domain.RoomSummary{Name: "Room1", IsPrivate: false, JoinCode: room.JoinCode})

	_, err = coordinator.ChooseName(ctx, s2, "Alice")
	req.ErrorIs(err, errors.ErrNameTaken)

	_, err = coordinator.ChooseName(ctx, s2, "Bob")
	req.NoError(err)

	joined, err := coordinator.JoinRoom(ctx, s2, room.JoinCode)
	req.NoError(err)
	req.Equal(room.ID, joined.ID)

	view, err := coordinator.GetCurrentRoom(ctx, s2)
	req.NoError(err)
	req.Len(view.Room.Members, 2)

	_, err = coordinator.PostMessage(ctx, s2, "hi")
	req.NoError(err)

	view, err = coordinator.GetCurrentRoom(ctx, s1)
	req.NoError(err)
	req.Len(view.Messages, 1)
	req.Equal("Bob", view.Messages[0].SenderName)
	req.Equal("hi", view.Messages[0].Text)
}

func Test_Concurrent_Name_Choice_Has_One_Winner(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	coordinator := newCoordinator(t, nil)

	const sessions = 10
	results := make(chan error, sessions)
	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < sessions; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			_, err := coordinator.ChooseName(ctx, uuid.NewString(), "Popular")
			results <- err
		}()
	}
	start.Done()
	done.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else {
			req.ErrorIs(err, errors.ErrNameTaken)
		}
	}
	req.Equal(1, winners)
}

func Test_Concurrent_Room_Creation_Yields_Distinct_Codes(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	coordinator := newCoordinator(t, nil)

	const rooms = 20
	tokens := make([]string, rooms)
	for i := range tokens {
		tokens[i] = uuid.NewString()
		_, err := coordinator.ChooseName(ctx, tokens[i], fmt.Sprintf("guest_%d", i))
		req.NoError(err)
	}

	codes := make(chan string, rooms)
	var start, done sync.WaitGroup
	start.Add(1)
	for _, token := range tokens {
		done.Add(1)
		go func(token string) {
			defer done.Done()
			start.Wait()
			room, err := coordinator.CreateRoom(ctx, token, "Room", false)
			require.NoError(t, err)
			codes <- room.JoinCode
		}(token)
	}
	start.Done()
	done.Wait()
	close(codes)

	seen := make(map[string]struct{})
	for code := range codes {
		seen[code] = struct{}{}
	}
	req.Len(seen, rooms)
}

func Test_Concurrent_Posts_Serialize_Into_One_Log(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	coordinator := newCoordinator(t, nil)
	s1 := uuid.NewString()
	s2 := uuid.NewString()

	_, err := coordinator.ChooseName(ctx, s1, "Alice")
	req.NoError(err)
	_, err = coordinator.ChooseName(ctx, s2, "Bob")
	req.NoError(err)
	room, err := coordinator.CreateRoom(ctx, s1, "Room1", false)
	req.NoError(err)
	_, err = coordinator.JoinRoom(ctx, s2, room.JoinCode)
	req.NoError(err)

	const perSender = 20
	var start, done sync.WaitGroup
	start.Add(1)
	for _, token := range []string{s1, s2} {
		done.Add(1)
		go func(token string) {
			defer done.Done()
			start.Wait()
			for i := 0; i < perSender; i++ {
				_, err := coordinator.PostMessage(ctx, token, fmt.Sprintf("message %d", i))
				require.NoError(t, err)
			}
		}(token)
	}
	start.Done()
	done.Wait()

	view, err := coordinator.GetCurrentRoom(ctx, s1)
	req.NoError(err)
	req.Len(view.Messages, 2*perSender)
	seqs := lo.Map(view.Messages, func(m domain.Message, _ int) uint64 { return m.Seq })
	for i, seq := range seqs {
		req.Equal(uint64(i), seq)
	}
	// Each sender's own messages stay in submission order inside the
	// serialized log.
	for _, sender := range []string{"Alice", "Bob"} {
		mine := lo.Filter(view.Messages, func(m domain.Message, _ int) bool {
			return m.SenderName == sender
		})
		req.Len(mine, perSender)
		for i, message := range mine {
			req.Equal(fmt.Sprintf("message %d", i), message.Text)
		}
	}
}

func Test_Join_Transfers_Membership_Atomically(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	coordinator := newCoordinator(t, nil)
	s1 := uuid.NewString()
	s2 := uuid.NewString()

	_, err := coordinator.ChooseName(ctx, s1, "Alice")
	req.NoError(err)
	_, err = coordinator.ChooseName(ctx, s2, "Bob")
	req.NoError(err)

	first, err := coordinator.CreateRoom(ctx, s2, "First", false)
	req.NoError(err)
	second, err := coordinator.CreateRoom(ctx, s1, "Second", false)
	req.NoError(err)

	_, err = coordinator.JoinRoom(ctx, s2, second.JoinCode)
	req.NoError(err)

	view, err := coordinator.GetCurrentRoom(ctx, s2)
	req.NoError(err)
	req.Equal(second.ID, view.Room.ID)
	req.Len(view.Room.Members, 2)

	// Bob is gone from the first room.
	stillFirst, err := coordinator.JoinRoom(ctx, s1, first.JoinCode)
	req.NoError(err)
	req.Empty(lo.Filter(stillFirst.Members, func(m domain.Member, _ int) bool {
		return m.Name == "Bob"
	}))
}

func Test_Ended_Session_Is_Unauthenticated_Everywhere(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	coordinator := newCoordinator(t, nil)
	token := uuid.NewString()

	_, err := coordinator.ChooseName(ctx, token, "Alice")
	req.NoError(err)
	_, err = coordinator.CreateRoom(ctx, token, "Room1", false)
	req.NoError(err)
	req.NoError(coordinator.EndSession(ctx, token))

	// The token stays dead: it cannot restart the name flow.
	_, err = coordinator.ChooseName(ctx, token, "Alice2")
	req.ErrorIs(err, errors.ErrUnauthenticated)

	_, err = coordinator.CreateRoom(ctx, token, "Room2", false)
	req.ErrorIs(err, errors.ErrUnauthenticated)
	_, err = coordinator.JoinRoom(ctx, token, "Ab12Cd")
	req.ErrorIs(err, errors.ErrUnauthenticated)
	_, err = coordinator.GetCurrentRoom(ctx, token)
	req.ErrorIs(err, errors.ErrUnauthenticated)
	_, err = coordinator.ListPublicRooms(ctx, token)
	req.ErrorIs(err, errors.ErrUnauthenticated)
	_, err = coordinator.PostMessage(ctx, token, "hi")
	req.ErrorIs(err, errors.ErrUnauthenticated)
	req.ErrorIs(coordinator.EndSession(ctx, token), errors.ErrUnauthenticated)

	// The released name is free for a fresh session.
	_, err = coordinator.ChooseName(ctx, uuid.NewString(), "Alice")
	req.NoError(err)
}

func Test_Moderated_Posts_Are_Censored_End_To_End(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	moderator, err := moderation.NewModerator([]string{"troll"}, '*')
	req.NoError(err)
	coordinator := newCoordinator(t, moderator)
	token := uuid.NewString()

	_, err = coordinator.ChooseName(ctx, token, "Alice")
	req.NoError(err)
	_, err = coordinator.CreateRoom(ctx, token, "Room1", false)
	req.NoError(err)

	_, err = coordinator.PostMessage(ctx, token, "such a TROLL move")
	req.NoError(err)

	view, err := coordinator.GetCurrentRoom(ctx, token)
	req.NoError(err)
	req.Equal("such a ***** move", view.Messages[0].Text)
}
