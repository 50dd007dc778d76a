package sessions

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestManager_Touch_And_Invalidate(t *testing.T) {
	req := require.New(t)
	manager := NewManager(slog.Default())
	token := uuid.NewString()

	// An unknown token is valid: the transport may hand in tokens the
	// manager has not seen yet.
	req.True(manager.IsValid(token))

	manager.Touch(token)
	req.True(manager.IsValid(token))
	req.Equal(1, manager.Active())

	manager.Invalidate(token)
	req.False(manager.IsValid(token))
	req.Equal(0, manager.Active())
}

func TestManager_Touch_Does_Not_Resurrect_Revoked_Token(t *testing.T) {
	req := require.New(t)
	manager := NewManager(slog.Default())
	token := uuid.NewString()

	manager.Touch(token)
	manager.Invalidate(token)
	manager.Touch(token)

	req.False(manager.IsValid(token))
	req.Equal(0, manager.Active())
}

func TestManager_Concurrent_Access(t *testing.T) {
	req := require.New(t)
	manager := NewManager(slog.Default())

	const tokens = 50
	var wg sync.WaitGroup
	for i := 0; i < tokens; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := uuid.NewString()
			manager.Touch(token)
			manager.IsValid(token)
		}()
	}
	wg.Wait()

	req.Equal(tokens, manager.Active())
}
