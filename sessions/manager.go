//go:generate go run go.uber.org/mock/mockgen -source=manager.go -destination=../mocks/mock_session_manager.go -package=mocks

// Package sessions tracks the lifecycle of transport-issued session
// tokens. Tokens are opaque here: the transport layer issues and resolves
// them, this package only keeps their validity bookkeeping.
package sessions

import (
	"log/slog"
	"sync"
	"time"
)

type IManager interface {
	Touch(token string)
	Invalidate(token string)
	IsValid(token string) bool
}

type Manager struct {
	mu      sync.RWMutex
	seen    map[string]time.Time
	revoked map[string]struct{}
	log     *slog.Logger
}

func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		seen:    make(map[string]time.Time),
		revoked: make(map[string]struct{}),
		log:     log,
	}
}

// Touch records activity for the token, registering it on first contact.
// Touching a revoked token does not resurrect it.
func (m *Manager) Touch(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, gone := m.revoked[token]; gone {
		return
	}
	m.seen[token] = time.Now().UTC()
}

// Invalidate ends the token for good. The transport issues a fresh token
// on the next contact; this one stays dead.
func (m *Manager) Invalidate(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, token)
	m.revoked[token] = struct{}{}
	m.log.Debug("Session invalidated")
}

func (m *Manager) IsValid(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, gone := m.revoked[token]
	return !gone
}

// Active reports how many tokens are currently tracked.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.seen)
}
