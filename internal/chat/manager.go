package chat

import (
	"errors"
	"sync"
	"time"

	"beauty/advisor/internal/client"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("chat session not found")

type ManagerConfig struct {
	Client     client.AssistantClient
	Typewriter Typewriter
	SessionTTL time.Duration
	Now        func() time.Time
}

// Manager keeps chat sessions alive between requests of one page load
type Manager struct {
	client     client.AssistantClient
	typewriter Typewriter
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	session   *Session
	expiresAt time.Time
}

func NewManager(cfg ManagerConfig) *Manager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		client:     cfg.Client,
		typewriter: cfg.Typewriter,
		ttl:        ttl,
		now:        now,
		sessions:   make(map[string]*managedSession),
	}
}

// Create starts a new session holding only the system turn
func (m *Manager) Create() *Session {
	session := NewSession(uuid.NewString(), m.client, m.typewriter)

	now := m.now()
	m.mu.Lock()
	m.cleanupLocked(now)
	m.sessions[session.ID()] = &managedSession{session: session, expiresAt: now.Add(m.ttl)}
	m.mu.Unlock()

	log.Debugf("Created chat session %s", session.ID())
	return session
}

// Get returns a live session and extends its lifetime
func (m *Manager) Get(id string) (*Session, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupLocked(now)
	entry := m.sessions[id]
	if entry == nil {
		return nil, ErrSessionNotFound
	}
	entry.expiresAt = now.Add(m.ttl)
	return entry.session, nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) cleanupLocked(now time.Time) {
	for id, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
}
