package linnworks

import (
	"context"
	"sync"
	"time"
)

// Session is an authenticated ERP session: the bearer token plus the
// region server every subsequent call must target.
type Session struct {
	Token     string    `json:"token"`
	Server    string    `json:"server"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the session can still be used
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && time.Now().Before(s.ExpiresAt)
}

// TokenStore caches ERP sessions between calls so every request does not
// pay the authentication round trip. Implementations must treat an absent
// or expired session identically: Get returns nil.
type TokenStore interface {
	Get(ctx context.Context) (*Session, error)
	Set(ctx context.Context, session *Session) error
	// Invalidate drops the cached session, forcing re-authentication
	Invalidate(ctx context.Context) error
}

// MemoryTokenStore caches the session in process memory. It is the
// default store when Redis is not configured.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	session *Session
}

// NewMemoryTokenStore creates an empty in-memory token store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Get returns the cached session, or nil when absent or expired
func (s *MemoryTokenStore) Get(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Valid() {
		return nil, nil
	}
	session := *s.session
	return &session, nil
}

// Set stores the session
func (s *MemoryTokenStore) Set(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

// Invalidate drops the cached session
func (s *MemoryTokenStore) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// Ensure MemoryTokenStore implements TokenStore
var _ TokenStore = (*MemoryTokenStore)(nil)
