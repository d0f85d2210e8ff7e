package identity

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// SessionTTL is how long a session stays valid after sign-in.
const SessionTTL = 24 * time.Hour

// sessionPruneInterval is how often RunSessionPruner sweeps the store.
const sessionPruneInterval = 10 * time.Minute

// session is one signed-in identity. Secondary sessions belong to account
// provisioning and never reach identity-change listeners.
type session struct {
	identity  Identity
	secondary bool
	createdAt time.Time
}

// sessionStore is an in-memory session store keyed by opaque token.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	now      func() time.Time
}

func newSessionStore(now func() time.Time) *sessionStore {
	return &sessionStore{sessions: make(map[string]session), now: now}
}

// create stores a new session and returns its token.
// POST: Session is stored, token is 64 hex characters
func (ss *sessionStore) create(id Identity, secondary bool) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = session{identity: id, secondary: secondary, createdAt: ss.now()}
	return token, nil
}

// get returns the session for token if it exists and has not expired.
func (ss *sessionStore) get(token string) (session, bool) {
	ss.mu.RLock()
	s, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return session{}, false
	}
	if ss.now().Sub(s.createdAt) > SessionTTL {
		ss.delete(token)
		return session{}, false
	}
	return s, true
}

// delete removes a session and returns it.
func (ss *sessionStore) delete(token string) (session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[token]
	delete(ss.sessions, token)
	return s, ok
}

// deleteAccount removes every session belonging to accountID.
func (ss *sessionStore) deleteAccount(accountID string) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for token, s := range ss.sessions {
		if s.identity.ID == accountID {
			delete(ss.sessions, token)
			n++
		}
	}
	return n
}

// pruneExpired removes every session older than SessionTTL.
func (ss *sessionStore) pruneExpired() int {
	now := ss.now()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for token, s := range ss.sessions {
		if now.Sub(s.createdAt) > SessionTTL {
			delete(ss.sessions, token)
			n++
		}
	}
	return n
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
