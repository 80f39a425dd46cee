package credentials

import "sync"

// Store holds the two credential tokens.
type Store interface {
	// Access returns the stored access token, or "" when absent.
	Access() (string, error)
	// Refresh returns the stored refresh token, or "" when absent.
	Refresh() (string, error)
	// SetTokens stores both tokens. An empty refresh keeps the current one.
	SetTokens(access, refresh string) error
	// Clear removes both tokens.
	Clear() error
}

// Tokens is a snapshot of a Store.
type Tokens struct {
	Access  string
	Refresh string
}

// Snapshot reads both tokens from s.
func Snapshot(s Store) (Tokens, error) {
	access, err := s.Access()
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.Refresh()
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens Tokens
}

// NewMemoryStore returns a store seeded with tokens.
func NewMemoryStore(tokens Tokens) *MemoryStore {
	return &MemoryStore{tokens: tokens}
}

func (s *MemoryStore) Access() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access, nil
}

func (s *MemoryStore) Refresh() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Refresh, nil
}

func (s *MemoryStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.Access = access
	if refresh != "" {
		s.tokens.Refresh = refresh
	}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.tokens = Tokens{}
	s.mu.Unlock()
	return nil
}
