package users

import (
	"context"
	"sync"
)

// InMemoryStore implements UserStore with a map. It is safe for concurrent
// use and keeps nothing beyond the lifetime of the process.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: make(map[string]User),
	}
}

func (s *InMemoryStore) GetUser(ctx context.Context, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *InMemoryStore) PutUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.UserID] = *user
	return nil
}

func (s *InMemoryStore) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
	return nil
}

func (s *InMemoryStore) ScanUsers(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, &u)
	}
	return result, nil
}
