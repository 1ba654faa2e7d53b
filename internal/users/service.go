package users

import (
	"context"
	"fmt"
)

// UserServiceImpl implements the UserService interface on top of a UserStore.
// It holds no state of its own between calls.
type UserServiceImpl struct {
	store UserStore
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore) *UserServiceImpl {
	return &UserServiceImpl{
		store: store,
	}
}

// GetUser returns the user or a not-found error
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", userID, err)
	}
	if user == nil {
		return nil, NewUserNotFoundError(userID)
	}
	return user, nil
}

// ListUsers returns every stored user, in no particular order
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.store.ScanUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}

// CreateUser stores a user, replacing any record with the same id
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req == nil || req.UserID == nil || *req.UserID == "" || req.Name == nil || *req.Name == "" {
		var userID string
		if req != nil && req.UserID != nil {
			userID = *req.UserID
		}
		return nil, NewUserValidationError(userID)
	}

	user := &User{UserID: *req.UserID, Name: *req.Name}
	if err := s.store.PutUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %q: %w", user.UserID, err)
	}
	return user, nil
}

// UpdateUser overwrites the name of an existing user. The body is only
// decoded once the user is known to exist. A missing name is stored as the
// empty string.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, userID string, decode RequestDecoder) (*User, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	var req UpdateUserRequest
	if decode != nil {
		if err := decode(&req); err != nil {
			return nil, NewUserBodyError(userID, err)
		}
	}

	user := &User{UserID: userID}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %q: %w", userID, err)
	}
	return user, nil
}

// DeleteUser removes an existing user and returns the record as it was
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID string) (*User, error) {
	existing, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete user %q: %w", userID, err)
	}
	return existing, nil
}
