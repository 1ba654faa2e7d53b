package users

import (
	"context"
)

// UserStore defines the interface for user storage operations.
//
// GetUser returns (nil, nil) when no user has the given id. PutUser
// overwrites any existing record with the same id. ScanUsers returns every
// record, draining the backend's pagination before it returns.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	PutUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, userID string) error
	ScanUsers(ctx context.Context) ([]*User, error)
}

// RequestDecoder fills obj from a request body, e.g. gin's ShouldBindJSON
type RequestDecoder func(obj any) error

// UserService defines the interface for user service operations
type UserService interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, userID string, decode RequestDecoder) (*User, error)
	DeleteUser(ctx context.Context, userID string) (*User, error)
}
