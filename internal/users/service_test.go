package users

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreateAndGet(t *testing.T) {
	service := NewUserService(NewInMemoryStore())
	ctx := context.Background()

	created, err := service.CreateUser(ctx, &CreateUserRequest{UserID: strPtr("u1"), Name: strPtr("Alice")})
	require.NoError(t, err)
	assert.Equal(t, &User{UserID: "u1", Name: "Alice"}, created)

	got, err := service.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestServiceCreateValidation(t *testing.T) {
	service := NewUserService(NewInMemoryStore())

	tests := []struct {
		name string
		req  *CreateUserRequest
	}{
		{"nil request", nil},
		{"no fields", &CreateUserRequest{}},
		{"no name", &CreateUserRequest{UserID: strPtr("u1")}},
		{"empty id", &CreateUserRequest{UserID: strPtr(""), Name: strPtr("Alice")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateUser(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.False(t, IsNotFound(err))
		})
	}
}

func TestServiceGetMissing(t *testing.T) {
	service := NewUserService(NewInMemoryStore())

	_, err := service.GetUser(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var userErr *UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, "ghost", userErr.UserID)
	assert.Equal(t, MessageUserNotFound, userErr.Message)
}

func TestServiceUpdate(t *testing.T) {
	store := &countingStore{UserStore: NewInMemoryStore()}
	service := NewUserService(store)
	ctx := context.Background()

	_, err := service.UpdateUser(ctx, "u1", jsonBody(`{"name":"Bob"}`))
	assert.True(t, IsNotFound(err))
	assert.Zero(t, store.puts)

	_, err = service.CreateUser(ctx, &CreateUserRequest{UserID: strPtr("u1"), Name: strPtr("Alice")})
	require.NoError(t, err)

	updated, err := service.UpdateUser(ctx, "u1", jsonBody(`{"name":"Bob"}`))
	require.NoError(t, err)
	assert.Equal(t, &User{UserID: "u1", Name: "Bob"}, updated)
	assert.Equal(t, 2, store.puts)
}

func TestServiceUpdateChecksExistenceBeforeDecoding(t *testing.T) {
	store := &countingStore{UserStore: NewInMemoryStore()}
	service := NewUserService(store)
	ctx := context.Background()

	decoded := false
	_, err := service.UpdateUser(ctx, "ghost", func(obj any) error {
		decoded = true
		return nil
	})
	assert.True(t, IsNotFound(err))
	assert.False(t, decoded)

	_, err = service.CreateUser(ctx, &CreateUserRequest{UserID: strPtr("u1"), Name: strPtr("Alice")})
	require.NoError(t, err)

	_, err = service.UpdateUser(ctx, "u1", jsonBody(`{"name":`))
	assert.True(t, IsInvalidBody(err))
	assert.Equal(t, 1, store.puts)
}

func TestServiceDeleteReturnsPriorRecord(t *testing.T) {
	store := &countingStore{UserStore: NewInMemoryStore()}
	service := NewUserService(store)
	ctx := context.Background()

	_, err := service.DeleteUser(ctx, "u1")
	assert.True(t, IsNotFound(err))
	assert.Zero(t, store.deletes)

	_, err = service.CreateUser(ctx, &CreateUserRequest{UserID: strPtr("u1"), Name: strPtr("Alice")})
	require.NoError(t, err)

	deleted, err := service.DeleteUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &User{UserID: "u1", Name: "Alice"}, deleted)
	assert.Equal(t, 1, store.deletes)

	_, err = service.GetUser(ctx, "u1")
	assert.True(t, IsNotFound(err))
}

func TestServiceWrapsStoreErrors(t *testing.T) {
	service := NewUserService(failingStore{err: errStoreDown})
	ctx := context.Background()

	_, err := service.GetUser(ctx, "u1")
	assert.ErrorIs(t, err, errStoreDown)
	assert.False(t, IsNotFound(err))

	_, err = service.ListUsers(ctx)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = service.CreateUser(ctx, &CreateUserRequest{UserID: strPtr("u1"), Name: strPtr("Alice")})
	assert.ErrorIs(t, err, errStoreDown)

	_, err = service.DeleteUser(ctx, "u1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestServiceListEmpty(t *testing.T) {
	users, err := NewUserService(failingStore{}).ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func jsonBody(body string) RequestDecoder {
	return func(obj any) error {
		return json.Unmarshal([]byte(body), obj)
	}
}
